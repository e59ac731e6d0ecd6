package tests

import (
	"net/http"
	"testing"
)

func Test_gradingApi(t *testing.T) {
	app := setup(t)

	runTests(t, app, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/v1/grading/subject-result",
			body:     []byte(`{"continuous_assessment":35,"examination":55}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "subject result",
			method:   http.MethodPost,
			path:     "/v1/grading/subject-result",
			body:     []byte(`{"continuous_assessment":35,"examination":55}`),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"continuous_assessment":35,"examination":55,"total":90,"grade":"A"}`),
		},
		{
			name:     "subject result boundary",
			method:   http.MethodPost,
			path:     "/v1/grading/subject-result",
			body:     []byte(`{"continuous_assessment":25,"examination":35}`),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"continuous_assessment":25,"examination":35,"total":60,"grade":"D"}`),
		},
		{
			name:     "subject result ignores client totals",
			method:   http.MethodPost,
			path:     "/v1/grading/subject-result",
			body:     []byte(`{"continuous_assessment":10,"examination":10,"total":100,"grade":"A"}`),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"continuous_assessment":10,"examination":10,"total":20,"grade":"F"}`),
		},
		{
			name:     "subject result out of range",
			method:   http.MethodPost,
			path:     "/v1/grading/subject-result",
			body:     []byte(`{"continuous_assessment":40,"examination":61}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"examination":"examination must be between 0 and 60 (got 61)"}`),
		},
		{
			name:   "overall average",
			method: http.MethodPost,
			path:   "/v1/grading/overall-average",
			body: []byte(`{"scores":[
				{"continuous_assessment":35,"examination":55},
				{"continuous_assessment":30,"examination":45}]}`),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"average":83,"grade":"B","distribution":{"A":1,"B":0,"C":1,"D":0,"F":0}}`),
		},
		{
			name:     "overall average of nothing",
			method:   http.MethodPost,
			path:     "/v1/grading/overall-average",
			body:     []byte(`{"scores":[]}`),
			token:    app.token,
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"error":"overall average: no input to compute from"}`),
		},
		{
			name:     "overall average with an invalid score",
			method:   http.MethodPost,
			path:     "/v1/grading/overall-average",
			body:     []byte(`{"scores":[{"continuous_assessment":35,"examination":55},{"continuous_assessment":-2,"examination":0}]}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"scores[1].continuous_assessment":"scores[1].continuous_assessment must be between 0 and 40 (got -2)"}`),
		},
		{
			name:     "attendance",
			method:   http.MethodPost,
			path:     "/v1/grading/attendance",
			body:     []byte(`{"days_present":85,"total_days":90}`),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"days_present":85,"total_days":90,"percentage":94.4,"status":"Good"}`),
		},
		{
			name:     "attendance excellent",
			method:   http.MethodPost,
			path:     "/v1/grading/attendance",
			body:     []byte(`{"days_present":19,"total_days":20}`),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"days_present":19,"total_days":20,"percentage":95,"status":"Excellent"}`),
		},
		{
			name:     "attendance without sessions",
			method:   http.MethodPost,
			path:     "/v1/grading/attendance",
			body:     []byte(`{"days_present":0,"total_days":0}`),
			token:    app.token,
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"error":"attendance percentage: no input to compute from"}`),
		},
		{
			name:     "attendance present above total",
			method:   http.MethodPost,
			path:     "/v1/grading/attendance",
			body:     []byte(`{"days_present":5,"total_days":4}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"days_present":"days_present must be between 0 and 4 (got 5)"}`),
		},
	})
}
