package tests

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core/grading"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/services/spreadsheet"
	"github.com/trezcool/edutracker/tests"
)

func Test_studentApi_query(t *testing.T) {
	app := setup(t)

	alice := testutil.CreateStudent(t, app.StudentSvc, "Alice Johnson", "Class 5A")
	bob := testutil.CreateStudent(t, app.StudentSvc, "Bob Smith", "Class 5A")
	carol := testutil.CreateStudent(t, app.StudentSvc, "Carol Brown", "Class 5B")
	alice = testutil.RecordScore(t, app.StudentSvc, alice.ID, "Mathematics", 35, 55)
	bob = testutil.RecordScore(t, app.StudentSvc, bob.ID, "Mathematics", 28, 42)

	path := func(search, class, ordering string) string {
		v := make(url.Values)
		if search != "" {
			v.Set("search", search)
		}
		if class != "" {
			v.Set("class", class)
		}
		if ordering != "" {
			v.Set("ordering", ordering)
		}
		return "/v1/students?" + v.Encode()
	}

	tests := []httpTest{
		{
			name:     "no token",
			path:     path("", "", ""),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "all, by name",
			path:     path("", "", ""),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallList(t, alice, bob, carol),
		},
		{
			name:     "search is case-insensitive",
			path:     path("BROWN", "", ""),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallList(t, carol),
		},
		{
			name:     "class",
			path:     path("", "class 5a", ""),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallList(t, alice, bob),
		},
		{
			name:     "search and class",
			path:     path("o", "Class 5B", ""),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallList(t, carol),
		},
		{
			name:     "no match",
			path:     path("zed", "", ""),
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallList(t),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.serve(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("ordering", func(t *testing.T) {
		names := func(ordering string) []string {
			req, rec := newAuthRequest(http.MethodGet, path("", "", ordering), app.token)
			app.serve(req, rec)
			require.Equal(t, http.StatusOK, rec.Code)
			var students []student.Student
			unmarshal(t, rec, &students)
			res := make([]string, len(students))
			for i, s := range students {
				res[i] = s.Name
			}
			return res
		}
		assert.Equal(t, []string{"Carol Brown", "Bob Smith", "Alice Johnson"}, names("-name"))
		assert.Equal(t, []string{"Alice Johnson", "Bob Smith", "Carol Brown"}, names("-average"))
		assert.Equal(t, []string{"Carol Brown", "Alice Johnson", "Bob Smith"}, names("-class,name"))
		assert.Equal(t, []string{"Alice Johnson", "Bob Smith", "Carol Brown"}, names("unknown"))
	})
}

func Test_studentApi_create(t *testing.T) {
	app := setup(t)
	path := "/v1/students"

	tests := []httpTest{
		{
			name:     "required fields",
			body:     []byte(`{"name":"  "}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name":"this field is required","class":"this field is required","parent_name":"this field is required"}`),
		},
		{
			name:     "invalid contact",
			body:     []byte(`{"name":"Dan","class":"Class 4B","parent_name":"Eve","parent_email":"eve@","parent_phone":"12ab","date_of_birth":"2999-01-01"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"parent_email":"parent_email must be a valid email address","parent_phone":"invalid phone number","date_of_birth":"must be a past date formatted as YYYY-MM-DD"}`),
		},
	}
	for _, tt := range tests {
		tt.method, tt.path, tt.token = http.MethodPost, path, app.token
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.serve(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("valid", func(t *testing.T) {
		body := []byte(`{"name":" Emma Davis ","class":"Class 4B","parent_name":"David Davis","parent_email":"David.Davis@Email.com","parent_phone":"+1234567892","date_of_birth":"2011-01-10"}`)
		req, rec := newAuthRequest(http.MethodPost, path, app.token, body)
		app.serve(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got map[string]interface{}
		unmarshal(t, rec, &got)
		assert.Equal(t, "Emma Davis", got["name"])
		assert.Equal(t, "david.davis@email.com", got["parent_email"])
		assert.Equal(t, []interface{}{}, got["scores"])
		assert.Nil(t, got["average_score"])
		assert.Nil(t, got["attendance_percentage"])

		n, err := app.StudentSvc.Count(context.Background(), "Class 4B")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func Test_studentApi_detail(t *testing.T) {
	app := setup(t)
	ctx := context.Background()

	alice := testutil.CreateStudent(t, app.StudentSvc, "Alice Johnson", "Class 5A")
	bob := testutil.CreateStudent(t, app.StudentSvc, "Bob Smith", "Class 5A")
	path := "/v1/students/" + alice.ID

	runTests(t, app, []httpTest{
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     path,
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, alice),
		},
		{
			name:     "unknown",
			method:   http.MethodGet,
			path:     "/v1/students/nope",
			token:    app.token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
		{
			name:     "invalid update",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"parent_email":"nope"}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"parent_email":"parent_email must be a valid email address"}`),
		},
	})

	t.Run("update keeps empty fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, path, app.token, []byte(`{"class":"Class 5B","address":"1 New Road"}`))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		s, err := app.StudentSvc.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Johnson", s.Name)
		assert.Equal(t, "Class 5B", s.Class)
		assert.Equal(t, "1 New Road", s.Address)
		assert.Equal(t, alice.CreatedAt, s.CreatedAt)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+bob.ID, app.token)
		app.serve(req, rec)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := app.StudentSvc.GetByID(ctx, bob.ID)
		assert.ErrorIs(t, err, student.ErrNotFound)
	})
}

func Test_studentApi_scores(t *testing.T) {
	app := setup(t)
	alice := testutil.CreateStudent(t, app.StudentSvc, "Alice Johnson", "Class 5A")
	path := "/v1/students/" + alice.ID + "/scores"

	runTests(t, app, []httpTest{
		{
			name:     "ca out of range",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"subject":"Mathematics","continuous_assessment":41,"examination":50}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"continuous_assessment":"continuous_assessment must be between 0 and 40 (got 41)"}`),
		},
		{
			name:     "negative exam",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"subject":"Mathematics","continuous_assessment":30,"examination":-1}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"examination":"examination must be between 0 and 60 (got -1)"}`),
		},
		{
			name:     "missing subject",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"continuous_assessment":30,"examination":50}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"subject":"this field is required"}`),
		},
	})

	record := func(body string) student.Student {
		req, rec := newAuthRequest(http.MethodPut, path, app.token, []byte(body))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		s, err := app.StudentSvc.GetByID(context.Background(), alice.ID)
		require.NoError(t, err)
		return s
	}

	s := record(`{"subject":"Mathematics","continuous_assessment":35,"examination":55,"notes":"Excellent"}`)
	require.Len(t, s.Scores, 1)
	assert.Equal(t, testutil.Term, s.Scores[0].Term)
	assert.Equal(t, 90, s.Scores[0].Score.Total())
	assert.Equal(t, grading.GradeA, s.Scores[0].Score.Grade())

	// same subject and term replaces the score
	s = record(`{"subject":"mathematics","continuous_assessment":30,"examination":40}`)
	require.Len(t, s.Scores, 1)
	assert.Equal(t, 70, s.Scores[0].Score.Total())

	// another term adds one
	s = record(`{"subject":"Mathematics","term":"Second Term 2024","continuous_assessment":20,"examination":30}`)
	assert.Len(t, s.Scores, 2)
	assert.Len(t, s.ScoresFor(testutil.Term), 1)
}

func Test_studentApi_attendance(t *testing.T) {
	app := setup(t)
	alice := testutil.CreateStudent(t, app.StudentSvc, "Alice Johnson", "Class 5A")
	path := "/v1/students/" + alice.ID + "/attendance"

	mark := func(present bool) map[string]interface{} {
		req, rec := newAuthRequest(http.MethodPost, path, app.token, marchallObj(t, student.AttendanceMark{Present: present}))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got map[string]interface{}
		unmarshal(t, rec, &got)
		return got
	}

	mark(true)
	mark(true)
	got := mark(false)
	assert.Equal(t, map[string]interface{}{"days_present": 2.0, "total_days": 3.0}, got["attendance"])
	assert.Equal(t, 66.7, got["attendance_percentage"])

	runTests(t, app, []httpTest{
		{
			name:     "set: present above total",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"days_present":10,"total_days":9}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"days_present":"days_present must be between 0 and 9 (got 10)"}`),
		},
		{
			name:     "set",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"days_present":85,"total_days":90}`),
			token:    app.token,
			wantCode: http.StatusOK,
		},
	})

	s, err := app.StudentSvc.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, grading.Attendance{DaysPresent: 85, TotalDays: 90}, s.Attendance)
}

func Test_studentApi_import(t *testing.T) {
	app := setup(t)
	path := "/v1/students/import"

	roster := func(rows ...student.NewStudent) []byte {
		var buf bytes.Buffer
		require.NoError(t, spreadsheet.WriteRoster(&buf, rows))
		return buf.Bytes()
	}

	t.Run("missing file", func(t *testing.T) {
		req, rec := newUploadRequest(t, path, app.token, "file", "", nil, map[string]string{"class": "Class 3C"})
		app.serve(req, rec)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"file":"an .xlsx roster file is required"}`),
		}, rec)
	})

	t.Run("not a workbook", func(t *testing.T) {
		req, rec := newUploadRequest(t, path, app.token, "file", "roster.csv", []byte("name\nAnn\n"), nil)
		app.serve(req, rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid row creates nothing", func(t *testing.T) {
		content := roster(
			student.NewStudent{Name: "Ann Lee", ParentName: "Bea Lee"},
			student.NewStudent{Name: "Cid Roe", ParentName: "Dee Roe", ParentEmail: "dee@"},
		)
		req, rec := newUploadRequest(t, path, app.token, "file", "roster.xlsx", content, map[string]string{"class": "Class 3C"})
		app.serve(req, rec)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"rows[1].parent_email":"parent_email must be a valid email address"}`),
		}, rec)

		n, err := app.StudentSvc.Count(context.Background(), "")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("valid", func(t *testing.T) {
		content := roster(
			student.NewStudent{Name: "Ann Lee", Class: "ignored", ParentName: "Bea Lee"},
			student.NewStudent{Name: "Cid Roe", ParentName: "Dee Roe", ParentEmail: "dee@roe.test"},
		)
		req, rec := newUploadRequest(t, path, app.token, "file", "roster.xlsx", content, map[string]string{"class": "Class 3C"})
		app.serve(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created []student.Student
		unmarshal(t, rec, &created)
		require.Len(t, created, 2)
		for _, s := range created {
			assert.Equal(t, "Class 3C", s.Class)
		}
	})
}
