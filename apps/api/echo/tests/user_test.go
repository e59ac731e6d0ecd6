package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core/user"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.serve(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to EduTracker API!", rec.Body.String())
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	path := "/v1/auth/login"

	t.Run("invalid credentials", func(t *testing.T) {
		tests := []httpTest{
			{
				name:     "empty",
				body:     []byte(`{}`),
				wantCode: http.StatusBadRequest,
				wantData: []byte(`{"email":"this field is required","password":"this field is required"}`),
			},
			{
				name:     "bad email",
				body:     []byte(`{"email":"not-an-email","password":"x"}`),
				wantCode: http.StatusBadRequest,
				wantData: []byte(`{"email":"email must be a valid email address"}`),
			},
		}
		for _, tt := range tests {
			tt.method, tt.path = http.MethodPost, path
			t.Run(tt.name, func(t *testing.T) {
				req, rec := newRequest(tt.method, tt.path, tt.body)
				app.serve(req, rec)
				checkCodeAndData(t, tt, rec)
			})
		}
	})

	t.Run("creates the account on first login", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, path, []byte(`{"email":" New.Teacher@School.test ","password":"anything"}`))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Token string    `json:"token"`
			User  user.User `json:"user"`
		}
		unmarshal(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "new.teacher@school.test", resp.User.Email)
		assert.Equal(t, "New Teacher", resp.User.Name)
		assert.False(t, resp.User.LastLogin.IsZero())

		// the token works
		req, rec = newAuthRequest(http.MethodGet, "/v1/me", resp.Token)
		app.serve(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("existing account", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, path, []byte(`{"email":"sarah.johnson@school.test","password":"whatever"}`))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			User user.User `json:"user"`
		}
		unmarshal(t, rec, &resp)
		assert.Equal(t, app.usr.ID, resp.User.ID)
	})
}

func Test_userApi_me(t *testing.T) {
	app := setup(t)
	ctx := context.Background()

	other, err := app.UserSvc.GetOrCreate(ctx, "other@school.test", "Other Teacher", "")
	require.NoError(t, err)

	deleted := user.User{ID: "gone", Name: "Gone", Email: "gone@school.test"}

	tests := []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/v1/me",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "unknown account",
			method:   http.MethodGet,
			path:     "/v1/me",
			token:    getToken(t, app, deleted),
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"error":"user not authenticated"}`),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/v1/me",
			token:    app.token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, app.usr),
		},
		{
			name:     "invalid theme",
			method:   http.MethodPut,
			path:     "/v1/me",
			body:     []byte(`{"theme":"neon"}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"theme":"theme must be one of: light, dark"}`),
		},
		{
			name:     "email taken",
			method:   http.MethodPut,
			path:     "/v1/me",
			body:     marchallObj(t, map[string]string{"email": other.Email}),
			token:    app.token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
		{
			name:     "password mismatch",
			method:   http.MethodPut,
			path:     "/v1/me",
			body:     []byte(`{"password":"Str0ng#Passw0rd","password_confirm":"Str0ng#Password"}`),
			token:    app.token,
			wantCode: http.StatusBadRequest,
		},
	}
	runTests(t, app, tests)

	t.Run("update settings", func(t *testing.T) {
		body := []byte(`{"theme":"dark","language":"fr","notifications":false,"password":"Str0ng#Passw0rd","password_confirm":"Str0ng#Passw0rd"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/me", app.token, body)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		usr, err := app.UserSvc.GetByID(ctx, app.usr.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Settings{Theme: user.ThemeDark, Language: user.LanguageFrench, Notifications: false}, usr.Settings)
		assert.Equal(t, app.usr.Name, usr.Name)
		assert.NoError(t, usr.CheckPassword("Str0ng#Passw0rd"))
	})
}
