package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thakurAarusH/skillforge/internal/auth"
	"github.com/thakurAarusH/skillforge/internal/handler"
	"github.com/thakurAarusH/skillforge/internal/model"
	"github.com/thakurAarusH/skillforge/internal/router"
	"github.com/thakurAarusH/skillforge/internal/session"
	"github.com/thakurAarusH/skillforge/internal/store"
)

// newTestApp wires the full stack on an in-memory store with a very short
// real login delay, and returns the routed mux.
func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService(auth.MockSecret)
	require.NoError(t, err)

	sessions := session.NewManager(context.Background(), session.Config{
		Store:      store.NewMemory(),
		Tokens:     tokens,
		Logger:     logger,
		LoginDelay: 5 * time.Millisecond,
	})
	views := router.New(sessions)

	sessionHandler := handler.NewSessionHandler(sessions, views, logger)
	catalogHandler := handler.NewCatalogHandler(sessions, views, logger)

	mux := chi.NewRouter()
	mux.Route("/api", func(r chi.Router) {
		r.Get("/state", sessionHandler.HandleState)
		r.Post("/role", sessionHandler.HandleSelectRole)
		r.Post("/login", sessionHandler.HandleLogin)
		r.Post("/back", sessionHandler.HandleBack)
		r.Post("/logout", sessionHandler.HandleLogout)
		r.Post("/navigate", sessionHandler.HandleNavigate)
		r.Patch("/profile", sessionHandler.HandleUpdateProfile)
		r.Get("/courses", catalogHandler.HandleList)
		r.Post("/courses", catalogHandler.HandleCreate)
		r.Post("/courses/{id}/enroll", catalogHandler.HandleEnroll)
	})
	return mux
}

func doJSON(t *testing.T, app http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	return rr
}

// signIn drives the role-selection and login endpoints.
func signIn(t *testing.T, app http.Handler, role, creds string) {
	t.Helper()
	rr := doJSON(t, app, http.MethodPost, "/api/role", `{"role":"`+role+`"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doJSON(t, app, http.MethodPost, "/api/login", creds)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)

	// Initial state: signed out, on role selection, seed catalog loaded.
	rr := doJSON(t, app, http.MethodGet, "/api/state", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var state handler.StateResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&state))
	assert.Nil(t, state.User)
	assert.Equal(t, router.PageRoleSelection, state.Page)
	assert.Len(t, state.Catalog, 3)

	// Choosing a role moves to login.
	rr = doJSON(t, app, http.MethodPost, "/api/role", `{"role":"student"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Login responds only at delay resolution, with the user and the
	// dashboard page.
	rr = doJSON(t, app, http.MethodPost, "/api/login",
		`{"name":"Asha","email":"a@x.com","password":"pw","signUp":true}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var login struct {
		User model.User  `json:"user"`
		Page router.Page `json:"page"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&login))
	assert.Equal(t, "Asha", login.User.Name)
	assert.Equal(t, model.RoleStudent, login.User.Role)
	assert.False(t, login.User.JoinedDate.IsZero())
	assert.Equal(t, router.PageDashboard, login.Page)

	// The snapshot now carries the user and student stats.
	rr = doJSON(t, app, http.MethodGet, "/api/state", "")
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&state))
	require.NotNil(t, state.User)
	assert.Equal(t, "Asha", state.User.Name)
	require.NotNil(t, state.StudentStats)
	assert.Equal(t, 0, state.StudentStats.CoursesEnrolled)
}

func TestLoginValidationError(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/role", `{"role":"student"}`)

	rr := doJSON(t, app, http.MethodPost, "/api/login", `{"password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var errResp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
	assert.Equal(t, "validation_error", errResp.Error)
	assert.Equal(t, "email", errResp.Field)
}

func TestSelectRoleRejectsUnknownRole(t *testing.T) {
	app := newTestApp(t)
	rr := doJSON(t, app, http.MethodPost, "/api/role", `{"role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEnrollEndpointIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app, "student", `{"email":"a@x.com","password":"pw"}`)

	for i := 0; i < 2; i++ {
		rr := doJSON(t, app, http.MethodPost, "/api/courses/2/enroll", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Enrollments []string `json:"enrollments"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, []string{"2"}, resp.Enrollments)
	}
}

func TestEnrollRequiresSession(t *testing.T) {
	app := newTestApp(t)
	rr := doJSON(t, app, http.MethodPost, "/api/courses/2/enroll", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreateCourseEndpoint(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app, "teacher", `{"name":"Arjun","email":"arjun@x.com","password":"pw","signUp":true}`)

	rr := doJSON(t, app, http.MethodPost, "/api/courses",
		`{"title":"T","description":"D","price":100,"duration":"1h"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var course model.Course
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&course))
	assert.Equal(t, "T", course.Title)
	assert.Zero(t, course.Rating)
	assert.Zero(t, course.Students)
	assert.NotEmpty(t, course.ID)
	assert.NotEmpty(t, course.InstructorID)

	// Course creation sends the app back to the dashboard.
	var state handler.StateResponse
	rr = doJSON(t, app, http.MethodGet, "/api/state", "")
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&state))
	assert.Equal(t, router.PageDashboard, state.Page)
	assert.Len(t, state.Catalog, 4)
	require.NotNil(t, state.TeacherStats)
	assert.Equal(t, 1, state.TeacherStats.TotalCourses)
}

func TestCreateCourseForbiddenForStudents(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app, "student", `{"email":"a@x.com","password":"pw"}`)

	rr := doJSON(t, app, http.MethodPost, "/api/courses",
		`{"title":"T","description":"D","price":100,"duration":"1h"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCatalogSearch(t *testing.T) {
	app := newTestApp(t)

	rr := doJSON(t, app, http.MethodGet, "/api/courses?search=react", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var courses []model.Course
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "React Development Bootcamp", courses[0].Title)

	rr = doJSON(t, app, http.MethodGet, "/api/courses?category=Design", "")
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&courses))
	require.Len(t, courses, 1)
	assert.Equal(t, model.CategoryDesign, courses[0].Category)
}

func TestNavigate(t *testing.T) {
	app := newTestApp(t)

	// Guarded page while signed out.
	rr := doJSON(t, app, http.MethodPost, "/api/navigate", `{"page":"dashboard"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Unknown page token.
	signIn(t, app, "student", `{"email":"a@x.com","password":"pw"}`)
	rr = doJSON(t, app, http.MethodPost, "/api/navigate", `{"page":"settings"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// A placeholder page is navigable once signed in.
	rr = doJSON(t, app, http.MethodPost, "/api/navigate", `{"page":"certificates"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Page router.Page `json:"page"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&page))
	assert.Equal(t, router.PageCertificates, page.Page)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app, "student", `{"email":"a@x.com","password":"pw"}`)

	rr := doJSON(t, app, http.MethodPatch, "/api/profile",
		`{"bio":"Learning React.","statusTag":"beginner","role":"teacher"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var user model.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&user))
	assert.Equal(t, "Learning React.", user.Bio)
	assert.Equal(t, "beginner", user.StatusTag)
	// The role field in the payload is not part of the whitelist.
	assert.Equal(t, model.RoleStudent, user.Role)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	signIn(t, app, "student", `{"email":"a@x.com","password":"pw"}`)
	doJSON(t, app, http.MethodPost, "/api/courses/2/enroll", "")

	rr := doJSON(t, app, http.MethodPost, "/api/logout", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var state handler.StateResponse
	rr = doJSON(t, app, http.MethodGet, "/api/state", "")
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&state))
	assert.Nil(t, state.User)
	assert.Empty(t, state.Enrollments)
	assert.Equal(t, router.PageRoleSelection, state.Page)
}

func TestBackFromLogin(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/role", `{"role":"teacher"}`)

	rr := doJSON(t, app, http.MethodPost, "/api/back", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Page router.Page `json:"page"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&page))
	assert.Equal(t, router.PageRoleSelection, page.Page)
}
