// Package handler is the HTTP face of the application — the rendering
// collaborator the core hands its snapshots and callbacks to. Handlers
// parse requests, call the session manager and router, and write JSON.
// They hold no state of their own and never mutate session data directly.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/thakurAarusH/skillforge/internal/model"
	"github.com/thakurAarusH/skillforge/internal/router"
	"github.com/thakurAarusH/skillforge/internal/session"
)

// SessionHandler exposes the session lifecycle: role selection, login,
// logout, profile updates, and navigation.
type SessionHandler struct {
	sessions *session.Manager
	views    *router.Router
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler. All dependencies are
// injected; the handler has no knowledge of how they're constructed.
func NewSessionHandler(sessions *session.Manager, views *router.Router, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		views:    views,
		logger:   logger,
	}
}

// StateResponse is the read-only snapshot the rendering layer draws from.
// Stats are included for whichever dashboard the user's role shows.
type StateResponse struct {
	User            *model.User         `json:"user,omitempty"`
	Page            router.Page         `json:"page"`
	PendingRole     model.Role          `json:"pendingRole,omitempty"`
	LoginPending    bool                `json:"loginPending"`
	Catalog         []model.Course      `json:"catalog"`
	Enrollments     []string            `json:"enrollments"`
	EnrolledCourses []model.Course      `json:"enrolledCourses,omitempty"`
	StudentStats    *model.StudentStats `json:"studentStats,omitempty"`
	TeacherStats    *model.TeacherStats `json:"teacherStats,omitempty"`
}

type pageResponse struct {
	Page router.Page `json:"page"`
}

type loginResponse struct {
	User model.User  `json:"user"`
	Page router.Page `json:"page"`
}

// HandleState returns the full snapshot: GET /api/state.
func (h *SessionHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	resp := StateResponse{
		Page:         h.views.Current(),
		PendingRole:  h.sessions.PendingRole(),
		LoginPending: h.sessions.LoginPending(),
		Catalog:      h.sessions.Catalog(),
		Enrollments:  h.sessions.Enrollments(),
	}

	if user, ok := h.sessions.CurrentUser(); ok {
		resp.User = &user
		switch user.Role {
		case model.RoleStudent:
			stats := h.sessions.StudentStats()
			resp.StudentStats = &stats
			resp.EnrolledCourses = h.sessions.EnrolledCourses()
		case model.RoleTeacher:
			stats := h.sessions.TeacherStats()
			resp.TeacherStats = &stats
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleSelectRole records the pending role and moves to the login page:
// POST /api/role.
func (h *SessionHandler) HandleSelectRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role model.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := h.sessions.SelectRole(req.Role); err != nil {
		writeError(w, err)
		return
	}
	h.views.RoleSelected()
	writeJSON(w, http.StatusOK, pageResponse{Page: h.views.Current()})
}

// HandleLogin runs the full login flow: POST /api/login.
//
// Validation failures return immediately. Otherwise the handler waits for
// the attempt's single resolution — the simulated round-trip — and only
// then responds. A second login posted while one is pending gets 409.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	attempt, err := h.sessions.BeginLogin(creds)
	if err != nil {
		writeError(w, err)
		return
	}

	select {
	case <-attempt.Done():
	case <-r.Context().Done():
		// The client went away; the attempt still resolves on its own.
		h.logger.Warn("client disconnected during login delay")
		return
	}

	if err := h.views.LoginSucceeded(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		User: attempt.User(),
		Page: h.views.Current(),
	})
}

// HandleBack returns from login to role selection: POST /api/back.
func (h *SessionHandler) HandleBack(w http.ResponseWriter, r *http.Request) {
	h.views.Back()
	writeJSON(w, http.StatusOK, pageResponse{Page: h.views.Current()})
}

// HandleLogout clears the session and returns to role selection:
// POST /api/logout. The rendering layer confirms user intent before
// calling this; by the time the request arrives, the decision is made.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	h.views.Reset()
	writeJSON(w, http.StatusOK, pageResponse{Page: h.views.Current()})
}

// HandleNavigate moves to a named page: POST /api/navigate.
func (h *SessionHandler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page router.Page `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := h.views.Navigate(req.Page); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Page: h.views.Current()})
}

// HandleUpdateProfile merges whitelisted profile fields: PATCH /api/profile.
// Absent fields are left unchanged; role is not an accepted field.
func (h *SessionHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update session.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	user, err := h.sessions.UpdateUser(r.Context(), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
