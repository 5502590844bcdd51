// Package router selects which view is active. It is a small guarded state
// machine over the closed Page set: transitions change the current page
// token, and the signed-in guard makes authenticated pages unreachable
// without a session.
package router

import (
	"sync"

	"github.com/thakurAarusH/skillforge/internal/apperror"
)

// Session is the slice of the session manager the router needs for its
// guard conditions.
type Session interface {
	SignedIn() bool
}

// Router tracks the current page.
//
// The initial page depends on hydration: a restored session starts on the
// dashboard, otherwise on role selection. There is no terminal page — the
// router cycles under user action indefinitely.
type Router struct {
	session Session

	mu      sync.Mutex
	current Page
}

// New creates a Router with its initial page derived from the session.
func New(session Session) *Router {
	current := PageRoleSelection
	if session.SignedIn() {
		current = PageDashboard
	}
	return &Router{session: session, current: current}
}

// Current returns the active page token.
func (r *Router) Current() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// RoleSelected moves to the login page after a role has been chosen.
func (r *Router) RoleSelected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = PageLogin
}

// Back returns from the login page to role selection. On any other page it
// is a no-op; only login defines a back transition.
func (r *Router) Back() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == PageLogin {
		r.current = PageRoleSelection
	}
}

// LoginSucceeded moves to the dashboard. The guard still applies: without
// an active session the transition is refused.
func (r *Router) LoginSucceeded() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.session.SignedIn() {
		return apperror.Forbidden("dashboard requires a signed-in user")
	}
	r.current = PageDashboard
	return nil
}

// Navigate moves to target. Unknown tokens are a validation error;
// authenticated pages are refused without an active session.
func (r *Router) Navigate(target Page) error {
	if !target.Valid() {
		return apperror.ValidationFailed("page", "unknown page "+string(target))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if target.RequiresUser() && !r.session.SignedIn() {
		return apperror.Forbidden(string(target) + " requires a signed-in user")
	}
	r.current = target
	return nil
}

// Reset returns to role selection. Called after logout, from any page.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = PageRoleSelection
}
