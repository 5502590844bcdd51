package session

import "github.com/thakurAarusH/skillforge/internal/model"

// Credentials are the sign-in/sign-up form fields handed to BeginLogin.
// SignUp switches the validation rules: a sign-up additionally requires a
// display name.
type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	SignUp   bool   `json:"signUp"`
}

// LoginAttempt is the single-resolution handle returned by BeginLogin.
//
// The attempt resolves exactly once, when the simulated round-trip delay
// elapses — never synchronously. Wait on Done(), then read User(). There is
// no cancellation: once begun, an attempt always resolves.
type LoginAttempt struct {
	done chan struct{}
	user model.User // written by the manager before done is closed
}

func newLoginAttempt() *LoginAttempt {
	return &LoginAttempt{done: make(chan struct{})}
}

// Done is closed when the attempt has resolved.
func (a *LoginAttempt) Done() <-chan struct{} { return a.done }

// User returns the signed-in user. Only valid after Done is closed.
func (a *LoginAttempt) User() model.User { return a.user }

// resolve publishes the user and closes done. Must be called at most once.
func (a *LoginAttempt) resolve(u model.User) {
	a.user = u
	close(a.done)
}
