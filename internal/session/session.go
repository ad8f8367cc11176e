// Package session manages the authenticated Supabase user session.
package session

import (
	"context"
	"errors"
)

// ErrNotSignedIn is returned by operations requiring a signed-in user.
var ErrNotSignedIn = errors.New("not signed in")

// Session exposes the current user identity. An empty user id means
// signed out; sync reports that as a failed attempt, not an error.
type Session interface {
	// CurrentUserID returns the signed-in user's id, or "" when there
	// is no session.
	CurrentUserID(ctx context.Context) (string, error)
	// CurrentUserEmail returns the signed-in user's email, or "".
	CurrentUserEmail(ctx context.Context) (string, error)
}

// Static is a fixed session for tests and local tooling.
type Static struct {
	UserID string
	Email  string
	Token  string
}

// CurrentUserID returns the fixed user id.
func (s *Static) CurrentUserID(context.Context) (string, error) { return s.UserID, nil }

// CurrentUserEmail returns the fixed email.
func (s *Static) CurrentUserEmail(context.Context) (string, error) { return s.Email, nil }

// AccessToken returns the fixed token.
func (s *Static) AccessToken() string { return s.Token }
