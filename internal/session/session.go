// Package session carries the identity of the caller through a request.
// A Session is built once per request by the auth middleware and read by
// whatever needs the user identifier; nothing reads it from global state.
package session

import (
	"context"
	"errors"
)

// Roles accepted by the back offices and the booking flow.
const (
	RoleCustomer = "CUSTOMER"
	RoleOwner    = "OWNER"
	RoleAdmin    = "ADMIN"
)

// ErrNoSession is returned when a request carries no authenticated session.
var ErrNoSession = errors.New("no session")

// Session identifies the authenticated caller.
type Session struct {
	UserID string
	Role   string
	// Token is the raw bearer token, forwarded to the booking API.
	Token string
}

type ctxKey struct{}

// With returns a copy of ctx carrying s.
func With(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// From returns the session stored in ctx.
func From(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || s.UserID == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}
