// Package auth supplies the identity that owns tasks.
//
// The stores never authenticate anyone themselves; they ask an OwnerProvider
// for the current owner's e-mail address. google.UserInfoOwner resolves it
// from a Google sign-in, Static from configuration.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSession is returned when no user is signed in.
var ErrNoSession = errors.New("no signed-in user")

// OwnerProvider returns the identifier of the current owner.
type OwnerProvider interface {
	OwnerID(ctx context.Context) (string, error)
}

// Static is an OwnerProvider with a fixed owner.
type Static string

// OwnerID returns the configured owner, or ErrNoSession when it is empty.
func (s Static) OwnerID(context.Context) (string, error) {
	owner := strings.TrimSpace(string(s))
	if owner == "" {
		return "", ErrNoSession
	}
	return owner, nil
}

// Func adapts a function to OwnerProvider.
type Func func(ctx context.Context) (string, error)

// OwnerID calls f.
func (f Func) OwnerID(ctx context.Context) (string, error) {
	return f(ctx)
}
