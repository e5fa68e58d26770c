package auth

import (
	"context"
	"fmt"
	"strings"
)

// State is where a caller stands with respect to the admin area.
type State string

const (
	// StateLoading is what a client shows before a session resolves.  The
	// server never returns it from Resolve.
	StateLoading         State = "loading"
	StateUnauthenticated State = "unauthenticated"
	StateNonAdmin        State = "authenticated-non-admin"
	StateAdmin           State = "authenticated-admin"
)

// AdminLookup reports whether email has an admin_users row.
type AdminLookup interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// Session is the resolved state of one request.
type Session struct {
	State   State  `json:"state"`
	UserID  uint64 `json:"-"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// Gate resolves tokens into sessions.
type Gate struct {
	tokens *Tokens
	admins AdminLookup
}

func NewGate(tokens *Tokens, admins AdminLookup) *Gate {
	return &Gate{tokens: tokens, admins: admins}
}

// Resolve turns a raw access token into a Session.  Missing or invalid
// tokens are unauthenticated, not errors.  The admin table is consulted on
// every call; a lookup failure is returned with a non-admin session.
func (g *Gate) Resolve(ctx context.Context, raw string) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{State: StateUnauthenticated}, nil
	}
	claims, err := g.tokens.Parse(raw)
	if err != nil || claims.Email == "" {
		return Session{State: StateUnauthenticated}, nil
	}
	s := Session{State: StateNonAdmin, UserID: claims.UserID(), Email: claims.Email}
	ok, err := g.admins.IsAdmin(ctx, claims.Email)
	if err != nil {
		return s, fmt.Errorf("admin lookup: %w", err)
	}
	if ok {
		s.State = StateAdmin
		s.IsAdmin = true
	}
	return s, nil
}
