package common

import (
	"context"
	"strings"
)

type userKey struct{}

// AuthenticatedUser is the principal decoded from a verified bearer token.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Issuer   string `json:"issuer,omitempty"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// DisplayName is the public byline for reviews: name, then username, then empty.
func (u AuthenticatedUser) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return strings.TrimSpace(u.Username)
}

func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext reports false on routes without the auth middleware.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(userKey{}).(AuthenticatedUser)
	return user, ok
}
