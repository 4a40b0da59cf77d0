package authclient

import "context"

type AuthChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// RequireAuth guards commands that need a signed-in user.
func RequireAuth(ctx context.Context, s AuthChecker) error {
	if !s.IsAuthenticated(ctx) {
		return ErrNotAuthenticated
	}
	return nil
}
