package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/moodloop/journal-server/internal/apperr"
	"github.com/moodloop/journal-server/internal/auth"
	"github.com/moodloop/journal-server/internal/repositories"
	"github.com/moodloop/journal-server/internal/utils"
)

type contextKey string

const identityKey contextKey = "identity"

// Auth decodes and validates the bearer token once per request and injects
// the resolved identity into the request context. Handlers behind it never
// see an unverified or unauthenticated caller.
type Auth struct {
	tokens *auth.TokenIssuer
	users  repositories.UserRepository
}

func NewAuth(tokens *auth.TokenIssuer, users repositories.UserRepository) *Auth {
	return &Auth{tokens: tokens, users: users}
}

func (m *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.ErrorResponse(w, apperr.Auth("Authorization token required"))
			return
		}

		identity, err := m.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.ErrorResponse(w, err)
			return
		}

		// Verification is re-checked against the store on every request, so
		// a token issued before verification cannot reach protected routes.
		user, err := m.users.FindByID(r.Context(), identity.UserID)
		if errors.Is(err, repositories.ErrNotFound) {
			utils.ErrorResponse(w, apperr.Auth("Invalid or expired token."))
			return
		}
		if err != nil {
			utils.ErrorResponse(w, apperr.Internal(err))
			return
		}
		if !user.IsVerified {
			utils.ErrorResponse(w, apperr.Forbidden("Email not verified. Please verify your email to continue."))
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Identity returns the authenticated identity injected by Require.
func Identity(r *http.Request) (auth.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(auth.Identity)
	return id, ok
}
