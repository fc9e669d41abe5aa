package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/ipetrenko/storefront/internal/services"
)

type contextKey string

const principalKey contextKey = "principal"

// AccountValidator confirms that a token subject still maps to a live
// account (the user service may have soft-deleted it after issuance).
type AccountValidator interface {
	IsValidAccount(ctx context.Context, accountID int64) (bool, error)
}

// Authenticator verifies the bearer token and stores the principal in the
// request context. validator may be nil to skip the liveness check.
func Authenticator(tokens *services.TokenService, validator AccountValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeMessage(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			principal, err := tokens.VerifyIdentityToken(token)
			if err != nil {
				writeError(w, err)
				return
			}

			if validator != nil {
				valid, err := validator.IsValidAccount(r.Context(), principal.AccountID)
				if err != nil {
					writeMessage(w, http.StatusBadGateway, "unable to verify account")
					return
				}
				if !valid {
					writeMessage(w, http.StatusUnauthorized, "account no longer exists")
					return
				}
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the verified principal set by Authenticator.
func PrincipalFromContext(ctx context.Context) (*services.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*services.Principal)
	return principal, ok
}
