package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/auth"
)

// Authenticate attaches the bearer token's principal to the request context
// when a valid, unrevoked token is presented. Requests without a usable
// token pass through unauthenticated; enforcement happens in the gateway.
func Authenticate(tokens *auth.TokenManager, revoked auth.TokenBlacklist, log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := tokens.Parse(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if principal.TokenID != "" {
			isRevoked, err := revoked.Contains(r.Context(), principal.TokenID)
			if err != nil {
				log.Warn("token blacklist check failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if isRevoked {
				next.ServeHTTP(w, r)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("bearer "):])
}
