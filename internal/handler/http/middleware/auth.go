package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type principalKey struct{}

// AuthRequired accepts verified access tokens and stores the caller's Principal in the context.
// It must run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if raw := jwtauth.TokenFromHeader(r); raw != "" && jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			roleStr, _ := claims["role"].(string)
			role := user.Role(roleStr)
			if userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !role.Valid() {
				response.HandleError(w, user.ErrInvalidRole)
				return
			}

			ctx := WithPrincipal(r.Context(), user.Principal{UserID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller set by AuthRequired.
func PrincipalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}
