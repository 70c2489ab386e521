package middlewares

import (
	"context"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"strings"
)

// Authenticate verifies the bearer token issued by the identity collaborator
// and stores the subject and role in the request context. Tokens signed with
// anything but the shared HMAC secret are rejected.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := m.JWTManager.ParseToken(token)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		uid := claims.Subject
		if claims.Role == constvars.MedibookRoleProvider && claims.ProviderID != "" {
			uid = claims.ProviderID
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_UID_KEY, uid)
		ctx = context.WithValue(ctx, constvars.CONTEXT_ROLE_KEY, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middlewares) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, _ := r.Context().Value(constvars.CONTEXT_ROLE_KEY).(string)
			if current != role {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotAuthorized(nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middlewares) RequirePatient(next http.Handler) http.Handler {
	return m.RequireRole(constvars.MedibookRolePatient)(next)
}

func (m *Middlewares) RequireProvider(next http.Handler) http.Handler {
	return m.RequireRole(constvars.MedibookRoleProvider)(next)
}
