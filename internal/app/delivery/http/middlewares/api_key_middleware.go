package middlewares

import (
	"context"
	"crypto/subtle"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// RequireAdminAPIKey gates the administrative surface behind the static
// x-api-key header. There are no admin user accounts; the key is the whole
// credential, so the comparison is constant-time.
func (m *Middlewares) RequireAdminAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderAPIKey)

		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyRequired(nil))
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.InternalConfig.App.AdminAPIKey)) != 1 {
			m.Log.Warn("admin API key rejected",
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_API_KEY_AUTH, true)
		ctx = context.WithValue(ctx, constvars.CONTEXT_ROLE_KEY, constvars.MedibookRoleAdmin)
		ctx = context.WithValue(ctx, constvars.CONTEXT_UID_KEY, "api-key-admin")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
