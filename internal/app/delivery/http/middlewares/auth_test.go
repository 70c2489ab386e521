package middlewares

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/services/shared/jwtmanager"
	"medibook-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signedToken(t *testing.T, secret, subject, role, providerID string) string {
	t.Helper()
	claims := &jwtmanager.SessionClaims{
		Role:       role,
		ProviderID: providerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestMiddlewares(secret string) *Middlewares {
	internalConfig := &config.InternalConfig{JWT: config.JWT{Secret: secret}}
	return NewMiddlewares(zap.NewNop(), jwtmanager.NewJWTManager(internalConfig), internalConfig)
}

func TestAuthenticate(t *testing.T) {
	const secret = "test-jwt-secret"
	middlewares := newTestMiddlewares(secret)

	echoUID := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value(constvars.CONTEXT_UID_KEY).(string)
		role, _ := r.Context().Value(constvars.CONTEXT_ROLE_KEY).(string)
		w.Write([]byte(uid + "/" + role))
	})

	t.Run("patient token populates the context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+signedToken(t, secret, "patient-42", constvars.MedibookRolePatient, ""))

		rr := httptest.NewRecorder()
		middlewares.Authenticate(echoUID).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "patient-42/patient", rr.Body.String())
	})

	t.Run("provider token uses the provider id as uid", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/appointments/mine", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+signedToken(t, secret, "user-7", constvars.MedibookRoleProvider, "prov-1"))

		rr := httptest.NewRecorder()
		middlewares.Authenticate(echoUID).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "prov-1/provider", rr.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/appointments", nil)

		rr := httptest.NewRecorder()
		middlewares.Authenticate(echoUID).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+signedToken(t, "other-secret", "patient-42", constvars.MedibookRolePatient, ""))

		rr := httptest.NewRecorder()
		middlewares.Authenticate(echoUID).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func contextWithRole(r *http.Request, role string) context.Context {
	return context.WithValue(r.Context(), constvars.CONTEXT_ROLE_KEY, role)
}

func TestRequireRole(t *testing.T) {
	middlewares := newTestMiddlewares("secret")

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/appointments", nil)
		req = req.WithContext(contextWithRole(req, constvars.MedibookRolePatient))

		rr := httptest.NewRecorder()
		middlewares.RequirePatient(okHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/appointments", nil)
		req = req.WithContext(contextWithRole(req, constvars.MedibookRoleProvider))

		rr := httptest.NewRecorder()
		middlewares.RequirePatient(okHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("no role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/appointments", nil)

		rr := httptest.NewRecorder()
		middlewares.RequireProvider(okHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
