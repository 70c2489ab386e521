package payment_gateway

import (
	"context"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestCheckoutService(baseUrl string, maxAttempts int) *checkoutService {
	return &checkoutService{
		baseUrl:     baseUrl,
		merchantID:  "merchant-1",
		apiKey:      "api-key",
		hmacSecret:  []byte("test-secret"),
		currency:    "EGP",
		maxAttempts: maxAttempts,
		client:      &http.Client{Timeout: 2 * time.Second},
		limiter:     rate.NewLimiter(rate.Inf, 1),
		Log:         zap.NewNop(),
	}
}

func TestVerifyCallbackSignature(t *testing.T) {
	service := newTestCheckoutService("http://unused", 1)

	payload := &requests.SettlementCallback{
		MerchantRef: "665f1c2e8b3a4d0001a2b3c4",
		GatewayRef:  "gw-12345",
		Status:      "success",
		Amount:      300,
	}
	payload.Signature = ComputeCallbackSignature([]byte("test-secret"), payload)

	assert.True(t, service.VerifyCallbackSignature(payload))

	t.Run("tampered amount", func(t *testing.T) {
		tampered := *payload
		tampered.Amount = 3
		assert.False(t, service.VerifyCallbackSignature(&tampered))
	})

	t.Run("tampered status", func(t *testing.T) {
		tampered := *payload
		tampered.Status = "failed"
		assert.False(t, service.VerifyCallbackSignature(&tampered))
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged := *payload
		forged.Signature = ComputeCallbackSignature([]byte("other-secret"), &forged)
		assert.False(t, service.VerifyCallbackSignature(&forged))
	})

	t.Run("empty signature", func(t *testing.T) {
		unsigned := *payload
		unsigned.Signature = ""
		assert.False(t, service.VerifyCallbackSignature(&unsigned))
	})
}

func TestComputeCallbackSignatureCanonicalAmount(t *testing.T) {
	// 300 and 300.00 must sign identically: the canonical form always has
	// two decimals.
	a := ComputeCallbackSignature([]byte("s"), &requests.SettlementCallback{
		MerchantRef: "m", GatewayRef: "g", Status: "success", Amount: 300,
	})
	b := ComputeCallbackSignature([]byte("s"), &requests.SettlementCallback{
		MerchantRef: "m", GatewayRef: "g", Status: "success", Amount: 300.00,
	})
	assert.Equal(t, a, b)
}

func TestCreateCheckout(t *testing.T) {
	checkoutRequest := func() *requests.CheckoutRequest {
		return &requests.CheckoutRequest{MerchantRef: "ref-1", Amount: 300}
	}

	t.Run("retries past transient 5xx", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"checkout_url":"https://gateway/pay/abc","gateway_ref":"gw-1"}`))
		}))
		defer server.Close()

		service := newTestCheckoutService(server.URL, 3)
		session, err := service.CreateCheckout(context.Background(), checkoutRequest())
		require.NoError(t, err)
		assert.Equal(t, "https://gateway/pay/abc", session.CheckoutURL)
		assert.Equal(t, "gw-1", session.GatewayRef)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("4xx is not retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		service := newTestCheckoutService(server.URL, 3)
		_, err := service.CreateCheckout(context.Background(), checkoutRequest())
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, http.StatusBadGateway, customErr.StatusCode)
	})

	t.Run("exhausted attempts surface as settlement unavailable", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		service := newTestCheckoutService(server.URL, 2)
		_, err := service.CreateCheckout(context.Background(), checkoutRequest())
		require.Error(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, http.StatusBadGateway, customErr.StatusCode)
	})

	t.Run("sends credentials and defaults the currency", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
			assert.Equal(t, "merchant-1", r.Header.Get("X-Merchant-Id"))
			w.Write([]byte(`{"checkout_url":"https://gateway/pay/abc","gateway_ref":"gw-1"}`))
		}))
		defer server.Close()

		service := newTestCheckoutService(server.URL, 1)
		request := checkoutRequest()
		_, err := service.CreateCheckout(context.Background(), request)
		require.NoError(t, err)
		assert.Equal(t, "EGP", request.Currency)
	})
}
