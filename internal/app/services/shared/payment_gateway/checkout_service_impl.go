package payment_gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	checkoutServiceInstance contracts.PaymentGatewayService
	onceCheckoutService     sync.Once
)

type checkoutService struct {
	baseUrl     string
	merchantID  string
	apiKey      string
	hmacSecret  []byte
	currency    string
	maxAttempts int
	client      *http.Client
	limiter     *rate.Limiter
	Log         *zap.Logger
}

func NewCheckoutService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	onceCheckoutService.Do(func() {
		timeout := time.Duration(internalConfig.PaymentGateway.HTTPTimeoutInSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		attempts := internalConfig.PaymentGateway.MaxAttempts
		if attempts <= 0 {
			attempts = 3
		}
		rps := internalConfig.PaymentGateway.RequestsPerSecond
		if rps <= 0 {
			rps = 5
		}
		checkoutServiceInstance = &checkoutService{
			baseUrl:     internalConfig.PaymentGateway.BaseUrl,
			merchantID:  internalConfig.PaymentGateway.MerchantID,
			apiKey:      internalConfig.PaymentGateway.ApiKey,
			hmacSecret:  []byte(internalConfig.PaymentGateway.HMACSecret),
			currency:    internalConfig.PaymentGateway.Currency,
			maxAttempts: attempts,
			client:      &http.Client{Timeout: timeout},
			limiter:     rate.NewLimiter(rate.Limit(rps), rps),
			Log:         logger,
		}
	})
	return checkoutServiceInstance
}

// CreateCheckout registers the pending payment and returns the hosted page.
// Attempts are bounded; any exhaustion is reported as SettlementUnavailable so
// the caller keeps the reservation instead of treating it as a definite
// payment failure.
func (s *checkoutService) CreateCheckout(ctx context.Context, request *requests.CheckoutRequest) (*responses.CheckoutSession, error) {
	if request.Currency == "" {
		request.Currency = s.currency
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, exceptions.ErrSettlementUnavailable(err)
		}

		session, retryable, err := s.doCreateCheckout(ctx, body)
		if err == nil {
			return session, nil
		}
		lastErr = err
		if !retryable {
			return nil, exceptions.ErrSettlementUnavailable(err)
		}

		s.Log.Warn("checkoutService.CreateCheckout attempt failed",
			zap.String(constvars.LoggingMerchantRefKey, request.MerchantRef),
			zap.Int(constvars.LoggingAttemptKey, attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, exceptions.ErrSettlementUnavailable(ctx.Err())
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}
	return nil, exceptions.ErrSettlementUnavailable(lastErr)
}

func (s *checkoutService) doCreateCheckout(ctx context.Context, body []byte) (*responses.CheckoutSession, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseUrl+"/v1/checkouts", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+s.apiKey)
	req.Header.Set("X-Merchant-Id", s.merchantID)

	resp, err := s.client.Do(req)
	if err != nil {
		// transport error or timeout, worth retrying
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("gateway responded with status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("gateway rejected checkout with status %d", resp.StatusCode)
	}

	session := new(responses.CheckoutSession)
	if err := json.NewDecoder(resp.Body).Decode(session); err != nil {
		return nil, false, err
	}
	if session.CheckoutURL == "" {
		return nil, false, fmt.Errorf("gateway returned empty checkout url")
	}
	return session, false, nil
}

// VerifyCallbackSignature recomputes the HMAC over the canonical callback
// fields and compares in constant time.
func (s *checkoutService) VerifyCallbackSignature(payload *requests.SettlementCallback) bool {
	expected := ComputeCallbackSignature(s.hmacSecret, payload)
	return hmac.Equal([]byte(expected), []byte(payload.Signature))
}

// ComputeCallbackSignature builds the canonical string
// amount|merchantRef|gatewayRef|status and signs it with HMAC-SHA512,
// hex encoded. Amount is rendered with two decimals.
func ComputeCallbackSignature(secret []byte, payload *requests.SettlementCallback) string {
	canonical := strconv.FormatFloat(payload.Amount, 'f', 2, 64) +
		"|" + payload.MerchantRef +
		"|" + payload.GatewayRef +
		"|" + payload.Status
	mac := hmac.New(sha512.New, secret)
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}
