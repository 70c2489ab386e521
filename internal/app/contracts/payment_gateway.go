package contracts

import (
	"context"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

type PaymentGatewayService interface {
	// CreateCheckout registers the pending payment with the gateway and
	// returns the hosted checkout redirect target. Calls are bounded by the
	// configured timeout and retried a bounded number of times.
	CreateCheckout(ctx context.Context, request *requests.CheckoutRequest) (*responses.CheckoutSession, error)

	// VerifyCallbackSignature checks the HMAC of a settlement callback
	// against the shared secret.
	VerifyCallbackSignature(payload *requests.SettlementCallback) bool
}
