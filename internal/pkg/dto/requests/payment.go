package requests

// CheckoutRequest is the outbound payload registering a pending payment with
// the gateway. MerchantRef is the appointment record id.
type CheckoutRequest struct {
	MerchantRef string  `json:"merchant_ref"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
}

// SettlementCallback is the inbound webhook payload from the gateway.
// Signature is an HMAC-SHA512 hex digest over the canonical field string; the
// payload is rejected outright when verification fails.
type SettlementCallback struct {
	MerchantRef string  `json:"merchant_ref" validate:"required"`
	GatewayRef  string  `json:"gateway_ref" validate:"required"`
	Status      string  `json:"status" validate:"required,oneof=success failed"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Signature   string  `json:"signature" validate:"required"`
}
