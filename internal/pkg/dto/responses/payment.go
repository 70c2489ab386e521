package responses

// CheckoutSession is the gateway's answer to a checkout registration.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
	GatewayRef  string `json:"gateway_ref"`
}
