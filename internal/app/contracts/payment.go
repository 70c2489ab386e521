package contracts

import (
	"context"
	"medibook-service/internal/pkg/dto/requests"
)

type PaymentUsecase interface {
	// InitiateSettlement asks the gateway for a hosted checkout URL for the
	// appointment. The record stays pending_payment; a gateway outage is
	// surfaced as SettlementUnavailable and the reservation is kept.
	InitiateSettlement(ctx context.Context, appointmentID, patientID string) (string, error)

	// HandleSettlementCallback verifies and applies an asynchronous gateway
	// callback. Fails closed on bad signatures; duplicate callbacks for
	// records already settled are accepted and ignored.
	HandleSettlementCallback(ctx context.Context, payload *requests.SettlementCallback) error
}
