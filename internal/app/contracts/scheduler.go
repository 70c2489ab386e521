package contracts

import "context"

// DaySlots is one day of the availability listing: the date key plus the
// ordered free time labels. Labels may be empty for a fully booked day.
type DaySlots struct {
	DateKey string   `json:"date_key"`
	Labels  []string `json:"labels"`
}

type SchedulerUsecase interface {
	// ListAvailableSlots computes the free (dateKey, timeLabel) grid for the
	// next windowDays days. Pure with respect to stored state: re-computable,
	// no hidden state between calls.
	ListAvailableSlots(ctx context.Context, providerID string, windowDays int) ([]DaySlots, error)

	// ReserveSlot atomically reserves the slot and creates a pending_payment
	// appointment record, returning its id. Exactly one concurrent caller per
	// (provider, dateKey, timeLabel) succeeds.
	ReserveSlot(ctx context.Context, providerID, dateKey, timeLabel, patientID string) (string, error)

	// ReleaseSlot cancels the appointment and returns its slot to the ledger.
	// Idempotent on already-cancelled records.
	ReleaseSlot(ctx context.Context, appointmentID string) error
}
