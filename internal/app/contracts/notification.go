package contracts

import "context"

// AppointmentEvent is the fire-and-forget payload handed to the mailer queue
// on confirmed/cancelled transitions. Delivery failures never affect the
// appointment state machine.
type AppointmentEvent struct {
	Event         string  `json:"event"`
	AppointmentID string  `json:"appointment_id"`
	PatientID     string  `json:"patient_id"`
	ProviderID    string  `json:"provider_id"`
	DateKey       string  `json:"date_key"`
	TimeLabel     string  `json:"time_label"`
	Amount        float64 `json:"amount"`
}

type NotificationService interface {
	PublishAppointmentEvent(ctx context.Context, event *AppointmentEvent) error
}
