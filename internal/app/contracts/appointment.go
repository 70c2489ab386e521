package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"time"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) (string, error)
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindByPatient(ctx context.Context, patientID string, status models.AppointmentStatus) ([]models.Appointment, error)
	FindByProvider(ctx context.Context, providerID string, status models.AppointmentStatus) ([]models.Appointment, error)

	// TransitionStatus performs a conditional update: the record moves to
	// 'to' only when its current status is one of 'from'. Returns false when
	// the guard did not match, with no mutation. This is the primitive that
	// keeps retried callbacks and cancellations idempotent.
	TransitionStatus(ctx context.Context, appointmentID string, from []models.AppointmentStatus, to models.AppointmentStatus, payment models.PaymentStatus, gatewayRef string) (bool, error)

	// SetPaymentStatus updates only the payment sub-state, guarded by the
	// current appointment status.
	SetPaymentStatus(ctx context.Context, appointmentID string, ifStatus models.AppointmentStatus, payment models.PaymentStatus) (bool, error)

	FindExpiredPending(ctx context.Context, olderThan time.Time, limit int64) ([]models.Appointment, error)
}

type AppointmentUsecase interface {
	ListByPatient(ctx context.Context, patientID string, status models.AppointmentStatus) ([]models.Appointment, error)
	ListByProvider(ctx context.Context, providerID string, status models.AppointmentStatus) ([]models.Appointment, error)

	// CancelAppointment releases the slot and transitions the record to
	// cancelled. Idempotent: cancelling an already-cancelled record succeeds.
	// callerID must own the record (patient) unless asAdmin is set.
	CancelAppointment(ctx context.Context, appointmentID, callerID string, asAdmin bool) error

	// CompleteAppointment marks service as rendered. Only valid from
	// confirmed, and only for the record's provider.
	CompleteAppointment(ctx context.Context, appointmentID, providerID string) error
}
