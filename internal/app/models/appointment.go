package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentPendingPayment AppointmentStatus = "pending_payment"
	AppointmentConfirmed      AppointmentStatus = "confirmed"
	AppointmentCancelled      AppointmentStatus = "cancelled"
	AppointmentCompleted      AppointmentStatus = "completed"
)

type PaymentStatus string

const (
	PaymentNotPaid    PaymentStatus = "not_paid"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// allowedTransitions is the single source of truth for the appointment
// lifecycle. Completed and cancelled are terminal.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPendingPayment: {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed:      {AppointmentCompleted, AppointmentCancelled},
	AppointmentCancelled:      {},
	AppointmentCompleted:      {},
}

// CanTransition reports whether moving from 'from' to 'to' is permitted.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(status AppointmentStatus) bool {
	return len(allowedTransitions[status]) == 0
}

// Appointment is the durable record of one booking attempt. Records are never
// deleted; cancellation is a status transition. Amount is copied from the
// provider fee at booking time and immutable afterwards.
type Appointment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID     string             `bson:"patientId" json:"patient_id"`
	ProviderID    primitive.ObjectID `bson:"providerId" json:"provider_id"`
	DateKey       string             `bson:"dateKey" json:"date_key"`
	TimeLabel     string             `bson:"timeLabel" json:"time_label"`
	Amount        float64            `bson:"amount" json:"amount"`
	Status        AppointmentStatus  `bson:"status" json:"status"`
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"payment_status"`
	GatewayRef    string             `bson:"gatewayRef,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"-"`
}
