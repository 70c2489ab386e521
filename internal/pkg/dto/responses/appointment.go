package responses

import "medibook-service/internal/app/models"

type ReserveSlotResponse struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
	DateKey       string `json:"date_key"`
	TimeLabel     string `json:"time_label"`
}

type AppointmentResponse struct {
	ID            string  `json:"id"`
	ProviderID    string  `json:"provider_id"`
	PatientID     string  `json:"patient_id"`
	DateKey       string  `json:"date_key"`
	TimeLabel     string  `json:"time_label"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
}

func NewAppointmentResponse(a *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID.Hex(),
		ProviderID:    a.ProviderID.Hex(),
		PatientID:     a.PatientID,
		DateKey:       a.DateKey,
		TimeLabel:     a.TimeLabel,
		Amount:        a.Amount,
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
	}
}

func NewAppointmentListResponse(list []models.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for i := range list {
		out = append(out, NewAppointmentResponse(&list[i]))
	}
	return out
}
