package requests

type ReserveSlotRequest struct {
	ProviderID string `json:"provider_id" validate:"required"`
	DateKey    string `json:"date_key" validate:"required"`
	TimeLabel  string `json:"time_label" validate:"required"`
}
