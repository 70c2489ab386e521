package requests

type CreateProviderRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=120"`
	Speciality string  `json:"speciality" validate:"required,min=2,max=120"`
	Fee        float64 `json:"fee" validate:"gte=0"`
	Address    string  `json:"address" validate:"max=300"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}
