package responses

import "medibook-service/internal/app/models"

type ProviderResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Speciality string  `json:"speciality"`
	Fee        float64 `json:"fee"`
	Available  bool    `json:"available"`
	Address    string  `json:"address,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
}

func NewProviderResponse(p *models.Provider) ProviderResponse {
	return ProviderResponse{
		ID:         p.ID.Hex(),
		Name:       p.Name,
		Speciality: p.Speciality,
		Fee:        p.Fee,
		Available:  p.Available,
		Address:    p.Address,
		ImageURL:   p.ImageURL,
	}
}

func NewProviderListResponse(list []models.Provider) []ProviderResponse {
	out := make([]ProviderResponse, 0, len(list))
	for i := range list {
		out = append(out, NewProviderResponse(&list[i]))
	}
	return out
}
