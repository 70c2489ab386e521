package contracts

import (
	"context"
	"io"
	"medibook-service/internal/app/models"
)

type ProviderRepository interface {
	Create(ctx context.Context, provider *models.Provider) (string, error)
	FindByID(ctx context.Context, providerID string) (*models.Provider, error)
	FindAll(ctx context.Context, onlyAvailable bool) ([]models.Provider, error)
	SetAvailability(ctx context.Context, providerID string, available bool) error
	SetImageURL(ctx context.Context, providerID, imageURL string) error

	// TryReserveSlot atomically adds timeLabel under dateKey, only when the
	// provider is available and the label is absent. Returns false when the
	// conditional update did not apply (slot taken or provider unavailable).
	TryReserveSlot(ctx context.Context, providerID, dateKey, timeLabel string) (bool, error)

	// ReleaseSlot removes timeLabel from dateKey. Removing an absent label is
	// a no-op, which keeps release retry-safe.
	ReleaseSlot(ctx context.Context, providerID, dateKey, timeLabel string) error
}

type CreateProviderInput struct {
	Name       string
	Speciality string
	Fee        float64
	Address    string
}

type ProviderUsecase interface {
	CreateProvider(ctx context.Context, input CreateProviderInput) (string, error)
	ListProviders(ctx context.Context, onlyAvailable bool) ([]models.Provider, error)
	SetAvailability(ctx context.Context, providerID string, available bool) error
	UploadProviderImage(ctx context.Context, providerID, fileName string, size int64, reader io.Reader) (string, error)
}
