package providers

import (
	"context"
	"fmt"
	"io"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"mime"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	providerUsecaseInstance contracts.ProviderUsecase
	onceProviderUsecase     sync.Once
)

type providerUsecase struct {
	providerRepository contracts.ProviderRepository
	storageService     contracts.StorageService
	Log                *zap.Logger
}

func NewProviderUsecase(
	providerRepository contracts.ProviderRepository,
	storageService contracts.StorageService,
	logger *zap.Logger,
) contracts.ProviderUsecase {
	onceProviderUsecase.Do(func() {
		providerUsecaseInstance = &providerUsecase{
			providerRepository: providerRepository,
			storageService:     storageService,
			Log:                logger,
		}
	})
	return providerUsecaseInstance
}

func (uc *providerUsecase) CreateProvider(ctx context.Context, input contracts.CreateProviderInput) (string, error) {
	provider := &models.Provider{
		Name:        input.Name,
		Speciality:  input.Speciality,
		Fee:         input.Fee,
		Address:     input.Address,
		Available:   true,
		SlotsBooked: map[string][]string{},
	}
	providerID, err := uc.providerRepository.Create(ctx, provider)
	if err != nil {
		return "", err
	}

	uc.Log.Info("providerUsecase.CreateProvider created",
		zap.String(constvars.LoggingProviderIDKey, providerID),
		zap.String("name", input.Name),
	)
	return providerID, nil
}

func (uc *providerUsecase) ListProviders(ctx context.Context, onlyAvailable bool) ([]models.Provider, error) {
	return uc.providerRepository.FindAll(ctx, onlyAvailable)
}

func (uc *providerUsecase) SetAvailability(ctx context.Context, providerID string, available bool) error {
	provider, err := uc.providerRepository.FindByID(ctx, providerID)
	if err != nil {
		return err
	}
	if provider == nil {
		return exceptions.ErrProviderNotFound(nil)
	}
	return uc.providerRepository.SetAvailability(ctx, providerID, available)
}

func (uc *providerUsecase) UploadProviderImage(ctx context.Context, providerID, fileName string, size int64, reader io.Reader) (string, error) {
	provider, err := uc.providerRepository.FindByID(ctx, providerID)
	if err != nil {
		return "", err
	}
	if provider == nil {
		return "", exceptions.ErrProviderNotFound(nil)
	}

	ext := filepath.Ext(fileName)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := fmt.Sprintf("providers/%s/%s%s", providerID, uuid.NewString(), ext)

	imageURL, err := uc.storageService.UploadObject(ctx, objectName, contentType, size, reader)
	if err != nil {
		return "", err
	}
	if err := uc.providerRepository.SetImageURL(ctx, providerID, imageURL); err != nil {
		return "", err
	}
	return imageURL, nil
}
