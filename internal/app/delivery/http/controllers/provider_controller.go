package controllers

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProviderController struct {
	Log              *zap.Logger
	ProviderUsecase  contracts.ProviderUsecase
	SchedulerUsecase contracts.SchedulerUsecase
}

var (
	providerControllerInstance *ProviderController
	onceProviderController     sync.Once
)

func NewProviderController(logger *zap.Logger, providerUsecase contracts.ProviderUsecase, schedulerUsecase contracts.SchedulerUsecase) *ProviderController {
	onceProviderController.Do(func() {
		providerControllerInstance = &ProviderController{
			Log:              logger,
			ProviderUsecase:  providerUsecase,
			SchedulerUsecase: schedulerUsecase,
		}
	})
	return providerControllerInstance
}

func (ctrl *ProviderController) ListProviders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	onlyAvailable := r.URL.Query().Get("available") == "true"
	providers, err := ctrl.ProviderUsecase.ListProviders(ctx, onlyAvailable)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessListProviders, responses.NewProviderListResponse(providers))
}

func (ctrl *ProviderController) CreateProvider(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request := new(requests.CreateProviderRequest)
	if err := utils.ParseAndValidateRequestBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	providerID, err := ctrl.ProviderUsecase.CreateProvider(ctx, contracts.CreateProviderInput{
		Name:       request.Name,
		Speciality: request.Speciality,
		Fee:        request.Fee,
		Address:    request.Address,
	})
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("provider created",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessCreateProvider, map[string]string{"provider_id": providerID})
}

func (ctrl *ProviderController) SetAvailability(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, "providerID"))
		return
	}

	request := new(requests.SetAvailabilityRequest)
	if err := utils.ParseAndValidateRequestBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.ProviderUsecase.SetAvailability(ctx, providerID, *request.Available); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessUpdateProvider, nil)
}

func (ctrl *ProviderController) UploadProviderImage(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, "providerID"))
		return
	}

	// 5 MiB cap on profile images
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	imageURL, err := ctrl.ProviderUsecase.UploadProviderImage(ctx, providerID, header.Filename, header.Size, file)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessUploadImage, map[string]string{"image_url": imageURL})
}

func (ctrl *ProviderController) GetProviderSlots(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, "providerID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	slots, err := ctrl.SchedulerUsecase.ListAvailableSlots(ctx, providerID, 0)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessListSlots, slots)
}
