package controllers

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
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

type AppointmentController struct {
	Log                *zap.Logger
	SchedulerUsecase   contracts.SchedulerUsecase
	AppointmentUsecase contracts.AppointmentUsecase
}

var (
	appointmentControllerInstance *AppointmentController
	onceAppointmentController     sync.Once
)

func NewAppointmentController(logger *zap.Logger, schedulerUsecase contracts.SchedulerUsecase, appointmentUsecase contracts.AppointmentUsecase) *AppointmentController {
	onceAppointmentController.Do(func() {
		appointmentControllerInstance = &AppointmentController{
			Log:                logger,
			SchedulerUsecase:   schedulerUsecase,
			AppointmentUsecase: appointmentUsecase,
		}
	})
	return appointmentControllerInstance
}

func (ctrl *AppointmentController) ReserveSlot(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	patientID, ok := r.Context().Value(constvars.CONTEXT_UID_KEY).(string)
	if !ok || patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	request := new(requests.ReserveSlotRequest)
	if err := utils.ParseAndValidateRequestBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	appointmentID, err := ctrl.SchedulerUsecase.ReserveSlot(ctx, request.ProviderID, request.DateKey, request.TimeLabel, patientID)
	if err != nil {
		ctrl.Log.Warn("slot reservation rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
			zap.String(constvars.LoggingDateKeyKey, request.DateKey),
			zap.String(constvars.LoggingTimeLabelKey, request.TimeLabel),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessReserveSlot, responses.ReserveSlotResponse{
		AppointmentID: appointmentID,
		Status:        string(models.AppointmentPendingPayment),
		DateKey:       request.DateKey,
		TimeLabel:     request.TimeLabel,
	})
}

func (ctrl *AppointmentController) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := r.Context().Value(constvars.CONTEXT_UID_KEY).(string)
	if !ok || patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := models.AppointmentStatus(r.URL.Query().Get("status"))
	appointments, err := ctrl.AppointmentUsecase.ListByPatient(ctx, patientID, status)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessListAppointments, responses.NewAppointmentListResponse(appointments))
}

func (ctrl *AppointmentController) ListProviderAppointments(w http.ResponseWriter, r *http.Request) {
	providerID, ok := r.Context().Value(constvars.CONTEXT_UID_KEY).(string)
	if !ok || providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := models.AppointmentStatus(r.URL.Query().Get("status"))
	appointments, err := ctrl.AppointmentUsecase.ListByProvider(ctx, providerID, status)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessListAppointments, responses.NewAppointmentListResponse(appointments))
}

func (ctrl *AppointmentController) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, "appointmentID"))
		return
	}

	callerID, _ := r.Context().Value(constvars.CONTEXT_UID_KEY).(string)
	asAdmin, _ := r.Context().Value(constvars.CONTEXT_API_KEY_AUTH).(bool)
	if callerID == "" && !asAdmin {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.AppointmentUsecase.CancelAppointment(ctx, appointmentID, callerID, asAdmin); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessCancelAppointment, nil)
}

func (ctrl *AppointmentController) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, "appointmentID"))
		return
	}

	providerID, ok := r.Context().Value(constvars.CONTEXT_UID_KEY).(string)
	if !ok || providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.AppointmentUsecase.CompleteAppointment(ctx, appointmentID, providerID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessCompleteAppointmnt, nil)
}
