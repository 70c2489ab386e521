package payments

import (
	"context"
	"math"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

type paymentUsecase struct {
	appointmentRepository contracts.AppointmentRepository
	providerRepository    contracts.ProviderRepository
	gateway               contracts.PaymentGatewayService
	notificationService   contracts.NotificationService
	currency              string
	Log                   *zap.Logger
}

func NewPaymentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	providerRepository contracts.ProviderRepository,
	gateway contracts.PaymentGatewayService,
	notificationService contracts.NotificationService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		paymentUsecaseInstance = &paymentUsecase{
			appointmentRepository: appointmentRepository,
			providerRepository:    providerRepository,
			gateway:               gateway,
			notificationService:   notificationService,
			currency:              internalConfig.PaymentGateway.Currency,
			Log:                   logger,
		}
	})
	return paymentUsecaseInstance
}

func (uc *paymentUsecase) InitiateSettlement(ctx context.Context, appointmentID, patientID string) (string, error) {
	appointment, err := uc.appointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return "", err
	}
	if appointment == nil {
		return "", exceptions.ErrAppointmentNotFound(nil)
	}
	if appointment.PatientID != patientID {
		return "", exceptions.ErrNotRecordOwner(nil)
	}
	if appointment.Status != models.AppointmentPendingPayment {
		return "", exceptions.ErrInvalidTransition(nil)
	}

	session, err := uc.gateway.CreateCheckout(ctx, &requests.CheckoutRequest{
		MerchantRef: appointmentID,
		Amount:      appointment.Amount,
		Currency:    uc.currency,
		Description: "appointment " + appointment.DateKey + " " + appointment.TimeLabel,
	})
	if err != nil {
		// The reservation survives a gateway outage; the caller may retry or
		// let the sweeper reclaim the slot after the pending TTL.
		return "", err
	}

	if _, err := uc.appointmentRepository.SetPaymentStatus(ctx, appointmentID, models.AppointmentPendingPayment, models.PaymentProcessing); err != nil {
		uc.Log.Warn("paymentUsecase.InitiateSettlement failed to mark processing",
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
	}

	uc.Log.Info("paymentUsecase.InitiateSettlement checkout created",
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingGatewayRefKey, session.GatewayRef),
	)
	return session.CheckoutURL, nil
}

func (uc *paymentUsecase) HandleSettlementCallback(ctx context.Context, payload *requests.SettlementCallback) error {
	// Fail closed: nothing below runs on a bad digest.
	if !uc.gateway.VerifyCallbackSignature(payload) {
		uc.Log.Warn("paymentUsecase.HandleSettlementCallback rejected signature",
			zap.String(constvars.LoggingMerchantRefKey, payload.MerchantRef),
		)
		return exceptions.ErrInvalidSignature(nil)
	}

	appointment, err := uc.appointmentRepository.FindByID(ctx, payload.MerchantRef)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}

	// Gateways redeliver callbacks; a record that already left
	// pending_payment was settled by an earlier delivery.
	if appointment.Status != models.AppointmentPendingPayment {
		// A redelivered failure can mean the first delivery cancelled the
		// record but died before the ledger pull; the pull is idempotent,
		// so re-running it converges the slot.
		if appointment.Status == models.AppointmentCancelled && payload.Status == constvars.SettlementStatusFailed {
			if err := uc.providerRepository.ReleaseSlot(ctx, appointment.ProviderID.Hex(), appointment.DateKey, appointment.TimeLabel); err != nil {
				uc.Log.Error("paymentUsecase.HandleSettlementCallback failed to converge released slot",
					zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
					zap.Error(err),
				)
				return err
			}
		}
		uc.Log.Info("paymentUsecase.HandleSettlementCallback duplicate delivery ignored",
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
			zap.String(constvars.LoggingAppointmentStatusKey, string(appointment.Status)),
		)
		return nil
	}

	switch payload.Status {
	case constvars.SettlementStatusSuccess:
		return uc.settleSuccess(ctx, appointment, payload)
	case constvars.SettlementStatusFailed:
		return uc.settleFailure(ctx, appointment, payload)
	default:
		// The DTO's oneof validation catches this at the edge; this guard
		// covers callers that build the payload themselves.
		return exceptions.ErrUnknownCallbackStatus(nil)
	}
}

func (uc *paymentUsecase) settleSuccess(ctx context.Context, appointment *models.Appointment, payload *requests.SettlementCallback) error {
	if math.Abs(payload.Amount-appointment.Amount) > 0.005 {
		uc.Log.Warn("paymentUsecase.settleSuccess amount mismatch",
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
			zap.Float64("expected_amount", appointment.Amount),
			zap.Float64("callback_amount", payload.Amount),
		)
		return exceptions.ErrCallbackAmountMismatch(nil)
	}

	transitioned, err := uc.appointmentRepository.TransitionStatus(
		ctx,
		appointment.ID.Hex(),
		[]models.AppointmentStatus{models.AppointmentPendingPayment},
		models.AppointmentConfirmed,
		models.PaymentPaid,
		payload.GatewayRef,
	)
	if err != nil {
		return err
	}
	if !transitioned {
		// lost to a concurrent delivery or cancellation; that writer owns the
		// outcome
		return nil
	}

	uc.Log.Info("paymentUsecase.settleSuccess confirmed",
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
		zap.String(constvars.LoggingGatewayRefKey, payload.GatewayRef),
	)
	uc.notifyEvent(ctx, constvars.NotificationEventAppointmentConfirmed, appointment)
	return nil
}

func (uc *paymentUsecase) settleFailure(ctx context.Context, appointment *models.Appointment, payload *requests.SettlementCallback) error {
	transitioned, err := uc.appointmentRepository.TransitionStatus(
		ctx,
		appointment.ID.Hex(),
		[]models.AppointmentStatus{models.AppointmentPendingPayment},
		models.AppointmentCancelled,
		models.PaymentFailed,
		payload.GatewayRef,
	)
	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}

	// The slot goes back even if the notification below never ships.
	if err := uc.providerRepository.ReleaseSlot(ctx, appointment.ProviderID.Hex(), appointment.DateKey, appointment.TimeLabel); err != nil {
		uc.Log.Error("paymentUsecase.settleFailure failed to release slot",
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
			zap.String(constvars.LoggingDateKeyKey, appointment.DateKey),
			zap.String(constvars.LoggingTimeLabelKey, appointment.TimeLabel),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("paymentUsecase.settleFailure cancelled",
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
		zap.String(constvars.LoggingGatewayRefKey, payload.GatewayRef),
	)
	uc.notifyEvent(ctx, constvars.NotificationEventAppointmentCancelled, appointment)
	return nil
}

func (uc *paymentUsecase) notifyEvent(ctx context.Context, event string, appointment *models.Appointment) {
	err := uc.notificationService.PublishAppointmentEvent(ctx, &contracts.AppointmentEvent{
		Event:         event,
		AppointmentID: appointment.ID.Hex(),
		PatientID:     appointment.PatientID,
		ProviderID:    appointment.ProviderID.Hex(),
		DateKey:       appointment.DateKey,
		TimeLabel:     appointment.TimeLabel,
		Amount:        appointment.Amount,
	})
	if err != nil {
		uc.Log.Warn("paymentUsecase failed to publish notification event",
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
