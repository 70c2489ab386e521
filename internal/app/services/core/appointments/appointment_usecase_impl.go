package appointments

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

var (
	appointmentUsecaseInstance contracts.AppointmentUsecase
	onceAppointmentUsecase     sync.Once
)

type appointmentUsecase struct {
	appointmentRepository contracts.AppointmentRepository
	scheduler             contracts.SchedulerUsecase
	notificationService   contracts.NotificationService
	Log                   *zap.Logger
}

func NewAppointmentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	scheduler contracts.SchedulerUsecase,
	notificationService contracts.NotificationService,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	onceAppointmentUsecase.Do(func() {
		appointmentUsecaseInstance = &appointmentUsecase{
			appointmentRepository: appointmentRepository,
			scheduler:             scheduler,
			notificationService:   notificationService,
			Log:                   logger,
		}
	})
	return appointmentUsecaseInstance
}

func (uc *appointmentUsecase) ListByPatient(ctx context.Context, patientID string, status models.AppointmentStatus) ([]models.Appointment, error) {
	return uc.appointmentRepository.FindByPatient(ctx, patientID, status)
}

func (uc *appointmentUsecase) ListByProvider(ctx context.Context, providerID string, status models.AppointmentStatus) ([]models.Appointment, error) {
	return uc.appointmentRepository.FindByProvider(ctx, providerID, status)
}

func (uc *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID, callerID string, asAdmin bool) error {
	appointment, err := uc.appointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	if !asAdmin && appointment.PatientID != callerID {
		return exceptions.ErrNotRecordOwner(nil)
	}

	wasCancelled := appointment.Status == models.AppointmentCancelled
	if err := uc.scheduler.ReleaseSlot(ctx, appointmentID); err != nil {
		return err
	}

	if !wasCancelled {
		uc.notifyEvent(ctx, constvars.NotificationEventAppointmentCancelled, appointment)
	}
	return nil
}

func (uc *appointmentUsecase) CompleteAppointment(ctx context.Context, appointmentID, providerID string) error {
	appointment, err := uc.appointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	if appointment.ProviderID.Hex() != providerID {
		return exceptions.ErrNotRecordOwner(nil)
	}

	transitioned, err := uc.appointmentRepository.TransitionStatus(
		ctx,
		appointmentID,
		[]models.AppointmentStatus{models.AppointmentConfirmed},
		models.AppointmentCompleted,
		"",
		"",
	)
	if err != nil {
		return err
	}
	if !transitioned {
		return exceptions.ErrInvalidTransition(nil)
	}

	uc.Log.Info("appointmentUsecase.CompleteAppointment completed",
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)
	return nil
}

// notifyEvent is fire-and-forget: a broken broker must never undo or block a
// state transition.
func (uc *appointmentUsecase) notifyEvent(ctx context.Context, event string, appointment *models.Appointment) {
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
		uc.Log.Warn("appointmentUsecase failed to publish notification event",
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
