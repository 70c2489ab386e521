package scheduler

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	schedulerUsecaseInstance contracts.SchedulerUsecase
	onceSchedulerUsecase     sync.Once
)

type schedulerUsecase struct {
	providerRepository    contracts.ProviderRepository
	appointmentRepository contracts.AppointmentRepository
	grid                  slotGrid
	windowDays            int
	nowFn                 func() time.Time
	Log                   *zap.Logger
}

func NewSchedulerUsecase(
	providerRepository contracts.ProviderRepository,
	appointmentRepository contracts.AppointmentRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SchedulerUsecase {
	onceSchedulerUsecase.Do(func() {
		schedulerUsecaseInstance = newSchedulerUsecase(providerRepository, appointmentRepository, internalConfig, logger)
	})
	return schedulerUsecaseInstance
}

func newSchedulerUsecase(
	providerRepository contracts.ProviderRepository,
	appointmentRepository contracts.AppointmentRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *schedulerUsecase {
	return &schedulerUsecase{
		providerRepository:    providerRepository,
		appointmentRepository: appointmentRepository,
		grid: slotGrid{
			slotMinutes:  internalConfig.Booking.SlotMinutes,
			dayStartHour: internalConfig.Booking.DayStartHour,
			dayEndHour:   internalConfig.Booking.DayEndHour,
		},
		windowDays: internalConfig.Booking.WindowDays,
		nowFn:      time.Now,
		Log:        logger,
	}
}

func (uc *schedulerUsecase) ListAvailableSlots(ctx context.Context, providerID string, windowDays int) ([]contracts.DaySlots, error) {
	provider, err := uc.providerRepository.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, exceptions.ErrProviderNotFound(nil)
	}
	if !provider.Available {
		return nil, exceptions.ErrProviderUnavailable(nil)
	}

	if windowDays <= 0 {
		windowDays = uc.windowDays
	}
	now := uc.nowFn()

	out := make([]contracts.DaySlots, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		day := now.AddDate(0, 0, i)
		dateKey := DateKey(day)

		labels := make([]string, 0)
		for _, label := range uc.grid.labelsForDay(day, now) {
			if !provider.IsSlotBooked(dateKey, label) {
				labels = append(labels, label)
			}
		}
		out = append(out, contracts.DaySlots{DateKey: dateKey, Labels: labels})
	}
	return out, nil
}

func (uc *schedulerUsecase) ReserveSlot(ctx context.Context, providerID, dateKey, timeLabel, patientID string) (string, error) {
	provider, err := uc.providerRepository.FindByID(ctx, providerID)
	if err != nil {
		return "", err
	}
	if provider == nil {
		return "", exceptions.ErrProviderNotFound(nil)
	}
	if !provider.Available {
		return "", exceptions.ErrProviderUnavailable(nil)
	}

	day, ok := uc.dayInWindow(dateKey)
	if !ok || !uc.grid.containsLabel(day, uc.nowFn(), timeLabel) {
		return "", exceptions.ErrSlotOutsideWindow(nil)
	}

	// Single conditional update against the ledger; no read-then-write.
	reserved, err := uc.providerRepository.TryReserveSlot(ctx, providerID, dateKey, timeLabel)
	if err != nil {
		return "", err
	}
	if !reserved {
		return "", exceptions.ErrSlotConflict(nil)
	}

	providerObjectID, err := primitive.ObjectIDFromHex(providerID)
	if err != nil {
		return "", exceptions.ErrMongoDBNotObjectID(err)
	}
	appointment := &models.Appointment{
		PatientID:     patientID,
		ProviderID:    providerObjectID,
		DateKey:       dateKey,
		TimeLabel:     timeLabel,
		Amount:        provider.Fee,
		Status:        models.AppointmentPendingPayment,
		PaymentStatus: models.PaymentNotPaid,
	}
	appointmentID, err := uc.appointmentRepository.Create(ctx, appointment)
	if err != nil {
		// compensate: give the slot back, otherwise it stays blocked forever
		if releaseErr := uc.providerRepository.ReleaseSlot(ctx, providerID, dateKey, timeLabel); releaseErr != nil {
			uc.Log.Error("schedulerUsecase.ReserveSlot failed to compensate reservation",
				zap.String(constvars.LoggingProviderIDKey, providerID),
				zap.String(constvars.LoggingDateKeyKey, dateKey),
				zap.String(constvars.LoggingTimeLabelKey, timeLabel),
				zap.Error(releaseErr),
			)
		}
		return "", err
	}

	uc.Log.Info("schedulerUsecase.ReserveSlot reserved",
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
		zap.String(constvars.LoggingDateKeyKey, dateKey),
		zap.String(constvars.LoggingTimeLabelKey, timeLabel),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	return appointmentID, nil
}

// ReleaseSlot cancels the appointment and returns its slot. The ledger pull
// runs even for already-cancelled records so a half-applied earlier release
// converges instead of leaving the label stuck.
func (uc *schedulerUsecase) ReleaseSlot(ctx context.Context, appointmentID string) error {
	appointment, err := uc.appointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}

	if appointment.Status != models.AppointmentCancelled {
		transitioned, err := uc.appointmentRepository.TransitionStatus(
			ctx,
			appointmentID,
			[]models.AppointmentStatus{models.AppointmentPendingPayment, models.AppointmentConfirmed},
			models.AppointmentCancelled,
			"",
			"",
		)
		if err != nil {
			return err
		}
		if !transitioned {
			// lost a race; re-read to distinguish "already cancelled" from a
			// genuinely forbidden transition (completed)
			current, err := uc.appointmentRepository.FindByID(ctx, appointmentID)
			if err != nil {
				return err
			}
			if current == nil || current.Status != models.AppointmentCancelled {
				return exceptions.ErrInvalidTransition(nil)
			}
		}
	}

	return uc.providerRepository.ReleaseSlot(ctx, appointment.ProviderID.Hex(), appointment.DateKey, appointment.TimeLabel)
}

// dayInWindow maps dateKey back onto a concrete day within the booking
// window. Keys outside the rolling window are not bookable.
func (uc *schedulerUsecase) dayInWindow(dateKey string) (time.Time, bool) {
	now := uc.nowFn()
	for i := 0; i < uc.windowDays; i++ {
		day := now.AddDate(0, 0, i)
		if DateKey(day) == dateKey {
			return day, true
		}
	}
	return time.Time{}, false
}
