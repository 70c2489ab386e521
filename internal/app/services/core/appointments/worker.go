package appointments

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically cancels pending_payment appointments whose checkout
// was abandoned, releasing their slots back to the ledger. A redis lock
// elects a single sweeping instance so multiple replicas do not race.
type Sweeper struct {
	log       *zap.Logger
	cfg       *config.InternalConfig
	locker    contracts.LockerService
	repo      contracts.AppointmentRepository
	scheduler contracts.SchedulerUsecase
	notifier  contracts.NotificationService
	stop      chan struct{}
	done      chan struct{}
}

func NewSweeper(
	log *zap.Logger,
	cfg *config.InternalConfig,
	lockerSvc contracts.LockerService,
	repo contracts.AppointmentRepository,
	scheduler contracts.SchedulerUsecase,
	notifier contracts.NotificationService,
) *Sweeper {
	return &Sweeper{
		log:       log,
		cfg:       cfg,
		locker:    lockerSvc,
		repo:      repo,
		scheduler: scheduler,
		notifier:  notifier,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	interval := time.Duration(s.cfg.Booking.SweepIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	go s.run(interval)
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Sweeper) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lockTTL := 2 * time.Duration(s.cfg.Booking.SweepIntervalInSeconds) * time.Second
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	acquired, lockValue, err := s.locker.TryLock(ctx, constvars.RedisKeyPendingSweepLock, lockTTL)
	if err != nil {
		s.log.Error("sweeper failed to acquire lock", zap.Error(err))
		return
	}
	if !acquired {
		// another instance is sweeping
		return
	}
	defer func() {
		if err := s.locker.Unlock(ctx, constvars.RedisKeyPendingSweepLock, lockValue); err != nil {
			s.log.Warn("sweeper failed to release lock", zap.Error(err))
		}
	}()

	ttl := time.Duration(s.cfg.Booking.PendingPaymentTTLInMinutes) * time.Minute
	if ttl <= 0 {
		return
	}
	batch := int64(s.cfg.Booking.SweepBatchSize)
	if batch <= 0 {
		batch = 100
	}

	expired, err := s.repo.FindExpiredPending(ctx, time.Now().UTC().Add(-ttl), batch)
	if err != nil {
		s.log.Error("sweeper failed to list expired pending appointments", zap.Error(err))
		return
	}

	for i := range expired {
		appointmentID := expired[i].ID.Hex()
		if err := s.scheduler.ReleaseSlot(ctx, appointmentID); err != nil {
			s.log.Error("sweeper failed to release expired appointment",
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
				zap.Error(err),
			)
			continue
		}
		s.log.Info("sweeper released expired pending appointment",
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.String(constvars.LoggingDateKeyKey, expired[i].DateKey),
			zap.String(constvars.LoggingTimeLabelKey, expired[i].TimeLabel),
		)

		// The patient finds out their abandoned checkout expired the same
		// way they find out about any other cancellation.
		if err := s.notifier.PublishAppointmentEvent(ctx, &contracts.AppointmentEvent{
			Event:         constvars.NotificationEventAppointmentCancelled,
			AppointmentID: appointmentID,
			PatientID:     expired[i].PatientID,
			ProviderID:    expired[i].ProviderID.Hex(),
			DateKey:       expired[i].DateKey,
			TimeLabel:     expired[i].TimeLabel,
			Amount:        expired[i].Amount,
		}); err != nil {
			s.log.Warn("sweeper failed to publish notification event",
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
				zap.Error(err),
			)
		}
	}
}
