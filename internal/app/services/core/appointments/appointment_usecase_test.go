package appointments

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeAppointmentRepository struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment
}

func newFakeAppointmentRepository() *fakeAppointmentRepository {
	return &fakeAppointmentRepository{appointments: make(map[string]*models.Appointment)}
}

func (f *fakeAppointmentRepository) add(appointment *models.Appointment) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	f.appointments[appointment.ID.Hex()] = appointment
	return appointment.ID.Hex()
}

func (f *fakeAppointmentRepository) Create(_ context.Context, appointment *models.Appointment) (string, error) {
	return f.add(appointment), nil
}

func (f *fakeAppointmentRepository) FindByID(_ context.Context, appointmentID string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	copied := *appointment
	return &copied, nil
}

func (f *fakeAppointmentRepository) FindByPatient(_ context.Context, patientID string, status models.AppointmentStatus) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID && (status == "" || a.Status == status) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepository) FindByProvider(_ context.Context, providerID string, status models.AppointmentStatus) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.ProviderID.Hex() == providerID && (status == "" || a.Status == status) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepository) TransitionStatus(_ context.Context, appointmentID string, from []models.AppointmentStatus, to models.AppointmentStatus, payment models.PaymentStatus, gatewayRef string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[appointmentID]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if appointment.Status == status {
			appointment.Status = to
			if payment != "" {
				appointment.PaymentStatus = payment
			}
			if gatewayRef != "" {
				appointment.GatewayRef = gatewayRef
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointmentRepository) SetPaymentStatus(_ context.Context, appointmentID string, ifStatus models.AppointmentStatus, payment models.PaymentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[appointmentID]
	if !ok || appointment.Status != ifStatus {
		return false, nil
	}
	appointment.PaymentStatus = payment
	return true, nil
}

func (f *fakeAppointmentRepository) FindExpiredPending(_ context.Context, olderThan time.Time, limit int64) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.Status == models.AppointmentPendingPayment && a.CreatedAt.Before(olderThan) && int64(len(out)) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeScheduler struct {
	mu       sync.Mutex
	repo     *fakeAppointmentRepository
	released []string
}

func (f *fakeScheduler) ListAvailableSlots(context.Context, string, int) ([]contracts.DaySlots, error) {
	return nil, nil
}

func (f *fakeScheduler) ReserveSlot(context.Context, string, string, string, string) (string, error) {
	return "", nil
}

func (f *fakeScheduler) ReleaseSlot(ctx context.Context, appointmentID string) error {
	appointment, err := f.repo.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	if appointment.Status == models.AppointmentCompleted {
		return exceptions.ErrInvalidTransition(nil)
	}
	f.repo.TransitionStatus(ctx, appointmentID,
		[]models.AppointmentStatus{models.AppointmentPendingPayment, models.AppointmentConfirmed},
		models.AppointmentCancelled, "", "")
	f.mu.Lock()
	f.released = append(f.released, appointmentID)
	f.mu.Unlock()
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) PublishAppointmentEvent(_ context.Context, event *contracts.AppointmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event.Event)
	return nil
}

func newTestAppointmentUsecase(repo *fakeAppointmentRepository) (*appointmentUsecase, *fakeScheduler, *fakeNotifier) {
	sched := &fakeScheduler{repo: repo}
	notifier := &fakeNotifier{}
	uc := &appointmentUsecase{
		appointmentRepository: repo,
		scheduler:             sched,
		notificationService:   notifier,
		Log:                   zap.NewNop(),
	}
	return uc, sched, notifier
}

func storedAppointment(repo *fakeAppointmentRepository, status models.AppointmentStatus) *models.Appointment {
	appointment := &models.Appointment{
		PatientID:  "patient-1",
		ProviderID: primitive.NewObjectID(),
		DateKey:    "6_6_2025",
		TimeLabel:  "10:00",
		Amount:     300,
		Status:     status,
	}
	repo.add(appointment)
	return appointment
}

func TestCancelAppointment(t *testing.T) {
	t.Run("owner cancels and a notification is published", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		uc, sched, notifier := newTestAppointmentUsecase(repo)
		appointment := storedAppointment(repo, models.AppointmentConfirmed)

		require.NoError(t, uc.CancelAppointment(context.Background(), appointment.ID.Hex(), "patient-1", false))

		assert.Equal(t, []string{appointment.ID.Hex()}, sched.released)
		assert.Equal(t, []string{"appointment_cancelled"}, notifier.events)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		uc, sched, _ := newTestAppointmentUsecase(repo)
		appointment := storedAppointment(repo, models.AppointmentConfirmed)

		err := uc.CancelAppointment(context.Background(), appointment.ID.Hex(), "patient-2", false)
		require.Error(t, err)
		assert.Empty(t, sched.released)
	})

	t.Run("admin key overrides ownership", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		uc, sched, _ := newTestAppointmentUsecase(repo)
		appointment := storedAppointment(repo, models.AppointmentPendingPayment)

		require.NoError(t, uc.CancelAppointment(context.Background(), appointment.ID.Hex(), "", true))
		assert.Len(t, sched.released, 1)
	})

	t.Run("cancelling an already cancelled record is quiet", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		uc, _, notifier := newTestAppointmentUsecase(repo)
		appointment := storedAppointment(repo, models.AppointmentCancelled)

		require.NoError(t, uc.CancelAppointment(context.Background(), appointment.ID.Hex(), "patient-1", false))
		assert.Empty(t, notifier.events, "no second notification for an already cancelled record")
	})

	t.Run("unknown appointment", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		uc, _, _ := newTestAppointmentUsecase(repo)

		err := uc.CancelAppointment(context.Background(), primitive.NewObjectID().Hex(), "patient-1", false)
		require.Error(t, err)
	})
}

func TestCompleteAppointment(t *testing.T) {
	t.Run("provider completes a confirmed appointment", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		uc, _, _ := newTestAppointmentUsecase(repo)
		appointment := storedAppointment(repo, models.AppointmentConfirmed)

		require.NoError(t, uc.CompleteAppointment(context.Background(), appointment.ID.Hex(), appointment.ProviderID.Hex()))

		stored, _ := repo.FindByID(context.Background(), appointment.ID.Hex())
		assert.Equal(t, models.AppointmentCompleted, stored.Status)
	})

	t.Run("another provider cannot complete it", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		uc, _, _ := newTestAppointmentUsecase(repo)
		appointment := storedAppointment(repo, models.AppointmentConfirmed)

		err := uc.CompleteAppointment(context.Background(), appointment.ID.Hex(), primitive.NewObjectID().Hex())
		require.Error(t, err)
	})

	t.Run("pending appointments cannot be completed", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		uc, _, _ := newTestAppointmentUsecase(repo)
		appointment := storedAppointment(repo, models.AppointmentPendingPayment)

		err := uc.CompleteAppointment(context.Background(), appointment.ID.Hex(), appointment.ProviderID.Hex())
		require.Error(t, err)

		stored, _ := repo.FindByID(context.Background(), appointment.ID.Hex())
		assert.Equal(t, models.AppointmentPendingPayment, stored.Status)
	})
}

type fakeLocker struct {
	denied bool
}

func (f *fakeLocker) TryLock(context.Context, string, time.Duration) (bool, string, error) {
	return !f.denied, "lock-value", nil
}

func (f *fakeLocker) Unlock(context.Context, string, string) error { return nil }

func newTestSweeper(repo *fakeAppointmentRepository, sched *fakeScheduler, locker contracts.LockerService, notifier *fakeNotifier) *Sweeper {
	cfg := &config.InternalConfig{
		Booking: config.Booking{
			PendingPaymentTTLInMinutes: 30,
			SweepIntervalInSeconds:     60,
			SweepBatchSize:             100,
		},
	}
	return NewSweeper(zap.NewNop(), cfg, locker, repo, sched, notifier)
}

func TestSweeper(t *testing.T) {
	t.Run("releases expired pending records only", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		sched := &fakeScheduler{repo: repo}
		notifier := &fakeNotifier{}

		expired := storedAppointment(repo, models.AppointmentPendingPayment)
		expired.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
		fresh := storedAppointment(repo, models.AppointmentPendingPayment)
		fresh.CreatedAt = time.Now().UTC()
		confirmed := storedAppointment(repo, models.AppointmentConfirmed)
		confirmed.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)

		newTestSweeper(repo, sched, &fakeLocker{}, notifier).sweepOnce()

		cancelled, _ := repo.FindByID(context.Background(), expired.ID.Hex())
		assert.Equal(t, models.AppointmentCancelled, cancelled.Status)

		untouched, _ := repo.FindByID(context.Background(), fresh.ID.Hex())
		assert.Equal(t, models.AppointmentPendingPayment, untouched.Status)

		kept, _ := repo.FindByID(context.Background(), confirmed.ID.Hex())
		assert.Equal(t, models.AppointmentConfirmed, kept.Status)
	})

	t.Run("expiry cancellation publishes a cancelled event", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		sched := &fakeScheduler{repo: repo}
		notifier := &fakeNotifier{}

		expired := storedAppointment(repo, models.AppointmentPendingPayment)
		expired.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)

		newTestSweeper(repo, sched, &fakeLocker{}, notifier).sweepOnce()

		assert.Equal(t, []string{"appointment_cancelled"}, notifier.events)
	})

	t.Run("does nothing when another instance holds the lock", func(t *testing.T) {
		repo := newFakeAppointmentRepository()
		sched := &fakeScheduler{repo: repo}
		notifier := &fakeNotifier{}

		expired := storedAppointment(repo, models.AppointmentPendingPayment)
		expired.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)

		newTestSweeper(repo, sched, &fakeLocker{denied: true}, notifier).sweepOnce()

		untouched, _ := repo.FindByID(context.Background(), expired.ID.Hex())
		assert.Equal(t, models.AppointmentPendingPayment, untouched.Status)
		assert.Empty(t, sched.released)
		assert.Empty(t, notifier.events)
	})
}
