package scheduler

import (
	"context"
	"errors"
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

type fakeProviderRepository struct {
	mu        sync.Mutex
	providers map[string]*models.Provider
}

func newFakeProviderRepository() *fakeProviderRepository {
	return &fakeProviderRepository{providers: make(map[string]*models.Provider)}
}

func (f *fakeProviderRepository) add(provider *models.Provider) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if provider.ID.IsZero() {
		provider.ID = primitive.NewObjectID()
	}
	if provider.SlotsBooked == nil {
		provider.SlotsBooked = make(map[string][]string)
	}
	f.providers[provider.ID.Hex()] = provider
	return provider.ID.Hex()
}

func (f *fakeProviderRepository) Create(_ context.Context, provider *models.Provider) (string, error) {
	return f.add(provider), nil
}

func (f *fakeProviderRepository) FindByID(_ context.Context, providerID string) (*models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	provider, ok := f.providers[providerID]
	if !ok {
		return nil, nil
	}
	copied := *provider
	copied.SlotsBooked = make(map[string][]string, len(provider.SlotsBooked))
	for k, v := range provider.SlotsBooked {
		copied.SlotsBooked[k] = append([]string(nil), v...)
	}
	return &copied, nil
}

func (f *fakeProviderRepository) FindAll(_ context.Context, onlyAvailable bool) ([]models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Provider
	for _, p := range f.providers {
		if onlyAvailable && !p.Available {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProviderRepository) SetAvailability(_ context.Context, providerID string, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	provider, ok := f.providers[providerID]
	if !ok {
		return exceptions.ErrProviderNotFound(nil)
	}
	provider.Available = available
	return nil
}

func (f *fakeProviderRepository) SetImageURL(_ context.Context, providerID, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	provider, ok := f.providers[providerID]
	if !ok {
		return exceptions.ErrProviderNotFound(nil)
	}
	provider.ImageURL = imageURL
	return nil
}

func (f *fakeProviderRepository) TryReserveSlot(_ context.Context, providerID, dateKey, timeLabel string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	provider, ok := f.providers[providerID]
	if !ok || !provider.Available {
		return false, nil
	}
	for _, label := range provider.SlotsBooked[dateKey] {
		if label == timeLabel {
			return false, nil
		}
	}
	provider.SlotsBooked[dateKey] = append(provider.SlotsBooked[dateKey], timeLabel)
	return true, nil
}

func (f *fakeProviderRepository) ReleaseSlot(_ context.Context, providerID, dateKey, timeLabel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	provider, ok := f.providers[providerID]
	if !ok {
		return nil
	}
	labels := provider.SlotsBooked[dateKey]
	for i, label := range labels {
		if label == timeLabel {
			provider.SlotsBooked[dateKey] = append(labels[:i], labels[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeAppointmentRepository struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment
	createErr    error
}

func newFakeAppointmentRepository() *fakeAppointmentRepository {
	return &fakeAppointmentRepository{appointments: make(map[string]*models.Appointment)}
}

func (f *fakeAppointmentRepository) Create(_ context.Context, appointment *models.Appointment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	appointment.ID = primitive.NewObjectID()
	appointment.CreatedAt = time.Now().UTC()
	appointment.UpdatedAt = appointment.CreatedAt
	f.appointments[appointment.ID.Hex()] = appointment
	return appointment.ID.Hex(), nil
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
		if a.PatientID != patientID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAppointmentRepository) FindByProvider(_ context.Context, providerID string, status models.AppointmentStatus) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.ProviderID.Hex() != providerID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
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
	matched := false
	for _, status := range from {
		if appointment.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	appointment.Status = to
	if payment != "" {
		appointment.PaymentStatus = payment
	}
	if gatewayRef != "" {
		appointment.GatewayRef = gatewayRef
	}
	appointment.UpdatedAt = time.Now().UTC()
	return true, nil
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
		if a.Status == models.AppointmentPendingPayment && a.CreatedAt.Before(olderThan) {
			out = append(out, *a)
		}
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func testBookingConfig() *config.InternalConfig {
	return &config.InternalConfig{
		Booking: config.Booking{
			WindowDays:   7,
			SlotMinutes:  30,
			DayStartHour: 10,
			DayEndHour:   21,
		},
	}
}

func newTestScheduler(providerRepo contracts.ProviderRepository, appointmentRepo contracts.AppointmentRepository, now time.Time) *schedulerUsecase {
	uc := newSchedulerUsecase(providerRepo, appointmentRepo, testBookingConfig(), zap.NewNop())
	uc.nowFn = func() time.Time { return now }
	return uc
}

func TestListAvailableSlots(t *testing.T) {
	providerRepo := newFakeProviderRepository()
	appointmentRepo := newFakeAppointmentRepository()
	now := time.Date(2025, 6, 5, 14, 20, 0, 0, time.UTC)
	uc := newTestScheduler(providerRepo, appointmentRepo, now)

	providerID := providerRepo.add(&models.Provider{Name: "Dr. Salma", Available: true, Fee: 300})

	t.Run("returns seven days starting today", func(t *testing.T) {
		days, err := uc.ListAvailableSlots(context.Background(), providerID, 0)
		require.NoError(t, err)

		require.Len(t, days, 7)
		assert.Equal(t, "5_6_2025", days[0].DateKey)
		assert.Equal(t, "11_6_2025", days[6].DateKey)
		// today is clipped to slots from 14:30 on
		assert.Equal(t, "14:30", days[0].Labels[0])
		// later days carry the full window
		assert.Len(t, days[1].Labels, 22)
	})

	t.Run("excludes reserved labels", func(t *testing.T) {
		reserved, err := providerRepo.TryReserveSlot(context.Background(), providerID, "6_6_2025", "10:00")
		require.NoError(t, err)
		require.True(t, reserved)

		days, err := uc.ListAvailableSlots(context.Background(), providerID, 0)
		require.NoError(t, err)

		assert.NotContains(t, days[1].Labels, "10:00")
		assert.Contains(t, days[1].Labels, "10:30")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := uc.ListAvailableSlots(context.Background(), primitive.NewObjectID().Hex(), 0)
		assertCustomErrorIs(t, err, exceptions.ErrProviderNotFound(nil))
	})

	t.Run("unavailable provider", func(t *testing.T) {
		hiddenID := providerRepo.add(&models.Provider{Name: "Dr. Hidden", Available: false})
		_, err := uc.ListAvailableSlots(context.Background(), hiddenID, 0)
		assertCustomErrorIs(t, err, exceptions.ErrProviderUnavailable(nil))
	})
}

func TestReserveSlot(t *testing.T) {
	now := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)

	t.Run("creates a pending appointment", func(t *testing.T) {
		providerRepo := newFakeProviderRepository()
		appointmentRepo := newFakeAppointmentRepository()
		uc := newTestScheduler(providerRepo, appointmentRepo, now)
		providerID := providerRepo.add(&models.Provider{Name: "Dr. Salma", Available: true, Fee: 300})

		appointmentID, err := uc.ReserveSlot(context.Background(), providerID, "6_6_2025", "10:00", "patient-1")
		require.NoError(t, err)

		appointment, err := appointmentRepo.FindByID(context.Background(), appointmentID)
		require.NoError(t, err)
		require.NotNil(t, appointment)
		assert.Equal(t, models.AppointmentPendingPayment, appointment.Status)
		assert.Equal(t, models.PaymentNotPaid, appointment.PaymentStatus)
		assert.Equal(t, 300.0, appointment.Amount)
		assert.Equal(t, "patient-1", appointment.PatientID)
	})

	t.Run("second reservation of the same slot conflicts", func(t *testing.T) {
		providerRepo := newFakeProviderRepository()
		appointmentRepo := newFakeAppointmentRepository()
		uc := newTestScheduler(providerRepo, appointmentRepo, now)
		providerID := providerRepo.add(&models.Provider{Available: true})

		_, err := uc.ReserveSlot(context.Background(), providerID, "6_6_2025", "10:00", "patient-1")
		require.NoError(t, err)

		_, err = uc.ReserveSlot(context.Background(), providerID, "6_6_2025", "10:00", "patient-2")
		assertCustomErrorIs(t, err, exceptions.ErrSlotConflict(nil))
	})

	t.Run("label outside the grid is rejected", func(t *testing.T) {
		providerRepo := newFakeProviderRepository()
		appointmentRepo := newFakeAppointmentRepository()
		uc := newTestScheduler(providerRepo, appointmentRepo, now)
		providerID := providerRepo.add(&models.Provider{Available: true})

		for _, tc := range []struct{ dateKey, timeLabel string }{
			{"6_6_2025", "09:30"},  // before opening
			{"6_6_2025", "21:00"},  // at closing
			{"6_6_2025", "10:15"},  // off the half-hour grid
			{"20_6_2025", "10:00"}, // beyond the window
			{"4_6_2025", "10:00"},  // in the past
			{"bogus", "10:00"},
		} {
			_, err := uc.ReserveSlot(context.Background(), providerID, tc.dateKey, tc.timeLabel, "patient-1")
			assertCustomErrorIs(t, err, exceptions.ErrSlotOutsideWindow(nil))
		}
	})

	t.Run("record insert failure releases the slot", func(t *testing.T) {
		providerRepo := newFakeProviderRepository()
		appointmentRepo := newFakeAppointmentRepository()
		appointmentRepo.createErr = errors.New("insert failed")
		uc := newTestScheduler(providerRepo, appointmentRepo, now)
		providerID := providerRepo.add(&models.Provider{Available: true})

		_, err := uc.ReserveSlot(context.Background(), providerID, "6_6_2025", "10:00", "patient-1")
		require.Error(t, err)

		// the compensation must have returned the label
		reserved, err := providerRepo.TryReserveSlot(context.Background(), providerID, "6_6_2025", "10:00")
		require.NoError(t, err)
		assert.True(t, reserved)
	})

	t.Run("concurrent reservations admit exactly one winner", func(t *testing.T) {
		providerRepo := newFakeProviderRepository()
		appointmentRepo := newFakeAppointmentRepository()
		uc := newTestScheduler(providerRepo, appointmentRepo, now)
		providerID := providerRepo.add(&models.Provider{Available: true})

		const callers = 32
		var wg sync.WaitGroup
		results := make(chan error, callers)

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.ReserveSlot(context.Background(), providerID, "6_6_2025", "15:00", "patient-race")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var wins, conflicts int
		for err := range results {
			if err == nil {
				wins++
				continue
			}
			assertCustomErrorIs(t, err, exceptions.ErrSlotConflict(nil))
			conflicts++
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, callers-1, conflicts)

		provider, err := providerRepo.FindByID(context.Background(), providerID)
		require.NoError(t, err)
		count := 0
		for _, label := range provider.SlotsBooked["6_6_2025"] {
			if label == "15:00" {
				count++
			}
		}
		assert.Equal(t, 1, count, "the label must appear exactly once in the ledger")
	})
}

func TestReleaseSlot(t *testing.T) {
	now := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*fakeProviderRepository, *fakeAppointmentRepository, *schedulerUsecase, string, string) {
		providerRepo := newFakeProviderRepository()
		appointmentRepo := newFakeAppointmentRepository()
		uc := newTestScheduler(providerRepo, appointmentRepo, now)
		providerID := providerRepo.add(&models.Provider{Available: true})

		appointmentID, err := uc.ReserveSlot(context.Background(), providerID, "6_6_2025", "11:00", "patient-1")
		require.NoError(t, err)
		return providerRepo, appointmentRepo, uc, providerID, appointmentID
	}

	t.Run("cancels and frees the slot", func(t *testing.T) {
		providerRepo, appointmentRepo, uc, providerID, appointmentID := setup(t)

		require.NoError(t, uc.ReleaseSlot(context.Background(), appointmentID))

		appointment, _ := appointmentRepo.FindByID(context.Background(), appointmentID)
		assert.Equal(t, models.AppointmentCancelled, appointment.Status)

		provider, _ := providerRepo.FindByID(context.Background(), providerID)
		assert.False(t, provider.IsSlotBooked("6_6_2025", "11:00"))
	})

	t.Run("releasing twice is a no-op", func(t *testing.T) {
		_, _, uc, _, appointmentID := setup(t)

		require.NoError(t, uc.ReleaseSlot(context.Background(), appointmentID))
		require.NoError(t, uc.ReleaseSlot(context.Background(), appointmentID))
	})

	t.Run("completed appointments cannot be released", func(t *testing.T) {
		_, appointmentRepo, uc, _, appointmentID := setup(t)

		_, err := appointmentRepo.TransitionStatus(context.Background(), appointmentID,
			[]models.AppointmentStatus{models.AppointmentPendingPayment}, models.AppointmentCompleted, "", "")
		require.NoError(t, err)

		err = uc.ReleaseSlot(context.Background(), appointmentID)
		assertCustomErrorIs(t, err, exceptions.ErrInvalidTransition(nil))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		_, _, uc, _, _ := setup(t)

		err := uc.ReleaseSlot(context.Background(), primitive.NewObjectID().Hex())
		assertCustomErrorIs(t, err, exceptions.ErrAppointmentNotFound(nil))
	})
}

func assertCustomErrorIs(t *testing.T, err error, want *exceptions.CustomError) {
	t.Helper()
	require.Error(t, err)
	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, want.StatusCode, customErr.StatusCode)
	assert.Equal(t, want.ClientMessage, customErr.ClientMessage)
}
