package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	appointmentRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/appointment"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
	"github.com/avorotn/SBP-SchedulingService/pkg/ptr"
)

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeAppointmentRepo) GetByFilter(ctx context.Context, filter domain.SpecialistAppointmentsFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, appt := range f.appointments {
		if appt.SpecialistID == filter.SpecialistID {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) GetByClientID(ctx context.Context, clientID int64) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, appt := range f.appointments {
		if appt.ClientID != nil && *appt.ClientID == clientID {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	f.appointments[id].Status = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	appt := f.appointments[id]
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	return nil
}

type fakeScheduleRepo struct {
	sched *domain.SpecialistSchedule
}

func (f *fakeScheduleRepo) GetBySpecialist(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error) {
	return f.sched, nil
}

type fakeBizClient struct {
	business *businessservice.Business
}

func (f *fakeBizClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	return f.business, nil
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

const (
	managerID  = int64(100)
	clientID   = int64(200)
	strangerID = int64(300)
)

type fixture struct {
	svc       *Service
	appts     *fakeAppointmentRepo
	publisher *capturingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		appts: &fakeAppointmentRepo{
			appointments: map[int64]*domain.Appointment{
				1: {
					ID:           1,
					BusinessID:   1,
					SpecialistID: 10,
					ClientID:     ptr.Ptr(clientID),
					Status:       domain.StatusPending,
					StartAt:      time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC),
					EndAt:        time.Date(2026, 9, 8, 11, 0, 0, 0, time.UTC),
				},
			},
		},
		publisher: &capturingPublisher{},
	}

	schedules := &fakeScheduleRepo{
		sched: &domain.SpecialistSchedule{ID: 1, BusinessID: 1, SpecialistID: 10},
	}
	biz := &fakeBizClient{
		business: &businessservice.Business{ID: 1, Timezone: "UTC", ManagerIDs: []int64{managerID}},
	}

	f.svc = NewService(f.appts, schedules, biz, f.publisher, nopLogger{})
	return f
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture()

	t.Run("client sees own appointment", func(t *testing.T) {
		resp, err := f.svc.GetByID(context.Background(), 1, clientID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("manager sees the appointment", func(t *testing.T) {
		_, err := f.svc.GetByID(context.Background(), 1, managerID)
		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		_, err := f.svc.GetByID(context.Background(), 1, strangerID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing appointment", func(t *testing.T) {
		_, err := f.svc.GetByID(context.Background(), 404, clientID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    domain.AppointmentStatus
		to      string
		allowed bool
	}{
		{domain.StatusPending, "confirmed", true},
		{domain.StatusPending, "done", true},
		{domain.StatusConfirmed, "done", true},
		{domain.StatusConfirmed, "pending", false},
		{domain.StatusDone, "confirmed", false},
		{domain.StatusDone, "pending", false},
		{domain.StatusCancelled, "confirmed", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+tt.to, func(t *testing.T) {
			f := newFixture()
			f.appts.appointments[1].Status = tt.from

			resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
				UserID: managerID,
				Status: tt.to,
			})

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, resp.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestUpdateStatus_RequiresManager(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: clientID,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied, "clients cannot drive the status machine")
}

func TestUpdateStatus_PublishesEvent(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: managerID,
		Status: "confirmed",
	})
	require.NoError(t, err)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeAppointmentConfirmed, f.publisher.published[0].Type)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: managerID,
		Status: "paused",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancel(t *testing.T) {
	t.Run("client cancels own appointment", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
			UserID:             clientID,
			CancellationReason: "планы изменились",
		})
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		require.NotNil(t, resp.CancellationReason)
		assert.Equal(t, "планы изменились", *resp.CancellationReason)

		require.Len(t, f.publisher.published, 1)
		assert.Equal(t, events.TypeAppointmentCancelled, f.publisher.published[0].Type)
	})

	t.Run("done appointment cannot be cancelled", func(t *testing.T) {
		f := newFixture()
		f.appts.appointments[1].Status = domain.StatusDone

		_, err := f.svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
			UserID:             clientID,
			CancellationReason: "поздно",
		})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
			UserID:             strangerID,
			CancellationReason: "чужая запись",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestGetClientAppointments_StatusFilter(t *testing.T) {
	f := newFixture()
	f.appts.appointments[2] = &domain.Appointment{
		ID:           2,
		BusinessID:   1,
		SpecialistID: 10,
		ClientID:     ptr.Ptr(clientID),
		Status:       domain.StatusCancelled,
	}

	resp, err := f.svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		ClientID: clientID,
		Status:   ptr.Ptr("pending"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
}

func TestGetSpecialistAppointments_RequiresManager(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetSpecialistAppointments(context.Background(), &models.GetSpecialistAppointmentsRequest{
		UserID:       strangerID,
		SpecialistID: 10,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.GetSpecialistAppointments(context.Background(), &models.GetSpecialistAppointmentsRequest{
		UserID:       managerID,
		SpecialistID: 10,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
}
