package decide_change_request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	appointmentRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/appointment"
	changeRequestRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changerequest"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/pkg/ptr"
)

type fakeRequestRepo struct {
	requests map[int64]*domain.ChangeRequest
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int64) (*domain.ChangeRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, changeRequestRepo.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRequestRepo) Decide(ctx context.Context, id int64, status domain.ChangeRequestStatus, decisionNote *string) error {
	req, ok := f.requests[id]
	if !ok {
		return changeRequestRepo.ErrRequestNotFound
	}
	if req.Status != domain.ChangeStatusPending {
		return changeRequestRepo.ErrAlreadyDecided
	}
	req.Status = status
	req.DecisionNote = decisionNote
	now := time.Now()
	req.DecidedAt = &now
	return nil
}

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
	others       []*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeAppointmentRepo) GetBySpecialistForRange(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, appt := range f.appointments {
		result = append(result, appt)
	}
	result = append(result, f.others...)
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateTimes(ctx context.Context, id int64, startAt, endAt time.Time) error {
	appt := f.appointments[id]
	appt.StartAt = startAt
	appt.EndAt = endAt
	return nil
}

func (f *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	appt := f.appointments[id]
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	return nil
}

type fakeScheduleRepo struct {
	blocked []*domain.BlockedPeriod
}

func (f *fakeScheduleRepo) ListBlockedPeriods(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.BlockedPeriod, error) {
	return f.blocked, nil
}

type fakeBizClient struct {
	business *businessservice.Business
}

func (f *fakeBizClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	if f.business == nil {
		return nil, businessservice.ErrBusinessNotFound
	}
	return f.business, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var (
	testNow        = time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	currentStart   = time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)
	requestedStart = time.Date(2026, 9, 9, 14, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc        *UseCase
	requests  *fakeRequestRepo
	appts     *fakeAppointmentRepo
	schedules *fakeScheduleRepo
	publisher *capturingPublisher
}

// Pending-запрос на перенос записи id=1 на 2026-09-09 14:00
func newFixture() *fixture {
	requestedEnd := requestedStart.Add(time.Hour)

	f := &fixture{
		requests: &fakeRequestRepo{
			requests: map[int64]*domain.ChangeRequest{
				5: {
					ID:               5,
					AppointmentID:    1,
					Type:             domain.ChangeTypeReschedule,
					Status:           domain.ChangeStatusPending,
					RequestedStartAt: &requestedStart,
					RequestedEndAt:   &requestedEnd,
				},
			},
		},
		appts: &fakeAppointmentRepo{
			appointments: map[int64]*domain.Appointment{
				1: {
					ID:           1,
					BusinessID:   1,
					SpecialistID: 10,
					Status:       domain.StatusConfirmed,
					StartAt:      currentStart,
					EndAt:        currentStart.Add(time.Hour),
				},
			},
		},
		schedules: &fakeScheduleRepo{},
		publisher: &capturingPublisher{},
	}

	biz := &fakeBizClient{
		business: &businessservice.Business{ID: 1, Timezone: "UTC", ManagerIDs: []int64{100}},
	}

	f.uc = NewUseCase(f.requests, f.appts, f.schedules, biz, fakeTxManager{}, f.publisher, nopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func TestExecute_Reject(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		RequestID:    5,
		ActorUserID:  100,
		Decision:     DecisionReject,
		DecisionNote: ptr.Ptr("время не подходит"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ChangeStatusRejected, resp.ChangeRequest.Status)
	assert.NotNil(t, resp.ChangeRequest.DecidedAt)
	assert.Equal(t, currentStart, resp.Appointment.StartAt, "rejected reschedule leaves the appointment untouched")

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeChangeRequestDecided, f.publisher.published[0].Type)
}

func TestExecute_ApproveReschedule(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ChangeStatusApproved, resp.ChangeRequest.Status)
	assert.Equal(t, requestedStart, resp.Appointment.StartAt)
	assert.Equal(t, requestedStart.Add(time.Hour), resp.Appointment.EndAt)

	require.Len(t, f.publisher.published, 2)
	assert.Equal(t, events.TypeAppointmentRescheduled, f.publisher.published[0].Type)
	assert.Equal(t, events.TypeChangeRequestDecided, f.publisher.published[1].Type)
}

func TestExecute_ApproveReschedule_SlotTakenLeavesRequestPending(t *testing.T) {
	f := newFixture()
	f.appts.others = []*domain.Appointment{
		{
			ID:      99,
			Status:  domain.StatusConfirmed,
			StartAt: requestedStart,
			EndAt:   requestedStart.Add(time.Hour),
		},
	}

	_, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	require.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	// Запрос не решён, запись не сдвинута
	assert.Equal(t, domain.ChangeStatusPending, f.requests.requests[5].Status)
	assert.Equal(t, currentStart, f.appts.appointments[1].StartAt)
	assert.Empty(t, f.publisher.published)
}

func TestExecute_ApproveReschedule_BlockedSlot(t *testing.T) {
	f := newFixture()
	f.schedules.blocked = []*domain.BlockedPeriod{
		{ID: 1, StartAt: requestedStart.Add(30 * time.Minute), EndAt: requestedStart.Add(2 * time.Hour)},
	}

	_, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	require.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.Equal(t, domain.ChangeStatusPending, f.requests.requests[5].Status)
}

func TestExecute_ApproveReschedule_OwnSlotNotAConflict(t *testing.T) {
	// Перенос на интервал, пересекающий текущее время самой записи
	f := newFixture()
	overlapping := currentStart.Add(30 * time.Minute)
	overlappingEnd := overlapping.Add(time.Hour)
	f.requests.requests[5].RequestedStartAt = &overlapping
	f.requests.requests[5].RequestedEndAt = &overlappingEnd

	resp, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, overlapping, resp.Appointment.StartAt)
}

func TestExecute_ApproveCancel(t *testing.T) {
	f := newFixture()
	f.requests.requests[5].Type = domain.ChangeTypeCancel
	f.requests.requests[5].RequestedStartAt = nil
	f.requests.requests[5].RequestedEndAt = nil

	resp, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ChangeStatusApproved, resp.ChangeRequest.Status)
	assert.Equal(t, domain.StatusCancelled, resp.Appointment.Status)
	require.NotNil(t, resp.Appointment.CancellationReason)

	require.Len(t, f.publisher.published, 2)
	assert.Equal(t, events.TypeAppointmentCancelled, f.publisher.published[0].Type)
}

func TestExecute_AlreadyDecided(t *testing.T) {
	f := newFixture()
	f.requests.requests[5].Status = domain.ChangeStatusRejected

	_, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestExecute_RequestNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   404,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 777,
		Decision:    DecisionApprove,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.ChangeStatusPending, f.requests.requests[5].Status)
}

func TestExecute_SystemActorSkipsAccessCheck(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 0,
		Decision:    DecisionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeStatusApproved, resp.ChangeRequest.Status)
}

func TestExecute_RequestedSlotInPast(t *testing.T) {
	f := newFixture()
	past := testNow.Add(-time.Hour)
	pastEnd := past.Add(time.Hour)
	f.requests.requests[5].RequestedStartAt = &past
	f.requests.requests[5].RequestedEndAt = &pastEnd

	_, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	assert.Equal(t, domain.ChangeStatusPending, f.requests.requests[5].Status)
}

func TestExecute_CancelledAppointmentNotChangeable(t *testing.T) {
	f := newFixture()
	f.appts.appointments[1].Status = domain.StatusCancelled

	_, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    DecisionApprove,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotChangeable)
}

func TestExecute_InvalidDecision(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		RequestID:   5,
		ActorUserID: 100,
		Decision:    Decision("maybe"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
