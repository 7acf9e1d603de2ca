package submit_change_request

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
	changeSettingsRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changesettings"
	"github.com/avorotn/SBP-SchedulingService/internal/usecase/decide_change_request"
	"github.com/avorotn/SBP-SchedulingService/pkg/ptr"
)

type fakeRequestRepo struct {
	created     *domain.ChangeRequest
	pendingBusy bool
	nextID      int64
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *domain.ChangeRequest) (*domain.ChangeRequest, error) {
	if f.pendingBusy {
		return nil, changeRequestRepo.ErrPendingRequestExists
	}
	f.nextID++
	req.ID = f.nextID
	req.Status = domain.ChangeStatusPending
	req.CreatedAt = time.Now()
	f.created = req
	return req, nil
}

type fakeAppointmentRepo struct {
	appt *domain.Appointment
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.appt == nil || f.appt.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return f.appt, nil
}

type fakeSettingsRepo struct {
	settings *domain.ClientChangeSettings
}

func (f *fakeSettingsRepo) GetWithHierarchy(ctx context.Context, businessID int64, specialistID *int64) (*domain.ClientChangeSettings, error) {
	if f.settings == nil {
		return nil, changeSettingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeApprover struct {
	resp  *decide_change_request.Response
	err   error
	calls []*decide_change_request.Request
}

func (f *fakeApprover) Execute(ctx context.Context, req *decide_change_request.Request) (*decide_change_request.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.resp == nil {
		return &decide_change_request.Response{}, nil
	}
	return f.resp, nil
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
	apptStart      = time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	requestedStart = time.Date(2026, 9, 11, 15, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc        *UseCase
	requests  *fakeRequestRepo
	appts     *fakeAppointmentRepo
	settings  *fakeSettingsRepo
	approver  *fakeApprover
	publisher *capturingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		requests: &fakeRequestRepo{},
		appts: &fakeAppointmentRepo{
			appt: &domain.Appointment{
				ID:           1,
				BusinessID:   1,
				SpecialistID: 10,
				Status:       domain.StatusConfirmed,
				StartAt:      apptStart,
				EndAt:        apptStart.Add(time.Hour),
			},
		},
		settings:  &fakeSettingsRepo{},
		approver:  &fakeApprover{},
		publisher: &capturingPublisher{},
	}

	f.uc = NewUseCase(f.requests, f.appts, f.settings, f.approver, f.publisher, nopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func rescheduleRequest() *Request {
	start := requestedStart
	return &Request{
		AppointmentID:    1,
		Type:             domain.ChangeTypeReschedule,
		RequestedStartAt: &start,
	}
}

func TestExecute_RescheduleSubmitted(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), rescheduleRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ChangeStatusPending, resp.ChangeRequest.Status)
	assert.False(t, resp.AutoDecided)
	require.NotNil(t, resp.ChangeRequest.RequestedStartAt)
	assert.Equal(t, requestedStart, *resp.ChangeRequest.RequestedStartAt)
	// Длительность не указана: сохраняется длительность записи
	assert.Equal(t, requestedStart.Add(time.Hour), *resp.ChangeRequest.RequestedEndAt)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeChangeRequestSubmitted, f.publisher.published[0].Type)
	assert.Empty(t, f.approver.calls, "default settings require master approval")
}

func TestExecute_RescheduleWithExplicitDuration(t *testing.T) {
	f := newFixture()

	req := rescheduleRequest()
	req.DurationMinutes = 90

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, requestedStart.Add(90*time.Minute), *resp.ChangeRequest.RequestedEndAt)
}

func TestExecute_CancelSubmitted(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		Type:          domain.ChangeTypeCancel,
		ClientNote:    ptr.Ptr("не смогу прийти"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ChangeTypeCancel, resp.ChangeRequest.Type)
	assert.Nil(t, resp.ChangeRequest.RequestedStartAt)
}

func TestExecute_AutoApproval(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.ClientChangeSettings{
		BusinessID:            1,
		Enabled:               true,
		AllowReschedule:       true,
		AllowCancel:           true,
		MinHoursBefore:        2,
		RequireMasterApproval: false,
	}

	decidedAt := testNow
	f.approver.resp = &decide_change_request.Response{
		ChangeRequest: &domain.ChangeRequest{
			ID:        1,
			Status:    domain.ChangeStatusApproved,
			DecidedAt: &decidedAt,
		},
		Appointment: &domain.Appointment{
			ID:      1,
			StartAt: requestedStart,
			EndAt:   requestedStart.Add(time.Hour),
		},
	}

	resp, err := f.uc.Execute(context.Background(), rescheduleRequest())
	require.NoError(t, err)

	assert.True(t, resp.AutoDecided)
	assert.Equal(t, domain.ChangeStatusApproved, resp.ChangeRequest.Status)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, requestedStart, resp.Appointment.StartAt)

	require.Len(t, f.approver.calls, 1)
	assert.Equal(t, int64(0), f.approver.calls[0].ActorUserID, "auto-approval runs as system actor")
	assert.Equal(t, decide_change_request.DecisionApprove, f.approver.calls[0].Decision)
}

func TestExecute_AutoApprovalSlotTakenLeavesPending(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.ClientChangeSettings{
		BusinessID:            1,
		Enabled:               true,
		AllowReschedule:       true,
		AllowCancel:           true,
		MinHoursBefore:        2,
		RequireMasterApproval: false,
	}
	f.approver.err = decide_change_request.ErrSlotNoLongerAvailable

	resp, err := f.uc.Execute(context.Background(), rescheduleRequest())
	require.NoError(t, err, "submission succeeds even when auto-approval cannot apply")

	assert.False(t, resp.AutoDecided)
	assert.Equal(t, domain.ChangeStatusPending, resp.ChangeRequest.Status)
	assert.Nil(t, resp.Appointment)
}

func TestExecute_ChangesDisabled(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.ClientChangeSettings{
		BusinessID:      1,
		Enabled:         true,
		AllowReschedule: false,
		AllowCancel:     true,
		MinHoursBefore:  2,
	}

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrChangesDisabled)

	_, err = f.uc.Execute(context.Background(), &Request{AppointmentID: 1, Type: domain.ChangeTypeCancel})
	assert.NoError(t, err, "cancel stays allowed")
}

func TestExecute_TooLate(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.ClientChangeSettings{
		BusinessID:      1,
		Enabled:         true,
		AllowReschedule: true,
		AllowCancel:     true,
		MinHoursBefore:  96, // дедлайн уже прошёл
	}

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrTooLate)
}

func TestExecute_RequestAlreadyPending(t *testing.T) {
	f := newFixture()
	f.requests.pendingBusy = true

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrRequestAlreadyPending)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	f := newFixture()

	req := rescheduleRequest()
	req.AppointmentID = 404

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_DoneAppointmentNotChangeable(t *testing.T) {
	f := newFixture()
	f.appts.appt.Status = domain.StatusDone

	_, err := f.uc.Execute(context.Background(), rescheduleRequest())
	assert.ErrorIs(t, err, ErrAppointmentNotChangeable)
}

func TestExecute_RequestedStartInPast(t *testing.T) {
	f := newFixture()

	past := testNow.Add(-time.Hour)
	req := rescheduleRequest()
	req.RequestedStartAt = &past

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()

	t.Run("reschedule without requested start", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Type:          domain.ChangeTypeReschedule,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			Type:          domain.ChangeRequestType("swap"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duration not multiple of five", func(t *testing.T) {
		req := rescheduleRequest()
		req.DurationMinutes = 17
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
