package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/pkg/txmanager"
)

type fakeAppointmentRepo struct {
	existing []*domain.Appointment
	created  *domain.Appointment
	nextID   int64
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.nextID++
	appt.ID = f.nextID
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	f.created = appt
	f.existing = append(f.existing, appt)
	return appt, nil
}

func (f *fakeAppointmentRepo) GetBySpecialistForRange(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.Appointment, error) {
	return f.existing, nil
}

type fakeScheduleRepo struct {
	sched   *domain.SpecialistSchedule
	blocked []*domain.BlockedPeriod
}

func (f *fakeScheduleRepo) GetBySpecialist(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error) {
	return f.sched, nil
}

func (f *fakeScheduleRepo) ListBlockedPeriods(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.BlockedPeriod, error) {
	return f.blocked, nil
}

type fakeBizClient struct {
	business   *businessservice.Business
	specialist *businessservice.Specialist
}

func (f *fakeBizClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	if f.business == nil {
		return nil, businessservice.ErrBusinessNotFound
	}
	return f.business, nil
}

func (f *fakeBizClient) GetSpecialist(ctx context.Context, businessID, specialistID int64) (*businessservice.Specialist, error) {
	if f.specialist == nil {
		return nil, businessservice.ErrSpecialistNotFound
	}
	return f.specialist, nil
}

type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type fakeTokenIssuer struct {
	token string
	err   error
}

func (f *fakeTokenIssuer) Issue(appointmentID int64, now time.Time) (string, error) {
	return f.token, f.err
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

type fixture struct {
	uc        *UseCase
	appts     *fakeAppointmentRepo
	schedules *fakeScheduleRepo
	txMgr     *fakeTxManager
	publisher *capturingPublisher
	issuer    *fakeTokenIssuer
}

var testNow = time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		appts: &fakeAppointmentRepo{},
		schedules: &fakeScheduleRepo{
			sched: &domain.SpecialistSchedule{
				ID:           1,
				BusinessID:   1,
				SpecialistID: 10,
				Weekly:       domain.DefaultWeeklyHours(),
			},
		},
		txMgr:     &fakeTxManager{},
		publisher: &capturingPublisher{},
		issuer:    &fakeTokenIssuer{token: "manage-token"},
	}

	biz := &fakeBizClient{
		business:   &businessservice.Business{ID: 1, Timezone: "UTC"},
		specialist: &businessservice.Specialist{ID: 10, BusinessID: 1, IsActive: true},
	}

	f.uc = NewUseCase(f.appts, f.schedules, biz, f.txMgr, f.publisher, f.issuer, nopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

// Вторник 10:00, внутри окна 09:00-18:00
var validStart = time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)

func validRequest() *Request {
	return &Request{
		BusinessID:      1,
		SpecialistID:    10,
		StartAt:         validStart,
		DurationMinutes: 60,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Appointment.Status)
	assert.Equal(t, validStart, resp.Appointment.StartAt)
	assert.Equal(t, validStart.Add(time.Hour), resp.Appointment.EndAt)
	assert.Equal(t, "manage-token", resp.ManageToken)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeAppointmentBooked, f.publisher.published[0].Type)
	assert.Equal(t, resp.Appointment.ID, f.publisher.published[0].AppointmentID)
}

func TestExecute_AutoConfirm(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.AutoConfirm = true

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Appointment.Status)
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture()
	f.appts.existing = []*domain.Appointment{
		{
			ID:      99,
			Status:  domain.StatusConfirmed,
			StartAt: validStart.Add(30 * time.Minute),
			EndAt:   validStart.Add(90 * time.Minute),
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Nil(t, f.appts.created, "no appointment must be written")
	assert.Empty(t, f.publisher.published)
}

func TestExecute_BackToBackAllowed(t *testing.T) {
	f := newFixture()
	f.appts.existing = []*domain.Appointment{
		{
			ID:      99,
			Status:  domain.StatusConfirmed,
			StartAt: validStart.Add(-time.Hour),
			EndAt:   validStart,
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err, "appointment ending exactly at the new start must not conflict")
}

func TestExecute_SlotBlocked(t *testing.T) {
	f := newFixture()
	f.schedules.blocked = []*domain.BlockedPeriod{
		{
			ID:      1,
			StartAt: validStart.Add(30 * time.Minute),
			EndAt:   validStart.Add(2 * time.Hour),
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotBlocked)
	assert.Nil(t, f.appts.created)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	f := newFixture()

	t.Run("before window", func(t *testing.T) {
		req := validRequest()
		req.StartAt = time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC)
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})

	t.Run("end spills past window", func(t *testing.T) {
		req := validRequest()
		req.StartAt = time.Date(2026, 9, 8, 17, 30, 0, 0, time.UTC)
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})

	t.Run("day off", func(t *testing.T) {
		req := validRequest()
		req.StartAt = time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC) // суббота
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})
}

func TestExecute_StartInPast(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartAt = testNow.Add(-time.Hour)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_SerializationFailure(t *testing.T) {
	f := newFixture()
	f.txMgr.err = txmanager.ErrSerializationFailure

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrWriteConflict)
}

func TestExecute_TokenFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	f.issuer.err = assert.AnError
	f.issuer.token = ""

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotNil(t, resp.Appointment)
	assert.Empty(t, resp.ManageToken)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()

	t.Run("zero business", func(t *testing.T) {
		req := validRequest()
		req.BusinessID = 0
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duration not multiple of five", func(t *testing.T) {
		req := validRequest()
		req.DurationMinutes = 17
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("note too long", func(t *testing.T) {
		note := string(make([]byte, domain.MaxNoteLength+1))
		req := validRequest()
		req.ClientNote = &note
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
