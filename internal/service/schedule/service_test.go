package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	scheduleRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/schedule"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/internal/service/schedule/models"
)

type fakeScheduleRepo struct {
	sched   *domain.SpecialistSchedule
	periods map[int64]*domain.BlockedPeriod
	nextID  int64
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{periods: map[int64]*domain.BlockedPeriod{}}
}

func (f *fakeScheduleRepo) GetBySpecialist(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error) {
	if f.sched == nil {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return f.sched, nil
}

func (f *fakeScheduleRepo) Create(ctx context.Context, sched *domain.SpecialistSchedule) (*domain.SpecialistSchedule, error) {
	f.nextID++
	sched.ID = f.nextID
	sched.UpdatedAt = time.Now()
	f.sched = sched
	return sched, nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, sched *domain.SpecialistSchedule) error {
	f.sched = sched
	return nil
}

func (f *fakeScheduleRepo) ListBlockedPeriods(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.BlockedPeriod, error) {
	result := make([]*domain.BlockedPeriod, 0, len(f.periods))
	for _, p := range f.periods {
		result = append(result, p)
	}
	return result, nil
}

func (f *fakeScheduleRepo) CreateBlockedPeriod(ctx context.Context, period *domain.BlockedPeriod) (*domain.BlockedPeriod, error) {
	f.nextID++
	period.ID = f.nextID
	f.periods[period.ID] = period
	return period, nil
}

func (f *fakeScheduleRepo) DeleteBlockedPeriods(ctx context.Context, specialistID int64, ids []int64) error {
	for _, id := range ids {
		delete(f.periods, id)
	}
	return nil
}

func (f *fakeScheduleRepo) DeleteBlockedPeriod(ctx context.Context, specialistID, id int64) error {
	if _, ok := f.periods[id]; !ok {
		return scheduleRepo.ErrBlockedPeriodNotFound
	}
	delete(f.periods, id)
	return nil
}

type fakeBizClient struct {
	business *businessservice.Business
}

func (f *fakeBizClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	return f.business, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

const managerID = int64(100)

func newTestService(repo *fakeScheduleRepo) *Service {
	biz := &fakeBizClient{
		business: &businessservice.Business{ID: 1, Timezone: "UTC", ManagerIDs: []int64{managerID}},
	}
	return NewService(repo, biz, fakeTxManager{}, nopLogger{})
}

func configuredSchedule() *domain.SpecialistSchedule {
	return &domain.SpecialistSchedule{
		ID:           1,
		BusinessID:   1,
		SpecialistID: 10,
		Weekly:       domain.DefaultWeeklyHours(),
	}
}

func TestUpdateSchedule_CreatesWithDefaults(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)

	resp, err := svc.UpdateSchedule(context.Background(), 10, &models.UpdateScheduleRequest{
		UserID:     managerID,
		BusinessID: 1,
	})
	require.NoError(t, err)

	assert.True(t, resp.WeeklyHours.Monday.Enabled)
	assert.False(t, resp.WeeklyHours.Sunday.Enabled)
	assert.Equal(t, int64(1), resp.BusinessID)
}

func TestUpdateSchedule_RequiresBusinessOnFirstSave(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := newTestService(repo)

	_, err := svc.UpdateSchedule(context.Background(), 10, &models.UpdateScheduleRequest{
		UserID: managerID,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateSchedule_RejectsMalformedWindow(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.sched = configuredSchedule()
	svc := newTestService(repo)

	weekly := domain.DefaultWeeklyHours()
	weekly.Monday = domain.DayWindow{Enabled: true, Start: "18:00", End: "09:00"}

	_, err := svc.UpdateSchedule(context.Background(), 10, &models.UpdateScheduleRequest{
		UserID:      managerID,
		WeeklyHours: &weekly,
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestUpdateSchedule_RejectsBadOverrideDate(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.sched = configuredSchedule()
	svc := newTestService(repo)

	_, err := svc.UpdateSchedule(context.Background(), 10, &models.UpdateScheduleRequest{
		UserID: managerID,
		DateOverrides: map[string]domain.DayWindow{
			"07.09.2026": {Enabled: false},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidOverrideDate)
}

func TestUpdateSchedule_AccessDenied(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.sched = configuredSchedule()
	svc := newTestService(repo)

	_, err := svc.UpdateSchedule(context.Background(), 10, &models.UpdateScheduleRequest{
		UserID: 777,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func blockedAt(t *testing.T, repo *fakeScheduleRepo, startHour, endHour int) *domain.BlockedPeriod {
	t.Helper()
	day := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	period, err := repo.CreateBlockedPeriod(context.Background(), &domain.BlockedPeriod{
		SpecialistID: 10,
		StartAt:      day.Add(time.Duration(startHour) * time.Hour),
		EndAt:        day.Add(time.Duration(endHour) * time.Hour),
	})
	require.NoError(t, err)
	return period
}

func TestAddBlockedPeriod_MergesTouching(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.sched = configuredSchedule()
	blockedAt(t, repo, 9, 11)
	blockedAt(t, repo, 12, 14)
	svc := newTestService(repo)

	day := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	resp, err := svc.AddBlockedPeriod(context.Background(), 10, &models.AddBlockedPeriodRequest{
		UserID:  managerID,
		StartAt: day.Add(11 * time.Hour),
		EndAt:   day.Add(12 * time.Hour),
	})
	require.NoError(t, err)

	// Оба существующих периода граничат с новым и поглощаются им
	assert.Equal(t, 2, resp.AbsorbedCount)
	assert.Equal(t, day.Add(9*time.Hour).Format(time.RFC3339), resp.StartAt)
	assert.Equal(t, day.Add(14*time.Hour).Format(time.RFC3339), resp.EndAt)
	assert.Len(t, repo.periods, 1, "absorbed periods are gone from storage")
}

func TestAddBlockedPeriod_DisjointKept(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.sched = configuredSchedule()
	blockedAt(t, repo, 9, 10)
	svc := newTestService(repo)

	day := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	resp, err := svc.AddBlockedPeriod(context.Background(), 10, &models.AddBlockedPeriodRequest{
		UserID:  managerID,
		StartAt: day.Add(15 * time.Hour),
		EndAt:   day.Add(16 * time.Hour),
	})
	require.NoError(t, err)

	assert.Zero(t, resp.AbsorbedCount)
	assert.Len(t, repo.periods, 2)
}

func TestAddBlockedPeriod_InvalidRange(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.sched = configuredSchedule()
	svc := newTestService(repo)

	day := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	_, err := svc.AddBlockedPeriod(context.Background(), 10, &models.AddBlockedPeriodRequest{
		UserID:  managerID,
		StartAt: day.Add(16 * time.Hour),
		EndAt:   day.Add(15 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestRemoveBlockedPeriod(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.sched = configuredSchedule()
	period := blockedAt(t, repo, 9, 10)
	svc := newTestService(repo)

	require.NoError(t, svc.RemoveBlockedPeriod(context.Background(), 10, period.ID, managerID))
	assert.Empty(t, repo.periods)

	err := svc.RemoveBlockedPeriod(context.Background(), 10, period.ID, managerID)
	assert.ErrorIs(t, err, ErrBlockedPeriodNotFound)
}
