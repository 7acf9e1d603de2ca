package changesettings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	changeSettingsRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changesettings"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/internal/service/changesettings/models"
)

const (
	testBusinessID   = int64(1)
	testSpecialistID = int64(10)
	managerID        = int64(100)
	strangerID       = int64(300)
)

type fakeSettingsRepo struct {
	settings *domain.ClientChangeSettings
	saved    *domain.ClientChangeSettings
}

func (f *fakeSettingsRepo) GetWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.ClientChangeSettings, error) {
	if f.settings == nil {
		return nil, changeSettingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, settings *domain.ClientChangeSettings) (*domain.ClientChangeSettings, error) {
	saved := *settings
	saved.ID = 42
	saved.UpdatedAt = time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	f.saved = &saved
	return &saved, nil
}

type fakeBizClient struct {
	business *businessservice.Business
}

func (f *fakeBizClient) GetBusiness(_ context.Context, businessID int64) (*businessservice.Business, error) {
	if f.business == nil || f.business.ID != businessID {
		return nil, businessservice.ErrBusinessNotFound
	}
	return f.business, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeSettingsRepo) *Service {
	biz := &fakeBizClient{
		business: &businessservice.Business{
			ID:         testBusinessID,
			Name:       "test business",
			Timezone:   "UTC",
			ManagerIDs: []int64{managerID},
		},
	}
	return NewService(repo, biz, nopLogger{})
}

func TestGetSettings_DefaultsWhenNotConfigured(t *testing.T) {
	svc := newTestService(&fakeSettingsRepo{})

	resp, err := svc.GetSettings(context.Background(), testBusinessID, nil, managerID)
	require.NoError(t, err)

	assert.True(t, resp.IsDefault)
	assert.Nil(t, resp.UpdatedAt)
	assert.Equal(t, testBusinessID, resp.BusinessID)
	assert.True(t, resp.Enabled)
	assert.True(t, resp.AllowReschedule)
	assert.True(t, resp.AllowCancel)
	assert.Equal(t, 2, resp.MinHoursBefore)
	assert.True(t, resp.RequireMasterApproval)
}

func TestGetSettings_ReturnsStoredSettings(t *testing.T) {
	specialistID := testSpecialistID
	repo := &fakeSettingsRepo{
		settings: &domain.ClientChangeSettings{
			ID:                    7,
			BusinessID:            testBusinessID,
			SpecialistID:          &specialistID,
			Enabled:               true,
			AllowReschedule:       false,
			AllowCancel:           true,
			MinHoursBefore:        24,
			RequireMasterApproval: false,
			UpdatedAt:             time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	svc := newTestService(repo)

	resp, err := svc.GetSettings(context.Background(), testBusinessID, &specialistID, managerID)
	require.NoError(t, err)

	assert.False(t, resp.IsDefault)
	require.NotNil(t, resp.SpecialistID)
	assert.Equal(t, testSpecialistID, *resp.SpecialistID)
	assert.False(t, resp.AllowReschedule)
	assert.Equal(t, 24, resp.MinHoursBefore)
	require.NotNil(t, resp.UpdatedAt)
}

func TestGetSettings_AccessDenied(t *testing.T) {
	svc := newTestService(&fakeSettingsRepo{})

	_, err := svc.GetSettings(context.Background(), testBusinessID, nil, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetSettings_BusinessNotFound(t *testing.T) {
	svc := newTestService(&fakeSettingsRepo{})

	_, err := svc.GetSettings(context.Background(), 999, nil, managerID)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUpdateSettings_Saves(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := newTestService(repo)

	resp, err := svc.UpdateSettings(context.Background(), testBusinessID, &models.UpdateSettingsRequest{
		UserID:                managerID,
		Enabled:               true,
		AllowReschedule:       true,
		AllowCancel:           false,
		MinHoursBefore:        48,
		RequireMasterApproval: true,
	})
	require.NoError(t, err)

	assert.False(t, resp.IsDefault)
	assert.Equal(t, 48, resp.MinHoursBefore)
	assert.False(t, resp.AllowCancel)
	require.NotNil(t, repo.saved)
	assert.Equal(t, testBusinessID, repo.saved.BusinessID)
	assert.Nil(t, repo.saved.SpecialistID)
}

func TestUpdateSettings_SpecialistLevel(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := newTestService(repo)

	specialistID := testSpecialistID
	resp, err := svc.UpdateSettings(context.Background(), testBusinessID, &models.UpdateSettingsRequest{
		UserID:          managerID,
		SpecialistID:    &specialistID,
		Enabled:         true,
		AllowReschedule: true,
		AllowCancel:     true,
		MinHoursBefore:  4,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.SpecialistID)
	assert.Equal(t, testSpecialistID, *resp.SpecialistID)
	require.NotNil(t, repo.saved.SpecialistID)
}

func TestUpdateSettings_Validation(t *testing.T) {
	badSpecialistID := int64(-5)

	tests := []struct {
		name string
		req  *models.UpdateSettingsRequest
	}{
		{
			name: "negative minHoursBefore",
			req:  &models.UpdateSettingsRequest{UserID: managerID, MinHoursBefore: -1},
		},
		{
			name: "minHoursBefore over limit",
			req:  &models.UpdateSettingsRequest{UserID: managerID, MinHoursBefore: domain.MinHoursBeforeLimit + 1},
		},
		{
			name: "non-positive specialistId",
			req:  &models.UpdateSettingsRequest{UserID: managerID, SpecialistID: &badSpecialistID, MinHoursBefore: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeSettingsRepo{}
			svc := newTestService(repo)

			_, err := svc.UpdateSettings(context.Background(), testBusinessID, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, repo.saved)
		})
	}
}

func TestUpdateSettings_RequiresManager(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := newTestService(repo)

	_, err := svc.UpdateSettings(context.Background(), testBusinessID, &models.UpdateSettingsRequest{
		UserID:         strangerID,
		MinHoursBefore: 2,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.saved)
}
