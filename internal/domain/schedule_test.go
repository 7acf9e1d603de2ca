package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avorotn/SBP-SchedulingService/pkg/types"
)

func TestWindowForDate(t *testing.T) {
	sched := &SpecialistSchedule{
		Weekly: DefaultWeeklyHours(),
		DateOverrides: map[string]DayWindow{
			"2026-09-07": {Enabled: false},                                                              // понедельник сделан выходным
			"2026-09-06": {Enabled: true, Start: types.TimeString("10:00"), End: types.TimeString("14:00")}, // воскресенье открыто
		},
	}

	t.Run("weekday default", func(t *testing.T) {
		tuesday := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
		window := sched.WindowForDate(tuesday)
		assert.True(t, window.Enabled)
		assert.Equal(t, DefaultWorkdayStart, window.Start)
		assert.Equal(t, DefaultWorkdayEnd, window.End)
	})

	t.Run("override turns working day off", func(t *testing.T) {
		monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
		assert.False(t, sched.WindowForDate(monday).Enabled)
	})

	t.Run("override opens an off day", func(t *testing.T) {
		sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
		window := sched.WindowForDate(sunday)
		assert.True(t, window.Enabled)
		assert.Equal(t, types.TimeString("10:00"), window.Start)
	})

	t.Run("weekend off by default", func(t *testing.T) {
		saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
		assert.False(t, sched.WindowForDate(saturday).Enabled)
	})
}

func TestDayWindow_IsValid(t *testing.T) {
	assert.True(t, DayWindow{Enabled: false}.IsValid(), "disabled window ignores times")
	assert.True(t, DayWindow{Enabled: true, Start: "09:00", End: "18:00"}.IsValid())
	assert.True(t, DayWindow{Enabled: true, Start: "00:00", End: "24:00"}.IsValid())
	assert.False(t, DayWindow{Enabled: true, Start: "18:00", End: "09:00"}.IsValid())
	assert.False(t, DayWindow{Enabled: true, Start: "9am", End: "18:00"}.IsValid())
	assert.False(t, DayWindow{Enabled: true}.IsValid(), "enabled window requires times")
}

func TestSpecialistSchedule_IsConfigured(t *testing.T) {
	assert.False(t, (&SpecialistSchedule{}).IsConfigured())
	assert.True(t, (&SpecialistSchedule{Weekly: DefaultWeeklyHours()}).IsConfigured())

	onlyOverrides := &SpecialistSchedule{
		DateOverrides: map[string]DayWindow{
			"2026-09-06": {Enabled: true, Start: "10:00", End: "14:00"},
		},
	}
	assert.True(t, onlyOverrides.IsConfigured())
}

func TestDefaultWeeklyHours(t *testing.T) {
	weekly := DefaultWeeklyHours()
	assert.True(t, weekly.Monday.Enabled)
	assert.True(t, weekly.Friday.Enabled)
	assert.False(t, weekly.Saturday.Enabled)
	assert.False(t, weekly.Sunday.Enabled)
	assert.False(t, weekly.IsEmpty())
}

func TestClientChangeSettings_AllowsType(t *testing.T) {
	settings := DefaultClientChangeSettings(1)
	assert.True(t, settings.AllowsType(ChangeTypeReschedule))
	assert.True(t, settings.AllowsType(ChangeTypeCancel))

	settings.AllowReschedule = false
	assert.False(t, settings.AllowsType(ChangeTypeReschedule))
	assert.True(t, settings.AllowsType(ChangeTypeCancel))

	settings.Enabled = false
	assert.False(t, settings.AllowsType(ChangeTypeCancel), "disabled settings block everything")
}
