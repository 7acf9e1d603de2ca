package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tr(startHour, endHour int) TimeRange {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return TimeRange{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestTimeRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeRange
		b    TimeRange
		want bool
	}{
		{"identical", tr(9, 10), tr(9, 10), true},
		{"partial overlap", tr(9, 11), tr(10, 12), true},
		{"contained", tr(9, 18), tr(12, 13), true},
		{"touching boundaries do not overlap", tr(9, 10), tr(10, 11), false},
		{"disjoint", tr(9, 10), tr(14, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeRange_Touches(t *testing.T) {
	assert.True(t, tr(9, 10).Touches(tr(10, 11)), "adjacent ranges touch")
	assert.True(t, tr(9, 11).Touches(tr(10, 12)), "overlapping ranges touch")
	assert.False(t, tr(9, 10).Touches(tr(11, 12)), "gap between ranges")
}

func TestTimeRange_Union(t *testing.T) {
	union := tr(9, 11).Union(tr(10, 14))
	assert.Equal(t, tr(9, 14), union)

	union = tr(12, 13).Union(tr(9, 18))
	assert.Equal(t, tr(9, 18), union, "contained range does not extend the union")
}

func TestTimeRange_IsValid(t *testing.T) {
	assert.True(t, tr(9, 10).IsValid())
	assert.False(t, tr(10, 9).IsValid())
	assert.False(t, tr(10, 10).IsValid(), "empty range is invalid")
}

func TestHasConflict(t *testing.T) {
	appointments := []*Appointment{
		{ID: 1, Status: StatusConfirmed, StartAt: tr(10, 11).Start, EndAt: tr(10, 11).End},
		{ID: 2, Status: StatusCancelled, StartAt: tr(14, 15).Start, EndAt: tr(14, 15).End},
	}

	t.Run("overlap with active appointment", func(t *testing.T) {
		assert.True(t, HasConflict(appointments, tr(10, 11), 0))
	})

	t.Run("cancelled appointment frees the slot", func(t *testing.T) {
		assert.False(t, HasConflict(appointments, tr(14, 15), 0))
	})

	t.Run("back-to-back is not a conflict", func(t *testing.T) {
		assert.False(t, HasConflict(appointments, tr(11, 12), 0))
	})

	t.Run("excludeID skips the appointment being moved", func(t *testing.T) {
		assert.False(t, HasConflict(appointments, tr(10, 11), 1))
	})

	t.Run("malformed stored range is ignored", func(t *testing.T) {
		broken := []*Appointment{
			{ID: 3, Status: StatusConfirmed, StartAt: tr(12, 11).Start, EndAt: tr(12, 11).End},
		}
		assert.False(t, HasConflict(broken, tr(10, 13), 0))
	})
}

func TestMergeBlockedPeriods(t *testing.T) {
	existing := []*BlockedPeriod{
		{ID: 1, StartAt: tr(9, 10).Start, EndAt: tr(9, 10).End},
		{ID: 2, StartAt: tr(12, 13).Start, EndAt: tr(12, 13).End},
		{ID: 3, StartAt: tr(16, 17).Start, EndAt: tr(16, 17).End},
	}

	t.Run("absorbs overlapping and adjacent periods", func(t *testing.T) {
		merged, absorbed := MergeBlockedPeriods(existing, tr(10, 12))
		assert.Equal(t, tr(9, 13), merged)
		assert.ElementsMatch(t, []int64{1, 2}, absorbed)
	})

	t.Run("disjoint period absorbs nothing", func(t *testing.T) {
		merged, absorbed := MergeBlockedPeriods(existing, tr(14, 15))
		assert.Equal(t, tr(14, 15), merged)
		assert.Empty(t, absorbed)
	})

	t.Run("swallows a contained period", func(t *testing.T) {
		merged, absorbed := MergeBlockedPeriods(existing, tr(8, 18))
		assert.Equal(t, tr(8, 18), merged)
		assert.ElementsMatch(t, []int64{1, 2, 3}, absorbed)
	})
}
