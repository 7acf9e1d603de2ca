package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/avorotn/SBP-SchedulingService/internal/usecase/get_available_slots"
)

func TestToUseCaseRequest_ParsesDate(t *testing.T) {
	req, err := ToUseCaseRequest(1, 10, "2026-09-08", 60)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), req.Date)
	assert.Equal(t, int64(1), req.BusinessID)
	assert.Equal(t, int64(10), req.SpecialistID)
	assert.Equal(t, 60, req.DurationMinutes)
}

func TestToUseCaseRequest_RejectsMalformedDate(t *testing.T) {
	for _, dateStr := range []string{"08.09.2026", "2026/09/08", "2026-13-01", "tomorrow"} {
		t.Run(dateStr, func(t *testing.T) {
			_, err := ToUseCaseRequest(1, 10, dateStr, 0)
			assert.ErrorIs(t, err, getAvailableSlots.ErrInvalidDate)
		})
	}
}
