package domain

import "time"

// BlockedPeriod is an absolute time range in which a specialist is
// unavailable regardless of weekly hours or overrides (vacation, sick leave)
type BlockedPeriod struct {
	ID           int64
	SpecialistID int64
	StartAt      time.Time
	EndAt        time.Time
	Reason       *string

	CreatedAt time.Time
}

// Range returns the blocked time range
func (b *BlockedPeriod) Range() TimeRange {
	return TimeRange{Start: b.StartAt, End: b.EndAt}
}

// MergeBlockedPeriods сворачивает новый период с существующими:
// все периоды, которые пересекаются или граничат с новым, поглощаются
// одним общим. Возвращает итоговый период и список поглощённых ID.
// Инвариант хранилища: у специалиста нет двух пересекающихся периодов.
func MergeBlockedPeriods(existing []*BlockedPeriod, incoming TimeRange) (TimeRange, []int64) {
	merged := incoming
	var absorbed []int64

	for _, p := range existing {
		if merged.Touches(p.Range()) {
			merged = merged.Union(p.Range())
			absorbed = append(absorbed, p.ID)
		}
	}

	return merged, absorbed
}
