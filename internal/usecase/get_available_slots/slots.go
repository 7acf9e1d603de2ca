package get_available_slots

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

// generateCandidates генерирует сетку кандидатов на день
// Старты идут с фиксированным шагом domain.SlotStepMinutes от начала
// рабочего окна до (конец окна - длительность) включительно
// Для сегодняшней даты кандидаты не позже текущего момента отбрасываются
//
// Все вычисления выполняются в часовом поясе бизнеса: пересечение
// перехода на летнее время в серверном поясе давало бы слоты со сдвигом
func generateCandidates(
	window domain.DayWindow,
	date time.Time,
	durationMinutes int,
	now time.Time,
	loc *time.Location,
) ([]time.Time, error) {
	dayDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	windowStart, err := window.Start.OnDate(dayDate, loc)
	if err != nil {
		return nil, err
	}
	windowEnd, err := window.End.OnDate(dayDate, loc)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := domain.SlotStepMinutes * time.Minute

	lastStart := windowEnd.Add(-duration)

	candidates := make([]time.Time, 0)
	for cursor := windowStart; !cursor.After(lastStart); cursor = cursor.Add(step) {
		candidates = append(candidates, cursor)
	}

	// Для сегодняшней даты прошедшие старты недоступны
	if isSameDay(dayDate, now.In(loc)) {
		upcoming := make([]time.Time, 0, len(candidates))
		for _, c := range candidates {
			if c.After(now) {
				upcoming = append(upcoming, c)
			}
		}
		candidates = upcoming
	}

	return candidates, nil
}

// filterCandidates отбрасывает кандидатов, чей предполагаемый интервал
// пересекает блокировку или существующую запись специалиста
// Проверка пересечений делегируется domain.HasConflict: подбор слотов
// и фиксация записи обязаны сходиться в оценке занятости
func filterCandidates(
	candidates []time.Time,
	durationMinutes int,
	blocked []*domain.BlockedPeriod,
	appointments []*domain.Appointment,
) []domain.Slot {
	slots := make([]domain.Slot, 0, len(candidates))

	for _, start := range candidates {
		slot := domain.Slot{StartAt: start, DurationMinutes: durationMinutes}
		candidateRange := slot.Range()

		if intersectsBlocked(candidateRange, blocked) {
			continue
		}

		if domain.HasConflict(appointments, candidateRange, 0) {
			continue
		}

		slots = append(slots, slot)
	}

	return slots
}

// intersectsBlocked проверяет пересечение интервала с блокировками
// Блокировки вычитаются из доступности независимо от рабочих часов
func intersectsBlocked(candidate domain.TimeRange, blocked []*domain.BlockedPeriod) bool {
	for _, p := range blocked {
		r := p.Range()
		if !r.IsValid() {
			// Некорректно сохранённый период пропускаем
			continue
		}
		if candidate.Overlaps(r) {
			return true
		}
	}
	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
