// Package availability проверяет свободность объявления на интервал дат.
// Интервалы полуоткрытые [checkIn, checkOut): день выезда свободен для следующего заезда.
package availability

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"staybnb/pkg/apperror"
)

// DateLayout формат дат в запросах и ответах
const DateLayout = "2006-01-02"

// DateRange интервал проживания [CheckIn, CheckOut)
type DateRange struct {
	CheckIn  time.Time `json:"checkInDate"`
	CheckOut time.Time `json:"checkOutDate"`
}

// NewDateRange приводит даты к полуночи UTC
func NewDateRange(checkIn, checkOut time.Time) DateRange {
	return DateRange{CheckIn: truncateDay(checkIn), CheckOut: truncateDay(checkOut)}
}

// ParseDateRange разбирает даты формата YYYY-MM-DD
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return DateRange{}, apperror.InvalidState("checkInDate must be in YYYY-MM-DD format")
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return DateRange{}, apperror.InvalidState("checkOutDate must be in YYYY-MM-DD format")
	}
	return NewDateRange(in, out), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate требует, чтобы выезд был строго позже заезда
func (r DateRange) Validate() error {
	if !r.CheckOut.After(r.CheckIn) {
		return apperror.InvalidState("Check-out date must be after check-in date")
	}
	return nil
}

// Nights количество ночей в интервале
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Contains true если день d попадает в [CheckIn, CheckOut)
func (r DateRange) Contains(d time.Time) bool {
	day := truncateDay(d)
	return !day.Before(r.CheckIn) && day.Before(r.CheckOut)
}

// Overlaps полуоткрытая проверка пересечения: касание границ не пересечение
func Overlaps(a, b DateRange) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

// IsAvailable true если candidate не пересекает ни одно существующее бронирование.
// existing должен содержать только неотмененные бронирования.
func IsAvailable(candidate DateRange, existing []DateRange) bool {
	for _, booked := range existing {
		if Overlaps(candidate, booked) {
			return false
		}
	}
	return true
}

// BookedRanges сортирует интервалы по дате заезда и склеивает пересекающиеся,
// результат не содержит пересечений
func BookedRanges(ranges []DateRange) []DateRange {
	if len(ranges) == 0 {
		return []DateRange{}
	}

	sorted := make([]DateRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CheckIn.Before(sorted[j].CheckIn)
	})

	merged := []DateRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if Overlaps(*last, r) {
			if r.CheckOut.After(last.CheckOut) {
				last.CheckOut = r.CheckOut
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// CheckFunc проверяет доступность одного кандидата
type CheckFunc[T any] func(ctx context.Context, candidate T) (bool, error)

// FilterAvailable проверяет кандидатов параллельно и оставляет доступных
// в исходном порядке релевантности. Ошибка любой ветки отменяет всю операцию.
func FilterAvailable[T any](ctx context.Context, candidates []T, check CheckFunc[T]) ([]T, error) {
	flags := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, candidate := range candidates {
		g.Go(func() error {
			ok, err := check(gctx, candidate)
			if err != nil {
				return err
			}
			flags[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	available := make([]T, 0, len(candidates))
	for i, candidate := range candidates {
		if flags[i] {
			available = append(available, candidate)
		}
	}
	return available, nil
}
