package availability

import (
	"time"

	"github.com/bitebank/ordercore/internal/models"
)

// Evaluator decides whether a restaurant is open at a given instant, from
// its weekly recurring slots and an optional per-date override. Evaluation
// is pure: the evaluator holds only the operator's civil timezone.
type Evaluator struct {
	location *time.Location
}

func NewEvaluator(location *time.Location) *Evaluator {
	if location == nil {
		location = time.UTC
	}
	return &Evaluator{location: location}
}

// IsOpenAt reports whether a restaurant with the given recurring hours and
// optional override is open at the instant now.
//
// A closed override for today always wins. An override with explicit times
// replaces the recurring hours entirely for the date. An override that is
// neither closed nor timed is inert and evaluation falls through to the
// recurring schedule, never read as "open all day".
//
// Recurring slots are matched for today, then yesterday's midnight-crossing
// slots are checked: a Friday 19:00-02:00 slot keeps the restaurant open at
// Saturday 01:30.
func (e *Evaluator) IsOpenAt(hours []models.RestaurantHours, override *models.RestaurantOverride, now time.Time) bool {
	local := now.In(e.location)
	day := int(local.Weekday())
	current := models.TimeOfDay(local.Hour()*3600 + local.Minute()*60 + local.Second())

	if override.AppliesTo(local) {
		if override.IsClosed {
			return false
		}
		if override.OpenTime != nil && override.CloseTime != nil {
			open, err := models.ParseTimeOfDay(*override.OpenTime)
			if err != nil {
				return false
			}
			close, err := models.ParseTimeOfDay(*override.CloseTime)
			if err != nil {
				return false
			}
			return TimeInSlot(current, open, close)
		}
		// Inert override: fall through to the recurring schedule.
	}

	yesterday := (day + 6) % 7
	for i := range hours {
		slot := &hours[i]
		if slot.IsClosed {
			continue
		}
		open, err := models.ParseTimeOfDay(slot.OpenTime)
		if err != nil {
			continue
		}
		close, err := models.ParseTimeOfDay(slot.CloseTime)
		if err != nil {
			continue
		}
		switch slot.DayOfWeek {
		case day:
			if TimeInSlot(current, open, close) {
				return true
			}
		case yesterday:
			// Still inside yesterday's overnight slot.
			if close <= open && current < close {
				return true
			}
		}
	}
	return false
}

// TimeInSlot reports whether t falls inside the slot [open, close). A slot
// whose close is not after its open wraps around midnight: it matches from
// open to end of day and from start of day up to close.
func TimeInSlot(t, open, close models.TimeOfDay) bool {
	if close > open {
		return open <= t && t < close
	}
	return t >= open || t < close
}
