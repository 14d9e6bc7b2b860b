package models

import "time"

// RestaurantHours is one weekly recurring slot. A restaurant may carry
// several rows per day for split service (lunch and dinner). A slot whose
// close time is not after its open time runs past midnight into the next
// calendar day.
type RestaurantHours struct {
	RestaurantID string `json:"restaurant_id"`
	DayOfWeek    int    `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	OpenTime     string `json:"open_time"`   // HH:MM:SS
	CloseTime    string `json:"close_time"`  // HH:MM:SS
	IsClosed     bool   `json:"is_closed"`
}

// RestaurantOverride replaces the recurring hours for a single calendar
// date. A closed override always wins. An override that is not closed but
// carries no times is inert for that date: evaluation falls through to the
// recurring hours rather than treating the day as open around the clock.
type RestaurantOverride struct {
	RestaurantID string  `json:"restaurant_id"`
	Date         string  `json:"date"` // YYYY-MM-DD
	IsClosed     bool    `json:"is_closed"`
	OpenTime     *string `json:"open_time,omitempty"`
	CloseTime    *string `json:"close_time,omitempty"`
}

// CrossesMidnight reports whether the slot spills into the next day.
func (h *RestaurantHours) CrossesMidnight() bool {
	open, err := ParseTimeOfDay(h.OpenTime)
	if err != nil {
		return false
	}
	close, err := ParseTimeOfDay(h.CloseTime)
	if err != nil {
		return false
	}
	return close <= open
}

// AppliesTo reports whether the override targets the given civil date.
func (o *RestaurantOverride) AppliesTo(date time.Time) bool {
	return o != nil && o.Date == date.Format("2006-01-02")
}
