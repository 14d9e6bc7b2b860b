package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time within a single day, stored as whole seconds
// since midnight. All schedule comparisons run on this integer form so no
// time zone or DST arithmetic leaks into slot matching.
type TimeOfDay int

const SecondsPerDay = 24 * 60 * 60

// ParseTimeOfDay parses an "HH:MM:SS" string. "HH:MM" is accepted and
// treated as zero seconds, since some admin exports drop the seconds field.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	var units [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
		units[i] = n
	}

	h, m, sec := units[0], units[1], units[2]
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}

	return TimeOfDay(h*3600 + m*60 + sec), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < SecondsPerDay
}
