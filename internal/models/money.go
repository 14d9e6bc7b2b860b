package models

import "fmt"

// All monetary amounts on the platform are integer minor units (cents).
// Floating point never touches a price; display formatting happens only at
// the presentation edge via FormatCents.

// FormatCents renders a cent amount as a decimal string, e.g. 1450 -> "14.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
