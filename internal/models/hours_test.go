package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCrossesMidnight(t *testing.T) {
	overnight := &RestaurantHours{OpenTime: "19:00:00", CloseTime: "02:00:00"}
	assert.True(t, overnight.CrossesMidnight())

	sameDay := &RestaurantHours{OpenTime: "09:00:00", CloseTime: "17:00:00"}
	assert.False(t, sameDay.CrossesMidnight())

	malformed := &RestaurantHours{OpenTime: "25:00:00", CloseTime: "02:00:00"}
	assert.False(t, malformed.CrossesMidnight())
}

func TestOverrideAppliesTo(t *testing.T) {
	override := &RestaurantOverride{Date: "2025-01-10"}

	assert.True(t, override.AppliesTo(time.Date(2025, 1, 10, 23, 0, 0, 0, time.UTC)))
	assert.False(t, override.AppliesTo(time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)))

	var absent *RestaurantOverride
	assert.False(t, absent.AppliesTo(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)))
}
