package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimingsWithDefaultsFillsEachField(t *testing.T) {
	got := Timings{Scan: time.Second, StatTick: -time.Millisecond, MaxNotifications: 5}.WithDefaults()

	want := DefaultTimings()
	want.Scan = time.Second
	want.MaxNotifications = 5
	assert.Equal(t, want, got)
}

func TestTimingsWithDefaultsZeroValue(t *testing.T) {
	assert.Equal(t, DefaultTimings(), Timings{}.WithDefaults())
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "data_collection", DataCollection.String())
	assert.Equal(t, "reset_countdown", ResetCountdown.String())
}
