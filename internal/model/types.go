// Package model defines shared data structures.
package model

import "time"

// SessionState is the active phase of a scan session.
type SessionState int

const (
	Idle SessionState = iota
	Scanning
	Processing
	DataCollection
	Finalizing // second, shorter processing phase after the profile is submitted
	Results
	ResetCountdown
)

var stateNames = [...]string{
	Idle:           "idle",
	Scanning:       "scanning",
	Processing:     "processing",
	DataCollection: "data_collection",
	Finalizing:     "finalizing",
	Results:        "results",
	ResetCountdown: "reset_countdown",
}

func (s SessionState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// UserProfile is the free-text data collected mid-session. It is never validated.
type UserProfile struct {
	Name  string
	Age   string
	Words [3]string
}

// ScoreResult is the final verdict of a session.
type ScoreResult struct {
	Score   int
	Comment string
}

// Processing stat maxima.
const (
	MaxNodes         = 999999
	MaxConfidence    = 99
	MaxProcessingPct = 100
)

// ProcessingStats is the cosmetic counter panel shown while processing.
type ProcessingStats struct {
	Nodes         int
	Confidence    int
	ProcessingPct int
}

// Notification is a transient status line.
type Notification struct {
	ID        uint64
	Text      string
	CreatedAt time.Time
}

// Timings defines phase durations and notification limits.
type Timings struct {
	Scan             time.Duration
	Processing       time.Duration
	Finalizing       time.Duration
	CountdownTick    time.Duration
	CountdownFrom    int
	StatTick         time.Duration
	NotificationTTL  time.Duration
	MaxNotifications int
}

// DefaultTimings returns the fixed timings of the scanner.
func DefaultTimings() Timings {
	return Timings{
		Scan:             2000 * time.Millisecond,
		Processing:       3000 * time.Millisecond,
		Finalizing:       2000 * time.Millisecond,
		CountdownTick:    1000 * time.Millisecond,
		CountdownFrom:    5,
		StatTick:         100 * time.Millisecond,
		NotificationTTL:  3000 * time.Millisecond,
		MaxNotifications: 3,
	}
}

// WithDefaults returns t with every non-positive field replaced by its
// value from DefaultTimings.
func (t Timings) WithDefaults() Timings {
	d := DefaultTimings()
	orDuration := func(v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
		}
	}
	orCount := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	orDuration(&t.Scan, d.Scan)
	orDuration(&t.Processing, d.Processing)
	orDuration(&t.Finalizing, d.Finalizing)
	orDuration(&t.CountdownTick, d.CountdownTick)
	orCount(&t.CountdownFrom, d.CountdownFrom)
	orDuration(&t.StatTick, d.StatTick)
	orDuration(&t.NotificationTTL, d.NotificationTTL)
	orCount(&t.MaxNotifications, d.MaxNotifications)
	return t
}
