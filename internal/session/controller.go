// Package session implements the scan session state machine.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/facescan/internal/device"
	"github.com/verte-zerg/facescan/internal/model"
	"github.com/verte-zerg/facescan/internal/notify"
	"github.com/verte-zerg/facescan/internal/scoring"
	"github.com/verte-zerg/facescan/internal/timeline"
)

// Notification texts.
const (
	MsgScanStart       = "INITIATING FACIAL SCAN..."
	MsgAnalyzing       = "ANALYZING FACIAL DATA..."
	MsgDataRequired    = "DATA COLLECTION REQUIRED"
	MsgDataReceived    = "DATA RECEIVED"
	MsgProcessing      = "PROCESSING USER PROFILE..."
	MsgComplete        = "ANALYSIS COMPLETE"
	MsgResetStart      = "SYSTEM RESET INITIATED"
	MsgReady           = "READY FOR NEXT SCAN"
	MsgCameraReady     = "CAMERA INITIALIZED"
	MsgNetworkReady    = "NEURAL NETWORK READY"
	MsgCameraDenied    = "ERROR: CAMERA ACCESS DENIED"
	MsgCameraPermsHint = "PLEASE ENABLE CAMERA PERMISSIONS"
)

type trigger int

const (
	triggerStart trigger = iota
	triggerTimer
	triggerSubmit
	triggerReset
)

func (t trigger) String() string {
	switch t {
	case triggerStart:
		return "start"
	case triggerTimer:
		return "timer"
	case triggerSubmit:
		return "submit"
	case triggerReset:
		return "reset"
	default:
		return "unknown"
	}
}

type transitionKey struct {
	from model.SessionState
	on   trigger
}

// Every valid transition. Anything else is ignored.
var transitions = map[transitionKey]model.SessionState{
	{model.Idle, triggerStart}:            model.Scanning,
	{model.Scanning, triggerTimer}:        model.Processing,
	{model.Processing, triggerTimer}:      model.DataCollection,
	{model.DataCollection, triggerSubmit}: model.Finalizing,
	{model.Finalizing, triggerTimer}:      model.Results,
	{model.Results, triggerReset}:         model.ResetCountdown,
	{model.ResetCountdown, triggerTimer}:  model.Idle,
}

// Scheduler schedules callbacks on the controller's single timeline.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) *timeline.Task
}

// Options configures a Controller. Zero fields take defaults, including
// each zero field of Timings.
type Options struct {
	Timings   model.Timings
	Generator *scoring.Generator
	Video     device.VideoSource
	Effect    device.ScanEffect
	Logger    *zerolog.Logger
}

// Controller owns the session state, phase timers, random draws and the
// notification log. It is not safe for concurrent use: every method and
// every scheduled callback must run on the same goroutine.
type Controller struct {
	sched   Scheduler
	timings model.Timings
	gen     *scoring.Generator
	video   device.VideoSource
	effect  device.ScanEffect
	logger  zerolog.Logger
	notes   *notify.Log

	state      model.SessionState
	phaseTimer *timeline.Task
	ticker     *timeline.Task
	stats      model.ProcessingStats
	profile    *model.UserProfile
	result     *model.ScoreResult
	countdown  int
	scanID     string

	// set from phase exit until the entry side effects finish
	transitioning bool

	subs      []subscriber
	nextSubID int
}

// New returns a Controller in the Idle state.
func New(sched Scheduler, opts Options) *Controller {
	opts.Timings = opts.Timings.WithDefaults()
	if opts.Generator == nil {
		opts.Generator = scoring.New(scoring.NewSource(0), scoring.DefaultComments())
	}
	if opts.Video == nil {
		opts.Video = device.Unavailable{}
	}
	if opts.Effect == nil {
		opts.Effect = device.Silent{}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Controller{
		sched:   sched,
		timings: opts.Timings,
		gen:     opts.Generator,
		video:   opts.Video,
		effect:  opts.Effect,
		logger:  logger.With().Str("component", "session").Logger(),
		notes:   notify.NewLog(sched, opts.Timings.NotificationTTL, opts.Timings.MaxNotifications),
		state:   model.Idle,
	}
}

// RequestStart begins a scan. Accepted only in Idle.
func (c *Controller) RequestStart() bool {
	return c.fire(triggerStart)
}

// SubmitProfile stores the profile and starts finalizing. Accepted only in
// DataCollection. Fields are taken as-is.
func (c *Controller) SubmitProfile(p model.UserProfile) bool {
	if c.transitioning || !c.accepts(triggerSubmit) {
		c.reject(triggerSubmit)
		return false
	}
	c.profile = &p
	return c.fire(triggerSubmit)
}

// RequestReset starts the reset countdown. Accepted only in Results.
func (c *Controller) RequestReset() bool {
	return c.fire(triggerReset)
}

// Acquire asks the video source for a stream. It touches no controller state
// and may run off the timeline; report the outcome with ReportCamera.
func (c *Controller) Acquire(ctx context.Context) error {
	_, err := c.video.Acquire(ctx)
	return err
}

// ReportCamera records the camera outcome. Failure never blocks scanning.
func (c *Controller) ReportCamera(err error) {
	if err != nil {
		c.logger.Warn().Err(err).Msg("camera unavailable")
		c.notify(MsgCameraDenied)
		c.notify(MsgCameraPermsHint)
		return
	}
	c.notify(MsgCameraReady)
	c.notify(MsgNetworkReady)
}

// AcquireCamera acquires the camera and reports the outcome.
func (c *Controller) AcquireCamera(ctx context.Context) {
	c.ReportCamera(c.Acquire(ctx))
}

// State returns the active phase.
func (c *Controller) State() model.SessionState {
	return c.state
}

// StartEnabled reports whether RequestStart would be accepted.
func (c *Controller) StartEnabled() bool {
	return c.accepts(triggerStart)
}

// Stats returns the latest processing stats snapshot.
func (c *Controller) Stats() model.ProcessingStats {
	return c.stats
}

// Result returns the session verdict once it has been drawn.
func (c *Controller) Result() (model.ScoreResult, bool) {
	if c.result == nil {
		return model.ScoreResult{}, false
	}
	return *c.result, true
}

// Countdown returns the seconds remaining in ResetCountdown.
func (c *Controller) Countdown() int {
	return c.countdown
}

// HasProfile reports whether a profile is held for the current session.
func (c *Controller) HasProfile() bool {
	return c.profile != nil
}

// Notifications returns the visible notification log, oldest first.
func (c *Controller) Notifications() []model.Notification {
	return c.notes.Visible()
}

func (c *Controller) accepts(t trigger) bool {
	_, ok := transitions[transitionKey{from: c.state, on: t}]
	return ok
}

func (c *Controller) reject(t trigger) {
	c.logger.Debug().
		Str("scan_id", c.scanID).
		Stringer("state", c.state).
		Stringer("trigger", t).
		Msg("trigger ignored")
}

func (c *Controller) fire(t trigger) bool {
	next, ok := transitions[transitionKey{from: c.state, on: t}]
	if !ok || c.transitioning {
		c.reject(t)
		return false
	}
	prev := c.state
	c.transitioning = true
	c.exit()
	c.publish(PhaseExited{State: prev})
	c.state = next
	c.logger.Debug().
		Str("scan_id", c.scanID).
		Stringer("from", prev).
		Stringer("to", next).
		Stringer("trigger", t).
		Msg("phase changed")
	c.enter(next)
	c.transitioning = false
	c.publish(PhaseEntered{State: next})
	return true
}

// exit cancels everything the current phase scheduled.
func (c *Controller) exit() {
	c.phaseTimer.Cancel()
	c.phaseTimer = nil
	c.ticker.Cancel()
	c.ticker = nil
}

func (c *Controller) enter(state model.SessionState) {
	switch state {
	case model.Scanning:
		c.scanID = uuid.NewString()
		c.notify(MsgScanStart)
		c.effect.Play()
		c.schedulePhase(c.timings.Scan)
	case model.Processing:
		c.notify(MsgAnalyzing)
		c.stats = model.ProcessingStats{}
		c.publish(StatsTicked{Stats: c.stats})
		c.scheduleStatTick()
		c.schedulePhase(c.timings.Processing)
	case model.DataCollection:
		c.notify(MsgDataRequired)
	case model.Finalizing:
		c.notify(MsgDataReceived)
		c.notify(MsgProcessing)
		c.schedulePhase(c.timings.Finalizing)
	case model.Results:
		res := c.gen.Draw()
		c.result = &res
		c.logger.Info().
			Str("scan_id", c.scanID).
			Int("score", res.Score).
			Msg("scan complete")
		c.notify(MsgComplete)
		c.publish(ResultReady{Result: res})
	case model.ResetCountdown:
		c.notify(MsgResetStart)
		c.countdown = c.timings.CountdownFrom
		c.publish(CountdownTicked{Remaining: c.countdown})
		c.scheduleCountdown()
	case model.Idle:
		c.profile = nil
		c.result = nil
		c.countdown = 0
		c.scanID = ""
		c.notify(MsgReady)
	}
}

func (c *Controller) schedulePhase(d time.Duration) {
	c.phaseTimer = c.sched.After(d, func() {
		c.phaseTimer = nil
		c.fire(triggerTimer)
	})
}

func (c *Controller) scheduleStatTick() {
	c.ticker = c.sched.After(c.timings.StatTick, func() {
		c.ticker = nil
		if c.state != model.Processing {
			return
		}
		c.stats = c.gen.Advance(c.stats)
		c.publish(StatsTicked{Stats: c.stats})
		c.scheduleStatTick()
	})
}

func (c *Controller) scheduleCountdown() {
	c.phaseTimer = c.sched.After(c.timings.CountdownTick, func() {
		c.phaseTimer = nil
		c.countdown--
		if c.countdown <= 0 {
			c.fire(triggerTimer)
			return
		}
		c.publish(CountdownTicked{Remaining: c.countdown})
		c.scheduleCountdown()
	})
}

func (c *Controller) notify(text string) {
	n := c.notes.Add(text)
	c.publish(NotificationAdded{Notification: n})
}
