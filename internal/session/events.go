package session

import "github.com/verte-zerg/facescan/internal/model"

// Event is published to subscribers on every observable change.
type Event interface {
	event()
}

// PhaseExited is published when a phase's tasks have been canceled.
type PhaseExited struct {
	State model.SessionState
}

// PhaseEntered is published once a phase's entry side effects have run.
type PhaseEntered struct {
	State model.SessionState
}

// NotificationAdded is published for every new notification.
type NotificationAdded struct {
	Notification model.Notification
}

// StatsTicked carries a processing stats snapshot.
type StatsTicked struct {
	Stats model.ProcessingStats
}

// ResultReady carries the session verdict.
type ResultReady struct {
	Result model.ScoreResult
}

// CountdownTicked carries the seconds remaining before reset.
type CountdownTicked struct {
	Remaining int
}

func (PhaseExited) event()       {}
func (PhaseEntered) event()      {}
func (NotificationAdded) event() {}
func (StatsTicked) event()       {}
func (ResultReady) event()       {}
func (CountdownTicked) event()   {}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for all events and returns a function that removes it.
// Listeners run synchronously on the controller's timeline. Triggers called
// from a listener before PhaseEntered is published are ignored; from
// PhaseEntered on they act on the entered phase.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.nextSubID++
	id := c.nextSubID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) publish(ev Event) {
	subs := c.subs
	for _, s := range subs {
		s.fn(ev)
	}
}
