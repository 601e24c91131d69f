package tui

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/facescan/internal/model"
	"github.com/verte-zerg/facescan/internal/scoring"
	"github.com/verte-zerg/facescan/internal/session"
	"github.com/verte-zerg/facescan/internal/timeline"
)

var epoch = time.Unix(1700000000, 0)

func newTestModel(t *testing.T) (*Model, *session.Controller, *timeline.Virtual) {
	t.Helper()
	clock := timeline.NewVirtual(epoch)
	ctrl := session.New(clock, session.Options{
		Generator: scoring.New(rand.New(rand.NewSource(7)), scoring.DefaultComments()),
	})
	m := NewModel(ctrl, clock.Timeline)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, ctrl, clock
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModelFullSession(t *testing.T) {
	m, ctrl, clock := newTestModel(t)

	if !strings.Contains(m.View(), "RATE ME") {
		t.Fatalf("idle view missing start button")
	}
	m.Update(key("enter"))
	if ctrl.State() != model.Scanning {
		t.Fatalf("expected scanning, got %s", ctrl.State())
	}
	if !strings.Contains(m.View(), "SCANNING FACE") {
		t.Fatalf("scan view missing heading")
	}

	clock.Advance(2500 * time.Millisecond)
	view := m.View()
	if !strings.Contains(view, "ANALYZING FACIAL DATA") || !strings.Contains(view, "NEURAL NODES") {
		t.Fatalf("processing view missing stats: %s", view)
	}

	clock.Advance(2500 * time.Millisecond)
	if ctrl.State() != model.DataCollection {
		t.Fatalf("expected data collection, got %s", ctrl.State())
	}
	if m.focus != fieldName || !m.inputs[fieldName].Focused() {
		t.Fatalf("expected name field focused")
	}

	typeText(m, "Ada")
	m.Update(key("tab"))
	typeText(m, "36")
	for i := 0; i < 3; i++ {
		m.Update(key("enter"))
		typeText(m, "bold")
	}
	if ctrl.State() != model.DataCollection {
		t.Fatalf("form submitted early")
	}
	m.Update(key("enter"))
	if ctrl.State() != model.Finalizing {
		t.Fatalf("expected finalizing, got %s", ctrl.State())
	}
	if got := m.profile(); got.Name != "Ada" || got.Age != "36" || got.Words[2] != "bold" {
		t.Fatalf("unexpected profile %+v", got)
	}

	clock.Advance(2 * time.Second)
	if ctrl.State() != model.Results {
		t.Fatalf("expected results, got %s", ctrl.State())
	}
	res, ok := ctrl.Result()
	if !ok {
		t.Fatalf("expected a result")
	}
	view = m.View()
	if !strings.Contains(view, "ANALYSIS COMPLETE") || !strings.Contains(view, "/10") {
		t.Fatalf("results view missing score %d: %s", res.Score, view)
	}
	if !strings.Contains(view, "[r] SCAN AGAIN") {
		t.Fatalf("results footer missing reset hint")
	}

	m.Update(key("r"))
	if ctrl.State() != model.ResetCountdown {
		t.Fatalf("expected reset countdown, got %s", ctrl.State())
	}
	if !strings.Contains(m.View(), "SYSTEM RESET IN") {
		t.Fatalf("countdown view missing")
	}

	clock.Advance(5 * time.Second)
	if ctrl.State() != model.Idle {
		t.Fatalf("expected idle, got %s", ctrl.State())
	}
	for i, in := range m.inputs {
		if in.Value() != "" || in.Focused() {
			t.Fatalf("field %d not reset", i)
		}
	}
}

func TestModelShiftTabWraps(t *testing.T) {
	m, ctrl, clock := newTestModel(t)
	m.Update(key("enter"))
	clock.Advance(5 * time.Second)
	if ctrl.State() != model.DataCollection {
		t.Fatalf("expected data collection, got %s", ctrl.State())
	}
	m.Update(key("shift+tab"))
	if m.focus != fieldWord3 {
		t.Fatalf("expected focus on last field, got %d", m.focus)
	}
	m.Update(key("tab"))
	if m.focus != fieldName {
		t.Fatalf("expected focus to wrap to first field, got %d", m.focus)
	}
}

func TestModelIgnoresKeysWhileBusy(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m.Update(key("enter"))
	m.Update(key("enter"))
	m.Update(key("r"))
	if ctrl.State() != model.Scanning {
		t.Fatalf("expected scanning, got %s", ctrl.State())
	}
}

func TestModelQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(key("esc"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestModelCameraNotifications(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m.Update(cameraMsg{err: errors.New("no device")})
	notes := ctrl.Notifications()
	if len(notes) != 2 || notes[0].Text != session.MsgCameraDenied {
		t.Fatalf("unexpected notifications %+v", notes)
	}
	if !strings.Contains(m.View(), "> "+session.MsgCameraDenied) {
		t.Fatalf("view missing camera notification")
	}
}

func TestModelTimerFiredDrivesTimeline(t *testing.T) {
	now := epoch
	tl := timeline.New(func() time.Time { return now })
	ctrl := session.New(tl, session.Options{})
	m := NewModel(ctrl, tl)

	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatalf("expected timer commands after start")
	}
	if len(tl.Drain()) != 0 {
		t.Fatalf("expected scheduled tasks to be drained by Update")
	}
	for _, id := range tl.PendingIDs() {
		m.Update(timerFiredMsg{id: id})
	}
	if ctrl.State() != model.Processing {
		t.Fatalf("expected processing, got %s", ctrl.State())
	}
}
