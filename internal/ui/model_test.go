// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests key handling, stats refresh and rendering
package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xyscope/xyscope/pkg/scope"
)

type fakeController struct {
	stats   scope.Stats
	toggles int
	resets  int
	err     error
}

func (f *fakeController) Stats() scope.Stats { return f.stats }

func (f *fakeController) Toggle() error {
	f.toggles++
	if f.err != nil {
		return f.err
	}
	if f.stats.State == scope.StateSealed {
		f.stats.State = scope.StateBuilding
	} else {
		f.stats.State = scope.StateSealed
	}
	return nil
}

func (f *fakeController) Reset() error {
	f.resets++
	return f.err
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelReadsStats(t *testing.T) {
	ctrl := &fakeController{stats: scope.Stats{Frames: 42}}
	model := NewModel("xyscope", "memory", ctrl)

	if model.stats.Frames != 42 {
		t.Errorf("expected initial stats, got %+v", model.stats)
	}
	if model.quitting {
		t.Error("expected quitting to be false initially")
	}
	if model.showClients {
		t.Error("client list should be hidden until a ClientsMsg arrives")
	}
}

func TestToggleKey(t *testing.T) {
	ctrl := &fakeController{}
	var model tea.Model = NewModel("xyscope", "memory", ctrl)

	model, _ = model.Update(key("s"))
	m := model.(Model)
	if ctrl.toggles != 1 {
		t.Errorf("expected one toggle, got %d", ctrl.toggles)
	}
	if m.stats.State != scope.StateSealed {
		t.Errorf("expected refreshed state sealed, got %v", m.stats.State)
	}

	model, _ = model.Update(key("s"))
	if model.(Model).stats.State != scope.StateBuilding {
		t.Errorf("expected building after second toggle")
	}
}

func TestResetKeyShowsError(t *testing.T) {
	ctrl := &fakeController{err: errors.New("buffer cannot be modified while playing")}
	var model tea.Model = NewModel("xyscope", "memory", ctrl)

	model, _ = model.Update(key("c"))
	m := model.(Model)
	if ctrl.resets != 1 {
		t.Errorf("expected one reset, got %d", ctrl.resets)
	}
	if !strings.Contains(m.View(), "while playing") {
		t.Error("expected error in view")
	}

	ctrl.err = nil
	model, _ = model.Update(key("c"))
	if model.(Model).lastErr != "" {
		t.Error("expected error cleared after a successful action")
	}
}

func TestQuitKey(t *testing.T) {
	var model tea.Model = NewModel("xyscope", "memory", &fakeController{})

	model, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !strings.Contains(model.View(), "Shutting down") {
		t.Error("expected shutdown view")
	}
}

func TestTickRefreshesStats(t *testing.T) {
	ctrl := &fakeController{}
	var model tea.Model = NewModel("xyscope", "memory", ctrl)

	ctrl.stats = scope.Stats{State: scope.StateSealed, Frames: 804, SampleRate: 44100, FramesPlayed: 88200, Loops: 109}
	model, cmd := model.Update(tickMsg{})
	if cmd == nil {
		t.Error("expected the ticker to be rescheduled")
	}

	view := model.View()
	for _, want := range []string{"sealed", "804", "44.1 kHz", "109 loops"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestClientsMsg(t *testing.T) {
	var model tea.Model = NewModel("server", "oto", &fakeController{})

	model, _ = model.Update(ClientsMsg{"alice-ctl", "bench"})
	view := model.View()
	if !strings.Contains(view, "Clients (2)") || !strings.Contains(view, "alice-ctl") {
		t.Errorf("expected client list in view:\n%s", view)
	}

	model, _ = model.Update(ClientsMsg{})
	if !strings.Contains(model.View(), "No clients connected") {
		t.Error("expected empty client list")
	}
}

func TestNilController(t *testing.T) {
	var model tea.Model = NewModel("xyscope", "none", nil)
	model, _ = model.Update(key("s"))
	model, _ = model.Update(key("c"))
	if model.View() == "" {
		t.Error("expected a view without a controller")
	}
}

func TestFormatRate(t *testing.T) {
	tests := map[int]string{
		0:      "-",
		48000:  "48 kHz",
		44100:  "44.1 kHz",
		160000: "160 kHz",
	}
	for rate, expected := range tests {
		if got := formatRate(rate); got != expected {
			t.Errorf("formatRate(%d): expected %q, got %q", rate, expected, got)
		}
	}
}
