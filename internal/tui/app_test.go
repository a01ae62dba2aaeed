package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func update(t *testing.T, app *App, msg tea.Msg) *App {
	t.Helper()
	model, _ := app.Update(msg)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("update returned %T, want *App", model)
	}
	return next
}

func TestSegmentEventUpdatesView(t *testing.T) {
	events := make(chan Event)
	app := NewApp("merged.log", events, nil)
	app = update(t, app, eventMsg{event: Event{Kind: EventSegment, Index: 2, Total: 7, Name: "app.log.3.gz"}})
	view := app.View()
	if !strings.Contains(view, "app.log.3.gz") {
		t.Fatalf("view missing current segment:\n%s", view)
	}
	if !strings.Contains(view, "(3/7)") {
		t.Fatalf("view missing one-based position:\n%s", view)
	}
	if got := app.percent(); got < 0.28 || got > 0.29 {
		t.Fatalf("percent = %f, want 2/7", got)
	}
}

func TestDoneEventQuitsWithSummary(t *testing.T) {
	events := make(chan Event)
	app := NewApp("merged.log", events, nil)
	app = update(t, app, eventMsg{event: Event{Kind: EventSegment, Index: 0, Total: 1, Name: "a.log.1.gz"}})
	model, cmd := app.Update(eventMsg{event: Event{Kind: EventDone}})
	app = model.(*App)
	if cmd == nil {
		t.Fatalf("done event must quit")
	}
	if app.percent() != 1 {
		t.Fatalf("percent after done = %f, want 1", app.percent())
	}
	if !strings.Contains(app.View(), "merged.log") {
		t.Fatalf("summary missing output path:\n%s", app.View())
	}
}

func TestErrorEventSurfacesFailure(t *testing.T) {
	events := make(chan Event)
	app := NewApp("merged.log", events, nil)
	wantErr := errors.New("open segment app.log.2.gz: no such file")
	model, cmd := app.Update(eventMsg{event: Event{Kind: EventError, Err: wantErr}})
	app = model.(*App)
	if cmd == nil {
		t.Fatalf("error event must quit")
	}
	if app.Err() != wantErr {
		t.Fatalf("Err() = %v, want the pipeline error", app.Err())
	}
	if !strings.Contains(app.View(), "no such file") {
		t.Fatalf("view does not show the failure:\n%s", app.View())
	}
}

func TestClosedChannelQuits(t *testing.T) {
	events := make(chan Event)
	close(events)
	app := NewApp("merged.log", events, nil)
	if _, cmd := app.Update(eventsClosedMsg{}); cmd == nil {
		t.Fatalf("closed events channel must quit")
	}
}
