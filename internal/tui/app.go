// internal/tui/app.go
//
// Progress screen for a reassembly run. It uses bubbletea, which follows
// The Elm Architecture: the App model holds the state, Update reacts to
// messages, View renders a string.
//
// The pipeline runs in its own goroutine and reports through an Event
// channel; the TUI is a passive observer and correctness never depends
// on it. Closing the events channel ends the program.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/logweave/internal/logging"
)

const journalTailLines = 5

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	segmentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	tailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

// EventKind discriminates pipeline events sent to the TUI.
type EventKind int

const (
	EventSegment EventKind = iota
	EventDone
	EventError
)

// Event is one pipeline notification. Segment events carry the index
// (segments completed so far), total and name; error events carry Err.
type Event struct {
	Kind  EventKind
	Index int
	Total int
	Name  string
	Err   error
}

type eventMsg struct {
	event Event
}

type eventsClosedMsg struct{}

// App is the progress screen model.
type App struct {
	bar     progress.Model
	events  <-chan Event
	journal *logging.Journal
	output  string

	index   int
	total   int
	current string
	done    bool
	err     error
}

// NewApp builds the progress screen for a run writing to output.
// journal may be nil; its tail is shown when present.
func NewApp(output string, events <-chan Event, journal *logging.Journal) *App {
	return &App{
		bar:     progress.New(progress.WithDefaultGradient()),
		events:  events,
		journal: journal,
		output:  output,
	}
}

// Err returns the pipeline error observed by the TUI, if any.
func (a *App) Err() error {
	return a.err
}

func (a *App) Init() tea.Cmd {
	return waitForEvent(a.events)
}

func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: event}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 0 {
			a.bar.Width = width
		}
	case eventMsg:
		return a.handleEvent(msg.event)
	case eventsClosedMsg:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleEvent(event Event) (tea.Model, tea.Cmd) {
	switch event.Kind {
	case EventSegment:
		a.index = event.Index
		a.total = event.Total
		a.current = event.Name
	case EventDone:
		a.done = true
		return a, tea.Quit
	case EventError:
		a.err = event.Err
		return a, tea.Quit
	}
	return a, waitForEvent(a.events)
}

func (a *App) percent() float64 {
	if a.done {
		return 1
	}
	if a.total == 0 {
		return 0
	}
	return float64(a.index) / float64(a.total)
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("logweave"))
	b.WriteString(" ")
	b.WriteString(segmentStyle.Render("-> " + a.output))
	b.WriteString("\n\n")
	b.WriteString(a.bar.ViewAs(a.percent()))
	b.WriteString("\n\n")

	switch {
	case a.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Failed: %v", a.err)))
		b.WriteString("\n")
	case a.done:
		b.WriteString(doneStyle.Render(fmt.Sprintf("Reassembled %d segments into %s", a.total, a.output)))
		b.WriteString("\n")
	case a.current != "":
		b.WriteString(segmentStyle.Render(fmt.Sprintf("Process %s (%d/%d)", a.current, a.index+1, a.total)))
		b.WriteString("\n")
	}

	if lines, _ := a.journal.Tail(journalTailLines); len(lines) > 0 {
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString(tailStyle.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}
