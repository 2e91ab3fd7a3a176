// Package ui renders lint and fix progress in the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"esfix/internal/driver"
)

// maxRows caps the file list; finished clean files are hidden first.
const maxRows = 12

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	spinnerStyle = busyStyle
)

type fileState struct {
	path   string
	stage  driver.Stage
	status driver.Status
	diags  int
}

func (f fileState) finished() bool {
	return f.status == driver.StatusDone || f.status == driver.StatusCached || f.status == driver.StatusError
}

// weight is the share of a file's work already behind it.
func (f fileState) weight() float64 {
	switch {
	case f.finished():
		return 1
	case f.status == driver.StatusQueued:
		return 0
	case f.stage == driver.StageFix:
		return 0.7
	case f.stage == driver.StageLint:
		return 0.5
	}
	return 0.1
}

func (f fileState) label() string {
	switch f.status {
	case driver.StatusDone:
		return "done"
	case driver.StatusCached:
		return "cached"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		return f.stage.String()
	}
	return "queued"
}

func (f fileState) style() lipgloss.Style {
	switch f.status {
	case driver.StatusDone, driver.StatusCached:
		return okStyle
	case driver.StatusError:
		return errStyle
	case driver.StatusWorking:
		return busyStyle
	}
	return dimStyle
}

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	bar      progress.Model
	files    []fileState
	byPath   map[string]int
	problems int
	width    int
	done     bool
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model showing the progress of a
// run over files, fed by events. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, path := range files {
		m.files = append(m.files, fileState{path: path})
		m.byPath[path] = i
	}
	return m
}

// Run drives work with an observer wired to the progress view on out and
// returns work's error once both have finished.
func Run(out io.Writer, title string, files []string, work func(driver.Observer) error) error {
	events := make(chan driver.Event, 64)
	result := make(chan error, 1)
	go func() {
		defer close(events)
		result <- work(func(ev driver.Event) { events <- ev })
	}()

	_, viewErr := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil)).Run()
	if viewErr != nil {
		// вид упал: дочитываем события, чтобы работа не встала на записи
		for range events {
		}
	}
	if err := <-result; err != nil {
		return err
	}
	return viewErr
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	}
	return m, nil
}

// apply records ev and moves the bar. Only the last final event of a file
// counts towards the problem total.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	f := &m.files[i]
	f.stage, f.status = ev.Stage, ev.Status
	if f.finished() {
		m.problems += ev.Diagnostics - f.diags
		f.diags = ev.Diagnostics
	}
	var sum float64
	for _, f := range m.files {
		sum += f.weight()
	}
	return m.bar.SetPercent(sum / float64(len(m.files)))
}

func (m *progressModel) finished() int {
	n := 0
	for _, f := range m.files {
		if f.finished() {
			n++
		}
	}
	return n
}

// visible picks the rows to draw: everything when it fits, otherwise files
// still in flight or with problems, then the rest in order.
func (m *progressModel) visible() (rows []fileState, hidden int) {
	if len(m.files) <= maxRows {
		return m.files, 0
	}
	interesting := func(f fileState) bool {
		return f.status == driver.StatusWorking || f.status == driver.StatusError || f.diags > 0
	}
	for pass := range 2 {
		for _, f := range m.files {
			if len(rows) == maxRows {
				break
			}
			if interesting(f) == (pass == 0) {
				rows = append(rows, f)
			}
		}
	}
	return rows, len(m.files) - len(rows)
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	head := fmt.Sprintf("%s (%d/%d files, %d problems)", m.title, m.finished(), len(m.files), m.problems)
	if m.done {
		head = "done: " + head
	} else {
		head = m.spinner.View() + " " + head
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(head) + "\n\n")
	rows, hidden := m.visible()
	nameWidth := max(m.width-26, 20)
	for _, f := range rows {
		fmt.Fprintf(&b, "  %s %s", f.style().Render(fmt.Sprintf("%10s", f.label())), truncate(f.path, nameWidth))
		if f.diags > 0 {
			fmt.Fprintf(&b, " (%d)", f.diags)
		}
		b.WriteByte('\n')
	}
	if hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more files", hidden)) + "\n")
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	return b.String() + "\n"
}

func truncate(s string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(s) <= width:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
