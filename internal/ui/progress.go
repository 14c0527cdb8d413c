package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/JamesPatrickGill/nova/internal/stress"
)

type progressModel struct {
	title      string
	events     <-chan stress.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []agentItem
	iterations int
	width      int
	done       bool
}

type agentItem struct {
	name      string
	status    string
	iteration int
	cycles    uint64
	live      int
	freed     int
	err       string
}

type eventMsg stress.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders one line per
// stress agent. iterations is the per-agent target used for the bar.
func NewProgressModel(title string, agents, iterations int, events <-chan stress.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]agentItem, agents)
	for i := range items {
		items[i] = agentItem{name: fmt.Sprintf("agent %d", i), status: "queued"}
	}
	return &progressModel{
		title:      title,
		events:     events,
		spinner:    sp,
		prog:       prog,
		items:      items,
		iterations: iterations,
		width:      80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(stress.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
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
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 10
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(item.describe(), nameWidth)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (it agentItem) describe() string {
	if it.err != "" {
		return fmt.Sprintf("%s: %s", it.name, it.err)
	}
	if it.cycles == 0 {
		return fmt.Sprintf("%s  iter %d", it.name, it.iteration)
	}
	return fmt.Sprintf("%s  iter %d  gc %d  live %d  freed %d", it.name, it.iteration, it.cycles, it.live, it.freed)
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev stress.Event) tea.Cmd {
	if ev.Agent < 0 || ev.Agent >= len(m.items) {
		return nil
	}
	item := &m.items[ev.Agent]
	if label := statusLabel(ev.Stage, ev.Status); label != "" {
		item.status = label
	}
	if ev.Iteration > item.iteration {
		item.iteration = ev.Iteration
	}
	if ev.Stage == stress.StageCollect {
		item.cycles = ev.Cycle
		item.live = ev.Live
		item.freed += ev.Freed
	}
	if ev.Err != nil {
		item.err = ev.Err.Error()
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		switch {
		case item.status == "done" || item.status == "error":
			total += 1.0
		case m.iterations > 0:
			total += min(float64(item.iteration)/float64(m.iterations), 0.99)
		}
	}
	return total / float64(len(m.items))
}

func statusLabel(stage stress.Stage, status stress.Status) string {
	switch status {
	case stress.StatusQueued:
		return "queued"
	case stress.StatusDone:
		return "done"
	case stress.StatusError:
		return "error"
	case stress.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage stress.Stage) string {
	switch stage {
	case stress.StageSetup:
		return "starting"
	case stress.StageMutate:
		return "mutating"
	case stress.StageCollect:
		return "collecting"
	case stress.StageTeardown:
		return "teardown"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "starting", "mutating", "collecting", "teardown":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
