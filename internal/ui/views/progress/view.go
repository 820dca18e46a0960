package progress

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plannerdto "studyhub/internal/modules/planner/dto"
	"studyhub/internal/ui/theme"
)

type ProgressPort interface {
	Progress(ctx context.Context) (plannerdto.ProgressOutput, error)
}

type LoadedMsg struct {
	Progress plannerdto.ProgressOutput
	Err      error
}

const (
	barGlyph   = "█"
	trackGlyph = "░"
	labelWidth = 18
)

// Model shows hours studied per subject as a horizontal bar chart.
type Model struct {
	port     ProgressPort
	progress plannerdto.ProgressOutput
	err      error
	width    int
	height   int
}

func New(port ProgressPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		out, err := m.port.Progress(context.Background())
		return LoadedMsg{Progress: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.progress = msg.Progress
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) View() string {
	body := Chart(m.progress, m.width-6)
	if m.err != nil {
		body = theme.Error.Render("progress: " + m.err.Error())
	}
	return theme.Pane.
		Width(max(m.width-2, 10)).
		Height(max(m.height-2, 3)).
		Render(theme.Title.Render("Study Progress") + "\n\n" + body)
}

// Chart renders one bar per subject scaled to the largest total.
func Chart(p plannerdto.ProgressOutput, width int) string {
	if len(p.Rows) == 0 {
		return theme.Muted.Render("No subjects yet.")
	}
	barWidth := width - labelWidth - 10
	if barWidth < 10 {
		barWidth = 10
	}
	peak := 0.0
	for _, row := range p.Rows {
		peak = math.Max(peak, row.TotalHours)
	}

	var sb strings.Builder
	for _, row := range p.Rows {
		filled := 0
		if peak > 0 {
			filled = int(math.Round(row.TotalHours / peak * float64(barWidth)))
		}
		label := lipgloss.NewStyle().Width(labelWidth).Render(truncate(row.Name, labelWidth-1))
		bar := theme.Bar.Render(strings.Repeat(barGlyph, filled)) +
			theme.BarTrack.Render(strings.Repeat(trackGlyph, barWidth-filled))
		sb.WriteString(fmt.Sprintf("%s %s %5.1fh\n", label, bar, row.TotalHours))
	}
	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("total %.1fh", p.TotalHours)))
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
