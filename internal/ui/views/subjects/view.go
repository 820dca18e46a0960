package subjects

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plannerdto "studyhub/internal/modules/planner/dto"
	"studyhub/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type PlannerPort interface {
	ListSubjects(ctx context.Context) ([]plannerdto.SubjectOutput, error)
	ListTodos(ctx context.Context, subjectID int64) ([]plannerdto.TodoOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SubjectsLoadedMsg struct {
	Subjects []plannerdto.SubjectOutput
	Err      error
}

type TodosLoadedMsg struct {
	SubjectID int64
	Todos     []plannerdto.TodoOutput
	Err       error
}

// ─── list item ───────────────────────────────────────────────────────────────

type subjectItem struct {
	subject plannerdto.SubjectOutput
}

func (i subjectItem) Title() string { return i.subject.Name }
func (i subjectItem) Description() string {
	return fmt.Sprintf("difficulty %d/10  %.1fh  %d open", i.subject.Difficulty, i.subject.TotalHours, i.subject.OpenTodos)
}
func (i subjectItem) FilterValue() string { return i.subject.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       PlannerPort
	list       list.Model
	todos      []plannerdto.TodoOutput
	todosFor   int64
	todoCursor int
	detail     viewport.Model
	spinner    spinner.Model
	loading    bool
	width      int
	height     int
}

func New(port PlannerPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Subjects"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("subject", "subjects")
	l.DisableQuitKeybindings()

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches subjects again; the todo pane follows the selection.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		subjects, err := m.port.ListSubjects(context.Background())
		return SubjectsLoadedMsg{Subjects: subjects, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SubjectsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Subjects: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Subjects))
		for i, s := range msg.Subjects {
			items[i] = subjectItem{subject: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if id, ok := m.SelectedSubjectID(); ok {
			cmds = append(cmds, m.loadTodosCmd(id))
		} else {
			m.todos = nil
			m.todosFor = 0
			m.detail.SetContent(m.renderDetail())
		}

	case TodosLoadedMsg:
		if msg.Err == nil {
			if msg.SubjectID != m.todosFor {
				m.todoCursor = 0
			}
			m.todos = msg.Todos
			m.todosFor = msg.SubjectID
			m.clampCursor()
			m.detail.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if !m.Filtering() {
			switch msg.String() {
			case "]":
				m.todoCursor++
				m.clampCursor()
				m.detail.SetContent(m.renderDetail())
				return m, nil
			case "[":
				m.todoCursor--
				m.clampCursor()
				m.detail.SetContent(m.renderDetail())
				return m, nil
			}
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if id, ok := m.SelectedSubjectID(); ok {
				cmds = append(cmds, m.loadTodosCmd(id))
			}
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading subjects…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) SelectedSubjectID() (int64, bool) {
	if item, ok := m.list.SelectedItem().(subjectItem); ok {
		return item.subject.ID, true
	}
	return 0, false
}

func (m Model) SelectedSubjectName() string {
	if item, ok := m.list.SelectedItem().(subjectItem); ok {
		return item.subject.Name
	}
	return ""
}

// SelectedTodoID returns the highlighted todo of the selected subject.
func (m Model) SelectedTodoID() (int64, bool) {
	id, ok := m.SelectedSubjectID()
	if !ok || id != m.todosFor || len(m.todos) == 0 {
		return 0, false
	}
	return m.todos[m.todoCursor].ID, true
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m *Model) clampCursor() {
	if m.todoCursor >= len(m.todos) {
		m.todoCursor = len(m.todos) - 1
	}
	if m.todoCursor < 0 {
		m.todoCursor = 0
	}
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(subjectItem)
	if !ok {
		return theme.Muted.Render("No subjects yet. Press a to add one.")
	}
	s := item.subject
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Name) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s%d/10\n", theme.Muted.Render("difficulty: "), s.Difficulty))
	sb.WriteString(fmt.Sprintf("%s%.1fh\n\n", theme.Muted.Render("studied:    "), s.TotalHours))
	sb.WriteString(theme.Title.Render("Tasks") + "\n")
	if len(m.todos) == 0 {
		sb.WriteString(theme.Muted.Render("  none") + "\n")
	}
	for i, todo := range m.todos {
		cursor := "  "
		if i == m.todoCursor {
			cursor = theme.Hot.Render("> ")
		}
		box := "[ ] "
		text := todo.Text
		if todo.Completed {
			box = "[x] "
			text = theme.Done.Render(text)
		}
		sb.WriteString(cursor + box + text + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("t: add task  [/]: move  x: toggle  D: delete task"))
	sb.WriteString("\n" + theme.Muted.Render("s: start session  d: delete subject"))
	return sb.String()
}

func (m Model) loadTodosCmd(subjectID int64) tea.Cmd {
	return func() tea.Msg {
		todos, err := m.port.ListTodos(context.Background(), subjectID)
		return TodosLoadedMsg{SubjectID: subjectID, Todos: todos, Err: err}
	}
}
