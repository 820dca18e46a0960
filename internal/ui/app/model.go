package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plannerdto "studyhub/internal/modules/planner/dto"
	sessiondto "studyhub/internal/modules/session/dto"
	apperrors "studyhub/internal/platform/errors"
	"studyhub/internal/ui/components"
	"studyhub/internal/ui/theme"
	progressview "studyhub/internal/ui/views/progress"
	subjectsview "studyhub/internal/ui/views/subjects"
	timerview "studyhub/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type plannerPort interface {
	AddSubject(ctx context.Context, name string, difficulty int) (plannerdto.SubjectOutput, error)
	DeleteSubject(ctx context.Context, subjectID int64) (plannerdto.MutationOutput, error)
	ListSubjects(ctx context.Context) ([]plannerdto.SubjectOutput, error)
	AddTodo(ctx context.Context, subjectID int64, text string) (plannerdto.TodoOutput, error)
	ToggleTodo(ctx context.Context, subjectID, todoID int64) (plannerdto.MutationOutput, error)
	DeleteTodo(ctx context.Context, subjectID, todoID int64) (plannerdto.MutationOutput, error)
	ListTodos(ctx context.Context, subjectID int64) ([]plannerdto.TodoOutput, error)
	Progress(ctx context.Context) (plannerdto.ProgressOutput, error)
	Status(ctx context.Context) (plannerdto.StatusOutput, error)
}

type sessionPort interface {
	Start(ctx context.Context, subjectID int64) (sessiondto.SnapshotOutput, error)
	Complete(ctx context.Context) (sessiondto.CompleteOutput, error)
	Cancel(ctx context.Context) (sessiondto.AbortOutput, error)
	Snapshot(ctx context.Context) (sessiondto.SnapshotOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSubjects tabID = iota
	tabSession
	tabProgress
	tabCount
)

var tabLabels = [tabCount]string{
	"Subjects", "Session", "Progress",
}

// ─── async messages ───────────────────────────────────────────────────────────

// timerSignalMsg arrives whenever the session timer published a change.
type timerSignalMsg struct{}

type snapshotMsg struct {
	snap sessiondto.SnapshotOutput
	err  error
}

// mutationMsg reports the outcome of a planner or session intent. Every
// mutation reloads the read models.
type mutationMsg struct {
	status string
	err    error
}

type statusLoadedMsg struct {
	status plannerdto.StatusOutput
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab        key.Binding
	Help       key.Binding
	Palette    key.Binding
	Quit       key.Binding
	AddSubject key.Binding
	DelSubject key.Binding
	AddTodo    key.Binding
	MoveTodo   key.Binding
	ToggleTodo key.Binding
	DelTodo    key.Binding
	Start      key.Binding
	Complete   key.Binding
	Cancel     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		AddSubject: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add subject")),
		DelSubject: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete subject")),
		AddTodo:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add task")),
		MoveTodo:   key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "select task")),
		ToggleTodo: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle task")),
		DelTodo:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete task")),
		Start:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Complete:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete session")),
		Cancel:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "cancel session")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddSubject, k.DelSubject, k.AddTodo, k.MoveTodo, k.ToggleTodo, k.DelTodo},
		{k.Start, k.Complete, k.Cancel},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the session
// snapshot, the global help overlay, and the command palette. All business
// logic is delegated to port interfaces; all rendering is delegated to
// sub-views.
type Model struct {
	planner plannerPort
	session sessionPort
	signals <-chan struct{}

	subjectsView subjectsview.Model
	progressView progressview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	snapshot  sessiondto.SnapshotOutput
	status    string
	saveErr   string
	width     int
	height    int
}

// NewModel builds the root model. signals carries one value per timer
// transition; it may be nil, in which case the clock only refreshes on
// user actions.
func NewModel(planner plannerPort, session sessionPort, signals <-chan struct{}) Model {
	return Model{
		planner:      planner,
		session:      session,
		signals:      signals,
		subjectsView: subjectsview.New(planner),
		progressView: progressview.New(planner),
		activeTab:    tabSubjects,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.subjectsView.Init(),
		m.progressView.Init(),
		m.snapshotCmd(),
		m.statusCmd(),
		m.waitSignalCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Timer traffic must keep flowing while the palette is open.
	switch msg := msg.(type) {
	case timerSignalMsg:
		return m, tea.Batch(m.snapshotCmd(), m.waitSignalCmd())
	case snapshotMsg:
		if msg.err == nil {
			finished := m.snapshot.Active && !msg.snap.Active
			m.snapshot = msg.snap
			if finished {
				return m, m.reloadCmd()
			}
		}
		return m, nil
	}

	// The palette intercepts all key input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case mutationMsg:
		if msg.err != nil {
			m.status = describeError(msg.err)
		} else {
			m.status = msg.status
		}
		return m, m.reloadCmd()

	case statusLoadedMsg:
		if msg.err == nil {
			m.saveErr = msg.status.LastSaveError
			if msg.status.RecoveredEmpty && m.status == "ready" {
				m.status = "stored data was corrupt; backed up, started empty"
			}
		}
		return m, nil

	case progressview.LoadedMsg:
		m.progressView, _ = m.progressView.Update(msg)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabSubjects && m.subjectsView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		case "s":
			return m.startSession()
		case "c":
			return m, m.completeCmd()
		case "C":
			return m, m.cancelCmd()
		}

		switch m.activeTab {
		case tabSubjects:
			switch msg.String() {
			case "a":
				cmd := m.palette.OpenWith("subject:add ")
				return m, cmd
			case "t":
				if _, ok := m.subjectsView.SelectedSubjectID(); ok {
					cmd := m.palette.OpenWith("todo:add ")
					return m, cmd
				}
				m.status = "no subject selected"
				return m, nil
			case "d":
				return m.deleteSubject()
			case "x":
				return m.toggleTodo()
			case "D":
				return m.deleteTodo()
			}
		}
	}

	if m.activeTab == tabSubjects {
		var cmd tea.Cmd
		m.subjectsView, cmd = m.subjectsView.Update(msg)
		cmds = append(cmds, cmd)
	} else if _, ok := msg.(tea.KeyMsg); !ok {
		// Non-key traffic (load results, spinner ticks) still belongs to the
		// subjects view when another tab is showing.
		var cmd tea.Cmd
		m.subjectsView, cmd = m.subjectsView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView(contentH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView(height int) string {
	switch m.activeTab {
	case tabSubjects:
		return m.subjectsView.View()
	case tabSession:
		return timerview.Render(m.snapshot, m.width, height)
	case tabProgress:
		return m.progressView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "studyhub  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.snapshot.Active {
		marker := theme.Studying.Render("● " + m.snapshot.SubjectName + " " + m.snapshot.Clock)
		if !m.snapshot.CanComplete {
			marker = theme.Break.Render("☕ break " + m.snapshot.Clock)
		}
		left = marker + "  " + left
	}
	if m.saveErr != "" {
		left = theme.Error.Render("unsaved! ") + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "subject:add":
		if len(parts) < 3 {
			m.status = "usage: subject:add <difficulty 1-10> <name>"
			return m, nil
		}
		difficulty, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "difficulty must be a number from 1 to 10"
			return m, nil
		}
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]))
		return m, m.addSubjectCmd(name, difficulty)

	case "subject:delete":
		return m.deleteSubject()

	case "todo:add":
		subjectID, ok := m.subjectsView.SelectedSubjectID()
		if !ok {
			m.status = "no subject selected"
			return m, nil
		}
		text := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return m, m.addTodoCmd(subjectID, text)

	case "todo:toggle":
		return m.toggleTodo()

	case "todo:delete":
		return m.deleteTodo()

	case "session:start":
		return m.startSession()

	case "session:complete":
		return m, m.completeCmd()

	case "session:cancel":
		return m, m.cancelCmd()

	case "report":
		m.activeTab = tabProgress
		m.status = "switched to Progress tab"
		return m, m.progressView.Reload()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── intents ─────────────────────────────────────────────────────────────────

func (m Model) startSession() (tea.Model, tea.Cmd) {
	subjectID, ok := m.subjectsView.SelectedSubjectID()
	if !ok {
		m.status = "no subject selected"
		return m, nil
	}
	m.activeTab = tabSession
	return m, m.startCmd(subjectID)
}

func (m Model) deleteSubject() (tea.Model, tea.Cmd) {
	subjectID, ok := m.subjectsView.SelectedSubjectID()
	if !ok {
		m.status = "no subject selected"
		return m, nil
	}
	name := m.subjectsView.SelectedSubjectName()
	return m, func() tea.Msg {
		_, err := m.planner.DeleteSubject(context.Background(), subjectID)
		return mutationMsg{status: "deleted " + name, err: err}
	}
}

func (m Model) toggleTodo() (tea.Model, tea.Cmd) {
	subjectID, _ := m.subjectsView.SelectedSubjectID()
	todoID, ok := m.subjectsView.SelectedTodoID()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	return m, func() tea.Msg {
		_, err := m.planner.ToggleTodo(context.Background(), subjectID, todoID)
		return mutationMsg{status: "task toggled", err: err}
	}
}

func (m Model) deleteTodo() (tea.Model, tea.Cmd) {
	subjectID, _ := m.subjectsView.SelectedSubjectID()
	todoID, ok := m.subjectsView.SelectedTodoID()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	return m, func() tea.Msg {
		_, err := m.planner.DeleteTodo(context.Background(), subjectID, todoID)
		return mutationMsg{status: "task deleted", err: err}
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.subjectsView, _ = m.subjectsView.Update(sz)
	m.progressView, _ = m.progressView.Update(sz)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, apperrors.ErrActiveSessionExists):
		return "a session is already running"
	case errors.Is(err, apperrors.ErrNotStudying):
		return "only a study phase can be completed"
	case errors.Is(err, apperrors.ErrNoActiveSession):
		return "no session running"
	case errors.Is(err, apperrors.ErrNotFound):
		return "subject not found"
	}
	return "error: " + err.Error()
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) reloadCmd() tea.Cmd {
	return tea.Batch(m.subjectsView.Reload(), m.progressView.Reload(), m.statusCmd(), m.snapshotCmd())
}

func (m Model) waitSignalCmd() tea.Cmd {
	if m.signals == nil {
		return nil
	}
	signals := m.signals
	return func() tea.Msg {
		if _, ok := <-signals; !ok {
			return nil
		}
		return timerSignalMsg{}
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.session.Snapshot(context.Background())
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) statusCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.planner.Status(context.Background())
		return statusLoadedMsg{status: status, err: err}
	}
}

func (m Model) addSubjectCmd(name string, difficulty int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.planner.AddSubject(context.Background(), name, difficulty)
		return mutationMsg{status: "added " + out.Name, err: err}
	}
}

func (m Model) addTodoCmd(subjectID int64, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.planner.AddTodo(context.Background(), subjectID, text)
		return mutationMsg{status: "task added", err: err}
	}
}

func (m Model) startCmd(subjectID int64) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), subjectID)
		return mutationMsg{status: "studying " + out.SubjectName, err: err}
	}
}

func (m Model) completeCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Complete(context.Background())
		return mutationMsg{status: fmt.Sprintf("session complete (+%.1fh)", out.CreditedHours), err: err}
	}
}

func (m Model) cancelCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Cancel(context.Background())
		return mutationMsg{status: "session cancelled", err: err}
	}
}
