package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dailyquest/internal/engine"
	"dailyquest/internal/storage"
	"dailyquest/internal/ui"
)

type boardModel struct {
	ctx    context.Context
	svc    *engine.Service
	userID string

	width  int
	height int

	status *engine.StatusResult
	tasks  []storage.Task
	week   []storage.DayCount

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	status *engine.StatusResult
	tasks  []storage.Task
	week   []storage.DayCount
	// note replaces the refresh line when set.
	note string
	err  error
}

type toggledMsg struct {
	res *engine.ToggleResult
	err error
}

type pinnedMsg struct {
	task *storage.Task
	err  error
}

type unlockedMsg struct {
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, userID string) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		userID:  userID,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return m.reloadWith("")
}

// reloadWith refreshes the board and keeps note as the status line.
func (m boardModel) reloadWith(note string) tea.Cmd {
	return func() tea.Msg {
		st, err := m.svc.Status(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := m.svc.ListTasks(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		week, err := m.svc.WeekStrip(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{status: st, tasks: tasks, week: week, note: note}
	}
}

func (m boardModel) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleTask(m.ctx, m.userID, id)
		return toggledMsg{res: res, err: err}
	}
}

func (m boardModel) pinCmd(id string, pinned bool) tea.Cmd {
	return func() tea.Msg {
		t, err := m.svc.PinTask(m.ctx, m.userID, id, pinned)
		return pinnedMsg{task: t, err: err}
	}
}

func (m boardModel) unlockCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.svc.Unlock(m.ctx, m.userID)
		return unlockedMsg{err: err}
	}
}

func (m boardModel) current() *storage.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.selected]
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		m.tasks = msg.tasks
		m.week = msg.week
		if m.selected >= len(m.tasks) {
			m.selected = len(m.tasks) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = msg.note
		if m.lastLog == "" {
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		}
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			if errors.Is(msg.err, engine.ErrSessionLocked) {
				// The lock may come from a reset that just ran for a new day,
				// so the header and tasks are stale too.
				m.lastLog = lockedHint
				return m, m.reloadWith(lockedHint)
			}
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = toggleLog(msg.res)
		return m, m.loadCmd()
	case pinnedMsg:
		if msg.err != nil {
			m.lastLog = "Pin failed: " + msg.err.Error()
			return m, nil
		}
		if msg.task.Pinned {
			m.lastLog = "Pinned " + msg.task.Title + "."
		} else {
			m.lastLog = "Unpinned " + msg.task.Title + "."
		}
		return m, m.loadCmd()
	case unlockedMsg:
		if msg.err != nil {
			m.lastLog = "Unlock failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = "Unlocked. Go get it."
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.tasks)-1 {
				m.selected++
			}
			return m, nil
		case "u":
			return m, m.unlockCmd()
		case "p":
			t := m.current()
			if t == nil {
				return m, nil
			}
			return m, m.pinCmd(t.ID, !t.Pinned)
		case "c", " ", "enter":
			t := m.current()
			if t == nil {
				m.lastLog = "No task selected."
				return m, nil
			}
			return m, m.toggleCmd(t.ID)
		}
	}
	return m, nil
}

const lockedHint = "Board is locked. Press u to unlock."

func toggleLog(res *engine.ToggleResult) string {
	if res.Outcome == engine.OutcomeNoOp {
		return "Nothing to change."
	}
	verb := "Completed"
	if !res.Completed {
		verb = "Undid"
	}
	line := fmt.Sprintf("%s %s: %+d XP, %+d coins", verb, res.Task.Title, res.XPDelta, res.CoinsDelta)
	if res.LevelUp {
		line += fmt.Sprintf(" | LEVEL UP %d → %d", res.LevelBefore, res.LevelAfter)
	}
	for _, rw := range res.Rewards {
		line += fmt.Sprintf(" | %s %s", ui.IconGift, rw.Label)
	}
	return line
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := len(linesLeft)
	if len(linesRight) > rows {
		rows = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.status == nil {
		return "Dailyquest | loading…"
	}
	st := m.status
	bar := ui.ProgressBar(st.LevelInto, st.LevelSpan, 30)
	lock := ""
	if st.Session.Locked {
		lock = " | " + ui.IconLock + " locked"
	}
	return fmt.Sprintf("Dailyquest | %s | Level %d | XP %d %s | Coins %d%s",
		st.Profile.Username, st.Stats.Level, st.Stats.XP, bar, st.Stats.Coins, lock)
}

func (m boardModel) renderSidebar() string {
	if m.status == nil {
		return "Stats\n\nLoading…"
	}
	st := m.status
	lines := []string{"Today"}
	lines = append(lines, fmt.Sprintf("- done %d/%d", st.CompletedToday, st.TotalTasks))
	lines = append(lines, fmt.Sprintf("- best streak %d", st.BestStreak))
	lines = append(lines, fmt.Sprintf("- open rewards %d", st.OpenRewards))
	if st.Session.Mood != "" {
		lines = append(lines, "", st.Session.Mood)
	}
	lines = append(lines, "", "Week")
	var strip strings.Builder
	for _, d := range m.week {
		strip.WriteString(ui.Heat(d.Count))
	}
	lines = append(lines, strip.String())
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: toggle")
	lines = append(lines, "- p: pin/unpin")
	lines = append(lines, "- u: unlock")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, "Quests")
	if len(m.tasks) == 0 {
		out = append(out, "(empty, add one with `dq add`)")
		return strings.Join(out, "\n")
	}
	today := m.svc.Today()
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		mark := "[ ]"
		if t.IsCompleted(today) {
			mark = "[x]"
		}
		pin := ""
		if t.Pinned {
			pin = "* "
		}
		out = append(out, fmt.Sprintf("%s%s %s%s (streak=%d)", cursor, mark, pin, t.Title, t.Streak))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

// padRight pads s to width visible cells. Styled text is measured without
// its escape sequences.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
