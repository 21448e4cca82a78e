package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyquest/internal/engine"
	"dailyquest/internal/storage"
)

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func newTestBoard(t *testing.T) (boardModel, *engine.Service, *stepClock) {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &stepClock{t: time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)}
	svc := engine.NewService(storage.NewSQLiteStore(db), engine.LiveRules(), engine.WithClock(clock))
	require.NoError(t, svc.RegisterProfile(ctx, storage.Profile{UserID: "local", Username: "tester"}))
	return newBoardModel(ctx, svc, "local"), svc, clock
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m boardModel, cmd tea.Cmd) boardModel {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(boardModel)
}

func key(m boardModel, k string) (boardModel, tea.Cmd) {
	var msg tea.KeyMsg
	if k == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(boardModel), cmd
}

func TestBoardTogglesSelectedTask(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	ctx := context.Background()
	_, err := svc.CreateTask(ctx, "local", "Workout")
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, "local", "Read")
	require.NoError(t, err)

	m = run(t, m, m.Init())
	require.Len(t, m.tasks, 2)
	assert.Contains(t, m.View(), "Workout")

	m, _ = key(m, "j")
	assert.Equal(t, 1, m.selected)

	m, cmd := key(m, "c")
	m = run(t, m, cmd)
	assert.True(t, strings.HasPrefix(m.lastLog, "Completed Read"), m.lastLog)

	st, err := svc.Status(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, 20, st.Stats.XP)
}

func TestBoardReportsLock(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	ctx := context.Background()
	_, err := svc.CreateTask(ctx, "local", "Workout")
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, "local")
	require.NoError(t, err)

	m = run(t, m, m.Init())
	m, cmd := key(m, "c")
	m = run(t, m, cmd)
	assert.Contains(t, m.lastLog, "locked")

	m, cmd = key(m, "u")
	m = run(t, m, cmd)
	assert.Contains(t, m.lastLog, "Unlocked")
}

func TestBoardLockedAfterMidnight(t *testing.T) {
	m, svc, clock := newTestBoard(t)
	ctx := context.Background()
	task, err := svc.CreateTask(ctx, "local", "Workout")
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, "local")
	require.NoError(t, err)
	_, err = svc.Unlock(ctx, "local")
	require.NoError(t, err)

	m = run(t, m, m.Init())
	require.False(t, m.status.Session.Locked)

	clock.t = clock.t.Add(3 * time.Hour)
	m, cmd := key(m, "c")
	next, reload := m.Update(cmd())
	m = next.(boardModel)
	assert.Contains(t, m.lastLog, "locked")

	m = run(t, m, reload)
	assert.Contains(t, m.lastLog, "locked")
	require.NotNil(t, m.status)
	assert.True(t, m.status.Session.Locked)
	assert.Equal(t, "2025-03-11", m.status.Session.LastVisitDate)
	assert.Contains(t, m.View(), "locked")

	got, err := svc.ListTasks(ctx, "local")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, task.ID, got[0].ID)
	assert.Empty(t, got[0].CompletedOn)
}
