package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyquest/internal/storage"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{-5, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForXP(tc.xp, DefaultLevelStep), "xp=%d", tc.xp)
	}
}

func TestCarryOverCurve(t *testing.T) {
	c := CarryOverCurve{Step: 100}

	got := c.Gain(storage.Stats{XP: 0, Level: 1}, 350)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 50, got.XP)

	lost := c.Lose(got, 80)
	assert.Equal(t, 3, lost.Level, "losing xp never lowers the level")
	assert.Equal(t, 0, lost.XP)

	into, span := c.Progress(storage.Stats{XP: 40, Level: 2})
	assert.Equal(t, 40, into)
	assert.Equal(t, 200, span)
}

func TestNewLevelCurve(t *testing.T) {
	c, err := NewLevelCurve(CurveCarryOver, 50)
	require.NoError(t, err)
	assert.Equal(t, CarryOverCurve{Step: 50}, c)

	c, err = NewLevelCurve("", 0)
	require.NoError(t, err)
	assert.IsType(t, FlatCurve{}, c)

	_, err = NewLevelCurve("exponential", 100)
	assert.Error(t, err)
}

func TestCompletePaysStreakBonusOnPreviousStreak(t *testing.T) {
	r := LegacyRules(fixedRand(0))
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	task := storage.Task{ID: "t1", Title: "Workout", Streak: 2, CompletedOn: "2025-03-09"}

	tr := Complete(r, task, storage.Stats{Level: 1}, now)
	require.Equal(t, OutcomeApplied, tr.Outcome)
	assert.Equal(t, 3, tr.Task.Streak)
	assert.Equal(t, 20, tr.Stats.Coins)
	assert.Equal(t, 20, tr.CoinsDelta)
	assert.Equal(t, "2025-03-10", tr.Task.CompletedOn)
	require.NotNil(t, tr.Completion)
	assert.Equal(t, storage.CompletionDelta{Day: "2025-03-10", Delta: 1}, *tr.Completion)

	back := Undo(r, tr.Task, tr.Stats, now)
	assert.Equal(t, 2, back.Task.Streak)
	assert.Equal(t, 0, back.Stats.Coins)
}

func TestCompleteAlreadyCompletedIsNoOp(t *testing.T) {
	r := LiveRules()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	task := storage.Task{ID: "t1", Streak: 4, CompletedOn: "2025-03-10"}
	stats := storage.Stats{XP: 80, Coins: 40, Level: 1}

	tr := Complete(r, task, stats, now)
	assert.Equal(t, OutcomeNoOp, tr.Outcome)
	assert.Equal(t, task, tr.Task)
	assert.Equal(t, stats, tr.Stats)
	assert.Nil(t, tr.Completion)
}

func TestUndoOnlyReversesToday(t *testing.T) {
	r := LiveRules()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	task := storage.Task{ID: "t1", Streak: 4, CompletedOn: "2025-03-09"}

	tr := Undo(r, task, storage.Stats{XP: 80, Coins: 40, Level: 1}, now)
	assert.Equal(t, OutcomeNoOp, tr.Outcome)
	assert.Equal(t, 4, tr.Task.Streak)
}

func TestUndoClampsInsteadOfRestoring(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	done := now
	task := storage.Task{ID: "t1", Streak: 1, CompletedOn: "2025-03-10", CompletedAt: &done}

	tr := Undo(LiveRules(), task, storage.Stats{XP: 10, Coins: 5, Level: 1}, now)
	assert.Equal(t, storage.Stats{XP: 0, Coins: 0, Level: 1}, tr.Stats)
	assert.Equal(t, 0, tr.Task.Streak)
	assert.Nil(t, tr.Task.CompletedAt)

	// Under the carry-over curve the level-up consumed the XP.
	legacy := LegacyRules(fixedRand(0))
	open := storage.Task{ID: "t2"}
	up := Complete(legacy, open, storage.Stats{XP: 90, Level: 1}, now)
	require.True(t, up.LevelUp())
	assert.Equal(t, 1, up.LevelsGained)
	assert.Equal(t, storage.Stats{XP: 10, Coins: 10, Level: 2}, up.Stats)

	down := Undo(legacy, up.Task, up.Stats, now)
	assert.Equal(t, storage.Stats{XP: 0, Coins: 0, Level: 2}, down.Stats)
	assert.False(t, down.LevelDown())
}

func TestCountersNeverGoNegative(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for _, r := range []Rules{LiveRules(), LegacyRules(fixedRand(0))} {
		now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
		task := storage.Task{ID: "t1"}
		stats := storage.Stats{Level: 1}

		for i := 0; i < 500; i++ {
			var tr Transition
			switch rnd.Intn(3) {
			case 0:
				tr = Complete(r, task, stats, now)
			case 1:
				tr = Undo(r, task, stats, now)
			default:
				now = now.Add(time.Duration(rnd.Intn(48)) * time.Hour)
				continue
			}
			task, stats = tr.Task, tr.Stats
			require.GreaterOrEqual(t, task.Streak, 0)
			require.GreaterOrEqual(t, stats.XP, 0)
			require.GreaterOrEqual(t, stats.Coins, 0)
			require.GreaterOrEqual(t, stats.Level, 1)
		}
	}
}

func TestSortTasksPinnedThenNewest(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tasks := []storage.Task{
		{ID: "A", Pinned: true, CreatedAt: base.Add(1 * time.Minute)},
		{ID: "B", Pinned: false, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "C", Pinned: true, CreatedAt: base.Add(3 * time.Minute)},
	}
	SortTasks(tasks)

	var got []string
	for _, task := range tasks {
		got = append(got, task.ID)
	}
	assert.Equal(t, []string{"C", "A", "B"}, got)
}

func TestNewTaskValidatesTitle(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	_, err := NewTask("u1", "   ", now)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	task, err := NewTask("u1", " Deep Work ", now)
	require.NoError(t, err)
	assert.Equal(t, "Deep Work", task.Title)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, 0, task.Streak)
	assert.False(t, task.Pinned)
}

func TestDayKeyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	t0 := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", DayKey(t0, nil))
	assert.Equal(t, "2025-03-11", DayKey(t0, loc))
	assert.Equal(t, "2025-02-28", PreviousDay("2025-03-01"))
	assert.Equal(t, "", PreviousDay("garbage"))
}

func TestDaysBetweenCapsRange(t *testing.T) {
	days, err := DaysBetween("2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Len(t, days, MaxCalendarDays)
	assert.Equal(t, "2024-12-31", days[len(days)-1])

	_, err = DaysBetween("2024-01-01", "2025-01-01")
	assert.ErrorIs(t, err, ErrRangeTooLarge)

	_, err = DaysBetween("0001-01-01", "9999-12-31")
	assert.ErrorIs(t, err, ErrRangeTooLarge)

	_, err = DaysBetween("2025-03-10", "2025-03-01")
	assert.Error(t, err)
}
