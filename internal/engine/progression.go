package engine

import (
	"time"

	"dailyquest/internal/storage"
)

// Complete computes the effect of completing task at now. Completing a task
// that is already completed today is a no-op.
func Complete(r Rules, task storage.Task, stats storage.Stats, now time.Time) Transition {
	day := r.Day(now)
	tr := Transition{
		Outcome:     OutcomeNoOp,
		Task:        task,
		Stats:       stats,
		LevelBefore: stats.Level,
		LevelAfter:  stats.Level,
	}
	if task.IsCompleted(day) {
		return tr
	}

	// The streak bonus is paid on the streak the task had before this completion.
	coins := r.coinsFor(task.Streak)

	completedAt := now
	task.Streak = clampZero(task.Streak) + 1
	task.CompletedAt = &completedAt
	task.CompletedOn = day

	next := r.Curve.Gain(stats, r.XPPerCompletion)
	next.Coins = clampZero(stats.Coins + coins)

	tr.Outcome = OutcomeApplied
	tr.Task = task
	tr.Stats = next
	tr.XPDelta = r.XPPerCompletion
	tr.CoinsDelta = next.Coins - stats.Coins
	tr.LevelAfter = next.Level
	if next.Level > stats.Level {
		tr.LevelsGained = next.Level - stats.Level
	}
	tr.Completion = &storage.CompletionDelta{Day: day, Delta: 1}
	return tr
}

// Undo reverses today's completion of task. Only a completion made on the
// current day can be undone; anything else is a no-op. XP and coins are
// floored at zero, so an undo after clamping does not restore prior values.
func Undo(r Rules, task storage.Task, stats storage.Stats, now time.Time) Transition {
	day := r.Day(now)
	tr := Transition{
		Outcome:     OutcomeNoOp,
		Task:        task,
		Stats:       stats,
		LevelBefore: stats.Level,
		LevelAfter:  stats.Level,
	}
	if !task.IsCompleted(day) {
		return tr
	}

	// task.Streak already counts today's completion.
	coins := r.coinsFor(task.Streak - 1)

	task.Streak = clampZero(task.Streak - 1)
	task.CompletedAt = nil
	task.CompletedOn = ""

	next := r.Curve.Lose(stats, r.XPPerCompletion)
	next.Coins = clampZero(stats.Coins - coins)

	tr.Outcome = OutcomeApplied
	tr.Task = task
	tr.Stats = next
	tr.XPDelta = next.XP - stats.XP
	tr.CoinsDelta = next.Coins - stats.Coins
	tr.LevelAfter = next.Level
	tr.Completion = &storage.CompletionDelta{Day: day, Delta: -1}
	return tr
}
