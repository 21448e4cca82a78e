package engine

import (
	"context"

	"dailyquest/internal/storage"
)

type ToggleResult struct {
	TaskID      string           `json:"task_id"`
	Outcome     Outcome          `json:"outcome"`
	Completed   bool             `json:"completed"`
	Task        storage.Task     `json:"task"`
	Stats       storage.Stats    `json:"stats"`
	XPDelta     int              `json:"xp_delta"`
	CoinsDelta  int              `json:"coins_delta"`
	LevelBefore int              `json:"level_before"`
	LevelAfter  int              `json:"level_after"`
	LevelUp     bool             `json:"level_up"`
	Rewards     []storage.Reward `json:"rewards,omitempty"`
}

type toggleMode int

const (
	modeComplete toggleMode = iota
	modeUndo
	modeFlip
)

// CompleteTask marks a task done for today. Completing it again the same day
// returns OutcomeNoOp.
func (s *Service) CompleteTask(ctx context.Context, userID, taskID string) (*ToggleResult, error) {
	return s.toggle(ctx, userID, taskID, modeComplete)
}

// UndoTask reverses today's completion. A task not completed today is a no-op.
func (s *Service) UndoTask(ctx context.Context, userID, taskID string) (*ToggleResult, error) {
	return s.toggle(ctx, userID, taskID, modeUndo)
}

// ToggleTask completes an open task or undoes today's completion.
func (s *Service) ToggleTask(ctx context.Context, userID, taskID string) (*ToggleResult, error) {
	return s.toggle(ctx, userID, taskID, modeFlip)
}

func (s *Service) toggle(ctx context.Context, userID, taskID string, mode toggleMode) (*ToggleResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap, err = s.catchUp(ctx, userID, snap); err != nil {
		return nil, err
	}
	if err := checkUnlocked(snap.Session); err != nil {
		return nil, err
	}
	task := snap.FindTask(taskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	now := s.now()
	day := s.rules.Day(now)

	var tr Transition
	switch mode {
	case modeComplete:
		tr = Complete(s.rules, *task, snap.Stats, now)
	case modeUndo:
		tr = Undo(s.rules, *task, snap.Stats, now)
	default:
		if task.IsCompleted(day) {
			tr = Undo(s.rules, *task, snap.Stats, now)
		} else {
			tr = Complete(s.rules, *task, snap.Stats, now)
		}
	}

	res := &ToggleResult{
		TaskID:      taskID,
		Outcome:     tr.Outcome,
		Completed:   tr.Task.IsCompleted(day),
		Task:        tr.Task,
		Stats:       tr.Stats,
		XPDelta:     tr.XPDelta,
		CoinsDelta:  tr.CoinsDelta,
		LevelBefore: tr.LevelBefore,
		LevelAfter:  tr.LevelAfter,
		LevelUp:     tr.LevelUp(),
	}
	if tr.Outcome == OutcomeNoOp {
		return res, nil
	}

	stats := tr.Stats
	m := storage.Mutation{
		Tasks:       []storage.Task{tr.Task},
		Stats:       &stats,
		Completions: []storage.CompletionDelta{*tr.Completion},
	}
	if tr.LevelsGained > 0 {
		res.Rewards = s.rules.Rewards.Issue(userID, now, tr.LevelsGained)
		m.Rewards = res.Rewards
	}

	op := "complete task"
	if !res.Completed {
		op = "undo task"
	}
	if err := s.commit(ctx, op, userID, m); err != nil {
		return nil, err
	}

	s.emitToggle(ctx, userID, res)
	return res, nil
}

func (s *Service) emitToggle(ctx context.Context, userID string, res *ToggleResult) {
	at := s.now()
	if err := s.notifier.TaskToggled(ctx, TaskToggledEvent{
		UserID:     userID,
		TaskID:     res.TaskID,
		Title:      res.Task.Title,
		Completed:  res.Completed,
		Streak:     res.Task.Streak,
		XPDelta:    res.XPDelta,
		CoinsDelta: res.CoinsDelta,
		At:         at,
	}); err != nil {
		s.log.Printf("[WARN] notify task toggled: %v", err)
	}
	if res.LevelUp {
		if err := s.notifier.LevelUp(ctx, LevelUpEvent{UserID: userID, From: res.LevelBefore, To: res.LevelAfter, At: at}); err != nil {
			s.log.Printf("[WARN] notify level up: %v", err)
		}
	}
	for _, rw := range res.Rewards {
		if err := s.notifier.RewardIssued(ctx, RewardIssuedEvent{UserID: userID, Reward: rw}); err != nil {
			s.log.Printf("[WARN] notify reward issued: %v", err)
		}
	}
}
