package engine

import (
	"context"

	"dailyquest/internal/storage"
)

type DeleteResult struct {
	TaskID string `json:"task_id"`
	// Reversed is set when the task was completed today and its rewards
	// were taken back.
	Reversed bool          `json:"reversed"`
	Stats    storage.Stats `json:"stats"`
}

func (s *Service) CreateTask(ctx context.Context, userID, title string) (*storage.Task, error) {
	task, err := NewTask(userID, title, s.now())
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.catchUp(ctx, userID, snap); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, "create task", userID, storage.Mutation{Tasks: []storage.Task{task}}); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Service) RenameTask(ctx context.Context, userID, taskID, title string) (*storage.Task, error) {
	return s.updateTask(ctx, "rename task", userID, taskID, func(t storage.Task) (storage.Task, error) {
		return Rename(t, title)
	})
}

func (s *Service) PinTask(ctx context.Context, userID, taskID string, pinned bool) (*storage.Task, error) {
	return s.updateTask(ctx, "pin task", userID, taskID, func(t storage.Task) (storage.Task, error) {
		return SetPinned(t, pinned), nil
	})
}

// TaskPatch names the task fields to change. Nil fields are left alone.
type TaskPatch struct {
	Title  *string
	Pinned *bool
}

// UpdateTask applies every field of p in a single commit.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID string, p TaskPatch) (*storage.Task, error) {
	return s.updateTask(ctx, "update task", userID, taskID, func(t storage.Task) (storage.Task, error) {
		if p.Title != nil {
			var err error
			if t, err = Rename(t, *p.Title); err != nil {
				return storage.Task{}, err
			}
		}
		if p.Pinned != nil {
			t = SetPinned(t, *p.Pinned)
		}
		return t, nil
	})
}

func (s *Service) updateTask(ctx context.Context, op, userID, taskID string, fn func(storage.Task) (storage.Task, error)) (*storage.Task, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap, err = s.catchUp(ctx, userID, snap); err != nil {
		return nil, err
	}
	task := snap.FindTask(taskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}
	next, err := fn(*task)
	if err != nil {
		return nil, err
	}
	if next == *task {
		return &next, nil
	}
	if err := s.commit(ctx, op, userID, storage.Mutation{Tasks: []storage.Task{next}}); err != nil {
		return nil, err
	}
	return &next, nil
}

// DeleteTask removes a task. A task completed today takes its XP, coins and
// completion mark with it.
func (s *Service) DeleteTask(ctx context.Context, userID, taskID string) (*DeleteResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap, err = s.catchUp(ctx, userID, snap); err != nil {
		return nil, err
	}
	task := snap.FindTask(taskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	res := &DeleteResult{TaskID: taskID, Stats: snap.Stats}
	m := storage.Mutation{DeleteTaskIDs: []string{taskID}}

	tr := Undo(s.rules, *task, snap.Stats, s.now())
	if tr.Outcome == OutcomeApplied {
		stats := tr.Stats
		m.Stats = &stats
		m.Completions = []storage.CompletionDelta{*tr.Completion}
		res.Reversed = true
		res.Stats = stats
	}

	if err := s.commit(ctx, "delete task", userID, m); err != nil {
		return nil, err
	}
	return res, nil
}

// ListTasks returns the user's tasks pinned first, then newest first.
func (s *Service) ListTasks(ctx context.Context, userID string) ([]storage.Task, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks := append([]storage.Task(nil), snap.Tasks...)
	SortTasks(tasks)
	return tasks, nil
}
