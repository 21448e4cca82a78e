package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"dailyquest/internal/storage"
)

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ErrEmptyTitle
	}
	return t, nil
}

// NewTask creates an incomplete, unpinned task with a zero streak.
func NewTask(userID string, title string, now time.Time) (storage.Task, error) {
	t, err := normalizeTitle(title)
	if err != nil {
		return storage.Task{}, err
	}
	return storage.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     t,
		CreatedAt: now,
	}, nil
}

// Rename changes the title only.
func Rename(task storage.Task, title string) (storage.Task, error) {
	t, err := normalizeTitle(title)
	if err != nil {
		return storage.Task{}, err
	}
	task.Title = t
	return task, nil
}

func SetPinned(task storage.Task, pinned bool) storage.Task {
	task.Pinned = pinned
	return task
}

// SortTasks orders tasks pinned first, then newest first. Equal keys keep
// their input order.
func SortTasks(tasks []storage.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Pinned != tasks[j].Pinned {
			return tasks[i].Pinned
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
