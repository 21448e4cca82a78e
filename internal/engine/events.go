package engine

import (
	"context"
	"time"

	"dailyquest/internal/storage"
)

type TaskToggledEvent struct {
	UserID     string
	TaskID     string
	Title      string
	Completed  bool
	Streak     int
	XPDelta    int
	CoinsDelta int
	At         time.Time
}

type LevelUpEvent struct {
	UserID string
	From   int
	To     int
	At     time.Time
}

type RewardIssuedEvent struct {
	UserID string
	Reward storage.Reward
}

// Notifier receives events after their mutation has been committed.
// A failing notifier never undoes the operation.
type Notifier interface {
	TaskToggled(ctx context.Context, ev TaskToggledEvent) error
	LevelUp(ctx context.Context, ev LevelUpEvent) error
	RewardIssued(ctx context.Context, ev RewardIssuedEvent) error
}

type NopNotifier struct{}

func (NopNotifier) TaskToggled(context.Context, TaskToggledEvent) error   { return nil }
func (NopNotifier) LevelUp(context.Context, LevelUpEvent) error           { return nil }
func (NopNotifier) RewardIssued(context.Context, RewardIssuedEvent) error { return nil }
