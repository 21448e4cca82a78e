// Package notify delivers engine events to logs and push channels.
package notify

import (
	"context"
	"errors"
	"log"

	"dailyquest/internal/engine"
)

// Logger writes every event to a log.
type Logger struct {
	log *log.Logger
}

func NewLogger(l *log.Logger) *Logger {
	return &Logger{log: l}
}

func (n *Logger) TaskToggled(_ context.Context, ev engine.TaskToggledEvent) error {
	verb := "completed"
	if !ev.Completed {
		verb = "undid"
	}
	n.log.Printf("[INFO] %s %s %q (streak %d, xp %+d, coins %+d)", ev.UserID, verb, ev.Title, ev.Streak, ev.XPDelta, ev.CoinsDelta)
	return nil
}

func (n *Logger) LevelUp(_ context.Context, ev engine.LevelUpEvent) error {
	n.log.Printf("[INFO] %s reached level %d (was %d)", ev.UserID, ev.To, ev.From)
	return nil
}

func (n *Logger) RewardIssued(_ context.Context, ev engine.RewardIssuedEvent) error {
	n.log.Printf("[INFO] %s won %s (%s)", ev.UserID, ev.Reward.Label, ev.Reward.ValidWindow)
	return nil
}

// Multi fans events out to several notifiers. Every notifier is called even
// when an earlier one fails.
type Multi []engine.Notifier

func (m Multi) TaskToggled(ctx context.Context, ev engine.TaskToggledEvent) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.TaskToggled(ctx, ev))
	}
	return errors.Join(errs...)
}

func (m Multi) LevelUp(ctx context.Context, ev engine.LevelUpEvent) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.LevelUp(ctx, ev))
	}
	return errors.Join(errs...)
}

func (m Multi) RewardIssued(ctx context.Context, ev engine.RewardIssuedEvent) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.RewardIssued(ctx, ev))
	}
	return errors.Join(errs...)
}
