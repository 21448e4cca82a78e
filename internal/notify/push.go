package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"

	"dailyquest/internal/engine"
)

type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Push sends level-ups and rewards through Firebase Cloud Messaging to the
// user's topic. Task toggles are not pushed.
type Push struct {
	client sender
	log    *log.Logger
}

func NewPush(ctx context.Context, app *firebase.App, logger *log.Logger) (*Push, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}
	return &Push{client: client, log: logger}, nil
}

// Topic is the FCM topic a user's devices subscribe to.
func Topic(userID string) string {
	return "dq-" + userID
}

func (p *Push) TaskToggled(context.Context, engine.TaskToggledEvent) error { return nil }

func (p *Push) LevelUp(ctx context.Context, ev engine.LevelUpEvent) error {
	return p.send(ctx, ev.UserID, "Level up!", fmt.Sprintf("You reached level %d.", ev.To), map[string]string{
		"event": "level_up",
		"level": strconv.Itoa(ev.To),
	})
}

func (p *Push) RewardIssued(ctx context.Context, ev engine.RewardIssuedEvent) error {
	return p.send(ctx, ev.UserID, "You won "+ev.Reward.Label, ev.Reward.ValidWindow, map[string]string{
		"event":     "reward_issued",
		"reward_id": ev.Reward.ID,
		"type":      ev.Reward.Type,
	})
}

func (p *Push) send(ctx context.Context, userID, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: Topic(userID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	id, err := p.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	if p.log != nil {
		p.log.Printf("[INFO] push sent to %s: %s", message.Topic, id)
	}
	return nil
}
