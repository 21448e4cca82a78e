package notify

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyquest/internal/engine"
	"dailyquest/internal/storage"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/dq/messages/1", nil
}

func TestLoggerWritesEvents(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogger(log.New(&buf, "", 0))
	ctx := context.Background()

	require.NoError(t, n.TaskToggled(ctx, engine.TaskToggledEvent{UserID: "u1", Title: "Workout", Completed: true, Streak: 2, XPDelta: 20, CoinsDelta: 15}))
	require.NoError(t, n.LevelUp(ctx, engine.LevelUpEvent{UserID: "u1", From: 1, To: 2}))

	out := buf.String()
	assert.Contains(t, out, `[INFO] u1 completed "Workout" (streak 2, xp +20, coins +15)`)
	assert.Contains(t, out, "[INFO] u1 reached level 2 (was 1)")
}

func TestPushSendsToUserTopic(t *testing.T) {
	fs := &fakeSender{}
	p := &Push{client: fs}
	ctx := context.Background()

	require.NoError(t, p.TaskToggled(ctx, engine.TaskToggledEvent{UserID: "u1"}))
	require.NoError(t, p.LevelUp(ctx, engine.LevelUpEvent{UserID: "u1", From: 1, To: 3}))
	require.NoError(t, p.RewardIssued(ctx, engine.RewardIssuedEvent{UserID: "u1", Reward: storage.Reward{ID: "r1", Type: "FOOD", Label: "Cheat Meal", ValidWindow: "Valid until 9 PM"}}))

	require.Len(t, fs.sent, 2)
	assert.Equal(t, "dq-u1", fs.sent[0].Topic)
	assert.Equal(t, "3", fs.sent[0].Data["level"])
	assert.Equal(t, "You won Cheat Meal", fs.sent[1].Notification.Title)
	assert.Equal(t, "r1", fs.sent[1].Data["reward_id"])
}

func TestPushWrapsSendErrors(t *testing.T) {
	p := &Push{client: &fakeSender{err: errors.New("unavailable")}}
	err := p.LevelUp(context.Background(), engine.LevelUpEvent{UserID: "u1", To: 2})
	assert.ErrorContains(t, err, "failed to send FCM message")
}

func TestMultiCallsEveryNotifier(t *testing.T) {
	failing := &Push{client: &fakeSender{err: errors.New("unavailable")}}
	var buf bytes.Buffer
	m := Multi{failing, NewLogger(log.New(&buf, "", 0))}

	err := m.LevelUp(context.Background(), engine.LevelUpEvent{UserID: "u1", From: 1, To: 2})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "reached level 2")

	assert.NoError(t, m.TaskToggled(context.Background(), engine.TaskToggledEvent{UserID: "u1"}))
}
