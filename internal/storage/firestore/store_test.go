package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyquest/internal/storage"
)

// newEmulatorStore connects to the Firestore emulator. Each test works under
// a fresh user id so runs do not interfere.
func newEmulatorStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "dailyquest-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return New(client)
}

func TestFirestoreApplyAndLoad(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()
	uid := "u-" + uuid.NewString()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	err := s.Apply(ctx, uid, storage.Mutation{
		Tasks: []storage.Task{
			{ID: "t1", UserID: uid, Title: "Workout", CreatedAt: now},
			{ID: "t2", UserID: uid, Title: "Deep Work", CreatedAt: now.Add(time.Minute), Streak: 1, CompletedAt: &now, CompletedOn: "2026-03-02"},
		},
		Stats:       &storage.Stats{XP: 20, Coins: 10, Level: 1},
		Completions: []storage.CompletionDelta{{Day: "2026-03-02", Delta: 1}},
		Session:     &storage.Session{LastVisitDate: "2026-03-02", Locked: true, Mood: "Let's get to work."},
	})
	require.NoError(t, err)

	snap, err := s.Load(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, storage.Stats{XP: 20, Coins: 10, Level: 1}, snap.Stats)
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, "t1", snap.Tasks[0].ID)
	assert.True(t, snap.Tasks[1].IsCompleted("2026-03-02"))
	assert.True(t, snap.Session.Locked)

	require.NoError(t, s.Apply(ctx, uid, storage.Mutation{Completions: []storage.CompletionDelta{{Day: "2026-03-02", Delta: -3}}}))
	days, err := s.Completions(ctx, uid, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestFirestoreRejectsForeignTask(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()
	uid := "u-" + uuid.NewString()

	err := s.Apply(ctx, uid, storage.Mutation{
		Stats: &storage.Stats{XP: 100, Level: 2},
		Tasks: []storage.Task{{ID: "t1", UserID: "someone-else", Title: "x"}},
	})
	require.Error(t, err)

	snap, err := s.Load(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, storage.Stats{Level: 1}, snap.Stats)
}
