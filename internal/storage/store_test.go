package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func TestLoadUnknownUserReturnsDefaults(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, Stats{Level: DefaultLevel}, snap.Stats)
	assert.Empty(t, snap.Tasks)
	assert.Equal(t, "nobody", snap.Session.UserID)
	assert.False(t, snap.Session.Locked)
}

func TestApplyPersistsWholeMutation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	err := s.Apply(ctx, "u1", Mutation{
		Tasks: []Task{
			{ID: "t1", UserID: "u1", Title: "Workout", CreatedAt: now},
			{ID: "t2", UserID: "u1", Title: "Deep Work", CreatedAt: now.Add(time.Minute), Streak: 2, CompletedAt: &now, CompletedOn: "2026-03-02"},
		},
		Stats:       &Stats{XP: 20, Coins: 10, Level: 1},
		Completions: []CompletionDelta{{Day: "2026-03-02", Delta: 1}},
		Session:     &Session{LastVisitDate: "2026-03-02", Locked: true, Mood: "Fresh start."},
	})
	require.NoError(t, err)

	snap, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Stats{XP: 20, Coins: 10, Level: 1}, snap.Stats)
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, "t1", snap.Tasks[0].ID)
	assert.Equal(t, "t2", snap.Tasks[1].ID)
	assert.True(t, snap.Tasks[1].IsCompleted("2026-03-02"))
	require.NotNil(t, snap.Tasks[1].CompletedAt)
	assert.True(t, snap.Tasks[1].CompletedAt.Equal(now))
	assert.Equal(t, Session{UserID: "u1", LastVisitDate: "2026-03-02", Locked: true, Mood: "Fresh start."}, snap.Session)

	days, err := s.Completions(ctx, "u1", "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, []DayCount{{Day: "2026-03-02", Count: 1}}, days)
}

func TestApplyRollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Apply(ctx, "u1", Mutation{Stats: &Stats{XP: 40, Coins: 20, Level: 1}}))

	// The stats write succeeds inside the transaction, the foreign task does not.
	err := s.Apply(ctx, "u1", Mutation{
		Stats:       &Stats{XP: 60, Coins: 30, Level: 1},
		Tasks:       []Task{{ID: "t1", UserID: "someone-else", Title: "x", CreatedAt: now}},
		Completions: []CompletionDelta{{Day: "2026-03-02", Delta: 1}},
	})
	require.Error(t, err)

	snap, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Stats{XP: 40, Coins: 20, Level: 1}, snap.Stats)
	assert.Empty(t, snap.Tasks)

	n, err := NewCompletionRepo(s.DB()).Count(ctx, "u1", "2026-03-02")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCompletionCounterFloorsAtZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, "u1", Mutation{Completions: []CompletionDelta{{Day: "2026-03-02", Delta: -1}}}))
	require.NoError(t, s.Apply(ctx, "u1", Mutation{Completions: []CompletionDelta{{Day: "2026-03-02", Delta: 1}}}))
	require.NoError(t, s.Apply(ctx, "u1", Mutation{Completions: []CompletionDelta{{Day: "2026-03-02", Delta: -1}}}))
	require.NoError(t, s.Apply(ctx, "u1", Mutation{Completions: []CompletionDelta{{Day: "2026-03-02", Delta: -1}}}))

	n, err := NewCompletionRepo(s.DB()).Count(ctx, "u1", "2026-03-02")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRewardsAndDeletes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	expires := time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)

	rw := Reward{ID: "r1", UserID: "u1", Type: "FOOD", Label: "Cheat Meal", ValidWindow: "Valid until 9 PM", IssuedAt: now, ExpiresAt: expires}
	require.NoError(t, s.Apply(ctx, "u1", Mutation{
		Rewards: []Reward{rw},
		Tasks:   []Task{{ID: "t1", UserID: "u1", Title: "Workout", CreatedAt: now}},
	}))

	rw.Redeemed = true
	rw.RedeemedAt = &now
	require.NoError(t, s.Apply(ctx, "u1", Mutation{Rewards: []Reward{rw}}))

	snap, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, snap.Rewards, 1)
	assert.True(t, snap.Rewards[0].Redeemed)
	assert.True(t, snap.Rewards[0].ExpiresAt.Equal(expires))

	require.NoError(t, s.Apply(ctx, "u1", Mutation{DeleteRewardIDs: []string{"r1"}, DeleteTaskIDs: []string{"t1"}}))
	snap, err = s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, snap.Rewards)
	assert.Empty(t, snap.Tasks)
}

func TestLeaderboardOrdersByXP(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureProfile(ctx, Profile{UserID: "a", Email: "alice@example.com"}))
	require.NoError(t, s.EnsureProfile(ctx, Profile{UserID: "b", Username: "bob"}))
	require.NoError(t, s.EnsureProfile(ctx, Profile{UserID: "c"}))
	require.NoError(t, s.Apply(ctx, "a", Mutation{Stats: &Stats{XP: 120, Coins: 60, Level: 2}}))
	require.NoError(t, s.Apply(ctx, "b", Mutation{Stats: &Stats{XP: 300, Coins: 10, Level: 4}}))
	require.NoError(t, s.Apply(ctx, "c", Mutation{Stats: &Stats{XP: 20, Coins: 10, Level: 1}}))

	top, err := s.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, LeaderboardEntry{Rank: 1, UserID: "b", Username: "bob", XP: 300, Coins: 10, Level: 4}, top[0])
	assert.Equal(t, LeaderboardEntry{Rank: 2, UserID: "a", Username: "alice", XP: 120, Coins: 60, Level: 2}, top[1])
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "neo", DisplayName("neo", "thomas@matrix.io"))
	assert.Equal(t, "thomas", DisplayName("", "thomas@matrix.io"))
	assert.Equal(t, "Anonymous", DisplayName("", ""))
}
