package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore keeps every user in one local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load(ctx context.Context, userID string) (*Snapshot, error) {
	snap := NewSnapshot(userID)

	profile, stats, err := NewUserRepo(s.db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return snap, nil
	}
	snap.Profile = *profile
	snap.Stats = *stats

	if snap.Tasks, err = NewTaskRepo(s.db).ListByUser(ctx, userID); err != nil {
		return nil, err
	}
	if snap.Rewards, err = NewRewardRepo(s.db).ListByUser(ctx, userID); err != nil {
		return nil, err
	}
	if snap.Session, err = NewSessionRepo(s.db).Get(ctx, userID); err != nil {
		return nil, err
	}
	return snap, nil
}

// Apply writes the whole mutation in one transaction.
func (s *SQLiteStore) Apply(ctx context.Context, userID string, m Mutation) error {
	if m.IsEmpty() {
		return nil
	}
	now := s.now()

	return WithTx(ctx, s.db, func(q DBTX) error {
		users := NewUserRepo(q)
		tasks := NewTaskRepo(q)
		rewards := NewRewardRepo(q)
		completions := NewCompletionRepo(q)

		if err := users.Ensure(ctx, userID, now); err != nil {
			return err
		}
		if m.Stats != nil {
			if err := users.UpdateStats(ctx, userID, *m.Stats, now); err != nil {
				return err
			}
		}
		for _, t := range m.Tasks {
			if t.UserID != userID {
				return fmt.Errorf("task %s belongs to user %q, not %q", t.ID, t.UserID, userID)
			}
			if err := tasks.Upsert(ctx, t); err != nil {
				return err
			}
		}
		for _, id := range m.DeleteTaskIDs {
			if err := tasks.Delete(ctx, userID, id); err != nil {
				return err
			}
		}
		for _, rw := range m.Rewards {
			if rw.UserID != userID {
				return fmt.Errorf("reward %s belongs to user %q, not %q", rw.ID, rw.UserID, userID)
			}
			if err := rewards.Upsert(ctx, rw); err != nil {
				return err
			}
		}
		for _, id := range m.DeleteRewardIDs {
			if err := rewards.Delete(ctx, userID, id); err != nil {
				return err
			}
		}
		for _, c := range m.Completions {
			if err := completions.Add(ctx, userID, c.Day, c.Delta); err != nil {
				return err
			}
		}
		if m.Session != nil {
			sess := *m.Session
			sess.UserID = userID
			if err := NewSessionRepo(q).Upsert(ctx, sess); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) EnsureProfile(ctx context.Context, p Profile) error {
	return NewUserRepo(s.db).UpsertProfile(ctx, p)
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return NewUserRepo(s.db).TopByXP(ctx, limit)
}

func (s *SQLiteStore) Completions(ctx context.Context, userID string, from, to string) ([]DayCount, error) {
	return NewCompletionRepo(s.db).Range(ctx, userID, from, to)
}
