package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

// Get returns the profile and stats of a user, or nil when the user is unknown.
func (r *UserRepo) Get(ctx context.Context, userID string) (*Profile, *Stats, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, username, created_at, xp, coins, level
		FROM users
		WHERE user_id = ?
	`, userID)

	var (
		p        Profile
		s        Stats
		email    sql.NullString
		username sql.NullString
		created  sql.NullTime
	)
	if err := row.Scan(&p.UserID, &email, &username, &created, &s.XP, &s.Coins, &s.Level); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("user get: %w", err)
	}
	p.Email = email.String
	p.Username = username.String
	if created.Valid {
		p.CreatedAt = created.Time
	}
	return &p, &s, nil
}

// Ensure creates the user row if it does not exist yet.
func (r *UserRepo) Ensure(ctx context.Context, userID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, created_at) VALUES (?, ?)
		ON CONFLICT(user_id) DO NOTHING
	`, userID, now.UTC())
	if err != nil {
		return fmt.Errorf("user ensure: %w", err)
	}
	return nil
}

// UpsertProfile stores display fields without touching stats.
func (r *UserRepo) UpsertProfile(ctx context.Context, p Profile) error {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, email, username, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			username = excluded.username
	`, p.UserID, p.Email, p.Username, created.UTC())
	if err != nil {
		return fmt.Errorf("user upsert profile: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateStats(ctx context.Context, userID string, s Stats, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET xp = ?, coins = ?, level = ?, last_active = ?
		WHERE user_id = ?
	`, s.XP, s.Coins, s.Level, now.UTC(), userID)
	if err != nil {
		return fmt.Errorf("user update stats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user update stats rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user update stats: user %q not found", userID)
	}
	return nil
}

// TopByXP returns the leaderboard projection, highest XP first.
func (r *UserRepo) TopByXP(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, username, email, xp, coins, level
		FROM users
		ORDER BY xp DESC, user_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var (
			e        LeaderboardEntry
			username sql.NullString
			email    sql.NullString
		)
		if err := rows.Scan(&e.UserID, &username, &email, &e.XP, &e.Coins, &e.Level); err != nil {
			return nil, fmt.Errorf("leaderboard scan: %w", err)
		}
		e.Username = DisplayName(username.String, email.String)
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard rows: %w", err)
	}
	return out, nil
}
