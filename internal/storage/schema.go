package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			email TEXT,
			username TEXT,
			xp INTEGER NOT NULL DEFAULT 0,
			coins INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_active DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			streak INTEGER NOT NULL DEFAULT 0,
			is_pinned INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			completed_at DATETIME,
			completed_on TEXT,
			FOREIGN KEY(user_id) REFERENCES users(user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS rewards (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			label TEXT NOT NULL,
			valid_window TEXT,
			issued_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			is_redeemed INTEGER NOT NULL DEFAULT 0,
			redeemed_at DATETIME,
			FOREIGN KEY(user_id) REFERENCES users(user_id)
		);`,
		// One row per user per day; feeds the calendar and weekly strip.
		`CREATE TABLE IF NOT EXISTS completions (
			user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(user_id, day),
			FOREIGN KEY(user_id) REFERENCES users(user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			user_id TEXT PRIMARY KEY,
			last_visit_date TEXT,
			is_locked INTEGER NOT NULL DEFAULT 0,
			mood TEXT,
			FOREIGN KEY(user_id) REFERENCES users(user_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_rewards_user_id ON rewards(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_users_xp ON users(xp DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
