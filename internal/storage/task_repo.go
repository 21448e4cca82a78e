package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type TaskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `id, user_id, title, streak, is_pinned, created_at, completed_at, completed_on`

// Upsert writes every task field; the task's user never changes.
func (r *TaskRepo) Upsert(ctx context.Context, t Task) error {
	var completedOn *string
	if t.CompletedOn != "" {
		completedOn = &t.CompletedOn
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			streak = excluded.streak,
			is_pinned = excluded.is_pinned,
			completed_at = excluded.completed_at,
			completed_on = excluded.completed_on
	`, t.ID, t.UserID, t.Title, t.Streak, boolToInt(t.Pinned), t.CreatedAt.UTC(), nullableTime(t.CompletedAt), completedOn)
	if err != nil {
		return fmt.Errorf("task upsert: %w", err)
	}
	return nil
}

func (r *TaskRepo) Get(ctx context.Context, userID, id string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ? AND id = ?
	`, userID, id)
	return scanTaskRow(row)
}

// ListByUser returns the user's tasks in insertion order.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ?
		ORDER BY rowid ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

func (r *TaskRepo) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		t           Task
		pinned      int
		completedAt sql.NullTime
		completedOn sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Streak, &pinned, &t.CreatedAt, &completedAt, &completedOn); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	t.Pinned = pinned != 0
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	if completedOn.Valid {
		t.CompletedOn = completedOn.String
	}
	return &t, nil
}
