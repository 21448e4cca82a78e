package storage

import (
	"context"
	"fmt"
)

type CompletionRepo struct {
	db DBTX
}

func NewCompletionRepo(db DBTX) *CompletionRepo {
	return &CompletionRepo{db: db}
}

// Add moves the day's counter by delta, flooring it at zero.
func (r *CompletionRepo) Add(ctx context.Context, userID string, day string, delta int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO completions (user_id, day, count)
		VALUES (?, ?, MAX(0, ?))
		ON CONFLICT(user_id, day) DO UPDATE SET count = MAX(0, count + ?)
	`, userID, day, delta, delta)
	if err != nil {
		return fmt.Errorf("completion add: %w", err)
	}
	return nil
}

func (r *CompletionRepo) Count(ctx context.Context, userID string, day string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(count), 0)
		FROM completions
		WHERE user_id = ? AND day = ?
	`, userID, day)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count: %w", err)
	}
	return n, nil
}

// Range returns non-empty days between from and to (inclusive day keys), oldest first.
func (r *CompletionRepo) Range(ctx context.Context, userID string, from, to string) ([]DayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, count
		FROM completions
		WHERE user_id = ? AND day >= ? AND day <= ? AND count > 0
		ORDER BY day ASC
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("completion range: %w", err)
	}
	defer rows.Close()

	var out []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("completion scan: %w", err)
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completion rows: %w", err)
	}
	return out, nil
}
