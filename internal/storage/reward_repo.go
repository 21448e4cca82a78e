package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type RewardRepo struct {
	db DBTX
}

func NewRewardRepo(db DBTX) *RewardRepo {
	return &RewardRepo{db: db}
}

func (r *RewardRepo) Upsert(ctx context.Context, rw Reward) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rewards (id, user_id, type, label, valid_window, issued_at, expires_at, is_redeemed, redeemed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_redeemed = excluded.is_redeemed,
			redeemed_at = excluded.redeemed_at
	`, rw.ID, rw.UserID, rw.Type, rw.Label, rw.ValidWindow, rw.IssuedAt.UTC(), rw.ExpiresAt.UTC(), boolToInt(rw.Redeemed), nullableTime(rw.RedeemedAt))
	if err != nil {
		return fmt.Errorf("reward upsert: %w", err)
	}
	return nil
}

// ListByUser returns the user's rewards in issue order.
func (r *RewardRepo) ListByUser(ctx context.Context, userID string) ([]Reward, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, label, valid_window, issued_at, expires_at, is_redeemed, redeemed_at
		FROM rewards
		WHERE user_id = ?
		ORDER BY rowid ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("reward list: %w", err)
	}
	defer rows.Close()

	var out []Reward
	for rows.Next() {
		var (
			rw         Reward
			window     sql.NullString
			redeemed   int
			redeemedAt sql.NullTime
		)
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.Type, &rw.Label, &window, &rw.IssuedAt, &rw.ExpiresAt, &redeemed, &redeemedAt); err != nil {
			return nil, fmt.Errorf("reward scan: %w", err)
		}
		rw.ValidWindow = window.String
		rw.Redeemed = redeemed != 0
		if redeemedAt.Valid {
			v := redeemedAt.Time
			rw.RedeemedAt = &v
		}
		out = append(out, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reward rows: %w", err)
	}
	return out, nil
}

func (r *RewardRepo) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rewards WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("reward delete: %w", err)
	}
	return nil
}
