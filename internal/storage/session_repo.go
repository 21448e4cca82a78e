package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type SessionRepo struct {
	db DBTX
}

func NewSessionRepo(db DBTX) *SessionRepo {
	return &SessionRepo{db: db}
}

// Get returns the stored session, or an unlocked session with no visit date.
func (r *SessionRepo) Get(ctx context.Context, userID string) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT last_visit_date, is_locked, mood
		FROM sessions
		WHERE user_id = ?
	`, userID)

	var (
		lastVisit sql.NullString
		locked    int
		mood      sql.NullString
	)
	if err := row.Scan(&lastVisit, &locked, &mood); err != nil {
		if err == sql.ErrNoRows {
			return Session{UserID: userID}, nil
		}
		return Session{}, fmt.Errorf("session get: %w", err)
	}
	return Session{
		UserID:        userID,
		LastVisitDate: lastVisit.String,
		Locked:        locked != 0,
		Mood:          mood.String,
	}, nil
}

func (r *SessionRepo) Upsert(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, last_visit_date, is_locked, mood)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			last_visit_date = excluded.last_visit_date,
			is_locked = excluded.is_locked,
			mood = excluded.mood
	`, s.UserID, s.LastVisitDate, boolToInt(s.Locked), s.Mood)
	if err != nil {
		return fmt.Errorf("session upsert: %w", err)
	}
	return nil
}
