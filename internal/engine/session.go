package engine

import (
	"context"

	"dailyquest/internal/storage"
)

type SessionResult struct {
	Session storage.Session `json:"session"`
	Stats   storage.Stats   `json:"stats"`
	// Reset is false when the session was already started today.
	Reset          bool `json:"reset"`
	FirstVisit     bool `json:"first_visit"`
	Missed         int  `json:"missed"`
	XPPenalty      int  `json:"xp_penalty"`
	CoinPenalty    int  `json:"coin_penalty"`
	ExpiredRewards int  `json:"expired_rewards"`
	StreaksReset   int  `json:"streaks_reset"`
}

// StartSession runs the daily reset the first time a user shows up on a new
// day. Later calls on the same day change nothing.
func (s *Service) StartSession(ctx context.Context, userID string) (*SessionResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !needsReset(snap.Session, s.Today()) {
		return &SessionResult{Session: snap.Session, Stats: snap.Stats}, nil
	}
	return s.reset(ctx, userID, snap)
}

// catchUp runs a pending daily reset before any other change is applied to
// snap, so that work done on a new day is never judged against the old one.
// The caller holds the user lock. The returned snapshot is the one to act on.
func (s *Service) catchUp(ctx context.Context, userID string, snap *storage.Snapshot) (*storage.Snapshot, error) {
	if !staleSession(snap.Session, s.Today()) {
		return snap, nil
	}
	if _, err := s.reset(ctx, userID, snap); err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

// reset applies the decay plan for today. The caller holds the user lock.
func (s *Service) reset(ctx context.Context, userID string, snap *storage.Snapshot) (*SessionResult, error) {
	today := s.Today()
	first := snap.Session.LastVisitDate == ""
	plan := s.rules.Decay.Plan(ResetInput{
		Today:         today,
		PreviousVisit: snap.Session.LastVisitDate,
		FirstVisit:    first,
		Tasks:         snap.Tasks,
		Stats:         snap.Stats,
		Rewards:       snap.Rewards,
		Curve:         s.rules.Curve,
	})

	session := storage.Session{
		UserID:        userID,
		LastVisitDate: today,
		Locked:        s.rules.LockDaily,
		Mood:          plan.Mood,
	}
	stats := plan.Stats
	m := storage.Mutation{
		Session:         &session,
		DeleteRewardIDs: plan.ExpiredRewardIDs,
	}
	if stats != snap.Stats {
		m.Stats = &stats
	}
	if s.rules.ResetMissedStreaks && !first {
		m.Tasks = brokenStreaks(snap.Tasks, today)
	}

	if err := s.commit(ctx, "start session", userID, m); err != nil {
		return nil, err
	}

	if plan.Missed > 0 {
		s.log.Printf("[INFO] daily reset for %s: %d missed, -%d xp, -%d coins", userID, plan.Missed, plan.XPPenalty, plan.CoinPenalty)
	}
	return &SessionResult{
		Session:        session,
		Stats:          stats,
		Reset:          true,
		FirstVisit:     first,
		Missed:         plan.Missed,
		XPPenalty:      plan.XPPenalty,
		CoinPenalty:    plan.CoinPenalty,
		ExpiredRewards: len(plan.ExpiredRewardIDs),
		StreaksReset:   len(m.Tasks),
	}, nil
}

// Unlock opens the task list for the rest of the day. A pending reset runs
// first, so a stale session is never unlocked into a new day.
func (s *Service) Unlock(ctx context.Context, userID string) (*storage.Session, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap, err = s.catchUp(ctx, userID, snap); err != nil {
		return nil, err
	}
	session := snap.Session
	if !session.Locked {
		return &session, nil
	}
	session.UserID = userID
	session.Locked = false
	if err := s.commit(ctx, "unlock", userID, storage.Mutation{Session: &session}); err != nil {
		return nil, err
	}
	return &session, nil
}
