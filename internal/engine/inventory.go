package engine

import (
	"context"
	"sort"

	"dailyquest/internal/storage"
)

type RedeemResult struct {
	Reward  storage.Reward `json:"reward"`
	Outcome Outcome        `json:"outcome"`
}

func (s *Service) RedeemReward(ctx context.Context, userID, rewardID string) (*RedeemResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap, err = s.catchUp(ctx, userID, snap); err != nil {
		return nil, err
	}
	rw := snap.FindReward(rewardID)
	if rw == nil {
		return nil, ErrRewardNotFound
	}
	next, outcome, err := Redeem(*rw, s.now())
	if err != nil {
		return nil, err
	}
	if outcome == OutcomeApplied {
		if err := s.commit(ctx, "redeem reward", userID, storage.Mutation{Rewards: []storage.Reward{next}}); err != nil {
			return nil, err
		}
	}
	return &RedeemResult{Reward: next, Outcome: outcome}, nil
}

// Inventory lists the user's rewards, newest first.
func (s *Service) Inventory(ctx context.Context, userID string) ([]storage.Reward, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := append([]storage.Reward(nil), snap.Rewards...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	return out, nil
}
