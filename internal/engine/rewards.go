package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"dailyquest/internal/storage"
)

// RandSource is the randomness used to draw rewards. *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// RewardIssuer decides what a user receives when they gain levels.
type RewardIssuer interface {
	Issue(userID string, now time.Time, levelsGained int) []storage.Reward
}

// NoRewards never issues anything.
type NoRewards struct{}

func (NoRewards) Issue(string, time.Time, int) []storage.Reward { return nil }

// RewardKind is one entry of a weighted reward table.
type RewardKind struct {
	Type   string
	Label  string
	Weight int
	// ValidUntil is the time of day ("21:00") after which the reward expires.
	ValidUntil string
}

// DefaultRewardKinds is the scratch-card table: an even draw between a cheat
// meal and half an hour of YouTube.
func DefaultRewardKinds() []RewardKind {
	return []RewardKind{
		{Type: "FOOD", Label: "Cheat Meal", Weight: 50, ValidUntil: "21:00"},
		{Type: "YOUTUBE", Label: "30m Youtube", Weight: 50, ValidUntil: "22:00"},
	}
}

// WeightedRewards draws one reward per level gained.
type WeightedRewards struct {
	Kinds    []RewardKind
	Rand     RandSource
	Location *time.Location
	NewID    func() string
}

func NewWeightedRewards(kinds []RewardKind, rnd RandSource) WeightedRewards {
	return WeightedRewards{Kinds: kinds, Rand: rnd, NewID: uuid.NewString}
}

func (w WeightedRewards) Issue(userID string, now time.Time, levelsGained int) []storage.Reward {
	newID := w.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	var out []storage.Reward
	for i := 0; i < levelsGained; i++ {
		kind, ok := w.pick()
		if !ok {
			return out
		}
		expiresAt, window := w.expiry(kind, now)
		out = append(out, storage.Reward{
			ID:          newID(),
			UserID:      userID,
			Type:        kind.Type,
			Label:       kind.Label,
			ValidWindow: window,
			IssuedAt:    now,
			ExpiresAt:   expiresAt,
		})
	}
	return out
}

func (w WeightedRewards) pick() (RewardKind, bool) {
	total := 0
	for _, k := range w.Kinds {
		if k.Weight > 0 {
			total += k.Weight
		}
	}
	if total == 0 || w.Rand == nil {
		return RewardKind{}, false
	}

	roll := w.Rand.Intn(total)
	current := 0
	for _, k := range w.Kinds {
		if k.Weight <= 0 {
			continue
		}
		current += k.Weight
		if roll < current {
			return k, true
		}
	}
	return RewardKind{}, false
}

// expiry places the reward's deadline on the issue day. A reward issued after
// its time of day is already expired.
func (w WeightedRewards) expiry(kind RewardKind, now time.Time) (time.Time, string) {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	hour, minute, err := ParseTimeOfDay(kind.ValidUntil)
	if err != nil {
		local := now.In(loc)
		end := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, loc)
		return end, "Valid today"
	}
	local := now.In(loc)
	at := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	layout := "3 PM"
	if minute != 0 {
		layout = "3:04 PM"
	}
	return at, "Valid until " + at.Format(layout)
}

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Redeem marks a reward as used. Redeeming twice is a no-op; an expired
// reward cannot be redeemed.
func Redeem(rw storage.Reward, now time.Time) (storage.Reward, Outcome, error) {
	if rw.Redeemed {
		return rw, OutcomeNoOp, nil
	}
	if now.After(rw.ExpiresAt) {
		return rw, OutcomeNoOp, ErrRewardExpired
	}
	at := now
	rw.Redeemed = true
	rw.RedeemedAt = &at
	return rw, OutcomeApplied, nil
}
