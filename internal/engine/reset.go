package engine

import (
	"fmt"

	"dailyquest/internal/storage"
)

const (
	DefaultCoinPenaltyPerMiss = 5
	DefaultXPPenaltyPerMiss   = 10
)

const (
	MoodFirstVisit = "Let's get to work."
	MoodFresh      = "Fresh start. Seize the day."
	MoodCalm       = "You earned calm. Keep it up."
	MoodRestless   = "Skipped yesterday? Expect restlessness today."
)

// Retention decides which rewards survive a daily reset.
type Retention string

const (
	// RetentionDropAll wipes the inventory.
	RetentionDropAll Retention = "drop_all"
	// RetentionKeepRedeemed drops unredeemed rewards and keeps redeemed history.
	RetentionKeepRedeemed Retention = "keep_redeemed"
	// RetentionKeepAll leaves the inventory alone.
	RetentionKeepAll Retention = "keep_all"
)

func (r Retention) IsValid() bool {
	switch r {
	case RetentionDropAll, RetentionKeepRedeemed, RetentionKeepAll:
		return true
	default:
		return false
	}
}

func ParseRetention(s string) (Retention, error) {
	r := Retention(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid reward retention: %q", s)
	}
	return r, nil
}

// ResetInput is the state a decay policy sees when a new day starts.
type ResetInput struct {
	Today         string
	PreviousVisit string
	FirstVisit    bool
	Tasks         []storage.Task
	Stats         storage.Stats
	Rewards       []storage.Reward
	Curve         LevelCurve
}

// ResetPlan is what a decay policy wants done at the day boundary.
type ResetPlan struct {
	Missed      int
	XPPenalty   int
	CoinPenalty int
	Stats       storage.Stats
	// ExpiredRewardIDs are removed from the inventory.
	ExpiredRewardIDs []string
	Mood             string
}

// DecayPolicy is consulted once per new day.
type DecayPolicy interface {
	Plan(in ResetInput) ResetPlan
}

// NoDecay keeps stats as they are. The inventory is still pruned per
// Retention; a zero Retention drops everything.
type NoDecay struct {
	Retention Retention
}

func (d NoDecay) Plan(in ResetInput) ResetPlan {
	if in.FirstVisit {
		return ResetPlan{Stats: in.Stats, Mood: MoodFirstVisit}
	}
	return ResetPlan{
		Stats:            in.Stats,
		Mood:             MoodFresh,
		ExpiredRewardIDs: expiredRewards(in.Rewards, d.Retention),
	}
}

// PenaltyDecay charges coins and XP for every task that was not completed on
// the previous visit day and expires rewards per Retention.
type PenaltyDecay struct {
	CoinsPerMiss int
	XPPerMiss    int
	Retention    Retention
}

func (p PenaltyDecay) Plan(in ResetInput) ResetPlan {
	plan := ResetPlan{Stats: in.Stats}
	if in.FirstVisit {
		plan.Mood = MoodFirstVisit
		return plan
	}

	for _, t := range in.Tasks {
		if t.CompletedOn != in.PreviousVisit {
			plan.Missed++
		}
	}

	if plan.Missed > 0 {
		plan.CoinPenalty = plan.Missed * p.CoinsPerMiss
		plan.XPPenalty = plan.Missed * p.XPPerMiss
		plan.Mood = MoodRestless
	} else {
		plan.Mood = MoodCalm
	}

	curve := in.Curve
	if curve == nil {
		curve = FlatCurve{}
	}
	next := curve.Lose(in.Stats, plan.XPPenalty)
	next.Coins = clampZero(in.Stats.Coins - plan.CoinPenalty)
	plan.Stats = next

	plan.ExpiredRewardIDs = expiredRewards(in.Rewards, p.Retention)
	return plan
}

// expiredRewards lists the rewards a reset removes under r.
func expiredRewards(rewards []storage.Reward, r Retention) []string {
	var out []string
	for _, rw := range rewards {
		switch r {
		case RetentionKeepAll:
		case RetentionKeepRedeemed:
			if !rw.Redeemed {
				out = append(out, rw.ID)
			}
		default:
			out = append(out, rw.ID)
		}
	}
	return out
}

// brokenStreaks returns the tasks whose streak no longer holds on today: they
// were neither completed yesterday nor already today.
func brokenStreaks(tasks []storage.Task, today string) []storage.Task {
	yesterday := PreviousDay(today)
	var out []storage.Task
	for _, t := range tasks {
		if t.Streak == 0 || t.CompletedOn == yesterday || t.CompletedOn == today {
			continue
		}
		t.Streak = 0
		out = append(out, t)
	}
	return out
}
