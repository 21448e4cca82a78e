package engine

import (
	"time"

	"dailyquest/internal/storage"
)

// Outcome says whether an operation changed anything.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	// OutcomeNoOp means the target was already in the requested state.
	OutcomeNoOp Outcome = "noop"
)

const (
	DefaultXPPerCompletion = 20
	DefaultCoinsBase       = 10
	LegacyStreakBonus      = 5
)

// Rules bundles the progression constants and the strategies selected by
// configuration. The zero value is not usable; start from LiveRules or
// LegacyRules.
type Rules struct {
	XPPerCompletion   int
	CoinsBase         int
	StreakBonusPerDay int

	Curve   LevelCurve
	Rewards RewardIssuer
	Decay   DecayPolicy

	// LockDaily re-locks the task list at every daily reset.
	LockDaily bool
	// ResetMissedStreaks zeroes the streak of tasks not completed yesterday.
	ResetMissedStreaks bool

	// Location decides where a day starts. Nil means UTC.
	Location *time.Location
}

// LiveRules: flat +10 coins, level = xp/100+1, no rewards, no penalties.
func LiveRules() Rules {
	return Rules{
		XPPerCompletion:   DefaultXPPerCompletion,
		CoinsBase:         DefaultCoinsBase,
		StreakBonusPerDay: 0,
		Curve:             FlatCurve{Step: DefaultLevelStep},
		Rewards:           NoRewards{},
		Decay:             NoDecay{},
		LockDaily:         true,
	}
}

// LegacyRules: streak coin bonus, carry-over levels, scratch-card rewards and
// daily penalties for missed tasks.
func LegacyRules(rnd RandSource) Rules {
	return Rules{
		XPPerCompletion:   DefaultXPPerCompletion,
		CoinsBase:         DefaultCoinsBase,
		StreakBonusPerDay: LegacyStreakBonus,
		Curve:             CarryOverCurve{Step: DefaultLevelStep},
		Rewards:           NewWeightedRewards(DefaultRewardKinds(), rnd),
		Decay: PenaltyDecay{
			CoinsPerMiss: DefaultCoinPenaltyPerMiss,
			XPPerMiss:    DefaultXPPenaltyPerMiss,
			Retention:    RetentionDropAll,
		},
		LockDaily: true,
	}
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Day returns the day key of t in the rules' location.
func (r Rules) Day(t time.Time) string {
	return DayKey(t, r.location())
}

// coinsFor is the coin value of a completion made on top of streak.
func (r Rules) coinsFor(streak int) int {
	return r.CoinsBase + r.StreakBonusPerDay*clampZero(streak)
}

// Transition is the paired change to a task and to the user's stats produced
// by one complete or undo.
type Transition struct {
	Outcome Outcome
	Task    storage.Task
	Stats   storage.Stats

	XPDelta    int
	CoinsDelta int

	LevelBefore  int
	LevelAfter   int
	LevelsGained int

	// Completion is the marker change for the day, nil on no-op.
	Completion *storage.CompletionDelta
}

func (t Transition) LevelUp() bool   { return t.LevelAfter > t.LevelBefore }
func (t Transition) LevelDown() bool { return t.LevelAfter < t.LevelBefore }
