package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dailyquest/internal/engine"
)

const (
	VariantLive   = "live"
	VariantLegacy = "legacy"
)

// Balance is the tunable game balance. A file picks a variant preset and
// overrides any field of it.
type Balance struct {
	Variant     string      `yaml:"variant" json:"variant"`
	Progression Progression `yaml:"progression" json:"progression"`
	Decay       Decay       `yaml:"decay" json:"decay"`
	Rewards     Rewards     `yaml:"rewards" json:"rewards"`
}

type Progression struct {
	XPPerCompletion   int    `yaml:"xp_per_completion" json:"xp_per_completion"`
	CoinsBase         int    `yaml:"coins_base" json:"coins_base"`
	StreakBonusPerDay int    `yaml:"streak_bonus_per_day" json:"streak_bonus_per_day"`
	Curve             string `yaml:"curve" json:"curve"`
	LevelStep         int    `yaml:"level_step" json:"level_step"`
}

type Decay struct {
	Policy             string `yaml:"policy" json:"policy"`
	CoinsPerMiss       int    `yaml:"coins_per_miss" json:"coins_per_miss"`
	XPPerMiss          int    `yaml:"xp_per_miss" json:"xp_per_miss"`
	Retention          string `yaml:"retention" json:"retention"`
	ResetMissedStreaks bool   `yaml:"reset_missed_streaks" json:"reset_missed_streaks"`
	LockDaily          bool   `yaml:"lock_daily" json:"lock_daily"`
}

type Rewards struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Table   []RewardEntry `yaml:"table" json:"table"`
}

type RewardEntry struct {
	Type      string `yaml:"type" json:"type"`
	Label     string `yaml:"label" json:"label"`
	Weight    int    `yaml:"weight" json:"weight"`
	ExpiresAt string `yaml:"expires_at" json:"expires_at"`
}

// Preset returns the balance of a named variant.
func Preset(variant string) (Balance, error) {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case VariantLive, "":
		return Balance{
			Variant: VariantLive,
			Progression: Progression{
				XPPerCompletion: engine.DefaultXPPerCompletion,
				CoinsBase:       engine.DefaultCoinsBase,
				Curve:           engine.CurveFlat,
				LevelStep:       engine.DefaultLevelStep,
			},
			Decay: Decay{
				Policy:    engine.DecayNone,
				Retention: string(engine.RetentionDropAll),
				LockDaily: true,
			},
			Rewards: Rewards{Table: defaultTable()},
		}, nil
	case VariantLegacy:
		return Balance{
			Variant: VariantLegacy,
			Progression: Progression{
				XPPerCompletion:   engine.DefaultXPPerCompletion,
				CoinsBase:         engine.DefaultCoinsBase,
				StreakBonusPerDay: engine.LegacyStreakBonus,
				Curve:             engine.CurveCarryOver,
				LevelStep:         engine.DefaultLevelStep,
			},
			Decay: Decay{
				Policy:       engine.DecayPenalty,
				CoinsPerMiss: engine.DefaultCoinPenaltyPerMiss,
				XPPerMiss:    engine.DefaultXPPenaltyPerMiss,
				Retention:    string(engine.RetentionDropAll),
				LockDaily:    true,
			},
			Rewards: Rewards{Enabled: true, Table: defaultTable()},
		}, nil
	default:
		return Balance{}, fmt.Errorf("invalid variant: %q", variant)
	}
}

func defaultTable() []RewardEntry {
	var out []RewardEntry
	for _, k := range engine.DefaultRewardKinds() {
		out = append(out, RewardEntry{Type: k.Type, Label: k.Label, Weight: k.Weight, ExpiresAt: k.ValidUntil})
	}
	return out
}

// ParseBalance reads the variant first, then applies the document on top of
// that variant's preset so that omitted keys keep their preset values.
func ParseBalance(b []byte) (*Balance, error) {
	var head struct {
		Variant string `yaml:"variant"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	bal, err := Preset(head.Variant)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, &bal); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	bal.Variant = strings.ToLower(strings.TrimSpace(bal.Variant))
	if bal.Variant == "" {
		bal.Variant = VariantLive
	}
	if err := bal.Validate(); err != nil {
		return nil, err
	}
	return &bal, nil
}

// LoadBalance reads a balance file. An empty path yields the live preset.
func LoadBalance(path string) (*Balance, error) {
	if path == "" {
		bal, err := Preset(VariantLive)
		if err != nil {
			return nil, err
		}
		return &bal, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance %s: %w", path, err)
	}
	return ParseBalance(b)
}

func (b *Balance) Validate() error {
	p := b.Progression
	if p.XPPerCompletion < 0 || p.CoinsBase < 0 || p.StreakBonusPerDay < 0 {
		return fmt.Errorf("progression values must not be negative")
	}
	if p.LevelStep <= 0 {
		return fmt.Errorf("progression.level_step must be positive")
	}
	if _, err := engine.NewLevelCurve(p.Curve, p.LevelStep); err != nil {
		return err
	}

	d := b.Decay
	if _, err := engine.ParseRetention(d.Retention); err != nil {
		return err
	}
	if _, err := engine.NewDecayPolicy(d.Policy, d.CoinsPerMiss, d.XPPerMiss, engine.Retention(d.Retention)); err != nil {
		return err
	}

	for i, e := range b.Rewards.Table {
		if strings.TrimSpace(e.Type) == "" {
			return fmt.Errorf("rewards.table[%d]: type is required", i)
		}
		if e.Weight < 0 {
			return fmt.Errorf("rewards.table[%d]: weight must not be negative", i)
		}
		if _, _, err := engine.ParseTimeOfDay(e.ExpiresAt); err != nil {
			return fmt.Errorf("rewards.table[%d]: %w", i, err)
		}
	}
	return nil
}

// Rules turns the balance into engine rules. Days start in loc; rnd drives
// reward draws.
func (b *Balance) Rules(loc *time.Location, rnd engine.RandSource) (engine.Rules, error) {
	if err := b.Validate(); err != nil {
		return engine.Rules{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	curve, err := engine.NewLevelCurve(b.Progression.Curve, b.Progression.LevelStep)
	if err != nil {
		return engine.Rules{}, err
	}
	decay, err := engine.NewDecayPolicy(b.Decay.Policy, b.Decay.CoinsPerMiss, b.Decay.XPPerMiss, engine.Retention(b.Decay.Retention))
	if err != nil {
		return engine.Rules{}, err
	}

	var rewards engine.RewardIssuer = engine.NoRewards{}
	if b.Rewards.Enabled {
		kinds := make([]engine.RewardKind, 0, len(b.Rewards.Table))
		for _, e := range b.Rewards.Table {
			label := e.Label
			if label == "" {
				label = e.Type
			}
			kinds = append(kinds, engine.RewardKind{Type: e.Type, Label: label, Weight: e.Weight, ValidUntil: e.ExpiresAt})
		}
		w := engine.NewWeightedRewards(kinds, rnd)
		w.Location = loc
		rewards = w
	}

	return engine.Rules{
		XPPerCompletion:    b.Progression.XPPerCompletion,
		CoinsBase:          b.Progression.CoinsBase,
		StreakBonusPerDay:  b.Progression.StreakBonusPerDay,
		Curve:              curve,
		Rewards:            rewards,
		Decay:              decay,
		LockDaily:          b.Decay.LockDaily,
		ResetMissedStreaks: b.Decay.ResetMissedStreaks,
		Location:           loc,
	}, nil
}
