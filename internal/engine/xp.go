package engine

import (
	"fmt"

	"dailyquest/internal/storage"
)

const (
	// DefaultLevelStep is the XP per level on the flat curve and the per-level
	// threshold multiplier on the carry-over curve.
	DefaultLevelStep = 100
)

// LevelCurve turns XP gains and losses into a new XP/level pair.
// Coins are never touched by a curve.
type LevelCurve interface {
	Gain(s storage.Stats, xp int) storage.Stats
	Lose(s storage.Stats, xp int) storage.Stats
	// Progress reports how far the user is into the current level.
	Progress(s storage.Stats) (into int, span int)
}

// FlatCurve derives the level from total XP: level = floor(xp/Step)+1.
type FlatCurve struct {
	Step int
}

// LevelForXP returns the flat-curve level for a total XP value.
func LevelForXP(xp int, step int) int {
	if step <= 0 {
		step = DefaultLevelStep
	}
	if xp < 0 {
		xp = 0
	}
	return xp/step + 1
}

func (c FlatCurve) step() int {
	if c.Step <= 0 {
		return DefaultLevelStep
	}
	return c.Step
}

func (c FlatCurve) Gain(s storage.Stats, xp int) storage.Stats {
	s.XP = clampZero(s.XP + xp)
	s.Level = LevelForXP(s.XP, c.step())
	return s
}

func (c FlatCurve) Lose(s storage.Stats, xp int) storage.Stats {
	s.XP = clampZero(s.XP - xp)
	s.Level = LevelForXP(s.XP, c.step())
	return s
}

func (c FlatCurve) Progress(s storage.Stats) (int, int) {
	step := c.step()
	return clampZero(s.XP) % step, step
}

// CarryOverCurve stores XP as progress into the current level. Reaching
// Level*Step consumes that much XP and raises the level; losing XP never
// lowers the level.
type CarryOverCurve struct {
	Step int
}

func (c CarryOverCurve) step() int {
	if c.Step <= 0 {
		return DefaultLevelStep
	}
	return c.Step
}

func (c CarryOverCurve) Gain(s storage.Stats, xp int) storage.Stats {
	if s.Level < 1 {
		s.Level = 1
	}
	s.XP = clampZero(s.XP + xp)
	for s.XP >= s.Level*c.step() {
		s.XP -= s.Level * c.step()
		s.Level++
	}
	return s
}

func (c CarryOverCurve) Lose(s storage.Stats, xp int) storage.Stats {
	if s.Level < 1 {
		s.Level = 1
	}
	s.XP = clampZero(s.XP - xp)
	return s
}

func (c CarryOverCurve) Progress(s storage.Stats) (int, int) {
	level := s.Level
	if level < 1 {
		level = 1
	}
	return clampZero(s.XP), level * c.step()
}

// NewLevelCurve builds a curve from its configured name.
func NewLevelCurve(name string, step int) (LevelCurve, error) {
	switch name {
	case CurveFlat, "":
		return FlatCurve{Step: step}, nil
	case CurveCarryOver:
		return CarryOverCurve{Step: step}, nil
	default:
		return nil, fmt.Errorf("invalid level curve: %q", name)
	}
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
