package engine

import (
	"fmt"
	"strings"
)

// Level curve names accepted by NewLevelCurve.
const (
	CurveFlat      = "flat"
	CurveCarryOver = "carry_over"
)

// Decay policy names accepted by NewDecayPolicy.
const (
	DecayNone    = "none"
	DecayPenalty = "penalty"
)

// NewDecayPolicy builds a decay policy from its configured name.
func NewDecayPolicy(name string, coinsPerMiss, xpPerMiss int, retention Retention) (DecayPolicy, error) {
	if retention == "" {
		retention = RetentionDropAll
	}
	if !retention.IsValid() {
		return nil, fmt.Errorf("invalid reward retention: %q", retention)
	}
	switch strings.TrimSpace(strings.ToLower(name)) {
	case DecayNone, "":
		return NoDecay{Retention: retention}, nil
	case DecayPenalty:
		if coinsPerMiss < 0 || xpPerMiss < 0 {
			return nil, fmt.Errorf("decay penalties must not be negative")
		}
		return PenaltyDecay{CoinsPerMiss: coinsPerMiss, XPPerMiss: xpPerMiss, Retention: retention}, nil
	default:
		return nil, fmt.Errorf("invalid decay policy: %q", name)
	}
}
