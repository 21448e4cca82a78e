package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyquest/internal/engine"
	"dailyquest/internal/storage"
)

type fixedRand int

func (r fixedRand) Intn(n int) int { return int(r) % n }

func TestParseEnvDefaults(t *testing.T) {
	var e Env
	require.NoError(t, ParseEnv(&e))
	require.NoError(t, e.Validate())

	assert.Equal(t, BackendSQLite, e.Backend)
	assert.Equal(t, AuthJWT, e.Auth)
	assert.Equal(t, ":8080", e.HTTPAddr)
	assert.Equal(t, "local", e.User)

	loc, err := e.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("DQ_PUSH", "sometimes")

	var e Env
	err := ParseEnv(&e)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse env:"), err.Error())
}

func TestEnvValidate(t *testing.T) {
	t.Setenv("DQ_BACKEND", "postgres")
	_, err := LoadEnv()
	assert.ErrorContains(t, err, "DQ_BACKEND")

	t.Setenv("DQ_BACKEND", "Firestore")
	t.Setenv("DQ_TIMEZONE", "Mars/Olympus_Mons")
	_, err = LoadEnv()
	assert.ErrorContains(t, err, "DQ_TIMEZONE")

	t.Setenv("DQ_TIMEZONE", "UTC")
	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendFirestore, e.Backend)
}

func TestLiveRulesFromEmptyPath(t *testing.T) {
	bal, err := LoadBalance("")
	require.NoError(t, err)

	rules, err := bal.Rules(nil, fixedRand(0))
	require.NoError(t, err)
	assert.Equal(t, 20, rules.XPPerCompletion)
	assert.Equal(t, 10, rules.CoinsBase)
	assert.Equal(t, 0, rules.StreakBonusPerDay)
	assert.Equal(t, engine.FlatCurve{Step: 100}, rules.Curve)
	assert.Equal(t, engine.NoRewards{}, rules.Rewards)
	assert.Equal(t, engine.NoDecay{Retention: engine.RetentionDropAll}, rules.Decay)
	assert.True(t, rules.LockDaily)
}

func TestLegacyPresetWithOverrides(t *testing.T) {
	doc := `
variant: legacy
decay:
  coins_per_miss: 3
  retention: keep_redeemed
rewards:
  table:
    - type: GAME
      label: One match
      weight: 1
      expires_at: "20:30"
`
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	bal, err := LoadBalance(path)
	require.NoError(t, err)
	assert.Equal(t, VariantLegacy, bal.Variant)
	assert.Equal(t, 5, bal.Progression.StreakBonusPerDay, "preset value kept")
	assert.Equal(t, 10, bal.Decay.XPPerMiss, "preset value kept")
	assert.True(t, bal.Rewards.Enabled, "preset value kept")

	loc := time.FixedZone("UTC+2", 2*3600)
	rules, err := bal.Rules(loc, fixedRand(0))
	require.NoError(t, err)
	assert.Equal(t, engine.CarryOverCurve{Step: 100}, rules.Curve)
	assert.Equal(t, engine.PenaltyDecay{CoinsPerMiss: 3, XPPerMiss: 10, Retention: engine.RetentionKeepRedeemed}, rules.Decay)
	assert.Equal(t, loc, rules.Location)

	issued := rules.Rewards.Issue("u1", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), 1)
	require.Len(t, issued, 1)
	assert.Equal(t, "GAME", issued[0].Type)
	assert.True(t, issued[0].ExpiresAt.Equal(time.Date(2025, 3, 10, 20, 30, 0, 0, loc)))
}

func TestLiveRewardsExpireAtReset(t *testing.T) {
	bal, err := ParseBalance([]byte("variant: live\nrewards:\n  enabled: true\n"))
	require.NoError(t, err)
	rules, err := bal.Rules(nil, fixedRand(0))
	require.NoError(t, err)

	plan := rules.Decay.Plan(engine.ResetInput{
		Today:         "2025-03-11",
		PreviousVisit: "2025-03-10",
		Rewards:       []storage.Reward{{ID: "r1"}, {ID: "r2", Redeemed: true}},
	})
	assert.Equal(t, []string{"r1", "r2"}, plan.ExpiredRewardIDs)
}

func TestParseBalanceRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"variant":   "variant: hardcore\n",
		"curve":     "progression:\n  curve: cubic\n",
		"step":      "progression:\n  level_step: 0\n",
		"penalty":   "variant: legacy\ndecay:\n  xp_per_miss: -1\n",
		"retention": "decay:\n  retention: forever\n",
		"weight":    "rewards:\n  table:\n    - type: FOOD\n      weight: -5\n      expires_at: \"21:00\"\n",
		"expiry":    "rewards:\n  table:\n    - type: FOOD\n      weight: 5\n      expires_at: \"late\"\n",
		"yaml":      "progression: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBalance([]byte(doc))
			assert.Error(t, err)
		})
	}
}
