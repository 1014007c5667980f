package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/domain/scoring"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalc(t *testing.T) {
	out, err := run(t, "calc", "--age", "400", "--txs", "120", "--portfolio", "2500", "--collectibles", "3")
	require.NoError(t, err)

	var profile entity.CreditProfile
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	want := scoring.Compute(entity.ScoreInputs{AddressAgeDays: 400, TransactionCount: 120, PortfolioFiat: 2500, CollectibleCount: 3})
	assert.Equal(t, want.OverallScore, profile.OverallScore)
	assert.Equal(t, want.Band, profile.Band)
	assert.Len(t, profile.Factors, len(want.Factors))
}

func TestCalcRejectsImpossibleInputs(t *testing.T) {
	for _, args := range [][]string{
		{"calc", "--age", "-5"},
		{"calc", "--age", "0"},
		{"calc", "--txs", "-1"},
		{"calc", "--portfolio", "-10"},
		{"calc", "--collectibles", "-2"},
		{"calc", "--liquidations", "-1"},
	} {
		out, err := run(t, args...)
		require.Error(t, err, args)
		assert.ErrorIs(t, err, entity.ErrInvalidInput, args)
		assert.NotContains(t, out, "overallScore", args)
	}
}

func TestScoreNeedsAddress(t *testing.T) {
	_, err := run(t, "score")
	assert.Error(t, err)
}

func TestScoreMissingConfig(t *testing.T) {
	_, err := run(t, "score", "0x7", "--config", t.TempDir()+"/missing.yml")
	assert.Error(t, err)
}
