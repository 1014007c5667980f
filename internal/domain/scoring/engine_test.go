package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inft_dashboard/internal/domain/entity"
)

func TestOverallScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   entity.ScoreInputs
		want int
	}{
		{
			name: "empty wallet gets only the clean history bonus",
			in:   entity.ScoreInputs{AddressAgeDays: 1},
			want: 10,
		},
		{
			name: "every term at its cap",
			in:   entity.ScoreInputs{AddressAgeDays: 400, TransactionCount: 120, PortfolioFiat: 2000, CollectibleCount: 12},
			want: 100,
		},
		{
			name: "mid range wallet",
			in:   entity.ScoreInputs{AddressAgeDays: 182, TransactionCount: 30, PortfolioFiat: 500, CollectibleCount: 3},
			want: 51,
		},
		{
			name: "half point rounds up",
			in:   entity.ScoreInputs{PortfolioFiat: 25, LiquidationCount: 1},
			want: 1,
		},
		{
			name: "liquidations drop the clean history bonus",
			in:   entity.ScoreInputs{AddressAgeDays: 365, LiquidationCount: 2},
			want: 25,
		},
		{
			name: "negative inputs clamp to zero",
			in:   entity.ScoreInputs{AddressAgeDays: -5000, LiquidationCount: 1},
			want: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, OverallScore(tt.in))
		})
	}
}

func TestOverallScore_Bounds(t *testing.T) {
	t.Parallel()

	for _, age := range []int{1, 30, 365, 10000} {
		for _, txs := range []int{0, 5, 6, 20, 21, 50, 51, 1000} {
			for _, fiat := range []float64{0, 0.5, 999.99, 1e9} {
				for _, nfts := range []int{0, 9, 200} {
					score := OverallScore(entity.ScoreInputs{
						AddressAgeDays:   age,
						TransactionCount: txs,
						PortfolioFiat:    fiat,
						CollectibleCount: nfts,
					})
					assert.GreaterOrEqual(t, score, 0)
					assert.LessOrEqual(t, score, 100)
				}
			}
		}
	}
}

func TestOverallScore_TierBoundaries(t *testing.T) {
	t.Parallel()

	base := entity.ScoreInputs{AddressAgeDays: 100, PortfolioFiat: 100, CollectibleCount: 1}
	prev := -1
	for txs := 0; txs <= 120; txs++ {
		in := base
		in.TransactionCount = txs
		score := OverallScore(in)
		assert.GreaterOrEqual(t, score, prev, "score decreased at %d transactions", txs)
		prev = score
	}

	for _, boundary := range []int{5, 20, 50} {
		below, above := base, base
		below.TransactionCount = boundary
		above.TransactionCount = boundary + 1
		assert.Greater(t, OverallScore(above), OverallScore(below), "crossing %d", boundary)
	}
}

func TestBandFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, entity.BandBuilding, BandFor(0))
	assert.Equal(t, entity.BandBuilding, BandFor(40))
	assert.Equal(t, entity.BandGood, BandFor(41))
	assert.Equal(t, entity.BandGood, BandFor(70))
	assert.Equal(t, entity.BandExcellent, BandFor(71))
	assert.Equal(t, entity.BandExcellent, BandFor(100))
}

func TestFactors(t *testing.T) {
	t.Parallel()

	factors := Factors(entity.ScoreInputs{AddressAgeDays: 200, TransactionCount: 61, PortfolioFiat: 500})
	require.Len(t, factors, 5)

	assert.Equal(t, entity.ScoreFactor{Name: FactorPaymentHistory, Score: 100, Impact: entity.ImpactPositive}, factors[0])
	assert.Equal(t, entity.ScoreFactor{Name: FactorAddressAge, Score: 55, Impact: entity.ImpactPositive}, factors[1])
	assert.Equal(t, entity.ScoreFactor{Name: FactorTransactionVolume, Score: 61, Impact: entity.ImpactPositive}, factors[2])
	assert.Equal(t, entity.ScoreFactor{Name: FactorLiquidationRisk, Score: 100, Impact: entity.ImpactPositive}, factors[3])
	assert.Equal(t, entity.ScoreFactor{Name: FactorPortfolioBalance, Score: 50, Impact: entity.ImpactNeutral}, factors[4])
}

func TestFactors_NoActivity(t *testing.T) {
	t.Parallel()

	factors := Factors(entity.ScoreInputs{AddressAgeDays: 1})
	require.Len(t, factors, 5)

	assert.Equal(t, 0, factors[0].Score)
	assert.Equal(t, entity.ImpactPositive, factors[0].Impact)
	assert.Equal(t, 0, factors[1].Score)
	assert.Equal(t, entity.ImpactNeutral, factors[1].Impact)
	assert.Equal(t, entity.ImpactNeutral, factors[2].Impact)
	assert.Equal(t, entity.ImpactNeutral, factors[4].Impact)
}

func TestFactors_Liquidations(t *testing.T) {
	t.Parallel()

	factors := Factors(entity.ScoreInputs{AddressAgeDays: 10, LiquidationCount: 5})
	assert.Equal(t, entity.ScoreFactor{Name: FactorLiquidationRisk, Score: 0, Impact: entity.ImpactNegative}, factors[3])
}

func TestCompute(t *testing.T) {
	t.Parallel()

	in := entity.ScoreInputs{AddressAgeDays: 400, TransactionCount: 100, PortfolioFiat: 2000, CollectibleCount: 20}
	profile := Compute(in)

	assert.Equal(t, 100, profile.OverallScore)
	assert.Equal(t, entity.BandExcellent, profile.Band)
	assert.Equal(t, "100%", profile.RepaymentHistory)
	assert.Equal(t, 400, profile.AddressAgeDays)
	assert.Equal(t, 2000.0, profile.TotalPortfolioFiat)
	assert.Equal(t, 0, profile.LiquidationCount)
	assert.Len(t, profile.Factors, 5)

	assert.Equal(t, "0%", Compute(entity.ScoreInputs{AddressAgeDays: 1}).RepaymentHistory)
}
