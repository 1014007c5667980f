// Package scoring turns aggregated on-chain figures into a credit profile.
// It is pure: no I/O, no clock, no randomness.
package scoring

import (
	"math"

	"inft_dashboard/internal/domain/entity"
)

// Term caps of the overall score. They add up to 100 with the best tier bonus.
const (
	maxAgePoints         = 25.0
	maxVolumePoints      = 20.0
	maxPortfolioPoints   = 20.0
	maxCollectiblePoints = 10.0
	cleanHistoryPoints   = 10.0

	ageHorizonDays       = 365.0
	volumeHorizonTxs     = 100.0
	portfolioHorizonFiat = 1000.0
	collectibleHorizon   = 10.0

	excellentThreshold = 70
	goodThreshold      = 40
)

// Factor names as shown on the dashboard.
const (
	FactorPaymentHistory    = "Payment History"
	FactorAddressAge        = "Address Age"
	FactorTransactionVolume = "Transaction Volume"
	FactorLiquidationRisk   = "Liquidation Risk"
	FactorPortfolioBalance  = "Portfolio Balance"
)

// Compute builds the full credit profile for the given inputs.
func Compute(in entity.ScoreInputs) entity.CreditProfile {
	score := OverallScore(in)
	repayment := "0%"
	if in.TransactionCount > 0 {
		repayment = "100%"
	}
	return entity.CreditProfile{
		OverallScore:       score,
		Band:               BandFor(score),
		AddressAgeDays:     in.AddressAgeDays,
		TotalPortfolioFiat: in.PortfolioFiat,
		TransactionCount:   in.TransactionCount,
		LiquidationCount:   in.LiquidationCount,
		CollectibleCount:   in.CollectibleCount,
		RepaymentHistory:   repayment,
		Factors:            Factors(in),
	}
}

// OverallScore returns the 0..100 score.
func OverallScore(in entity.ScoreInputs) int {
	total := math.Min(float64(in.AddressAgeDays)/ageHorizonDays*maxAgePoints, maxAgePoints)
	total += math.Min(float64(in.TransactionCount)/volumeHorizonTxs*maxVolumePoints, maxVolumePoints)
	total += math.Min(in.PortfolioFiat/portfolioHorizonFiat*maxPortfolioPoints, maxPortfolioPoints)
	total += tierBonus(in.TransactionCount)
	total += math.Min(float64(in.CollectibleCount)/collectibleHorizon*maxCollectiblePoints, maxCollectiblePoints)
	if in.LiquidationCount == 0 {
		total += cleanHistoryPoints
	}
	return clamp(roundHalfUp(total), 0, 100)
}

// tierBonus rewards activity in steps; only the highest tier applies.
func tierBonus(txCount int) float64 {
	switch {
	case txCount > 50:
		return 15
	case txCount > 20:
		return 10
	case txCount > 5:
		return 5
	default:
		return 0
	}
}

// BandFor maps a score to its band. Thresholds are strict.
func BandFor(score int) entity.Band {
	switch {
	case score > excellentThreshold:
		return entity.BandExcellent
	case score > goodThreshold:
		return entity.BandGood
	default:
		return entity.BandBuilding
	}
}

// Factors returns the five-line breakdown in display order.
func Factors(in entity.ScoreInputs) []entity.ScoreFactor {
	payment := 0.0
	if in.TransactionCount > 0 {
		payment = 100
	}
	age := math.Min(float64(in.AddressAgeDays)/ageHorizonDays*100, 100)
	volume := math.Min(float64(in.TransactionCount)/volumeHorizonTxs*100, 100)
	portfolio := math.Min(in.PortfolioFiat/portfolioHorizonFiat*100, 100)

	liquidation := entity.ScoreFactor{Name: FactorLiquidationRisk, Score: 100, Impact: entity.ImpactPositive}
	if in.LiquidationCount > 0 {
		liquidation.Score = clamp(100-25*in.LiquidationCount, 0, 100)
		liquidation.Impact = entity.ImpactNegative
	}

	return []entity.ScoreFactor{
		{Name: FactorPaymentHistory, Score: clamp(roundHalfUp(payment), 0, 100), Impact: entity.ImpactPositive},
		{Name: FactorAddressAge, Score: clamp(roundHalfUp(age), 0, 100), Impact: impactAbove(age, 50)},
		{Name: FactorTransactionVolume, Score: clamp(roundHalfUp(volume), 0, 100), Impact: impactAbove(volume, 60)},
		liquidation,
		{Name: FactorPortfolioBalance, Score: clamp(roundHalfUp(portfolio), 0, 100), Impact: impactAbove(portfolio, 50)},
	}
}

func impactAbove(value, threshold float64) entity.Impact {
	if value > threshold {
		return entity.ImpactPositive
	}
	return entity.ImpactNeutral
}

// roundHalfUp rounds .5 towards +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
