package entity

import (
	"fmt"
	"math/big"
)

// Impact is the display tone of a score factor.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNeutral  Impact = "neutral"
	ImpactNegative Impact = "negative"
)

// Band is the qualitative label of an overall score.
type Band string

const (
	BandExcellent Band = "Excellent Credit"
	BandGood      Band = "Good Credit"
	BandBuilding  Band = "Building Credit"
)

// ScoreFactor is one line of the score breakdown. It does not feed the overall score.
type ScoreFactor struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Impact Impact `json:"impact"`
}

// ScoreInputs are the aggregated figures the score is computed from.
type ScoreInputs struct {
	AddressAgeDays   int     `json:"addressAgeDays"`
	TransactionCount int     `json:"transactionCount"`
	PortfolioFiat    float64 `json:"portfolioFiat"`
	CollectibleCount int     `json:"collectibleCount"`
	LiquidationCount int     `json:"liquidationCount"`
}

// Validate rejects inputs no address can have: an age below one day or a
// negative count or value.
func (in ScoreInputs) Validate() error {
	if in.AddressAgeDays < 1 {
		return fmt.Errorf("%w: addressAgeDays must be at least 1, got %d", ErrInvalidInput, in.AddressAgeDays)
	}
	if in.TransactionCount < 0 || in.PortfolioFiat < 0 || in.CollectibleCount < 0 || in.LiquidationCount < 0 {
		return fmt.Errorf("%w: score inputs must not be negative", ErrInvalidInput)
	}
	return nil
}

// CreditProfile is the scored view of an address.
type CreditProfile struct {
	OverallScore       int           `json:"overallScore"`
	Band               Band          `json:"band"`
	AddressAgeDays     int           `json:"addressAgeDays"`
	TotalPortfolioFiat float64       `json:"totalPortfolioFiat"`
	TransactionCount   int           `json:"transactionCount"`
	LiquidationCount   int           `json:"liquidationCount"`
	CollectibleCount   int           `json:"collectibleCount"`
	GasSpentMist       *big.Int      `json:"gasSpentMist,omitempty"`
	GasSpent           string        `json:"gasSpent,omitempty"`
	RepaymentHistory   string        `json:"repaymentHistory"`
	Factors            []ScoreFactor `json:"factors"`
}
