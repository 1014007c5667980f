package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreInputs_Validate(t *testing.T) {
	assert.NoError(t, ScoreInputs{AddressAgeDays: 1}.Validate())
	assert.NoError(t, ScoreInputs{AddressAgeDays: 400, TransactionCount: 120, PortfolioFiat: 2000, CollectibleCount: 12}.Validate())

	for _, in := range []ScoreInputs{
		{},
		{AddressAgeDays: -5},
		{AddressAgeDays: 1, TransactionCount: -1},
		{AddressAgeDays: 1, PortfolioFiat: -0.01},
		{AddressAgeDays: 1, CollectibleCount: -1},
		{AddressAgeDays: 1, LiquidationCount: -1},
	} {
		assert.ErrorIs(t, in.Validate(), ErrInvalidInput, "%+v", in)
	}
}
