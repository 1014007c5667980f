package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBigInt(t *testing.T) {
	v, err := ParseBigInt("340282366920938463463374607431768211455")
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211455", v.String())

	_, err = ParseBigInt("")
	assert.Error(t, err)
	_, err = ParseBigInt("12abc")
	assert.Error(t, err)
}

func TestFormatBigInt(t *testing.T) {
	assert.Equal(t, "1.2345", FormatBigInt(big.NewInt(1234500000), 9))
	assert.Equal(t, "0", FormatBigInt(big.NewInt(0), 9))
	assert.Equal(t, "0", FormatBigInt(nil, 9))
	assert.Equal(t, "42", FormatBigInt(big.NewInt(42), 0))
	assert.Equal(t, "0.000000001", FormatBigInt(big.NewInt(1), 9))
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "0.0015", FormatFixed(big.NewInt(1500000), 9, 4))
	assert.Equal(t, "2.0000", FormatFixed(big.NewInt(2000000000), 9, 4))
}
