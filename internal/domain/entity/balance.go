package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// NativeCoinType is the fully qualified type tag of the native SUI coin.
	NativeCoinType = "0x2::sui::SUI"
	// StakedCoinType is the synthetic coin type used for the aggregated stake position.
	StakedCoinType = NativeCoinType + "::STAKED"
	NativeSymbol   = "SUI"
	NativeName     = "Sui"
	StakedName     = "Staked SUI"
	// NativeDecimals is the number of decimals of SUI (1 SUI = 10^9 MIST).
	NativeDecimals uint8 = 9
	// UnknownTokenName is used when coin metadata cannot be resolved.
	UnknownTokenName = "Unknown Token"
)

// CoinBalance is a single entry of suix_getAllBalances.
type CoinBalance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    string `json:"totalBalance"`
}

// StakeGroup groups the stakes delegated to one validator (suix_getStakes).
type StakeGroup struct {
	ValidatorAddress string  `json:"validatorAddress"`
	StakingPool      string  `json:"stakingPool"`
	Stakes           []Stake `json:"stakes"`
}

// Stake is a single staked SUI object.
type Stake struct {
	StakedSuiID string `json:"stakedSuiId"`
	Principal   string `json:"principal"`
	Status      string `json:"status"`
}

// TokenBalance is one valued holding of an address.
type TokenBalance struct {
	CoinType        string          `json:"coinType"`
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Decimals        uint8           `json:"decimals"`
	RawAmount       *big.Int        `json:"rawAmount"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedAmount string          `json:"formattedAmount"`
	FiatValue       float64         `json:"fiatValue"`
	IsNative        bool            `json:"isNative"`
	IsStaked        bool            `json:"isStaked"`
}

// BalanceReport is the result of aggregating the balances of one address.
type BalanceReport struct {
	Tokens    []TokenBalance `json:"tokens"`
	TotalFiat float64        `json:"totalFiat"`
	Errors    []FetchError   `json:"errors,omitempty"`
}
