package entity

import "math/big"

// Direction tells how an address took part in a transaction.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
	DirectionBoth     Direction = "both"
)

// TransactionFilter is the filter of suix_queryTransactionBlocks. Exactly one
// field is set per query.
type TransactionFilter struct {
	FromAddress string `json:"FromAddress,omitempty"`
	ToAddress   string `json:"ToAddress,omitempty"`
}

// TransactionQuery is the query argument of suix_queryTransactionBlocks.
type TransactionQuery struct {
	Filter  TransactionFilter  `json:"filter"`
	Options TransactionOptions `json:"options"`
}

// TransactionOptions selects the parts of each transaction the node returns.
type TransactionOptions struct {
	ShowEffects bool `json:"showEffects"`
	ShowInput   bool `json:"showInput"`
}

// TransactionPage is one page of suix_queryTransactionBlocks.
type TransactionPage struct {
	Data        []TransactionBlock `json:"data"`
	NextCursor  *string            `json:"nextCursor"`
	HasNextPage bool               `json:"hasNextPage"`
}

// TransactionBlock is a transaction as returned by the node.
type TransactionBlock struct {
	Digest      string              `json:"digest"`
	TimestampMs string              `json:"timestampMs"`
	Effects     *TransactionEffects `json:"effects"`
}

// TransactionEffects holds the part of the effects the dashboard reads.
type TransactionEffects struct {
	GasUsed *GasCostSummary `json:"gasUsed"`
}

// GasCostSummary is the gas summary in MIST. Amounts are decimal strings.
type GasCostSummary struct {
	ComputationCost         *string `json:"computationCost"`
	StorageCost             string  `json:"storageCost"`
	StorageRebate           string  `json:"storageRebate"`
	NonRefundableStorageFee string  `json:"nonRefundableStorageFee"`
}

// Transaction is one merged activity record of an address. Gas amounts are
// in MIST and zero when the summary is missing or unparsable.
type Transaction struct {
	Digest         string    `json:"digest"`
	TimestampMs    int64     `json:"timestampMs"`
	Direction      Direction `json:"direction"`
	GasComputation *big.Int  `json:"gasComputation"`
	GasStorage     *big.Int  `json:"gasStorage"`
	GasRebate      *big.Int  `json:"gasRebate"`
	NetGas         *big.Int  `json:"netGas"`
}

// GasBreakdown is the parsed gas summary of one transaction.
type GasBreakdown struct {
	Computation *big.Int
	Storage     *big.Int
	Rebate      *big.Int
}

// ZeroGas returns a breakdown with every amount at zero.
func ZeroGas() GasBreakdown {
	return GasBreakdown{Computation: new(big.Int), Storage: new(big.Int), Rebate: new(big.Int)}
}

// Net is computation + storage - rebate, floored at 0.
func (g GasBreakdown) Net() *big.Int {
	net := new(big.Int).Add(g.Computation, g.Storage)
	net.Sub(net, g.Rebate)
	if net.Sign() < 0 {
		net.SetInt64(0)
	}
	return net
}

// ActivityReport is the merged sent/received history of one address.
type ActivityReport struct {
	Transactions []Transaction `json:"transactions"`
	TotalGas     *big.Int      `json:"totalGas"`
	Errors       []FetchError  `json:"errors,omitempty"`
}
