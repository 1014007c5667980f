package service

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/metrics"
	"inft_dashboard/internal/pkg/utils"
)

const defaultTransactionPageSize = 50

// ActivityAggregatorImpl implements port.ActivityAggregator.
type ActivityAggregatorImpl struct {
	ledger   port.LedgerClient
	logger   port.Logger
	pageSize int
}

// NewActivityAggregator creates a new instance of ActivityAggregatorImpl.
func NewActivityAggregator(ledger port.LedgerClient, logger port.Logger, pageSize int) port.ActivityAggregator {
	if pageSize <= 0 {
		pageSize = defaultTransactionPageSize
	}
	return &ActivityAggregatorImpl{ledger: ledger, logger: logger, pageSize: pageSize}
}

type directedPage struct {
	direction entity.Direction
	blocks    []entity.TransactionBlock
	err       error
}

// Aggregate implements port.ActivityAggregator. The sent and received
// queries run concurrently; a failing query contributes nothing.
func (a *ActivityAggregatorImpl) Aggregate(ctx context.Context, owner string) entity.ActivityReport {
	pages := []*directedPage{
		{direction: entity.DirectionSent},
		{direction: entity.DirectionReceived},
	}

	var g errgroup.Group
	for _, p := range pages {
		g.Go(func() error {
			filter := entity.TransactionFilter{FromAddress: owner}
			if p.direction == entity.DirectionReceived {
				filter = entity.TransactionFilter{ToAddress: owner}
			}
			query := entity.TransactionQuery{Filter: filter, Options: entity.TransactionOptions{ShowEffects: true}}
			resp, err := a.ledger.QueryTransactions(ctx, query, nil, a.pageSize, true)
			if err != nil {
				p.err = err
				return nil
			}
			p.blocks = resp.Data
			return nil
		})
	}
	_ = g.Wait()

	report := entity.ActivityReport{Transactions: []entity.Transaction{}, TotalGas: new(big.Int)}
	merged := make(map[string]*entity.Transaction)
	for _, p := range pages {
		if p.err != nil {
			a.logger.Error("Failed to query transactions", "owner", owner, "direction", p.direction, "error", p.err)
			metrics.DegradedFetches.WithLabelValues("transactions_" + string(p.direction)).Inc()
			report.Errors = append(report.Errors, entity.FetchError{
				Address: owner, Source: "transactions_" + string(p.direction), Message: p.err.Error(),
			})
			continue
		}
		for _, block := range p.blocks {
			a.merge(merged, block, p.direction, owner, &report)
		}
	}

	for _, tx := range merged {
		report.Transactions = append(report.Transactions, *tx)
		report.TotalGas.Add(report.TotalGas, tx.NetGas)
	}
	sortTransactions(report.Transactions)

	a.logger.Info("Activity aggregated", "owner", owner, "transactions", len(report.Transactions),
		"total_gas_mist", report.TotalGas.String())
	return report
}

// merge adds block to merged. A digest seen from both sides becomes "both",
// whatever order the pages are merged in.
func (a *ActivityAggregatorImpl) merge(merged map[string]*entity.Transaction, block entity.TransactionBlock, dir entity.Direction, owner string, report *entity.ActivityReport) {
	if block.Digest == "" {
		return
	}
	if existing, ok := merged[block.Digest]; ok {
		if existing.Direction != dir {
			existing.Direction = entity.DirectionBoth
		}
		return
	}

	gas, err := ParseGas(block.Effects)
	if err != nil {
		a.logger.Warn("Unparsable gas summary, counting zero", "digest", block.Digest, "error", err)
		metrics.DegradedFetches.WithLabelValues("gas").Inc()
		report.Errors = append(report.Errors, entity.FetchError{Address: owner, Source: "gas", ObjectID: block.Digest, Message: err.Error()})
		gas = entity.ZeroGas()
	}

	var ts int64
	if block.TimestampMs != "" {
		ts, err = strconv.ParseInt(block.TimestampMs, 10, 64)
		if err != nil {
			a.logger.Warn("Unparsable transaction timestamp", "digest", block.Digest, "timestamp", block.TimestampMs)
			ts = 0
		}
	}

	merged[block.Digest] = &entity.Transaction{
		Digest:         block.Digest,
		TimestampMs:    ts,
		Direction:      dir,
		GasComputation: gas.Computation,
		GasStorage:     gas.Storage,
		GasRebate:      gas.Rebate,
		NetGas:         gas.Net(),
	}
}

// ParseGas reads the gas summary of a transaction. Transactions without a
// computation cost count as zero.
func ParseGas(effects *entity.TransactionEffects) (entity.GasBreakdown, error) {
	if effects == nil || effects.GasUsed == nil || effects.GasUsed.ComputationCost == nil {
		return entity.ZeroGas(), nil
	}
	gas := effects.GasUsed
	computation, err := utils.ParseBigInt(*gas.ComputationCost)
	if err != nil {
		return entity.GasBreakdown{}, fmt.Errorf("computationCost: %w", err)
	}
	storage, err := parseOptionalAmount(gas.StorageCost)
	if err != nil {
		return entity.GasBreakdown{}, fmt.Errorf("storageCost: %w", err)
	}
	rebate, err := parseOptionalAmount(gas.StorageRebate)
	if err != nil {
		return entity.GasBreakdown{}, fmt.Errorf("storageRebate: %w", err)
	}
	return entity.GasBreakdown{Computation: computation, Storage: storage, Rebate: rebate}, nil
}

// NetGas is computation + storage - rebate, floored at 0.
func NetGas(effects *entity.TransactionEffects) (*big.Int, error) {
	gas, err := ParseGas(effects)
	if err != nil {
		return nil, err
	}
	return gas.Net(), nil
}

func parseOptionalAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	return utils.ParseBigInt(s)
}

// sortTransactions orders newest first, digest ascending on ties.
func sortTransactions(txs []entity.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].TimestampMs != txs[j].TimestampMs {
			return txs[i].TimestampMs > txs[j].TimestampMs
		}
		return txs[i].Digest < txs[j].Digest
	})
}
