package service

import (
	"context"
	"math/big"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/metrics"
	"inft_dashboard/internal/pkg/utils"
)

const (
	stablecoinMarker   = "USD"
	displayDecimalsFix = 4
)

// placeholderMultiplier values non-native, non-stable tokens. It is not a price feed.
var placeholderMultiplier = decimal.NewFromFloat(0.1)

// BalanceAggregatorImpl implements port.BalanceAggregator.
type BalanceAggregatorImpl struct {
	ledger        port.LedgerClient
	logger        port.Logger
	maxConcurrent int
}

// NewBalanceAggregator creates a new instance of BalanceAggregatorImpl.
func NewBalanceAggregator(ledger port.LedgerClient, logger port.Logger, maxConcurrent int) port.BalanceAggregator {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &BalanceAggregatorImpl{ledger: ledger, logger: logger, maxConcurrent: maxConcurrent}
}

// Aggregate implements port.BalanceAggregator. It never fails: a failing
// balances or stakes call yields an empty report carrying the error.
func (a *BalanceAggregatorImpl) Aggregate(ctx context.Context, owner string, nativePriceUSD float64) entity.BalanceReport {
	a.logger.Debug("Aggregating balances", "owner", owner, "native_price", nativePriceUSD)

	coins, err := a.ledger.GetAllBalances(ctx, owner)
	if err != nil {
		return a.failed(owner, "balances", err)
	}
	stakes, err := a.ledger.GetStakes(ctx, owner)
	if err != nil {
		return a.failed(owner, "stakes", err)
	}

	price := decimal.NewFromFloat(nativePriceUSD)
	tokens := make([]*entity.TokenBalance, len(coins))
	fetchErrs := make([]*entity.FetchError, len(coins))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)
	for i, coin := range coins {
		g.Go(func() error {
			tokens[i], fetchErrs[i] = a.valueCoin(gctx, owner, coin, price)
			return nil
		})
	}
	_ = g.Wait()

	report := entity.BalanceReport{Tokens: make([]entity.TokenBalance, 0, len(coins)+1)}
	for i := range coins {
		if fetchErrs[i] != nil {
			report.Errors = append(report.Errors, *fetchErrs[i])
		}
		if tokens[i] != nil {
			report.Tokens = append(report.Tokens, *tokens[i])
		}
	}

	if staked := a.stakedPosition(owner, stakes, price, &report); staked != nil {
		report.Tokens = append(report.Tokens, *staked)
	}

	sortTokens(report.Tokens)
	total := decimal.Zero
	for _, t := range report.Tokens {
		total = total.Add(decimal.NewFromFloat(t.FiatValue))
	}
	report.TotalFiat = total.InexactFloat64()

	a.logger.Info("Balances aggregated", "owner", owner, "tokens", len(report.Tokens),
		"total_fiat", report.TotalFiat, "degraded", len(report.Errors))
	return report
}

func (a *BalanceAggregatorImpl) failed(owner, source string, err error) entity.BalanceReport {
	a.logger.Error("Balance aggregation failed, returning empty portfolio", "owner", owner, "source", source, "error", err)
	metrics.DegradedFetches.WithLabelValues(source).Inc()
	return entity.BalanceReport{
		Tokens: []entity.TokenBalance{},
		Errors: []entity.FetchError{{Address: owner, Source: source, Message: err.Error()}},
	}
}

// valueCoin turns one ledger balance into a valued token. A nil token means
// the entry is dropped (zero or unparsable amount).
func (a *BalanceAggregatorImpl) valueCoin(ctx context.Context, owner string, coin entity.CoinBalance, price decimal.Decimal) (*entity.TokenBalance, *entity.FetchError) {
	raw, err := utils.ParseBigInt(coin.TotalBalance)
	if err != nil {
		a.logger.Warn("Skipping balance with unparsable amount", "owner", owner, "coin_type", coin.CoinType, "error", err)
		metrics.DegradedFetches.WithLabelValues("balance_amount").Inc()
		return nil, &entity.FetchError{Address: owner, Source: "balance_amount", CoinType: coin.CoinType, Message: err.Error()}
	}
	if raw.Sign() <= 0 {
		return nil, nil
	}

	if coin.CoinType == entity.NativeCoinType {
		amount := utils.ToDecimal(raw, entity.NativeDecimals)
		return &entity.TokenBalance{
			CoinType:        coin.CoinType,
			Symbol:          entity.NativeSymbol,
			Name:            entity.NativeName,
			Decimals:        entity.NativeDecimals,
			RawAmount:       raw,
			Amount:          amount,
			FormattedAmount: utils.FormatFixed(raw, entity.NativeDecimals, displayDecimalsFix),
			FiatValue:       amount.Mul(price).InexactFloat64(),
			IsNative:        true,
		}, nil
	}

	symbol, name, decimals := fallbackSymbol(coin.CoinType), entity.UnknownTokenName, entity.NativeDecimals
	var fetchErr *entity.FetchError
	meta, err := a.ledger.GetCoinMetadata(ctx, coin.CoinType)
	switch {
	case err != nil:
		a.logger.Warn("Could not fetch metadata for coin type", "coin_type", coin.CoinType, "error", err)
		metrics.DegradedFetches.WithLabelValues("coin_metadata").Inc()
		fetchErr = &entity.FetchError{Address: owner, Source: "coin_metadata", CoinType: coin.CoinType, Message: err.Error()}
	case meta == nil:
		a.logger.Debug("No metadata for coin type", "coin_type", coin.CoinType)
	default:
		if meta.Symbol != "" {
			symbol = meta.Symbol
		}
		if meta.Name != "" {
			name = meta.Name
		}
		decimals = meta.Decimals
	}

	amount := utils.ToDecimal(raw, decimals)
	fiat := amount.Mul(placeholderMultiplier)
	if strings.Contains(symbol, stablecoinMarker) {
		fiat = amount
	}
	return &entity.TokenBalance{
		CoinType:        coin.CoinType,
		Symbol:          symbol,
		Name:            name,
		Decimals:        decimals,
		RawAmount:       raw,
		Amount:          amount,
		FormattedAmount: utils.FormatFixed(raw, decimals, displayDecimalsFix),
		FiatValue:       fiat.InexactFloat64(),
	}, fetchErr
}

// stakedPosition sums every stake principal into one synthetic entry.
func (a *BalanceAggregatorImpl) stakedPosition(owner string, groups []entity.StakeGroup, price decimal.Decimal, report *entity.BalanceReport) *entity.TokenBalance {
	total := new(big.Int)
	for _, group := range groups {
		for _, stake := range group.Stakes {
			principal, err := utils.ParseBigInt(stake.Principal)
			if err != nil {
				a.logger.Warn("Skipping stake with unparsable principal",
					"owner", owner, "validator", group.ValidatorAddress, "staked_sui_id", stake.StakedSuiID, "error", err)
				metrics.DegradedFetches.WithLabelValues("stake_principal").Inc()
				report.Errors = append(report.Errors, entity.FetchError{
					Address: owner, Source: "stake_principal", ObjectID: stake.StakedSuiID, Message: err.Error(),
				})
				continue
			}
			total.Add(total, principal)
		}
	}
	if total.Sign() <= 0 {
		return nil
	}

	amount := utils.ToDecimal(total, entity.NativeDecimals)
	return &entity.TokenBalance{
		CoinType:        entity.StakedCoinType,
		Symbol:          entity.NativeSymbol,
		Name:            entity.StakedName,
		Decimals:        entity.NativeDecimals,
		RawAmount:       total,
		Amount:          amount,
		FormattedAmount: utils.FormatFixed(total, entity.NativeDecimals, displayDecimalsFix),
		FiatValue:       amount.Mul(price).InexactFloat64(),
		IsNative:        true,
		IsStaked:        true,
	}
}

// fallbackSymbol is the last "::" segment of a coin type.
func fallbackSymbol(coinType string) string {
	parts := strings.Split(coinType, "::")
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return "UNKNOWN"
}

// sortTokens orders by fiat value descending, coin type ascending on ties.
func sortTokens(tokens []entity.TokenBalance) {
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].FiatValue != tokens[j].FiatValue {
			return tokens[i].FiatValue > tokens[j].FiatValue
		}
		return tokens[i].CoinType < tokens[j].CoinType
	})
}
