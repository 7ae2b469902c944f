package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/multichain-wallet/multichain-wallet/internal/logger"
	"github.com/multichain-wallet/multichain-wallet/internal/metrics"
	"github.com/multichain-wallet/multichain-wallet/pkg/amount"
	apperrors "github.com/multichain-wallet/multichain-wallet/pkg/errors"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
	"golang.org/x/sync/errgroup"
)

// fetchConcurrency bounds the parallel balance requests per report.
const fetchConcurrency = 8

// nativeCoinGeckoIDs maps a chain's native currency to its price oracle id.
var nativeCoinGeckoIDs = map[string]string{
	types.ChainEthereum: "ethereum",
	types.ChainPolygon:  "matic-network",
	types.ChainArbitrum: "ethereum",
	types.ChainTron:     "tron",
	types.ChainBitcoin:  "bitcoin",
}

// PriceOracle supplies USD unit prices for a batch of asset ids.
type PriceOracle interface {
	GetPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// BalanceService assembles per-chain balance reports. Failures are isolated:
// a dead RPC endpoint or oracle degrades the affected rows and never fails
// the report as a whole.
type BalanceService struct {
	registry     *Registry
	tokens       *TokenService
	oracle       PriceOracle
	fetchTimeout time.Duration
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(registry *Registry, tokens *TokenService, oracle PriceOracle, fetchTimeout time.Duration) *BalanceService {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &BalanceService{
		registry:     registry,
		tokens:       tokens,
		oracle:       oracle,
		fetchTimeout: fetchTimeout,
	}
}

// FetchNativeBalance returns the native balance for a chain as a display
// amount converted through the chain's decimals.
func (s *BalanceService) FetchNativeBalance(ctx context.Context, session *WalletSession, chainID string) (string, error) {
	cfg, err := s.registry.Chain(chainID)
	if err != nil {
		return "", err
	}
	account, err := s.registry.EnsureAccount(session, chainID)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	raw, err := account.Balance(ctx)
	if err != nil {
		metrics.BalanceFetchFailures.WithLabelValues(chainID).Inc()
		return "", apperrors.BalanceFetchFailed(cfg.Currency, err)
	}
	return amount.FormatUnits(raw, cfg.Decimals, amount.NativePlaces), nil
}

// FetchReport assembles the full balance report for a chain: the native asset
// row plus one row per catalog token, with USD valuations from one batched
// price lookup. Balance and price fetches run concurrently; a failed row
// carries zero values and a fetch error, and an unavailable oracle zeroes
// all USD values and flags the report as degraded.
func (s *BalanceService) FetchReport(ctx context.Context, session *WalletSession, chainID string) (*types.BalanceReport, error) {
	cfg, err := s.registry.Chain(chainID)
	if err != nil {
		return nil, err
	}
	account, err := s.registry.EnsureAccount(session, chainID)
	if err != nil {
		return nil, err
	}

	var tokens []types.TokenDescriptor
	if cfg.SupportsTokens() {
		tokens, err = s.tokens.Combined(ctx, chainID)
		if err != nil {
			return nil, err
		}
	}

	started := time.Now()
	defer func() {
		metrics.ReportDuration.WithLabelValues(chainID).Observe(time.Since(started).Seconds())
	}()

	// Switching chains cancels the previous chain's in-flight report.
	ctx = session.BeginReport(ctx, chainID)
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	type fetched struct {
		raw *big.Int
		err error
	}
	balances := make([]fetched, 1+len(tokens))

	var (
		prices         map[string]float64
		pricesDegraded bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	g.Go(func() error {
		ids := priceIDs(chainID, tokens)
		got, err := s.oracle.GetPrices(gctx, ids)
		if err != nil {
			// Degraded, not fatal. Every USD value renders as zero.
			pricesDegraded = true
			metrics.PriceLookupFailures.Inc()
			logger.Warn(gctx, "price lookup failed", "chain", chainID,
				"error", apperrors.PriceUnavailable(err))
			return nil
		}
		prices = got
		return nil
	})

	g.Go(func() error {
		raw, err := account.Balance(gctx)
		balances[0] = fetched{raw: raw, err: err}
		return nil
	})

	for i, token := range tokens {
		g.Go(func() error {
			raw, err := account.TokenBalance(gctx, token.Address)
			balances[i+1] = fetched{raw: raw, err: err}
			return nil
		})
	}

	// Goroutines always return nil; Wait only propagates a cancelled parent.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancelled context means the session switched chains (or the deadline
	// passed) mid-fetch. The collected rows are stale; discard them instead
	// of dressing them up as an all-zero report.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("balance report for %s abandoned: %w", chainID, err)
	}

	report := &types.BalanceReport{
		ChainID:     chainID,
		Currency:    cfg.Currency,
		Address:     account.Address(),
		GeneratedAt: time.Now().UTC(),
	}
	report.PricesDegraded = pricesDegraded

	report.Rows = append(report.Rows, s.buildRow(ctx, chainID, types.BalanceRow{
		Symbol: cfg.Currency,
		Name:   cfg.Name,
		Native: true,
	}, balances[0].raw, balances[0].err, cfg.Decimals, amount.NativePlaces,
		prices[nativeCoinGeckoIDs[chainID]]))

	for i, token := range tokens {
		report.Rows = append(report.Rows, s.buildRow(ctx, chainID, types.BalanceRow{
			Symbol:  token.Symbol,
			Name:    token.Name,
			Address: token.Address,
		}, balances[i+1].raw, balances[i+1].err, token.Decimals, amount.TokenPlaces,
			prices[token.CoinGeckoID]))
	}

	return report, nil
}

// buildRow formats one report row. A fetch error yields a zero-valued row
// with the error attached; the rest of the report is unaffected.
func (s *BalanceService) buildRow(ctx context.Context, chainID string, row types.BalanceRow, raw *big.Int, fetchErr error, decimals, places int, price float64) types.BalanceRow {
	if fetchErr != nil {
		metrics.BalanceFetchFailures.WithLabelValues(chainID).Inc()
		logger.Warn(ctx, "balance fetch failed", "chain", chainID, "symbol", row.Symbol, "error", fetchErr)
		row.RawBalance = "0"
		row.Balance = amount.FormatUnits(nil, decimals, places)
		row.USDValue = "0.00"
		row.FetchError = fetchErr.Error()
		return row
	}

	row.RawBalance = raw.String()
	row.Balance = amount.FormatUnits(raw, decimals, places)
	if price != 0 {
		row.USDPrice = amount.FormatPrice(price)
	}
	row.USDValue = amount.USDValue(row.Balance, price)
	return row
}

// priceIDs collects the oracle ids for one batched lookup: the native
// currency plus every token that declares one, deduplicated.
func priceIDs(chainID string, tokens []types.TokenDescriptor) []string {
	seen := make(map[string]bool)
	var ids []string
	if id, ok := nativeCoinGeckoIDs[chainID]; ok {
		seen[id] = true
		ids = append(ids, id)
	}
	for _, t := range tokens {
		if t.CoinGeckoID == "" || seen[t.CoinGeckoID] {
			continue
		}
		seen[t.CoinGeckoID] = true
		ids = append(ids, t.CoinGeckoID)
	}
	return ids
}
