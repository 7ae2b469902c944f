package app

import (
	"context"
	"strings"

	"github.com/multichain-wallet/multichain-wallet/internal/logger"
	"github.com/multichain-wallet/multichain-wallet/internal/storage"
	apperrors "github.com/multichain-wallet/multichain-wallet/pkg/errors"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// TokenService manages the per-chain token catalog: a static built-in set
// plus user-added custom tokens. Dedup is by canonical contract address,
// first occurrence wins.
type TokenService struct {
	store    storage.TokenStore
	registry *Registry
	builtin  map[string][]types.TokenDescriptor
}

// NewTokenService creates a TokenService over the given store.
func NewTokenService(store storage.TokenStore, registry *Registry) *TokenService {
	return &TokenService{
		store:    store,
		registry: registry,
		builtin:  types.BuiltinTokens(),
	}
}

// Add validates and persists a custom token. Re-adding a token whose
// canonical address already exists on the chain is a no-op, not an error.
// Symbols are stored uppercase.
func (s *TokenService) Add(ctx context.Context, token types.TokenDescriptor) error {
	cfg, err := s.registry.Chain(token.ChainID)
	if err != nil {
		return err
	}
	if !cfg.SupportsTokens() {
		return apperrors.InvalidToken("chain does not support contract tokens")
	}

	token.Address = strings.TrimSpace(token.Address)
	token.Symbol = strings.ToUpper(strings.TrimSpace(token.Symbol))
	token.Name = strings.TrimSpace(token.Name)

	if token.Address == "" {
		return apperrors.InvalidToken("contract address is required")
	}
	if token.Symbol == "" {
		return apperrors.InvalidToken("symbol is required")
	}
	if token.Name == "" {
		return apperrors.InvalidToken("name is required")
	}
	if token.Decimals < 0 || token.Decimals > 36 {
		return apperrors.InvalidToken("decimals out of range")
	}

	existing, err := s.Combined(ctx, token.ChainID)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t.CanonicalAddress() == token.CanonicalAddress() {
			logger.Debug(ctx, "token already in catalog", "chain", token.ChainID, "symbol", t.Symbol)
			return nil
		}
	}

	if err := s.store.Add(ctx, token); err != nil {
		return err
	}
	logger.Info(ctx, "custom token added", "chain", token.ChainID, "symbol", token.Symbol)
	return nil
}

// List returns only the user-added tokens for a chain.
func (s *TokenService) List(ctx context.Context, chainID string) ([]types.TokenDescriptor, error) {
	if _, err := s.registry.Chain(chainID); err != nil {
		return nil, err
	}
	return s.store.ListByChain(ctx, chainID)
}

// Combined returns built-in tokens followed by custom ones, deduplicated by
// canonical address with the earlier entry winning.
func (s *TokenService) Combined(ctx context.Context, chainID string) ([]types.TokenDescriptor, error) {
	custom, err := s.store.ListByChain(ctx, chainID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []types.TokenDescriptor
	for _, t := range append(append([]types.TokenDescriptor{}, s.builtin[chainID]...), custom...) {
		addr := t.CanonicalAddress()
		if seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, t)
	}
	return out, nil
}
