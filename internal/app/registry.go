package app

import (
	"fmt"

	"github.com/multichain-wallet/multichain-wallet/internal/chains"
	apperrors "github.com/multichain-wallet/multichain-wallet/pkg/errors"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// accountIndex is the derivation index for the session account. One account
// per chain for now; multi-account support would thread the index through.
const accountIndex = 0

// Registry resolves chain IDs to account handles. Derivation is lazy and the
// result is memoized in the session, so repeated lookups for the same chain
// return the same handle until the secret changes.
type Registry struct {
	providers map[string]chains.Provider
	chains    map[string]types.ChainConfig
	order     []string
}

// NewRegistry builds a registry over the configured chains and their
// providers. Chain iteration order is preserved for listing.
func NewRegistry(configs []types.ChainConfig, providers map[string]chains.Provider) *Registry {
	r := &Registry{
		providers: providers,
		chains:    make(map[string]types.ChainConfig, len(configs)),
		order:     make([]string, 0, len(configs)),
	}
	for _, cfg := range configs {
		r.chains[cfg.ID] = cfg
		r.order = append(r.order, cfg.ID)
	}
	return r
}

// Chains returns the configured chains in declaration order.
func (r *Registry) Chains() []types.ChainConfig {
	out := make([]types.ChainConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.chains[id])
	}
	return out
}

// Chain returns the config for a chain ID.
func (r *Registry) Chain(chainID string) (types.ChainConfig, error) {
	cfg, ok := r.chains[chainID]
	if !ok {
		return types.ChainConfig{}, apperrors.ChainNotConfigured(chainID)
	}
	return cfg, nil
}

// EnsureAccount returns the session's account handle for a chain, deriving
// it on first use. Requires an unlocked session.
func (r *Registry) EnsureAccount(session *WalletSession, chainID string) (chains.Account, error) {
	if _, ok := r.chains[chainID]; !ok {
		return nil, apperrors.ChainNotConfigured(chainID)
	}
	if account, ok := session.account(chainID); ok {
		return account, nil
	}

	mnemonic := session.Secret()
	if mnemonic == "" {
		return nil, apperrors.ErrNoSecretUnlocked
	}

	provider, ok := r.providers[chainID]
	if !ok {
		return nil, apperrors.ChainNotConfigured(chainID)
	}
	account, err := provider.DeriveAccount(mnemonic, accountIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive %s account: %w", chainID, err)
	}
	return session.storeAccount(chainID, account), nil
}

// Close releases all provider connections.
func (r *Registry) Close() {
	for _, p := range r.providers {
		p.Close()
	}
}
