// Package chains implements the per-chain account providers: a closed set of
// variants (EVM, TRON, Bitcoin) behind one capability interface. New chains
// are added by adding a variant, not by subclassing anything.
package chains

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// Account is an opaque per-chain handle derived from the wallet secret.
// It can query balances and its own address; it holds no secret material
// beyond the signing key it was derived with.
type Account interface {
	Address() string
	Balance(ctx context.Context) (*big.Int, error)
	TokenBalance(ctx context.Context, contractAddress string) (*big.Int, error)
}

// Provider derives accounts for one chain.
type Provider interface {
	DeriveAccount(mnemonic string, index uint32) (Account, error)
	Close()
}

// NewProvider constructs the provider variant for a chain config.
func NewProvider(cfg types.ChainConfig, httpClient *http.Client) (Provider, error) {
	switch cfg.Family {
	case types.FamilyEVM:
		return NewEVMProvider(cfg)
	case types.FamilyTron:
		return NewTronProvider(cfg, httpClient), nil
	case types.FamilyBitcoin:
		return NewBitcoinProvider(cfg, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown chain family %q for chain %s", cfg.Family, cfg.ID)
	}
}
