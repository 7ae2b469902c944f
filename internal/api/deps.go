package api

import (
	"context"

	"github.com/multichain-wallet/multichain-wallet/internal/app"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// LifecycleManager is the subset of app.LifecycleService used by the API
// layer. It is an interface to allow handler-level unit tests without real
// storage or KDF cost.
type LifecycleManager interface {
	Generate(ctx context.Context) (string, error)
	Persist(ctx context.Context, session *app.WalletSession, mnemonic, password string) (*app.PersistResult, error)
	Unlock(ctx context.Context, session *app.WalletSession, supplier app.PasswordSupplier) (*app.UnlockResult, error)
	SetPassword(ctx context.Context, password string) error
	ClearPassword()
	Export(ctx context.Context, session *app.WalletSession) (string, error)
	Logout(ctx context.Context, session *app.WalletSession) error
	State(ctx context.Context) (types.SecretState, error)
	HasPassword() bool
}

// BalanceFetcher is the subset of app.BalanceService used by the API layer.
type BalanceFetcher interface {
	FetchReport(ctx context.Context, session *app.WalletSession, chainID string) (*types.BalanceReport, error)
}

// TokenCatalog is the subset of app.TokenService used by the API layer.
type TokenCatalog interface {
	Add(ctx context.Context, token types.TokenDescriptor) error
	List(ctx context.Context, chainID string) ([]types.TokenDescriptor, error)
	Combined(ctx context.Context, chainID string) ([]types.TokenDescriptor, error)
}
