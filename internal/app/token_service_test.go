package app

import (
	"testing"

	"github.com/multichain-wallet/multichain-wallet/internal/chains"
	"github.com/multichain-wallet/multichain-wallet/internal/storage"
	apperrors "github.com/multichain-wallet/multichain-wallet/pkg/errors"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenFixture(t *testing.T) *TokenService {
	t.Helper()
	registry := NewRegistry(types.DefaultChains(), map[string]chains.Provider{})
	return NewTokenService(storage.NewMemoryTokenStore(), registry)
}

func TestAddCustomToken(t *testing.T) {
	svc := newTokenFixture(t)

	err := svc.Add(t.Context(), types.TokenDescriptor{
		ChainID:  types.ChainEthereum,
		Address:  "0x514910771AF9Ca656af840dff83E8264EcF986CA",
		Symbol:   "link",
		Name:     "Chainlink",
		Decimals: 18,
	})
	require.NoError(t, err)

	custom, err := svc.List(t.Context(), types.ChainEthereum)
	require.NoError(t, err)
	require.Len(t, custom, 1)
	assert.Equal(t, "LINK", custom[0].Symbol, "symbols are stored uppercase")
}

func TestAddDuplicateOfBuiltinIsNoOp(t *testing.T) {
	svc := newTokenFixture(t)

	// Built-in USDT, differently cased address.
	err := svc.Add(t.Context(), types.TokenDescriptor{
		ChainID:  types.ChainEthereum,
		Address:  "0XDAC17F958D2EE523A2206206994597C13D831EC7",
		Symbol:   "USDT",
		Name:     "Tether USD",
		Decimals: 6,
	})
	require.NoError(t, err)

	custom, err := svc.List(t.Context(), types.ChainEthereum)
	require.NoError(t, err)
	assert.Empty(t, custom, "duplicates are silently dropped")
}

func TestAddDuplicateCustomIsNoOp(t *testing.T) {
	svc := newTokenFixture(t)
	token := types.TokenDescriptor{
		ChainID:  types.ChainEthereum,
		Address:  "0x514910771AF9Ca656af840dff83E8264EcF986CA",
		Symbol:   "LINK",
		Name:     "Chainlink",
		Decimals: 18,
	}

	require.NoError(t, svc.Add(t.Context(), token))
	require.NoError(t, svc.Add(t.Context(), token))

	custom, err := svc.List(t.Context(), types.ChainEthereum)
	require.NoError(t, err)
	assert.Len(t, custom, 1)
}

func TestAddValidation(t *testing.T) {
	svc := newTokenFixture(t)

	tests := []struct {
		name  string
		token types.TokenDescriptor
		code  string
	}{
		{
			name:  "missing address",
			token: types.TokenDescriptor{ChainID: types.ChainEthereum, Symbol: "X", Name: "X", Decimals: 18},
			code:  apperrors.ErrCodeInvalidToken,
		},
		{
			name:  "missing symbol",
			token: types.TokenDescriptor{ChainID: types.ChainEthereum, Address: "0x1", Name: "X", Decimals: 18},
			code:  apperrors.ErrCodeInvalidToken,
		},
		{
			name:  "missing name",
			token: types.TokenDescriptor{ChainID: types.ChainEthereum, Address: "0x1", Symbol: "X", Decimals: 18},
			code:  apperrors.ErrCodeInvalidToken,
		},
		{
			name:  "negative decimals",
			token: types.TokenDescriptor{ChainID: types.ChainEthereum, Address: "0x1", Symbol: "X", Name: "X", Decimals: -1},
			code:  apperrors.ErrCodeInvalidToken,
		},
		{
			name:  "tokens on bitcoin",
			token: types.TokenDescriptor{ChainID: types.ChainBitcoin, Address: "0x1", Symbol: "X", Name: "X", Decimals: 8},
			code:  apperrors.ErrCodeInvalidToken,
		},
		{
			name:  "unknown chain",
			token: types.TokenDescriptor{ChainID: "solana", Address: "0x1", Symbol: "X", Name: "X", Decimals: 9},
			code:  apperrors.ErrCodeChainNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Add(t.Context(), tt.token)
			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCombinedPrefersBuiltins(t *testing.T) {
	svc := newTokenFixture(t)

	require.NoError(t, svc.Add(t.Context(), types.TokenDescriptor{
		ChainID:  types.ChainEthereum,
		Address:  "0x514910771AF9Ca656af840dff83E8264EcF986CA",
		Symbol:   "LINK",
		Name:     "Chainlink",
		Decimals: 18,
	}))

	combined, err := svc.Combined(t.Context(), types.ChainEthereum)
	require.NoError(t, err)
	require.Len(t, combined, 4)

	// Built-ins first, custom tokens after.
	assert.Equal(t, "USDT", combined[0].Symbol)
	assert.Equal(t, "LINK", combined[3].Symbol)
}
