package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	assert.Equal(t, "no_wallet_found: No wallet secret is stored", ErrNoWalletFound.Error())

	withDetail := ChainNotConfigured("solana")
	assert.Equal(t, "chain_not_configured: Chain is not configured (chain: solana)", withDetail.Error())
}

func TestWithDetailCopies(t *testing.T) {
	detailed := ErrInvalidMnemonic.WithDetail("mnemonic must have 12, 15, 18, 21 or 24 words, got 3")

	assert.Equal(t, ErrCodeInvalidMnemonic, detailed.Code)
	assert.Equal(t, ErrInvalidMnemonic.StatusCode, detailed.StatusCode)
	assert.Contains(t, detailed.Detail, "got 3")

	// The predefined error must stay pristine for the next caller.
	assert.Empty(t, ErrInvalidMnemonic.Detail)
}

func TestIsAppErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", ErrWeakPassword)

	appErr, ok := IsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeWeakPassword, appErr.Code)

	_, ok = IsAppError(fmt.Errorf("plain failure"))
	assert.False(t, ok)
}

func TestIsCode(t *testing.T) {
	err := BalanceFetchFailed("USDT", fmt.Errorf("rpc timeout"))

	assert.True(t, IsCode(err, ErrCodeBalanceFetchFailed))
	assert.False(t, IsCode(err, ErrCodePriceUnavailable))
	assert.False(t, IsCode(nil, ErrCodeBalanceFetchFailed))
}
