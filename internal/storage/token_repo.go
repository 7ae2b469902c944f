package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// TokenStore is the persistence contract for user-added tokens.
type TokenStore interface {
	Add(ctx context.Context, token types.TokenDescriptor) error
	ListByChain(ctx context.Context, chainID string) ([]types.TokenDescriptor, error)
}

// TokenRepository handles custom token persistence
type TokenRepository struct {
	store *Store
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(store *Store) *TokenRepository {
	return &TokenRepository{store: store}
}

// Add appends a custom token for a chain.
func (r *TokenRepository) Add(ctx context.Context, token types.TokenDescriptor) error {
	query := `
		INSERT INTO custom_tokens (id, chain_id, address, symbol, name, decimals, coingecko_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.store.pool.Exec(ctx, query,
		uuid.New(),
		token.ChainID,
		token.Address,
		token.Symbol,
		token.Name,
		token.Decimals,
		token.CoinGeckoID,
	)
	if err != nil {
		return fmt.Errorf("failed to add custom token: %w", err)
	}

	return nil
}

// ListByChain retrieves all custom tokens for a chain in insertion order.
func (r *TokenRepository) ListByChain(ctx context.Context, chainID string) ([]types.TokenDescriptor, error) {
	query := `
		SELECT chain_id, address, symbol, name, decimals, coingecko_id
		FROM custom_tokens
		WHERE chain_id = $1
		ORDER BY created_at
	`

	rows, err := r.store.pool.Query(ctx, query, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom tokens: %w", err)
	}
	defer rows.Close()

	var tokens []types.TokenDescriptor
	for rows.Next() {
		var token types.TokenDescriptor
		err := rows.Scan(
			&token.ChainID,
			&token.Address,
			&token.Symbol,
			&token.Name,
			&token.Decimals,
			&token.CoinGeckoID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom token: %w", err)
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}
