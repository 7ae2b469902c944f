package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// KV is the persistence contract the secret lifecycle depends on. It is a
// plain key/value surface; Apply additionally lets the caller swap the
// plaintext and encrypted records without an observable intermediate state.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Apply(ctx context.Context, puts map[string][]byte, deletes []string) error
}

// SecretRepository is the Postgres-backed KV used for the wallet secret
// records and related flags.
type SecretRepository struct {
	store *Store
}

// NewSecretRepository creates a new SecretRepository
func NewSecretRepository(store *Store) *SecretRepository {
	return &SecretRepository{store: store}
}

// Get retrieves a value by key. The second return is false when the key is
// absent.
func (r *SecretRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM wallet_kv WHERE key = $1`

	var value []byte
	err := r.store.pool.QueryRow(ctx, query, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key: %w", err)
	}

	return value, true, nil
}

// Set stores a value under key, replacing any previous value.
func (r *SecretRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.setTx(ctx, r.store.pool, key, value)
}

func (r *SecretRepository) setTx(ctx context.Context, db DBTX, key string, value []byte) error {
	query := `
		INSERT INTO wallet_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *SecretRepository) Delete(ctx context.Context, key string) error {
	return r.deleteTx(ctx, r.store.pool, key)
}

func (r *SecretRepository) deleteTx(ctx context.Context, db DBTX, key string) error {
	if _, err := db.Exec(ctx, `DELETE FROM wallet_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Apply performs the given puts and deletes in a single transaction. The
// lifecycle manager uses this for the plaintext/encrypted swap so both forms
// are never persisted together.
func (r *SecretRepository) Apply(ctx context.Context, puts map[string][]byte, deletes []string) error {
	return r.store.WithTx(ctx, func(tx pgx.Tx) error {
		for key, value := range puts {
			if err := r.setTx(ctx, tx, key, value); err != nil {
				return err
			}
		}
		for _, key := range deletes {
			if err := r.deleteTx(ctx, tx, key); err != nil {
				return err
			}
		}
		return nil
	})
}
