package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/multichain-wallet/multichain-wallet/internal/logger"
	"github.com/multichain-wallet/multichain-wallet/internal/metrics"
	"github.com/multichain-wallet/multichain-wallet/internal/storage"
	"github.com/multichain-wallet/multichain-wallet/internal/vault"
	apperrors "github.com/multichain-wallet/multichain-wallet/pkg/errors"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
	"golang.org/x/sync/singleflight"
)

// Storage keys for the secret records. The password flag is persisted next
// to the ciphertext; ciphertext without the flag is the recognized
// inconsistent state repaired on unlock.
const (
	keyEncrypted    = "wallet.mnemonic.encrypted"
	keyPlaintext    = "wallet.mnemonic.plain"
	keyPasswordFlag = "wallet.password.present"
)

// minPasswordLen is the minimum accepted encryption password length.
const minPasswordLen = 6

// PasswordSupplier provides a password on demand during unlock. The second
// return is false when the user cancelled the prompt, which aborts the
// unlock without treating it as a failure.
type PasswordSupplier interface {
	Password(ctx context.Context) (string, bool, error)
}

// PasswordFunc adapts a function to the PasswordSupplier interface.
type PasswordFunc func(ctx context.Context) (string, bool, error)

// Password implements PasswordSupplier.
func (f PasswordFunc) Password(ctx context.Context) (string, bool, error) {
	return f(ctx)
}

// PersistResult reports how a secret was persisted.
type PersistResult struct {
	Encrypted bool
	// PlaintextAtRisk is set when the secret went to storage unencrypted.
	// Not an error: callers must surface it to the user.
	PlaintextAtRisk bool
}

// UnlockResult reports the outcome of an unlock.
type UnlockResult struct {
	Mnemonic string
	// PlaintextAtRisk is set when the secret was found stored unencrypted.
	PlaintextAtRisk bool
}

// LifecycleService owns the secret state machine: how the mnemonic exists
// in memory, plaintext at rest, or encrypted at rest, and every transition
// between those forms. Lifecycle transitions are serialized; unlock is
// additionally deduplicated through a single-flight group.
type LifecycleService struct {
	kv     storage.KV
	cipher *vault.Cipher

	mu sync.Mutex
	// rememberedPassword enables re-encryption without re-prompting within
	// a session. Held in memory only, never persisted.
	rememberedPassword string

	unlockGroup singleflight.Group
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(kv storage.KV, cipher *vault.Cipher) *LifecycleService {
	return &LifecycleService{kv: kv, cipher: cipher}
}

// Generate produces a new random mnemonic. It deliberately does not persist:
// confirmation is a separate step, so an unconfirmed phrase can be discarded
// without ever touching storage.
func (s *LifecycleService) Generate(ctx context.Context) (string, error) {
	mnemonic, err := vault.NewMnemonic()
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	logger.Info(ctx, "generated new mnemonic")
	return mnemonic, nil
}

// readRecord loads the persisted secret record in whichever form exists.
func (s *LifecycleService) readRecord(ctx context.Context) (*types.SecretRecord, error) {
	ciphertext, hasEncrypted, err := s.kv.Get(ctx, keyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted record: %w", err)
	}
	if hasEncrypted {
		_, hasFlag, err := s.kv.Get(ctx, keyPasswordFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to read password flag: %w", err)
		}
		return &types.SecretRecord{
			State:           types.SecretEncrypted,
			Ciphertext:      ciphertext,
			PasswordPresent: hasFlag,
		}, nil
	}

	plaintext, hasPlain, err := s.kv.Get(ctx, keyPlaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to read plaintext record: %w", err)
	}
	if hasPlain {
		return &types.SecretRecord{State: types.SecretPlaintext, Plaintext: string(plaintext)}, nil
	}

	return &types.SecretRecord{State: types.SecretAbsent}, nil
}

// State returns the persisted form of the secret.
func (s *LifecycleService) State(ctx context.Context) (types.SecretState, error) {
	record, err := s.readRecord(ctx)
	if err != nil {
		return "", err
	}
	return record.State, nil
}

// HasPassword reports whether a password is remembered for this session.
func (s *LifecycleService) HasPassword() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rememberedPassword != ""
}

// Persist stores a mnemonic and unlocks the session with it. An explicit
// password takes precedence over the remembered one; with neither, the
// secret is written in plaintext and the result flags it as at risk.
// The write atomically replaces the other record form.
func (s *LifecycleService) Persist(ctx context.Context, session *WalletSession, mnemonic, password string) (*PersistResult, error) {
	mnemonic = vault.NormalizeMnemonic(mnemonic)
	if err := vault.ValidateMnemonic(mnemonic); err != nil {
		return nil, apperrors.ErrInvalidMnemonic.WithDetail(err.Error())
	}

	s.mu.Lock()
	if password == "" {
		password = s.rememberedPassword
	} else if len(password) < minPasswordLen {
		s.mu.Unlock()
		return nil, apperrors.ErrWeakPassword
	} else {
		// Remember an explicitly supplied password for later re-encryption.
		s.rememberedPassword = password
	}
	s.mu.Unlock()

	if password == "" {
		err := s.kv.Apply(ctx,
			map[string][]byte{keyPlaintext: []byte(mnemonic)},
			[]string{keyEncrypted, keyPasswordFlag},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to persist plaintext record: %w", err)
		}
		session.setSecret(mnemonic)
		logger.Warn(ctx, "mnemonic persisted unencrypted", "state", types.SecretPlaintext)
		return &PersistResult{PlaintextAtRisk: true}, nil
	}

	ciphertext, err := s.cipher.Encrypt([]byte(mnemonic), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt mnemonic: %w", err)
	}

	err = s.kv.Apply(ctx,
		map[string][]byte{keyEncrypted: ciphertext, keyPasswordFlag: []byte("1")},
		[]string{keyPlaintext},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to persist encrypted record: %w", err)
	}
	session.setSecret(mnemonic)
	logger.Info(ctx, "mnemonic persisted", "state", types.SecretEncrypted)
	return &PersistResult{Encrypted: true}, nil
}

// Unlock loads the secret into the session. Concurrent unlock calls are
// collapsed into one through the single-flight group.
func (s *LifecycleService) Unlock(ctx context.Context, session *WalletSession, supplier PasswordSupplier) (*UnlockResult, error) {
	result, err, _ := s.unlockGroup.Do("unlock", func() (interface{}, error) {
		return s.unlock(ctx, session, supplier)
	})
	if err != nil {
		return nil, err
	}
	return result.(*UnlockResult), nil
}

func (s *LifecycleService) unlock(ctx context.Context, session *WalletSession, supplier PasswordSupplier) (*UnlockResult, error) {
	record, err := s.readRecord(ctx)
	if err != nil {
		return nil, err
	}

	switch record.State {
	case types.SecretAbsent:
		metrics.UnlockAttempts.WithLabelValues("no_wallet").Inc()
		return nil, apperrors.ErrNoWalletFound

	case types.SecretPlaintext:
		session.setSecret(record.Plaintext)
		metrics.UnlockAttempts.WithLabelValues("success").Inc()
		logger.Warn(ctx, "unlocked from plaintext record")
		return &UnlockResult{Mnemonic: record.Plaintext, PlaintextAtRisk: true}, nil

	case types.SecretEncrypted:
		// Ciphertext without the password flag means a crash landed between
		// the two writes. Repair policy: try the empty password first, then
		// fall back to prompting.
		if !record.PasswordPresent {
			if plaintext, err := s.cipher.Decrypt(record.Ciphertext, nil); err == nil {
				// An empty-password ciphertext offers no real protection.
				// Reconcile the record to plaintext so the inconsistent
				// state does not survive to the next unlock.
				err := s.kv.Apply(ctx,
					map[string][]byte{keyPlaintext: plaintext},
					[]string{keyEncrypted, keyPasswordFlag},
				)
				if err != nil {
					return nil, fmt.Errorf("failed to reconcile secret record: %w", err)
				}
				session.setSecret(string(plaintext))
				metrics.UnlockAttempts.WithLabelValues("success").Inc()
				logger.Warn(ctx, "reconciled inconsistent secret record", "state", types.SecretPlaintext)
				return &UnlockResult{Mnemonic: string(plaintext), PlaintextAtRisk: true}, nil
			}
		}

		password, ok, err := supplier.Password(ctx)
		if err != nil {
			return nil, fmt.Errorf("password supplier failed: %w", err)
		}
		if !ok {
			metrics.UnlockAttempts.WithLabelValues("aborted").Inc()
			return nil, apperrors.ErrUnlockAborted
		}

		plaintext, err := s.cipher.Decrypt(record.Ciphertext, []byte(password))
		if err != nil {
			if errors.Is(err, vault.ErrDecryptFailed) {
				metrics.UnlockAttempts.WithLabelValues("invalid_password").Inc()
				logger.Warn(ctx, "unlock failed", "reason", "invalid password")
				return nil, apperrors.ErrInvalidPassword
			}
			return nil, err
		}

		s.mu.Lock()
		s.rememberedPassword = password
		s.mu.Unlock()

		session.setSecret(string(plaintext))
		metrics.UnlockAttempts.WithLabelValues("success").Inc()
		logger.Info(ctx, "wallet unlocked")
		return &UnlockResult{Mnemonic: string(plaintext)}, nil

	default:
		return nil, fmt.Errorf("unknown secret state %q", record.State)
	}
}

// SetPassword validates and remembers the encryption password. A plaintext
// record, if present, is re-encrypted under the new password immediately.
func (s *LifecycleService) SetPassword(ctx context.Context, password string) error {
	if len(password) < minPasswordLen {
		return apperrors.ErrWeakPassword
	}

	s.mu.Lock()
	s.rememberedPassword = password
	s.mu.Unlock()

	record, err := s.readRecord(ctx)
	if err != nil {
		return err
	}
	if record.State != types.SecretPlaintext {
		return nil
	}

	ciphertext, err := s.cipher.Encrypt([]byte(record.Plaintext), []byte(password))
	if err != nil {
		return fmt.Errorf("failed to encrypt mnemonic: %w", err)
	}

	err = s.kv.Apply(ctx,
		map[string][]byte{keyEncrypted: ciphertext, keyPasswordFlag: []byte("1")},
		[]string{keyPlaintext},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate plaintext record: %w", err)
	}

	logger.Info(ctx, "plaintext record migrated to encrypted")
	return nil
}

// ClearPassword forgets the remembered password. Future Persist calls fall
// back to plaintext storage with a warning.
func (s *LifecycleService) ClearPassword() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rememberedPassword = ""
}

// Export returns the mnemonic from whichever form is available, decrypting
// with the remembered password when needed.
func (s *LifecycleService) Export(ctx context.Context, session *WalletSession) (string, error) {
	if secret := session.Secret(); secret != "" {
		return secret, nil
	}

	record, err := s.readRecord(ctx)
	if err != nil {
		return "", err
	}

	switch record.State {
	case types.SecretAbsent:
		return "", apperrors.ErrNoWalletFound

	case types.SecretPlaintext:
		return record.Plaintext, nil

	case types.SecretEncrypted:
		s.mu.Lock()
		password := s.rememberedPassword
		s.mu.Unlock()
		if password == "" {
			return "", apperrors.ErrExportUnavailable
		}
		plaintext, err := s.cipher.Decrypt(record.Ciphertext, []byte(password))
		if err != nil {
			if errors.Is(err, vault.ErrDecryptFailed) {
				return "", apperrors.ErrInvalidPassword
			}
			return "", err
		}
		return string(plaintext), nil

	default:
		return "", fmt.Errorf("unknown secret state %q", record.State)
	}
}

// Logout deletes the persisted secret records and locks the session. The
// remembered password and the custom token catalog survive, matching the
// convenience trade-off the product makes.
func (s *LifecycleService) Logout(ctx context.Context, session *WalletSession) error {
	err := s.kv.Apply(ctx, nil, []string{keyEncrypted, keyPlaintext, keyPasswordFlag})
	if err != nil {
		return fmt.Errorf("failed to delete secret records: %w", err)
	}

	session.Clear()
	logger.Info(ctx, "wallet logged out, secret records removed")
	return nil
}
