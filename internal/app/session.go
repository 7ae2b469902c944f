package app

import (
	"context"
	"sync"

	"github.com/multichain-wallet/multichain-wallet/internal/chains"
)

// WalletSession carries the per-session mutable state: the unlocked secret,
// the memoized account handles, and the in-flight report cancellation for
// the current chain. It is owned by the caller (the API server) and passed
// into each service operation, so no component keeps ambient session state.
type WalletSession struct {
	mu          sync.Mutex
	mnemonic    string
	accounts    map[string]chains.Account
	fetchChain  string
	fetchCancel context.CancelFunc
}

// NewWalletSession creates an empty, locked session.
func NewWalletSession() *WalletSession {
	return &WalletSession{accounts: make(map[string]chains.Account)}
}

// Unlocked reports whether a secret is held in memory.
func (s *WalletSession) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mnemonic != ""
}

// Secret returns the unlocked mnemonic, or "" when locked.
func (s *WalletSession) Secret() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mnemonic
}

// setSecret installs the unlocked mnemonic, replacing any previous one and
// invalidating account handles derived from it.
func (s *WalletSession) setSecret(mnemonic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mnemonic = mnemonic
	s.accounts = make(map[string]chains.Account)
}

// Clear locks the session: the secret reference and all account handles are
// dropped and any in-flight report is cancelled. Scrubbing is best-effort;
// Go strings cannot be zeroed in place.
func (s *WalletSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mnemonic = ""
	s.accounts = make(map[string]chains.Account)
	if s.fetchCancel != nil {
		s.fetchCancel()
		s.fetchCancel = nil
	}
	s.fetchChain = ""
}

// account returns the memoized handle for a chain, if any.
func (s *WalletSession) account(chainID string) (chains.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[chainID]
	return account, ok
}

// storeAccount memoizes a derived handle. If another goroutine stored one
// first, the existing handle wins so callers always converge on one handle
// per chain per session.
func (s *WalletSession) storeAccount(chainID string, account chains.Account) chains.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.accounts[chainID]; ok {
		return existing
	}
	s.accounts[chainID] = account
	return account
}

// BeginReport registers an in-flight report for a chain and returns a
// context cancelled when the session switches to another chain. Switching
// chains mid-fetch abandons the previous chain's requests: their results
// are discarded by cancellation instead of racing a stale report in.
func (s *WalletSession) BeginReport(ctx context.Context, chainID string) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetchCancel != nil && s.fetchChain != chainID {
		s.fetchCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.fetchChain = chainID
	s.fetchCancel = cancel
	return ctx
}
