package api

import (
	"context"
	"net/http"

	"github.com/multichain-wallet/multichain-wallet/internal/app"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// GenerateResponse carries a freshly generated mnemonic. Nothing is
// persisted until the client confirms with a wallet creation call.
type GenerateResponse struct {
	Mnemonic string `json:"mnemonic"`
}

// PersistWalletRequest imports or confirms a mnemonic. Password is optional;
// without one (and without a remembered password) the secret is stored
// unencrypted and the response flags the risk.
type PersistWalletRequest struct {
	Mnemonic string `json:"mnemonic"`
	Password string `json:"password,omitempty"`
}

// WalletStateResponse describes the persisted secret and session state.
type WalletStateResponse struct {
	State           types.SecretState `json:"state"`
	Unlocked        bool              `json:"unlocked"`
	PasswordPresent bool              `json:"password_present"`
}

// PersistWalletResponse reports the persistence outcome.
type PersistWalletResponse struct {
	State           types.SecretState `json:"state"`
	PlaintextAtRisk bool              `json:"plaintext_at_risk"`
}

// UnlockRequest optionally carries the decryption password. It is only
// consulted when the stored record actually needs one.
type UnlockRequest struct {
	Password string `json:"password,omitempty"`
}

// UnlockResponse reports a successful unlock.
type UnlockResponse struct {
	Unlocked        bool `json:"unlocked"`
	PlaintextAtRisk bool `json:"plaintext_at_risk"`
}

// ExportResponse carries the recovered mnemonic.
type ExportResponse struct {
	Mnemonic string `json:"mnemonic"`
}

// PasswordRequest sets the encryption password.
type PasswordRequest struct {
	Password string `json:"password"`
}

// handleGenerate produces a new mnemonic without persisting it.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	mnemonic, err := s.lifecycle.Generate(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, GenerateResponse{Mnemonic: mnemonic})
}

// handlePersist stores a mnemonic and unlocks the session with it.
func (s *Server) handlePersist(w http.ResponseWriter, r *http.Request) {
	var req PersistWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	result, err := s.lifecycle.Persist(r.Context(), s.session, req.Mnemonic, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	state := types.SecretEncrypted
	if result.PlaintextAtRisk {
		state = types.SecretPlaintext
	}
	s.writeJSON(w, http.StatusCreated, PersistWalletResponse{
		State:           state,
		PlaintextAtRisk: result.PlaintextAtRisk,
	})
}

// handleWalletState reports the persisted and session state.
func (s *Server) handleWalletState(w http.ResponseWriter, r *http.Request) {
	state, err := s.lifecycle.State(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, WalletStateResponse{
		State:           state,
		Unlocked:        s.session.Unlocked(),
		PasswordPresent: s.lifecycle.HasPassword(),
	})
}

// handleUnlock loads the stored secret into the session. The request body's
// password acts as the one-shot supplier: omitting it when the record is
// password-protected aborts the unlock.
func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req UnlockRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	supplier := app.PasswordFunc(func(context.Context) (string, bool, error) {
		if req.Password == "" {
			return "", false, nil
		}
		return req.Password, true, nil
	})

	result, err := s.lifecycle.Unlock(r.Context(), s.session, supplier)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, UnlockResponse{
		Unlocked:        true,
		PlaintextAtRisk: result.PlaintextAtRisk,
	})
}

// handleExport returns the mnemonic when recoverable.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	mnemonic, err := s.lifecycle.Export(r.Context(), s.session)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ExportResponse{Mnemonic: mnemonic})
}

// handleLogout deletes the stored secret and locks the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.lifecycle.Logout(r.Context(), s.session); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetPassword sets the encryption password, migrating a plaintext
// record if one exists.
func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.lifecycle.SetPassword(r.Context(), req.Password); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearPassword forgets the remembered password.
func (s *Server) handleClearPassword(w http.ResponseWriter, r *http.Request) {
	s.lifecycle.ClearPassword()
	w.WriteHeader(http.StatusNoContent)
}
