package api

import (
	"net/http"
)

// ChainResponse describes one supported chain.
type ChainResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	Family         string `json:"family"`
	SupportsTokens bool   `json:"supports_tokens"`
}

// AddressResponse carries the derived account address for a chain.
type AddressResponse struct {
	ChainID string `json:"chain_id"`
	Address string `json:"address"`
}

// handleListChains lists the configured chains.
func (s *Server) handleListChains(w http.ResponseWriter, r *http.Request) {
	configs := s.registry.Chains()
	out := make([]ChainResponse, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, ChainResponse{
			ID:             cfg.ID,
			Name:           cfg.Name,
			Currency:       cfg.Currency,
			Family:         string(cfg.Family),
			SupportsTokens: cfg.SupportsTokens(),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleChainAddress derives (or returns the memoized) address for a chain.
func (s *Server) handleChainAddress(w http.ResponseWriter, r *http.Request) {
	chainID := r.PathValue("chain")

	account, err := s.registry.EnsureAccount(s.session, chainID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, AddressResponse{ChainID: chainID, Address: account.Address()})
}

// handleChainReport assembles the balance report for a chain.
func (s *Server) handleChainReport(w http.ResponseWriter, r *http.Request) {
	chainID := r.PathValue("chain")

	report, err := s.balances.FetchReport(r.Context(), s.session, chainID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}
