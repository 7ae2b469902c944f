package api

import (
	"net/http"

	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// AddTokenRequest registers a custom token on a chain. The chain comes from
// the URL path; a chain_id in the body is rejected as an unknown field.
type AddTokenRequest struct {
	Address     string `json:"address"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Decimals    int    `json:"decimals"`
	CoinGeckoID string `json:"coingecko_id,omitempty"`
}

// TokenListResponse wraps a token catalog listing.
type TokenListResponse struct {
	ChainID string                  `json:"chain_id"`
	Tokens  []types.TokenDescriptor `json:"tokens"`
}

// handleAddToken registers a custom token. Re-adding an existing address is
// a no-op and still returns 201.
func (s *Server) handleAddToken(w http.ResponseWriter, r *http.Request) {
	chainID := r.PathValue("chain")

	var req AddTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	token := types.TokenDescriptor{
		ChainID:     chainID,
		Address:     req.Address,
		Symbol:      req.Symbol,
		Name:        req.Name,
		Decimals:    req.Decimals,
		CoinGeckoID: req.CoinGeckoID,
	}
	if err := s.tokens.Add(r.Context(), token); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// handleListTokens lists tokens for a chain. The default view is the
// user-added set; ?view=all includes the built-in catalog.
func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	chainID := r.PathValue("chain")

	var (
		tokens []types.TokenDescriptor
		err    error
	)
	if r.URL.Query().Get("view") == "all" {
		tokens, err = s.tokens.Combined(r.Context(), chainID)
	} else {
		tokens, err = s.tokens.List(r.Context(), chainID)
	}
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if tokens == nil {
		tokens = []types.TokenDescriptor{}
	}
	s.writeJSON(w, http.StatusOK, TokenListResponse{ChainID: chainID, Tokens: tokens})
}
