// Package types holds the shared domain types: chain configuration, token
// descriptors, secret records, and balance reports.
package types

import (
	"strings"
	"time"
)

// ChainFamily selects the account provider implementation for a chain.
type ChainFamily string

const (
	FamilyEVM     ChainFamily = "evm"
	FamilyTron    ChainFamily = "tron"
	FamilyBitcoin ChainFamily = "bitcoin"
)

// Chain ID constants
const (
	ChainEthereum = "ethereum"
	ChainPolygon  = "polygon"
	ChainArbitrum = "arbitrum"
	ChainTron     = "tron"
	ChainBitcoin  = "bitcoin"
)

// ChainConfig describes one supported chain. Immutable after process start.
type ChainConfig struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Currency string      `json:"currency"`
	RPCURL   string      `json:"rpc_url"`
	Decimals int         `json:"decimals"`
	Family   ChainFamily `json:"family"`
}

// SupportsTokens reports whether the chain carries a token catalog.
// Only the EVM family has contract tokens; the others expose a single
// native asset.
func (c ChainConfig) SupportsTokens() bool {
	return c.Family == FamilyEVM
}

// TokenDescriptor describes one ERC-20 style token on a chain.
type TokenDescriptor struct {
	ChainID     string `json:"chain_id"`
	Address     string `json:"address"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Decimals    int    `json:"decimals"`
	CoinGeckoID string `json:"coingecko_id,omitempty"`
}

// CanonicalAddress returns the address normalized for dedup comparison.
// EVM addresses are case-insensitive hex, so lowercase is canonical.
func (t TokenDescriptor) CanonicalAddress() string {
	return strings.ToLower(strings.TrimSpace(t.Address))
}

// SecretState identifies the persisted form of the wallet secret.
type SecretState string

const (
	SecretAbsent    SecretState = "absent"
	SecretPlaintext SecretState = "plaintext"
	SecretEncrypted SecretState = "encrypted"
)

// SecretRecord is the persisted wallet secret in whichever form exists.
// At most one of Plaintext/Ciphertext is set; PasswordPresent=false with a
// non-empty ciphertext is a recognized inconsistent state repaired by trying
// empty-password decryption on unlock.
type SecretRecord struct {
	State           SecretState
	Plaintext       string
	Ciphertext      []byte
	PasswordPresent bool
}

// BalanceRow is one asset row in a balance report. Rows are independent:
// a failed row carries zero values and FetchError, never poisoning siblings.
type BalanceRow struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Native     bool   `json:"native"`
	RawBalance string `json:"raw_balance"`
	Balance    string `json:"balance"`
	USDPrice   string `json:"usd_price,omitempty"`
	USDValue   string `json:"usd_value"`
	FetchError string `json:"fetch_error,omitempty"`
}

// BalanceReport is the valuation report for one chain.
type BalanceReport struct {
	ChainID        string       `json:"chain_id"`
	Currency       string       `json:"currency"`
	Address        string       `json:"address"`
	Rows           []BalanceRow `json:"rows"`
	PricesDegraded bool         `json:"prices_degraded"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

// DefaultChains returns the built-in chain set. RPC endpoints can be
// overridden through configuration.
func DefaultChains() []ChainConfig {
	return []ChainConfig{
		{ID: ChainEthereum, Name: "Ethereum", Currency: "ETH", RPCURL: "https://eth.drpc.org", Decimals: 18, Family: FamilyEVM},
		{ID: ChainPolygon, Name: "Polygon", Currency: "MATIC", RPCURL: "https://polygon-rpc.com", Decimals: 18, Family: FamilyEVM},
		{ID: ChainArbitrum, Name: "Arbitrum", Currency: "ETH", RPCURL: "https://arb1.arbitrum.io/rpc", Decimals: 18, Family: FamilyEVM},
		{ID: ChainTron, Name: "TRON", Currency: "TRX", RPCURL: "https://api.trongrid.io", Decimals: 6, Family: FamilyTron},
		{ID: ChainBitcoin, Name: "Bitcoin", Currency: "BTC", RPCURL: "https://blockstream.info/api", Decimals: 8, Family: FamilyBitcoin},
	}
}

// BuiltinTokens returns the static token catalog keyed by chain ID.
func BuiltinTokens() map[string][]TokenDescriptor {
	return map[string][]TokenDescriptor{
		ChainEthereum: {
			{ChainID: ChainEthereum, Symbol: "USDT", Name: "Tether USD", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6, CoinGeckoID: "tether"},
			{ChainID: ChainEthereum, Symbol: "USDC", Name: "USD Coin", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6, CoinGeckoID: "usd-coin"},
			{ChainID: ChainEthereum, Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18, CoinGeckoID: "dai"},
		},
		ChainPolygon: {
			{ChainID: ChainPolygon, Symbol: "USDT", Name: "Tether USD", Address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", Decimals: 6, CoinGeckoID: "tether"},
			{ChainID: ChainPolygon, Symbol: "USDC", Name: "USD Coin", Address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", Decimals: 6, CoinGeckoID: "usd-coin"},
		},
	}
}
