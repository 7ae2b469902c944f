package chains

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// btcP2PKHVersion is the mainnet pay-to-pubkey-hash version byte.
const btcP2PKHVersion = 0x00

// BitcoinProvider serves Bitcoin through a Blockstream-style REST API.
type BitcoinProvider struct {
	cfg        types.ChainConfig
	httpClient *http.Client
}

// NewBitcoinProvider creates a Bitcoin provider for the chain's REST endpoint.
func NewBitcoinProvider(cfg types.ChainConfig, httpClient *http.Client) *BitcoinProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BitcoinProvider{cfg: cfg, httpClient: httpClient}
}

// DeriveAccount derives the account at the given index from the mnemonic.
// The address is legacy P2PKH over the compressed public key.
func (p *BitcoinProvider) DeriveAccount(mnemonic string, index uint32) (Account, error) {
	priv, err := deriveKey(mnemonic, "bitcoin", index)
	if err != nil {
		return nil, err
	}

	pubKeyHash := btcutil.Hash160(priv.PubKey().SerializeCompressed())
	priv.Zero()

	return &bitcoinAccount{
		address:    base58.CheckEncode(pubKeyHash, btcP2PKHVersion),
		baseURL:    p.cfg.RPCURL,
		httpClient: p.httpClient,
	}, nil
}

// Close is a no-op; the REST client holds no persistent connection.
func (p *BitcoinProvider) Close() {}

type bitcoinAccount struct {
	address    string
	baseURL    string
	httpClient *http.Client
}

// btcAddressInfo mirrors the Blockstream /address response; the confirmed
// balance is funded minus spent.
type btcAddressInfo struct {
	ChainStats struct {
		FundedTxoSum uint64 `json:"funded_txo_sum"`
		SpentTxoSum  uint64 `json:"spent_txo_sum"`
	} `json:"chain_stats"`
}

func (a *bitcoinAccount) Address() string {
	return a.address
}

// Balance returns the confirmed balance in satoshi.
func (a *bitcoinAccount) Balance(ctx context.Context) (*big.Int, error) {
	url := fmt.Sprintf("%s/address/%s", a.baseURL, a.address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query address: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("address query returned status %d", resp.StatusCode)
	}

	var info btcAddressInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode address response: %w", err)
	}

	funded := new(big.Int).SetUint64(info.ChainStats.FundedTxoSum)
	spent := new(big.Int).SetUint64(info.ChainStats.SpentTxoSum)
	return funded.Sub(funded, spent), nil
}

// TokenBalance is not supported: Bitcoin has a single native asset.
func (a *bitcoinAccount) TokenBalance(_ context.Context, contractAddress string) (*big.Int, error) {
	return nil, fmt.Errorf("bitcoin has no token contracts (requested %s)", contractAddress)
}
