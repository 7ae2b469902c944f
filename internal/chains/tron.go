package chains

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// tronAddressVersion is the mainnet prefix byte (addresses start with "T").
const tronAddressVersion = 0x41

// TronProvider serves TRON through the TronGrid-style REST API.
type TronProvider struct {
	cfg        types.ChainConfig
	httpClient *http.Client
}

// NewTronProvider creates a TRON provider for the chain's REST endpoint.
func NewTronProvider(cfg types.ChainConfig, httpClient *http.Client) *TronProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TronProvider{cfg: cfg, httpClient: httpClient}
}

// DeriveAccount derives the account at the given index from the mnemonic.
// TRON addresses use the Ethereum keccak construction behind a base58check
// encoding with the 0x41 version byte.
func (p *TronProvider) DeriveAccount(mnemonic string, index uint32) (Account, error) {
	priv, err := deriveKey(mnemonic, "tron", index)
	if err != nil {
		return nil, err
	}

	pub := priv.PubKey().SerializeUncompressed()
	priv.Zero()

	hash := crypto.Keccak256(pub[1:]) // drop the 0x04 prefix
	address := base58.CheckEncode(hash[12:], tronAddressVersion)

	return &tronAccount{
		address:    address,
		baseURL:    p.cfg.RPCURL,
		httpClient: p.httpClient,
	}, nil
}

// Close is a no-op; the REST client holds no persistent connection.
func (p *TronProvider) Close() {}

type tronAccount struct {
	address    string
	baseURL    string
	httpClient *http.Client
}

// tronAccountInfo mirrors the TronGrid /v1/accounts response. An account
// that never received funds comes back with an empty data array.
type tronAccountInfo struct {
	Data []struct {
		Balance int64               `json:"balance"`
		TRC20   []map[string]string `json:"trc20"`
	} `json:"data"`
}

func (a *tronAccount) Address() string {
	return a.address
}

func (a *tronAccount) fetchInfo(ctx context.Context) (*tronAccountInfo, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s", a.baseURL, a.address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("account query returned status %d", resp.StatusCode)
	}

	var info tronAccountInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode account response: %w", err)
	}
	return &info, nil
}

// Balance returns the TRX balance in sun.
func (a *tronAccount) Balance(ctx context.Context) (*big.Int, error) {
	info, err := a.fetchInfo(ctx)
	if err != nil {
		return nil, err
	}
	if len(info.Data) == 0 {
		// Unactivated account: zero balance, not an error.
		return new(big.Int), nil
	}
	return big.NewInt(info.Data[0].Balance), nil
}

// TokenBalance returns the TRC-20 balance for a contract in its smallest
// unit, zero when the account holds none of the token.
func (a *tronAccount) TokenBalance(ctx context.Context, contractAddress string) (*big.Int, error) {
	info, err := a.fetchInfo(ctx)
	if err != nil {
		return nil, err
	}
	if len(info.Data) == 0 {
		return new(big.Int), nil
	}

	for _, holding := range info.Data[0].TRC20 {
		if raw, ok := holding[contractAddress]; ok {
			v, ok := new(big.Int).SetString(raw, 10)
			if !ok {
				return nil, fmt.Errorf("invalid trc20 amount %q", raw)
			}
			return v, nil
		}
	}
	return new(big.Int), nil
}
