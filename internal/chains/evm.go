package chains

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// balanceOfSelector is the 4-byte selector of ERC-20 balanceOf(address).
var balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

// EVMProvider serves the EVM-compatible chains (ethereum, polygon, arbitrum)
// through a JSON-RPC endpoint.
type EVMProvider struct {
	cfg    types.ChainConfig
	client *ethclient.Client
}

// NewEVMProvider creates an EVM provider for the chain's RPC endpoint.
func NewEVMProvider(cfg types.ChainConfig) (*EVMProvider, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL is required for chain %s", cfg.ID)
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	return &EVMProvider{cfg: cfg, client: client}, nil
}

// DeriveAccount derives the account at the given index from the mnemonic.
func (p *EVMProvider) DeriveAccount(mnemonic string, index uint32) (Account, error) {
	priv, err := deriveKey(mnemonic, "evm", index)
	if err != nil {
		return nil, err
	}

	address := crypto.PubkeyToAddress(*priv.PubKey().ToECDSA())
	priv.Zero()

	return &evmAccount{address: address, client: p.client}, nil
}

// Close releases the RPC connection.
func (p *EVMProvider) Close() {
	p.client.Close()
}

type evmAccount struct {
	address common.Address
	client  *ethclient.Client
}

// Address returns the checksummed hex address.
func (a *evmAccount) Address() string {
	return a.address.Hex()
}

// Balance returns the native balance in wei.
func (a *evmAccount) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := a.client.BalanceAt(ctx, a.address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// TokenBalance returns the ERC-20 balance in the token's smallest unit by
// calling balanceOf(address) on the contract.
func (a *evmAccount) TokenBalance(ctx context.Context, contractAddress string) (*big.Int, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", contractAddress)
	}
	contract := common.HexToAddress(contractAddress)

	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(a.address.Bytes(), 32)...)

	result, err := a.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty balanceOf response from %s", contractAddress)
	}

	return new(big.Int).SetBytes(result), nil
}
