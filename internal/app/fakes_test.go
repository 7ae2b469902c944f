package app

import (
	"context"
	"math/big"

	"github.com/multichain-wallet/multichain-wallet/internal/chains"
)

const testMnemonic = "abandon ability able about above absent absorb abstract absurd abuse access accident"

// fakeAccount is a canned chains.Account for service tests.
type fakeAccount struct {
	addr      string
	native    *big.Int
	nativeErr error
	tokens    map[string]*big.Int
	tokenErrs map[string]error
}

func (a *fakeAccount) Address() string { return a.addr }

func (a *fakeAccount) Balance(context.Context) (*big.Int, error) {
	if a.nativeErr != nil {
		return nil, a.nativeErr
	}
	return a.native, nil
}

func (a *fakeAccount) TokenBalance(_ context.Context, contractAddress string) (*big.Int, error) {
	if err, ok := a.tokenErrs[contractAddress]; ok {
		return nil, err
	}
	if bal, ok := a.tokens[contractAddress]; ok {
		return bal, nil
	}
	return big.NewInt(0), nil
}

// fakeProvider hands out a fixed account and counts derivations.
type fakeProvider struct {
	account     chains.Account
	deriveErr   error
	deriveCalls int
}

func (p *fakeProvider) DeriveAccount(string, uint32) (chains.Account, error) {
	p.deriveCalls++
	if p.deriveErr != nil {
		return nil, p.deriveErr
	}
	return p.account, nil
}

func (p *fakeProvider) Close() {}

// fakeOracle returns canned prices or a canned error.
type fakeOracle struct {
	prices map[string]float64
	err    error
	calls  int
}

func (o *fakeOracle) GetPrices(_ context.Context, ids []string) (map[string]float64, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	out := make(map[string]float64)
	for _, id := range ids {
		if price, ok := o.prices[id]; ok {
			out[id] = price
		}
	}
	return out, nil
}
