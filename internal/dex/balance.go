package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"pairScope/internal/chain"
)

// PairBalanceReader reads liquidity-token balances from pair contracts. It
// satisfies the derive engine's balance dependency.
type PairBalanceReader struct {
	chain *chain.Client
}

func NewPairBalanceReader(chainClient *chain.Client) *PairBalanceReader {
	return &PairBalanceReader{chain: chainClient}
}

func (r *PairBalanceReader) BalanceOf(ctx context.Context, pair common.Address, owner common.Address) (*big.Int, error) {
	if r.chain == nil {
		return nil, fmt.Errorf("chain client is nil")
	}

	pairABI, err := PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}

	data, err := pairABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}
	msg := ethereum.CallMsg{To: &pair, Data: data}
	resp, err := r.chain.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}
	values, err := pairABI.Unpack("balanceOf", resp)
	if err != nil {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected balanceOf values: %d", len(values))
	}
	return asBigInt(values[0])
}
