package derive

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairScope/internal/model"
)

// HandlePairCreated onboards a new pair: bootstraps the factory and bundle
// singletons on the very first pair, resolves token metadata, and registers
// a zero-initialized Pair record.
//
// Token decimals are a static on-chain property; when they cannot be
// resolved the pair is skipped permanently and no record is created.
func (e *Engine) HandlePairCreated(ctx context.Context, meta EventMeta, data model.PairCreatedEventData) error {
	if !common.IsHexAddress(data.Token0) || !common.IsHexAddress(data.Token1) || !common.IsHexAddress(data.Pair) {
		return fmt.Errorf("invalid pair-created addresses: %s %s %s", data.Token0, data.Token1, data.Pair)
	}
	token0Addr := common.HexToAddress(data.Token0)
	token1Addr := common.HexToAddress(data.Token1)
	pairAddr := common.HexToAddress(data.Pair)

	// Resolve both tokens before mutating anything so a failed onboarding
	// leaves no partial state behind.
	token0, err := e.onboardToken(ctx, token0Addr)
	if err != nil {
		e.logger.Warn("skipping pair, token0 decimals unresolved",
			zap.String("pair", addrID(pairAddr)),
			zap.String("token", addrID(token0Addr)),
			zap.Error(err),
		)
		return nil
	}
	token1, err := e.onboardToken(ctx, token1Addr)
	if err != nil {
		e.logger.Warn("skipping pair, token1 decimals unresolved",
			zap.String("pair", addrID(pairAddr)),
			zap.String("token", addrID(token1Addr)),
			zap.Error(err),
		)
		return nil
	}

	factory := e.db.Factory()
	if factory == nil {
		factory = &model.Factory{ID: addrID(e.params.FactoryAddress)}
		e.db.SaveBundle(&model.Bundle{})
	}
	factory.PairCount++
	e.db.SaveFactory(factory)

	e.db.SaveToken(token0)
	e.db.SaveToken(token1)

	pair := &model.Pair{
		ID:                   addrID(pairAddr),
		Token0:               token0.ID,
		Token1:               token1.ID,
		CreatedAtTimestamp:   meta.Timestamp,
		CreatedAtBlockNumber: meta.BlockNumber,
	}
	e.db.SavePair(pair)

	e.logger.Debug("pair created",
		zap.String("pair", pair.ID),
		zap.String("token0", token0.Symbol),
		zap.String("token1", token1.Symbol),
	)
	return nil
}

// onboardToken returns the existing Token record or builds a new one from
// resolved metadata. The returned token is not saved yet.
func (e *Engine) onboardToken(ctx context.Context, addr common.Address) (*model.Token, error) {
	id := addrID(addr)
	if token := e.db.Token(id); token != nil {
		return token, nil
	}

	meta, err := e.meta.TokenMeta(ctx, addr)
	if err != nil {
		return nil, err
	}

	return &model.Token{
		ID:          id,
		Symbol:      meta.Symbol,
		Name:        meta.Name,
		Decimals:    meta.Decimals,
		TotalSupply: meta.TotalSupply,
	}, nil
}
