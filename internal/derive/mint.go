package derive

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"pairScope/internal/model"
)

// HandleMint finalizes the transaction's most recent logical mint with the
// notification payload: initiator, per-token amounts, valuation, and log
// position. The transfer handler has already created the open mint and
// adjusted the pair's liquidity-token supply.
func (e *Engine) HandleMint(ctx context.Context, meta EventMeta, data model.MintEventData) error {
	tx := e.db.Transaction(meta.TxHash)
	if tx == nil {
		return fmt.Errorf("transaction not found for mint: %s", meta.TxHash)
	}
	lastID, ok := model.LastID(tx.Mints)
	if !ok {
		return fmt.Errorf("no open mint in transaction %s", meta.TxHash)
	}
	mint := e.db.Mint(lastID)
	if mint == nil {
		return fmt.Errorf("mint record not found: %s", lastID)
	}

	pair := e.db.Pair(addrID(meta.Address))
	if pair == nil {
		return fmt.Errorf("pair not found: %s", addrID(meta.Address))
	}
	token0 := e.db.Token(pair.Token0)
	token1 := e.db.Token(pair.Token1)
	factory := e.db.Factory()
	bundle := e.db.Bundle()
	if token0 == nil || token1 == nil || factory == nil || bundle == nil {
		return fmt.Errorf("derived state incomplete for pair %s", pair.ID)
	}

	rawAmount0, err := parseRawAmount(data.Amount0)
	if err != nil {
		return fmt.Errorf("mint amount0: %w", err)
	}
	rawAmount1, err := parseRawAmount(data.Amount1)
	if err != nil {
		return fmt.Errorf("mint amount1: %w", err)
	}
	amount0 := toDecimal(rawAmount0, token0.Decimals)
	amount1 := toDecimal(rawAmount1, token1.Decimals)

	token0.TxCount++
	token1.TxCount++
	pair.TxCount++
	factory.TxCount++

	amountTotalUSD := token1.DerivedNative.Mul(amount1).
		Add(token0.DerivedNative.Mul(amount0)).
		Mul(bundle.NativePriceUSD)

	e.db.SaveToken(token0)
	e.db.SaveToken(token1)
	e.db.SavePair(pair)
	e.db.SaveFactory(factory)

	mint.State = model.MintComplete
	mint.Sender = addrID(common.HexToAddress(data.Sender))
	mint.Amount0 = amount0
	mint.Amount1 = amount1
	mint.LogIndex = meta.LogIndex
	mint.AmountUSD = amountTotalUSD
	e.db.SaveMint(mint)

	if common.IsHexAddress(mint.To) {
		position := e.ensurePosition(pair, common.HexToAddress(mint.To))
		if err := e.snapshotPosition(position, meta); err != nil {
			return err
		}
	}

	e.updatePairDayData(pair, meta)
	e.updatePairHourData(pair, meta)
	e.updateFactoryDayData(factory, meta)
	e.updateTokenDayData(token0, bundle, meta)
	e.updateTokenDayData(token1, bundle, meta)
	return nil
}
