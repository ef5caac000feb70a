package derive

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairScope/internal/model"
)

// HandleBurn fills in the transaction's most recent logical burn with the
// notification payload and transitions it to Resolved.
//
// A burn notification with no correlation record for its transaction is a
// benign no-op: nothing is mutated and processing continues.
func (e *Engine) HandleBurn(ctx context.Context, meta EventMeta, data model.BurnEventData) error {
	tx := e.db.Transaction(meta.TxHash)
	if tx == nil {
		e.logger.Debug("burn without transaction record", zap.String("tx", meta.TxHash))
		return nil
	}
	lastID, ok := model.LastID(tx.Burns)
	if !ok {
		return fmt.Errorf("no burn in transaction %s", meta.TxHash)
	}
	burn := e.db.Burn(lastID)
	if burn == nil {
		return fmt.Errorf("burn record not found: %s", lastID)
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
		return fmt.Errorf("burn amount0: %w", err)
	}
	rawAmount1, err := parseRawAmount(data.Amount1)
	if err != nil {
		return fmt.Errorf("burn amount1: %w", err)
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

	burn.State = model.BurnResolved
	burn.Amount0 = amount0
	burn.Amount1 = amount1
	burn.LogIndex = meta.LogIndex
	burn.AmountUSD = amountTotalUSD
	e.db.SaveBurn(burn)

	if common.IsHexAddress(burn.Sender) {
		position := e.ensurePosition(pair, common.HexToAddress(burn.Sender))
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
