package derive

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pairScope/internal/model"
)

// HandleSwap updates volume and counter aggregates for one swap and appends
// the swap business record to its transaction.
//
// Two valuations are computed: the tracked amount flows through whitelisted
// tokens only, while the observed ("untracked") amount uses derived prices
// directly so volume is never silently dropped when nothing is whitelisted.
func (e *Engine) HandleSwap(ctx context.Context, meta EventMeta, data model.SwapEventData) error {
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

	amount0In, err := e.swapAmount(data.Amount0In, token0)
	if err != nil {
		return fmt.Errorf("swap amount0_in: %w", err)
	}
	amount1In, err := e.swapAmount(data.Amount1In, token1)
	if err != nil {
		return fmt.Errorf("swap amount1_in: %w", err)
	}
	amount0Out, err := e.swapAmount(data.Amount0Out, token0)
	if err != nil {
		return fmt.Errorf("swap amount0_out: %w", err)
	}
	amount1Out, err := e.swapAmount(data.Amount1Out, token1)
	if err != nil {
		return fmt.Errorf("swap amount1_out: %w", err)
	}

	amount0Total := amount0Out.Add(amount0In)
	amount1Total := amount1Out.Add(amount1In)

	derivedAmountNative := token1.DerivedNative.Mul(amount1Total).
		Add(token0.DerivedNative.Mul(amount0Total)).
		DivRound(twoDecimal, quotePrecision)
	derivedAmountUSD := derivedAmountNative.Mul(bundle.NativePriceUSD)

	trackedAmountUSD := e.trackedVolumeUSD(pair, amount0Total, token0, amount1Total, token1)
	trackedAmountNative := safeDiv(trackedAmountUSD, bundle.NativePriceUSD)

	token0.TradeVolume = token0.TradeVolume.Add(amount0Total)
	token0.TradeVolumeUSD = token0.TradeVolumeUSD.Add(trackedAmountUSD)
	token0.UntrackedVolumeUSD = token0.UntrackedVolumeUSD.Add(derivedAmountUSD)
	token0.TxCount++

	token1.TradeVolume = token1.TradeVolume.Add(amount1Total)
	token1.TradeVolumeUSD = token1.TradeVolumeUSD.Add(trackedAmountUSD)
	token1.UntrackedVolumeUSD = token1.UntrackedVolumeUSD.Add(derivedAmountUSD)
	token1.TxCount++

	pair.VolumeUSD = pair.VolumeUSD.Add(trackedAmountUSD)
	pair.VolumeToken0 = pair.VolumeToken0.Add(amount0Total)
	pair.VolumeToken1 = pair.VolumeToken1.Add(amount1Total)
	pair.UntrackedVolumeUSD = pair.UntrackedVolumeUSD.Add(derivedAmountUSD)
	pair.TxCount++

	factory.TotalVolumeUSD = factory.TotalVolumeUSD.Add(trackedAmountUSD)
	factory.TotalVolumeNative = factory.TotalVolumeNative.Add(trackedAmountNative)
	factory.UntrackedVolumeUSD = factory.UntrackedVolumeUSD.Add(derivedAmountUSD)
	factory.TxCount++

	e.db.SavePair(pair)
	e.db.SaveToken(token0)
	e.db.SaveToken(token1)
	e.db.SaveFactory(factory)

	tx := e.loadTransaction(meta)
	amountUSD := trackedAmountUSD
	if amountUSD.IsZero() {
		amountUSD = derivedAmountUSD
	}
	swap := &model.Swap{
		ID:         childID(meta.TxHash, len(tx.Swaps)),
		Pair:       pair.ID,
		Sender:     addrID(common.HexToAddress(data.Sender)),
		To:         addrID(common.HexToAddress(data.To)),
		Amount0In:  amount0In,
		Amount1In:  amount1In,
		Amount0Out: amount0Out,
		Amount1Out: amount1Out,
		AmountUSD:  amountUSD,
		LogIndex:   meta.LogIndex,
		Timestamp:  tx.Timestamp,
	}
	e.db.SaveSwap(swap)
	tx.Swaps = model.AppendID(tx.Swaps, swap.ID)
	e.db.SaveTransaction(tx)

	// Rollups: snapshot fields refresh on every event, volume accumulators
	// only grow here.
	pairDay := e.updatePairDayData(pair, meta)
	pairHour := e.updatePairHourData(pair, meta)
	factoryDay := e.updateFactoryDayData(factory, meta)
	token0Day := e.updateTokenDayData(token0, bundle, meta)
	token1Day := e.updateTokenDayData(token1, bundle, meta)

	factoryDay.DailyVolumeUSD = factoryDay.DailyVolumeUSD.Add(trackedAmountUSD)
	factoryDay.DailyVolumeNative = factoryDay.DailyVolumeNative.Add(trackedAmountNative)
	factoryDay.DailyVolumeUntracked = factoryDay.DailyVolumeUntracked.Add(derivedAmountUSD)
	e.db.SaveFactoryDay(factoryDay)

	pairDay.DailyVolumeToken0 = pairDay.DailyVolumeToken0.Add(amount0Total)
	pairDay.DailyVolumeToken1 = pairDay.DailyVolumeToken1.Add(amount1Total)
	pairDay.DailyVolumeUSD = pairDay.DailyVolumeUSD.Add(trackedAmountUSD)
	e.db.SavePairDay(pairDay)

	pairHour.HourlyVolumeToken0 = pairHour.HourlyVolumeToken0.Add(amount0Total)
	pairHour.HourlyVolumeToken1 = pairHour.HourlyVolumeToken1.Add(amount1Total)
	pairHour.HourlyVolumeUSD = pairHour.HourlyVolumeUSD.Add(trackedAmountUSD)
	e.db.SavePairHour(pairHour)

	token0Day.DailyVolumeToken = token0Day.DailyVolumeToken.Add(amount0Total)
	token0Day.DailyVolumeNative = token0Day.DailyVolumeNative.Add(amount0Total.Mul(token0.DerivedNative))
	token0Day.DailyVolumeUSD = token0Day.DailyVolumeUSD.Add(amount0Total.Mul(token0.DerivedNative).Mul(bundle.NativePriceUSD))
	e.db.SaveTokenDay(token0Day)

	token1Day.DailyVolumeToken = token1Day.DailyVolumeToken.Add(amount1Total)
	token1Day.DailyVolumeNative = token1Day.DailyVolumeNative.Add(amount1Total.Mul(token1.DerivedNative))
	token1Day.DailyVolumeUSD = token1Day.DailyVolumeUSD.Add(amount1Total.Mul(token1.DerivedNative).Mul(bundle.NativePriceUSD))
	e.db.SaveTokenDay(token1Day)

	return nil
}

func (e *Engine) swapAmount(raw string, token *model.Token) (decimal.Decimal, error) {
	parsed, err := parseRawAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return toDecimal(parsed, token.Decimals), nil
}
