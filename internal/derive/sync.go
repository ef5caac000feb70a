package derive

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pairScope/internal/model"
)

// HandleSync applies a reserve-sync: the pair's reserves and ratios are
// recomputed from the payload, the native-asset price and both tokens'
// derived prices are refreshed (derived prices can transitively depend on
// the refreshed native price), and the tracked-liquidity delta is rolled
// into the global aggregate.
func (e *Engine) HandleSync(ctx context.Context, meta EventMeta, data model.SyncEventData) error {
	pair := e.db.Pair(addrID(meta.Address))
	if pair == nil {
		return fmt.Errorf("pair not found: %s", addrID(meta.Address))
	}
	token0 := e.db.Token(pair.Token0)
	token1 := e.db.Token(pair.Token1)
	if token0 == nil || token1 == nil {
		return fmt.Errorf("tokens not found for pair %s", pair.ID)
	}
	factory := e.db.Factory()
	bundle := e.db.Bundle()
	if factory == nil || bundle == nil {
		return fmt.Errorf("factory not initialized")
	}

	rawReserve0, err := parseRawAmount(data.Reserve0)
	if err != nil {
		return fmt.Errorf("sync reserve0: %w", err)
	}
	rawReserve1, err := parseRawAmount(data.Reserve1)
	if err != nil {
		return fmt.Errorf("sync reserve1: %w", err)
	}

	// Back the pair's previous contribution out of the global and per-token
	// totals before overwriting, then add the fresh values below.
	factory.TotalLiquidityNative = factory.TotalLiquidityNative.Sub(pair.TrackedReserveNative)
	token0.TotalLiquidity = token0.TotalLiquidity.Sub(pair.Reserve0)
	token1.TotalLiquidity = token1.TotalLiquidity.Sub(pair.Reserve1)

	pair.Reserve0 = toDecimal(rawReserve0, token0.Decimals)
	pair.Reserve1 = toDecimal(rawReserve1, token1.Decimals)
	pair.Token0Price = safeDiv(pair.Reserve0, pair.Reserve1)
	pair.Token1Price = safeDiv(pair.Reserve1, pair.Reserve0)
	e.db.SavePair(pair)

	bundle.NativePriceUSD = e.nativePriceUSD()
	e.db.SaveBundle(bundle)

	token0.DerivedNative = e.derivedNativePrice(token0)
	token1.DerivedNative = e.derivedNativePrice(token1)
	e.db.SaveToken(token0)
	e.db.SaveToken(token1)

	var trackedLiquidityNative decimal.Decimal
	if !bundle.NativePriceUSD.IsZero() {
		trackedLiquidityNative = safeDiv(
			e.trackedLiquidityUSD(pair, pair.Reserve0, token0, pair.Reserve1, token1),
			bundle.NativePriceUSD,
		)
	}

	pair.TrackedReserveNative = trackedLiquidityNative
	pair.ReserveNative = pair.Reserve0.Mul(token0.DerivedNative).Add(pair.Reserve1.Mul(token1.DerivedNative))
	pair.ReserveUSD = pair.ReserveNative.Mul(bundle.NativePriceUSD)

	factory.TotalLiquidityNative = factory.TotalLiquidityNative.Add(trackedLiquidityNative)
	factory.TotalLiquidityUSD = factory.TotalLiquidityNative.Mul(bundle.NativePriceUSD)

	token0.TotalLiquidity = token0.TotalLiquidity.Add(pair.Reserve0)
	token1.TotalLiquidity = token1.TotalLiquidity.Add(pair.Reserve1)

	e.db.SavePair(pair)
	e.db.SaveFactory(factory)
	e.db.SaveToken(token0)
	e.db.SaveToken(token1)
	return nil
}
