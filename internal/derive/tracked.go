package derive

import (
	"github.com/shopspring/decimal"

	"pairScope/internal/model"
)

// trackedVolumeUSD values a swap's summed in+out deltas through whitelisted
// tokens only. Both sides whitelisted: the two one-sided valuations are
// averaged. One side whitelisted: twice that side, assuming the counterparty
// leg is balanced. Neither, or a denylisted pair: zero.
func (e *Engine) trackedVolumeUSD(pair *model.Pair, amount0 decimal.Decimal, token0 *model.Token, amount1 decimal.Decimal, token1 *model.Token) decimal.Decimal {
	if e.isUntrackedPair(pair.ID) {
		return decimal.Zero
	}

	bundle := e.db.Bundle()
	if bundle == nil {
		return decimal.Zero
	}
	price0 := token0.DerivedNative.Mul(bundle.NativePriceUSD)
	price1 := token1.DerivedNative.Mul(bundle.NativePriceUSD)

	wl0 := e.isWhitelisted(token0.ID)
	wl1 := e.isWhitelisted(token1.ID)
	switch {
	case wl0 && wl1:
		return amount0.Mul(price0).Add(amount1.Mul(price1)).DivRound(twoDecimal, quotePrecision)
	case wl0:
		return amount0.Mul(price0).Mul(twoDecimal)
	case wl1:
		return amount1.Mul(price1).Mul(twoDecimal)
	default:
		return decimal.Zero
	}
}

// trackedLiquidityUSD values a pair's absolute reserves with the same
// whitelist blending, except both-whitelisted reserves sum (each side is the
// other half of the pool, not an independent estimate of the same quantity).
func (e *Engine) trackedLiquidityUSD(pair *model.Pair, reserve0 decimal.Decimal, token0 *model.Token, reserve1 decimal.Decimal, token1 *model.Token) decimal.Decimal {
	if e.isUntrackedPair(pair.ID) {
		return decimal.Zero
	}

	bundle := e.db.Bundle()
	if bundle == nil {
		return decimal.Zero
	}
	price0 := token0.DerivedNative.Mul(bundle.NativePriceUSD)
	price1 := token1.DerivedNative.Mul(bundle.NativePriceUSD)

	wl0 := e.isWhitelisted(token0.ID)
	wl1 := e.isWhitelisted(token1.ID)
	switch {
	case wl0 && wl1:
		return reserve0.Mul(price0).Add(reserve1.Mul(price1))
	case wl0:
		return reserve0.Mul(price0).Mul(twoDecimal)
	case wl1:
		return reserve1.Mul(price1).Mul(twoDecimal)
	default:
		return decimal.Zero
	}
}
