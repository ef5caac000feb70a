package derive

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNativePriceBeforeStablePairExists(t *testing.T) {
	e := newTestEngine(t)
	createPair(t, e, testTokenPairAddr, testTokenAddr, testNativeAddr)
	syncPair(t, e, testTokenPairAddr, wei(100), wei(50))

	bundle := e.db.Bundle()
	if !bundle.NativePriceUSD.IsZero() {
		t.Fatalf("native price = %s, want 0 before any stable pair", bundle.NativePriceUSD)
	}
}

func TestNativePriceFromStablePair(t *testing.T) {
	e := newTestEngine(t)
	// 400000 stable against 100 native: native trades at 4000.
	createPair(t, e, testStablePairAddr, testStableAddr, testNativeAddr)
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))

	bundle := e.db.Bundle()
	if !bundle.NativePriceUSD.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("native price = %s, want 4000", bundle.NativePriceUSD)
	}
}

func TestDerivedPriceOfNativeIsOne(t *testing.T) {
	e := newTestEngine(t)
	createPair(t, e, testStablePairAddr, testStableAddr, testNativeAddr)
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))

	native := e.db.Token(addrID(testNativeAddr))
	if !native.DerivedNative.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("native derived price = %s, want 1", native.DerivedNative)
	}
}

func TestDerivedPriceThroughWhitelistedCounterparty(t *testing.T) {
	e := newTestEngine(t)
	createPair(t, e, testTokenPairAddr, testTokenAddr, testNativeAddr)
	// 1000 AAA against 10 native: AAA is worth 0.01 native. The first sync
	// settles the native side's stored price, the second prices AAA off it.
	syncPair(t, e, testTokenPairAddr, wei(1000), wei(10))
	syncPair(t, e, testTokenPairAddr, wei(1000), wei(10))

	token := e.db.Token(addrID(testTokenAddr))
	if !token.DerivedNative.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("derived price = %s, want 0.01", token.DerivedNative)
	}
}

func TestDerivedPriceIgnoresNonWhitelistedCounterparty(t *testing.T) {
	e := newTestEngine(t)
	// AAA only trades against BBB, which is not whitelisted.
	createPair(t, e, testTokenPairAddr, testTokenAddr, testToken2Addr)
	syncPair(t, e, testTokenPairAddr, wei(1000), wei(10))

	token := e.db.Token(addrID(testTokenAddr))
	if !token.DerivedNative.IsZero() {
		t.Fatalf("derived price = %s, want 0 with no whitelisted pair", token.DerivedNative)
	}
}

func TestDerivedPricePicksDeepestPool(t *testing.T) {
	e := newTestEngine(t)
	createPair(t, e, testStablePairAddr, testStableAddr, testNativeAddr)
	// Synced twice so the stable token's own derived price settles at 0.00025.
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))

	// Native pool holds 10 native of depth; the stable pool holds 80000
	// stable = 20 native of depth and must win.
	createPair(t, e, testTokenPairAddr, testTokenAddr, testNativeAddr)
	syncPair(t, e, testTokenPairAddr, wei(1000), wei(10))
	createPair(t, e, testDeepPairAddr, testTokenAddr, testStableAddr)
	syncPair(t, e, testDeepPairAddr, wei(1000000), wei(80000))

	token := e.db.Token(addrID(testTokenAddr))
	// 0.08 stable per AAA at 0.00025 native per stable.
	want := decimal.RequireFromString("0.00002")
	if !token.DerivedNative.Equal(want) {
		t.Fatalf("derived price = %s, want %s from the deeper pool", token.DerivedNative, want)
	}
}

func TestSyncUpdatesReservesAndPrices(t *testing.T) {
	e := newTestEngine(t)
	createPair(t, e, testStablePairAddr, testStableAddr, testNativeAddr)
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))

	pair := e.db.Pair(addrID(testStablePairAddr))
	if !pair.Reserve0.Equal(decimal.NewFromInt(400000)) {
		t.Fatalf("reserve0 = %s, want 400000", pair.Reserve0)
	}
	if !pair.Reserve1.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("reserve1 = %s, want 100", pair.Reserve1)
	}
	if !pair.Token0Price.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("token0 price = %s, want 4000", pair.Token0Price)
	}
	if !pair.Token1Price.Equal(decimal.RequireFromString("0.00025")) {
		t.Fatalf("token1 price = %s, want 0.00025", pair.Token1Price)
	}

	// Both sides whitelisted: the full pool value is tracked.
	if !pair.ReserveUSD.Equal(decimal.NewFromInt(800000)) {
		t.Fatalf("reserve usd = %s, want 800000", pair.ReserveUSD)
	}
	factory := e.db.Factory()
	if !factory.TotalLiquidityUSD.Equal(decimal.NewFromInt(800000)) {
		t.Fatalf("total liquidity usd = %s, want 800000", factory.TotalLiquidityUSD)
	}
}

func TestSyncZeroReserveForcesZeroPrices(t *testing.T) {
	e := newTestEngine(t)
	createPair(t, e, testStablePairAddr, testStableAddr, testNativeAddr)
	syncPair(t, e, testStablePairAddr, wei(400000), "0")

	pair := e.db.Pair(addrID(testStablePairAddr))
	if !pair.Token0Price.IsZero() || !pair.Token1Price.IsZero() {
		t.Fatalf("prices = %s / %s, want both 0 on empty reserve", pair.Token0Price, pair.Token1Price)
	}
}

func TestSyncReplacesGlobalLiquidityContribution(t *testing.T) {
	e := newTestEngine(t)
	createPair(t, e, testStablePairAddr, testStableAddr, testNativeAddr)
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))
	// Re-sync with half the reserves: totals must reflect only the latest
	// values, not accumulate across syncs.
	syncPair(t, e, testStablePairAddr, wei(200000), wei(50))

	factory := e.db.Factory()
	if !factory.TotalLiquidityUSD.Equal(decimal.NewFromInt(400000)) {
		t.Fatalf("total liquidity usd = %s, want 400000 after re-sync", factory.TotalLiquidityUSD)
	}
	stable := e.db.Token(addrID(testStableAddr))
	if !stable.TotalLiquidity.Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("stable total liquidity = %s, want 200000", stable.TotalLiquidity)
	}
}
