package derive

import (
	"context"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pairScope/internal/model"
)

// newPricedEngine builds an engine with the native asset priced at 4000 USD
// via the stable pair and a token pair holding 1000 AAA against 10 native,
// which puts AAA's derived price at 0.01 native.
func newPricedEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)
	createPair(t, e, testStablePairAddr, testStableAddr, testNativeAddr)
	createPair(t, e, testTokenPairAddr, testTokenAddr, testNativeAddr)
	// Synced twice so the stable token's own derived price settles.
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))
	syncPair(t, e, testTokenPairAddr, wei(1000), wei(10))
	return e
}

func swapOnPair(t *testing.T, e *Engine, pair common.Address, txHash string, a0in, a1in, a0out, a1out string) {
	t.Helper()
	err := e.HandleSwap(context.Background(), eventMeta(pair, txHash, 3), model.SwapEventData{
		Sender:     testUserAddr.Hex(),
		To:         testUser2Addr.Hex(),
		Amount0In:  a0in,
		Amount1In:  a1in,
		Amount0Out: a0out,
		Amount1Out: a1out,
	})
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
}

func TestSwapBothSidesWhitelistedAverages(t *testing.T) {
	e := newPricedEngine(t)

	// 4000 stable in, 1 native out: both legs value to 4000 USD.
	swapOnPair(t, e, testStablePairAddr, "0x10", wei(4000), "0", "0", wei(1))

	pair := e.db.Pair(addrID(testStablePairAddr))
	if !pair.VolumeUSD.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("pair volume usd = %s, want 4000", pair.VolumeUSD)
	}
	if !pair.VolumeToken0.Equal(decimal.NewFromInt(4000)) || !pair.VolumeToken1.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("pair token volumes = %s / %s", pair.VolumeToken0, pair.VolumeToken1)
	}
	if pair.TxCount != 1 {
		t.Fatalf("pair tx count = %d, want 1", pair.TxCount)
	}

	factory := e.db.Factory()
	if !factory.TotalVolumeUSD.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("factory volume usd = %s, want 4000", factory.TotalVolumeUSD)
	}
	if !factory.TotalVolumeNative.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("factory volume native = %s, want 1", factory.TotalVolumeNative)
	}

	tx := e.db.Transaction("0x10")
	if len(tx.Swaps) != 1 {
		t.Fatalf("swaps = %d, want 1", len(tx.Swaps))
	}
	swap := e.db.Swap(tx.Swaps[0])
	if swap.ID != "0x10-0" {
		t.Fatalf("swap id = %s", swap.ID)
	}
	if !swap.AmountUSD.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("swap amount usd = %s, want tracked 4000", swap.AmountUSD)
	}
	if swap.Sender != addrID(testUserAddr) || swap.To != addrID(testUser2Addr) {
		t.Fatalf("swap parties = %s / %s", swap.Sender, swap.To)
	}
}

func TestSwapOneSideWhitelistedDoubles(t *testing.T) {
	e := newPricedEngine(t)

	// 100 AAA in, 1 native out: only the native leg is whitelisted, so the
	// tracked amount is twice its 4000 USD value.
	swapOnPair(t, e, testTokenPairAddr, "0x11", wei(100), "0", "0", wei(1))

	pair := e.db.Pair(addrID(testTokenPairAddr))
	if !pair.VolumeUSD.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("pair volume usd = %s, want 8000", pair.VolumeUSD)
	}
	// Derived valuation averages both legs at their derived prices.
	if !pair.UntrackedVolumeUSD.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("untracked volume usd = %s, want 4000", pair.UntrackedVolumeUSD)
	}

	token := e.db.Token(addrID(testTokenAddr))
	if !token.TradeVolume.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("token trade volume = %s, want 100", token.TradeVolume)
	}
	if !token.TradeVolumeUSD.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("token trade volume usd = %s, want 8000", token.TradeVolumeUSD)
	}
}

func TestSwapDenylistedPairFallsBackToDerived(t *testing.T) {
	params := testParams()
	params.UntrackedPairs[testTokenPairAddr] = true
	e := newTestEngineWith(t, params)
	createPair(t, e, testStablePairAddr, testStableAddr, testNativeAddr)
	createPair(t, e, testTokenPairAddr, testTokenAddr, testNativeAddr)
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))
	syncPair(t, e, testStablePairAddr, wei(400000), wei(100))
	syncPair(t, e, testTokenPairAddr, wei(1000), wei(10))

	swapOnPair(t, e, testTokenPairAddr, "0x12", wei(100), "0", "0", wei(1))

	pair := e.db.Pair(addrID(testTokenPairAddr))
	if !pair.VolumeUSD.IsZero() {
		t.Fatalf("tracked volume = %s, want 0 on denylisted pair", pair.VolumeUSD)
	}
	if !pair.UntrackedVolumeUSD.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("untracked volume = %s, want 4000", pair.UntrackedVolumeUSD)
	}

	tx := e.db.Transaction("0x12")
	swap := e.db.Swap(tx.Swaps[0])
	if !swap.AmountUSD.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("swap amount usd = %s, want derived fallback 4000", swap.AmountUSD)
	}
}

func TestSwapRollupsAccumulate(t *testing.T) {
	e := newPricedEngine(t)

	swapOnPair(t, e, testStablePairAddr, "0x13", wei(4000), "0", "0", wei(1))
	swapOnPair(t, e, testStablePairAddr, "0x14", wei(4000), "0", "0", wei(1))

	pairID := addrID(testStablePairAddr)
	day := e.db.PairDay(fmt.Sprintf("%s-%d", pairID, int64(1600000000/86400)))
	if day == nil {
		t.Fatal("pair day bucket not created")
	}
	if day.Date != 1599955200 {
		t.Fatalf("day date = %d, want 1599955200", day.Date)
	}
	if day.DailyTxns != 2 {
		t.Fatalf("daily txns = %d, want 2", day.DailyTxns)
	}
	if !day.DailyVolumeUSD.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("daily volume usd = %s, want 8000", day.DailyVolumeUSD)
	}
	if !day.DailyVolumeToken0.Equal(decimal.NewFromInt(8000)) || !day.DailyVolumeToken1.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("daily token volumes = %s / %s", day.DailyVolumeToken0, day.DailyVolumeToken1)
	}
	if !day.Reserve0.Equal(decimal.NewFromInt(400000)) {
		t.Fatalf("day reserve0 = %s, want current 400000", day.Reserve0)
	}

	hour := e.db.PairHour(fmt.Sprintf("%s-%d", pairID, int64(1600000000/3600)))
	if hour == nil {
		t.Fatal("pair hour bucket not created")
	}
	if hour.HourStartUnix != 1599998400 {
		t.Fatalf("hour start = %d, want 1599998400", hour.HourStartUnix)
	}
	if !hour.HourlyVolumeUSD.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("hourly volume usd = %s, want 8000", hour.HourlyVolumeUSD)
	}

	factoryDay := e.db.FactoryDay(fmt.Sprintf("%d", int64(1600000000/86400)))
	if factoryDay == nil {
		t.Fatal("factory day bucket not created")
	}
	if !factoryDay.DailyVolumeUSD.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("factory daily volume = %s, want 8000", factoryDay.DailyVolumeUSD)
	}
	if !factoryDay.DailyVolumeNative.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("factory daily native = %s, want 2", factoryDay.DailyVolumeNative)
	}
	// Cumulative fields mirror the factory record, not per-day sums.
	if factoryDay.TxCount != e.db.Factory().TxCount {
		t.Fatalf("factory day tx count = %d, want %d", factoryDay.TxCount, e.db.Factory().TxCount)
	}

	stableDay := e.db.TokenDay(fmt.Sprintf("%s-%d", addrID(testStableAddr), int64(1600000000/86400)))
	if stableDay == nil {
		t.Fatal("token day bucket not created")
	}
	if !stableDay.PriceUSD.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("stable day price = %s, want 1", stableDay.PriceUSD)
	}
	if !stableDay.DailyVolumeToken.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("stable daily token volume = %s, want 8000", stableDay.DailyVolumeToken)
	}
	if !stableDay.DailyVolumeUSD.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("stable daily usd volume = %s, want 8000", stableDay.DailyVolumeUSD)
	}
}
