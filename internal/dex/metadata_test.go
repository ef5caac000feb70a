package dex

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"pairScope/internal/model"
)

func TestStaticOverrides(t *testing.T) {
	cases := []struct {
		address  string
		symbol   string
		decimals uint8
	}{
		{"0xe0b7927c4af23765cb51314a0e0521a9645f0e2a", "DGD", 9},
		{"0xbb9bc244d798123fde783fcc1c72d3bb8c189413", "TheDAO", 16},
		{"0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9", "AAVE", 18},
	}
	for _, tc := range cases {
		override, ok := staticOverrides[common.HexToAddress(tc.address)]
		if !ok {
			t.Fatalf("no override for %s", tc.address)
		}
		if override.Symbol != tc.symbol || override.Decimals != tc.decimals {
			t.Fatalf("override for %s = %s/%d, want %s/%d",
				tc.address, override.Symbol, override.Decimals, tc.symbol, tc.decimals)
		}
	}

	if _, ok := staticOverrides[common.HexToAddress("0x0000000000000000000000000000000000000001")]; ok {
		t.Fatal("unexpected override for arbitrary address")
	}
}

func TestFetchTokenMetaOverrideWinsOverContract(t *testing.T) {
	// Overridden tokens resolve without any contract call: a nil chain
	// client would fail every call path.
	theDAO := common.HexToAddress("0xbb9bc244d798123fde783fcc1c72d3bb8c189413")
	meta, err := FetchTokenMeta(context.Background(), nil, theDAO, nil)
	if err != nil {
		t.Fatalf("fetch overridden token: %v", err)
	}
	if meta.Decimals != 16 {
		t.Fatalf("decimals = %d, want override 16", meta.Decimals)
	}
	if meta.Symbol != "TheDAO" || meta.Name != "TheDAO" {
		t.Fatalf("symbol/name = %s/%s, want overrides", meta.Symbol, meta.Name)
	}
	if meta.TotalSupply != nil {
		t.Fatalf("total supply = %v, want none without a client", meta.TotalSupply)
	}
}

func TestFetchTokenMetaRequiresDecimalsWithoutOverride(t *testing.T) {
	plain := common.HexToAddress("0x0000000000000000000000000000000000000001")
	if _, err := FetchTokenMeta(context.Background(), nil, plain, nil); err == nil {
		t.Fatal("expected error when decimals cannot be resolved")
	}
}

func TestBytes32ToString(t *testing.T) {
	var raw [32]byte
	copy(raw[:], "MKR")
	s, ok := bytes32ToString(raw)
	if !ok || s != "MKR" {
		t.Fatalf("bytes32 = %q, %v", s, ok)
	}

	s, ok = bytes32ToString([]byte("DAI\x00\x00"))
	if !ok || s != "DAI" {
		t.Fatalf("byte slice = %q, %v", s, ok)
	}

	if _, ok := bytes32ToString(42); ok {
		t.Fatal("non-byte value should not convert")
	}

	if _, ok := bytes32ToString(nullBytes32); ok {
		t.Fatal("null sentinel should not convert to a string")
	}
}

func TestTokenMetaCache(t *testing.T) {
	cache := NewTokenMetaCache()
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	if _, ok := cache.Get(addr); ok {
		t.Fatal("empty cache reported a hit")
	}
	cache.Set(addr, model.TokenMeta{Address: addr.Hex(), Symbol: "WNAT", Decimals: 18})
	meta, ok := cache.Get(addr)
	if !ok || meta.Symbol != "WNAT" || meta.Decimals != 18 {
		t.Fatalf("cached meta = %+v, %v", meta, ok)
	}
}
