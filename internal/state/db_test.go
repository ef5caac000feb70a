package state

import (
	"testing"

	"pairScope/internal/model"
)

func TestSavePairIndexesTokensOnce(t *testing.T) {
	db := NewDB()
	pair := &model.Pair{ID: "0xp1", Token0: "0xa", Token1: "0xb"}
	db.SavePair(pair)
	db.SavePair(pair) // re-save must not duplicate the index entry

	if got := db.PairsForToken("0xa"); len(got) != 1 || got[0] != "0xp1" {
		t.Fatalf("pairs for 0xa = %v, want [0xp1]", got)
	}
	if got := db.PairsForToken("0xb"); len(got) != 1 || got[0] != "0xp1" {
		t.Fatalf("pairs for 0xb = %v, want [0xp1]", got)
	}

	db.SavePair(&model.Pair{ID: "0xp2", Token0: "0xa", Token1: "0xc"})
	if got := db.PairsForToken("0xa"); len(got) != 2 || got[1] != "0xp2" {
		t.Fatalf("pairs for 0xa = %v, want creation order [0xp1 0xp2]", got)
	}
}

func TestPairsForTokenUnknownTokenIsEmpty(t *testing.T) {
	db := NewDB()
	if got := db.PairsForToken("0xmissing"); len(got) != 0 {
		t.Fatalf("pairs for unknown token = %v, want none", got)
	}
}

func TestMintsKeepInsertionOrder(t *testing.T) {
	db := NewDB()
	db.SaveMint(&model.Mint{ID: "0xt-0"})
	db.SaveMint(&model.Mint{ID: "0xt-1"})
	db.SaveMint(&model.Mint{ID: "0xt-0"}) // overwrite keeps position

	mints := db.Mints()
	if len(mints) != 2 {
		t.Fatalf("mints = %d, want 2", len(mints))
	}
	if mints[0].ID != "0xt-0" || mints[1].ID != "0xt-1" {
		t.Fatalf("mint order = [%s %s]", mints[0].ID, mints[1].ID)
	}
}

func TestRemoveMintDropsFromOrder(t *testing.T) {
	db := NewDB()
	db.SaveMint(&model.Mint{ID: "0xt-0"})
	db.SaveMint(&model.Mint{ID: "0xt-1"})
	db.RemoveMint("0xt-0")
	db.RemoveMint("0xmissing") // no-op

	if db.Mint("0xt-0") != nil {
		t.Fatal("removed mint still loadable")
	}
	mints := db.Mints()
	if len(mints) != 1 || mints[0].ID != "0xt-1" {
		t.Fatalf("mints after removal = %d, want only 0xt-1", len(mints))
	}
}

func TestSnapshotsAppendOnly(t *testing.T) {
	db := NewDB()
	db.AppendSnapshot(&model.LiquidityPositionSnapshot{ID: "a"})
	db.AppendSnapshot(&model.LiquidityPositionSnapshot{ID: "a"})
	db.AppendSnapshot(&model.LiquidityPositionSnapshot{ID: "b"})

	snaps := db.Snapshots()
	if len(snaps) != 3 {
		t.Fatalf("snapshots = %d, want every append kept", len(snaps))
	}
	if snaps[0].ID != "a" || snaps[2].ID != "b" {
		t.Fatalf("snapshot order = [%s %s %s]", snaps[0].ID, snaps[1].ID, snaps[2].ID)
	}
}

func TestSingletonsNilUntilSaved(t *testing.T) {
	db := NewDB()
	if db.Factory() != nil || db.Bundle() != nil {
		t.Fatal("singletons should start nil")
	}
	db.SaveFactory(&model.Factory{ID: "0xf"})
	db.SaveBundle(&model.Bundle{})
	if db.Factory() == nil || db.Bundle() == nil {
		t.Fatal("singletons not stored")
	}
}
