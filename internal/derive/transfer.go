package derive

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pairScope/internal/model"
)

// HandleTransfer correlates one liquidity-token transfer into the
// transaction's logical mint/burn records.
//
// The protocol emits a liquidity change as 2-3 separate transfers followed
// by a Mint or Burn notification within the same transaction; this handler
// performs the transfer half of that reconciliation: opening mints on
// transfers from the null account, opening pending burns on direct sends to
// the pair, resolving burns (and absorbing a concurrent protocol-fee mint)
// on burns to the null account, and refreshing liquidity positions for any
// externally owned side of the transfer.
func (e *Engine) HandleTransfer(ctx context.Context, meta EventMeta, data model.TransferEventData) error {
	if !common.IsHexAddress(data.From) || !common.IsHexAddress(data.To) {
		return fmt.Errorf("invalid transfer addresses: %s -> %s", data.From, data.To)
	}
	from := common.HexToAddress(data.From)
	to := common.HexToAddress(data.To)

	rawValue, err := parseRawAmount(data.Value)
	if err != nil {
		return fmt.Errorf("transfer value: %w", err)
	}

	// The pool-bootstrap self-burn of the minimum-liquidity amount carries
	// no business meaning.
	if to == zeroAddress && rawValue.Cmp(e.params.MinimumLiquidity) == 0 {
		return nil
	}

	e.ensureUser(from)
	e.ensureUser(to)

	pair := e.db.Pair(addrID(meta.Address))
	if pair == nil {
		return fmt.Errorf("pair not found: %s", addrID(meta.Address))
	}

	value := toDecimal(rawValue, liquidityTokenDecimals)
	tx := e.loadTransaction(meta)

	// Mint intake: liquidity tokens created for the recipient.
	if from == zeroAddress {
		pair.TotalSupply = pair.TotalSupply.Add(value)
		e.db.SavePair(pair)

		// Open a new logical mint unless the most recent one is still
		// waiting for its notification; an in-flight fee mint is folded in
		// by the notification handler, never by opening a second entry.
		if e.lastMintComplete(tx) {
			mint := &model.Mint{
				ID:        childID(meta.TxHash, len(tx.Mints)),
				State:     model.MintOpen,
				Pair:      pair.ID,
				To:        addrID(to),
				Liquidity: value,
				Timestamp: tx.Timestamp,
			}
			e.db.SaveMint(mint)
			tx.Mints = model.AppendID(tx.Mints, mint.ID)
			e.db.SaveTransaction(tx)
		}
	}

	// Direct send to the pair precedes an eventual burn.
	if addrID(to) == pair.ID {
		burn := &model.Burn{
			ID:        childID(meta.TxHash, len(tx.Burns)),
			State:     model.BurnPending,
			Pair:      pair.ID,
			Sender:    addrID(from),
			To:        addrID(to),
			Liquidity: value,
			Timestamp: tx.Timestamp,
		}
		e.db.SaveBurn(burn)
		tx.Burns = model.AppendID(tx.Burns, burn.ID)
		e.db.SaveTransaction(tx)
	}

	// Burn finalization: liquidity tokens destroyed out of the pair.
	if to == zeroAddress && addrID(from) == pair.ID {
		pair.TotalSupply = pair.TotalSupply.Sub(value)
		e.db.SavePair(pair)

		burn, reused := e.resolveBurn(tx, pair, value, meta)

		// A still-open trailing mint is the protocol-fee mint coinciding
		// with this burn; absorb it instead of keeping it as its own
		// logical mint.
		if lastID, ok := model.LastID(tx.Mints); ok {
			if feeMint := e.db.Mint(lastID); feeMint != nil && feeMint.State == model.MintOpen {
				burn.FeeTo = feeMint.To
				burn.FeeLiquidity = feeMint.Liquidity
				e.db.RemoveMint(lastID)
				tx.Mints = model.PopLastID(tx.Mints)
				e.db.SaveTransaction(tx)
			}
		}

		e.db.SaveBurn(burn)
		if reused {
			tx.Burns = model.ReplaceLastID(tx.Burns, burn.ID)
		} else {
			tx.Burns = model.AppendID(tx.Burns, burn.ID)
		}
		e.db.SaveTransaction(tx)
	}

	// Position touches for the externally owned sides of the transfer.
	if from != zeroAddress && addrID(from) != pair.ID {
		if err := e.touchPosition(ctx, pair, from, meta); err != nil {
			return err
		}
	}
	if to != zeroAddress && addrID(to) != pair.ID {
		if err := e.touchPosition(ctx, pair, to, meta); err != nil {
			return err
		}
	}

	e.db.SaveTransaction(tx)
	return nil
}

// lastMintComplete reports whether a new logical mint may be opened: true
// when the transaction has no mints yet or its most recent mint is Complete.
func (e *Engine) lastMintComplete(tx *model.Transaction) bool {
	lastID, ok := model.LastID(tx.Mints)
	if !ok {
		return true
	}
	mint := e.db.Mint(lastID)
	return mint == nil || mint.State == model.MintComplete
}

// resolveBurn reuses the transaction's most recent burn when it is still
// Pending, otherwise opens a brand-new resolved burn for this finalization.
func (e *Engine) resolveBurn(tx *model.Transaction, pair *model.Pair, value decimal.Decimal, meta EventMeta) (*model.Burn, bool) {
	if lastID, ok := model.LastID(tx.Burns); ok {
		if current := e.db.Burn(lastID); current != nil && current.State == model.BurnPending {
			return current, true
		}
	}
	return &model.Burn{
		ID:        childID(meta.TxHash, len(tx.Burns)),
		State:     model.BurnResolved,
		Pair:      pair.ID,
		Liquidity: value,
		Timestamp: tx.Timestamp,
	}, false
}

// touchPosition refreshes the account's liquidity position from the
// authoritative on-chain balance and records an audit snapshot.
func (e *Engine) touchPosition(ctx context.Context, pair *model.Pair, owner common.Address, meta EventMeta) error {
	position := e.ensurePosition(pair, owner)

	balance, err := e.balances.BalanceOf(ctx, meta.Address, owner)
	if err != nil {
		return fmt.Errorf("liquidity balance of %s in %s: %w", addrID(owner), pair.ID, err)
	}
	position.LiquidityTokenBalance = toDecimal(balance, liquidityTokenDecimals)
	e.db.SavePosition(position)

	return e.snapshotPosition(position, meta)
}
