package derive

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pairScope/internal/model"
)

// liquidityTokenDecimals is the fixed decimal count of pair share tokens.
const liquidityTokenDecimals = 18

// quotePrecision bounds the scale of prices and valuations produced by
// division; all other arithmetic is exact.
const quotePrecision = 38

var zeroAddress = common.Address{}

// addrID normalizes an address into the lowercase hex entity id.
func addrID(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

func parseRawAmount(value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid raw amount: %s", value)
	}
	return parsed, nil
}

// toDecimal normalizes a raw integer amount by the token's decimal count.
func toDecimal(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// safeDiv divides a by b, yielding zero when b is zero.
func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, quotePrecision)
}

// childID builds the "<txhash>-<index>" id used for mints, burns, and swaps.
func childID(txHash string, index int) string {
	return fmt.Sprintf("%s-%d", txHash, index)
}

// loadTransaction returns the correlation record for the tx hash, creating
// it on the first log seen for that transaction.
func (e *Engine) loadTransaction(meta EventMeta) *model.Transaction {
	tx := e.db.Transaction(meta.TxHash)
	if tx == nil {
		tx = &model.Transaction{
			ID:          meta.TxHash,
			BlockNumber: meta.BlockNumber,
			Timestamp:   meta.Timestamp,
		}
		e.db.SaveTransaction(tx)
	}
	return tx
}

func (e *Engine) ensureUser(addr common.Address) {
	id := addrID(addr)
	if e.db.User(id) != nil {
		return
	}
	e.db.SaveUser(&model.User{ID: id, USDSwapped: decimal.Zero})
}

// ensurePosition returns the liquidity position for (pair, user), creating
// it at most once; creation counts the user as a new liquidity provider.
func (e *Engine) ensurePosition(pair *model.Pair, user common.Address) *model.LiquidityPosition {
	id := pair.ID + "-" + addrID(user)
	position := e.db.Position(id)
	if position != nil {
		return position
	}

	pair.LiquidityProviderCount++
	e.db.SavePair(pair)

	position = &model.LiquidityPosition{
		ID:   id,
		Pair: pair.ID,
		User: addrID(user),
	}
	e.db.SavePosition(position)
	return position
}

// snapshotPosition appends the audit snapshot for a position at this event.
func (e *Engine) snapshotPosition(position *model.LiquidityPosition, meta EventMeta) error {
	pair := e.db.Pair(position.Pair)
	if pair == nil {
		return fmt.Errorf("pair not found for snapshot: %s", position.Pair)
	}
	token0 := e.db.Token(pair.Token0)
	token1 := e.db.Token(pair.Token1)
	if token0 == nil || token1 == nil {
		return fmt.Errorf("tokens not found for snapshot: %s", pair.ID)
	}
	bundle := e.db.Bundle()
	if bundle == nil {
		return fmt.Errorf("bundle not initialized")
	}

	snapshot := &model.LiquidityPositionSnapshot{
		ID:                        fmt.Sprintf("%s%d", position.ID, meta.Timestamp),
		LiquidityPosition:         position.ID,
		Timestamp:                 meta.Timestamp,
		Block:                     meta.BlockNumber,
		User:                      position.User,
		Pair:                      position.Pair,
		Token0PriceUSD:            token0.DerivedNative.Mul(bundle.NativePriceUSD),
		Token1PriceUSD:            token1.DerivedNative.Mul(bundle.NativePriceUSD),
		Reserve0:                  pair.Reserve0,
		Reserve1:                  pair.Reserve1,
		ReserveUSD:                pair.ReserveUSD,
		LiquidityTokenTotalSupply: pair.TotalSupply,
		LiquidityTokenBalance:     position.LiquidityTokenBalance,
	}
	e.db.AppendSnapshot(snapshot)
	return nil
}
