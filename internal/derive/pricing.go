package derive

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pairScope/internal/model"
)

var oneDecimal = decimal.NewFromInt(1)
var twoDecimal = decimal.NewFromInt(2)

// nativePriceUSD averages the implied price from each configured stable
// reference pair, skipping pairs that do not exist yet. Zero if none exist.
func (e *Engine) nativePriceUSD() decimal.Decimal {
	sum := decimal.Zero
	count := 0
	for _, ref := range e.params.StablePairs {
		pair := e.db.Pair(addrID(ref.Pair))
		if pair == nil {
			continue
		}
		if ref.StableIsToken0 {
			sum = sum.Add(pair.Token0Price)
		} else {
			sum = sum.Add(pair.Token1Price)
		}
		count++
	}
	if count == 0 {
		return decimal.Zero
	}
	return sum.DivRound(decimal.NewFromInt(int64(count)), quotePrecision)
}

// derivedNativePrice computes the native-asset price of a token by walking
// its pairs, keeping only those whose counterparty is whitelisted, and
// pricing off the one with the greatest native-equivalent reserve. Zero if
// no whitelisted pair exists.
func (e *Engine) derivedNativePrice(token *model.Token) decimal.Decimal {
	if token.ID == addrID(e.params.NativeToken) {
		return oneDecimal
	}

	bestDepth := decimal.Zero
	bestPrice := decimal.Zero
	for _, pairID := range e.db.PairsForToken(token.ID) {
		pair := e.db.Pair(pairID)
		if pair == nil {
			continue
		}
		switch token.ID {
		case pair.Token0:
			other := e.db.Token(pair.Token1)
			if other == nil || !e.isWhitelisted(other.ID) {
				continue
			}
			depth := pair.Reserve1.Mul(other.DerivedNative)
			if depth.GreaterThan(bestDepth) {
				bestDepth = depth
				bestPrice = pair.Token1Price.Mul(other.DerivedNative)
			}
		case pair.Token1:
			other := e.db.Token(pair.Token0)
			if other == nil || !e.isWhitelisted(other.ID) {
				continue
			}
			depth := pair.Reserve0.Mul(other.DerivedNative)
			if depth.GreaterThan(bestDepth) {
				bestDepth = depth
				bestPrice = pair.Token0Price.Mul(other.DerivedNative)
			}
		}
	}
	return bestPrice
}

func (e *Engine) isWhitelisted(tokenID string) bool {
	return e.params.Whitelist[common.HexToAddress(tokenID)]
}

func (e *Engine) isUntrackedPair(pairID string) bool {
	return e.params.UntrackedPairs[common.HexToAddress(pairID)]
}
