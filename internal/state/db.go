package state

import (
	"pairScope/internal/model"
)

// DB is the in-memory record store for derived state.
//
// Processing is strictly single-threaded over the ordered event stream, so
// there is no locking; a load returns nil on miss, a save is last-write-wins,
// and no transactionality is assumed across records. Pairs are additionally
// indexed by constituent token so the price oracle can walk every pair
// containing a token without scanning.
type DB struct {
	factory *model.Factory
	bundle  *model.Bundle

	pairs        map[string]*model.Pair
	tokens       map[string]*model.Token
	transactions map[string]*model.Transaction
	mints        map[string]*model.Mint
	burns        map[string]*model.Burn
	swaps        map[string]*model.Swap
	users        map[string]*model.User
	positions    map[string]*model.LiquidityPosition
	snapshots    []*model.LiquidityPositionSnapshot

	pairDays    map[string]*model.PairDayData
	pairHours   map[string]*model.PairHourData
	tokenDays   map[string]*model.TokenDayData
	factoryDays map[string]*model.FactoryDayData

	pairsByToken map[string][]string

	mintOrder []string
	burnOrder []string
	swapOrder []string
}

func NewDB() *DB {
	return &DB{
		pairs:        make(map[string]*model.Pair),
		tokens:       make(map[string]*model.Token),
		transactions: make(map[string]*model.Transaction),
		mints:        make(map[string]*model.Mint),
		burns:        make(map[string]*model.Burn),
		swaps:        make(map[string]*model.Swap),
		users:        make(map[string]*model.User),
		positions:    make(map[string]*model.LiquidityPosition),
		pairDays:     make(map[string]*model.PairDayData),
		pairHours:    make(map[string]*model.PairHourData),
		tokenDays:    make(map[string]*model.TokenDayData),
		factoryDays:  make(map[string]*model.FactoryDayData),
		pairsByToken: make(map[string][]string),
	}
}

// Factory returns the global aggregate singleton, nil before the first pair.
func (db *DB) Factory() *model.Factory { return db.factory }

func (db *DB) SaveFactory(f *model.Factory) { db.factory = f }

// Bundle returns the numeraire singleton, nil before the first pair.
func (db *DB) Bundle() *model.Bundle { return db.bundle }

func (db *DB) SaveBundle(b *model.Bundle) { db.bundle = b }

func (db *DB) Pair(id string) *model.Pair { return db.pairs[id] }

// SavePair stores the pair and, on first save, registers it in the
// token->pairs index.
func (db *DB) SavePair(p *model.Pair) {
	if _, ok := db.pairs[p.ID]; !ok {
		db.pairsByToken[p.Token0] = append(db.pairsByToken[p.Token0], p.ID)
		db.pairsByToken[p.Token1] = append(db.pairsByToken[p.Token1], p.ID)
	}
	db.pairs[p.ID] = p
}

// PairsForToken returns the ids of every pair containing the token, in
// creation order.
func (db *DB) PairsForToken(tokenID string) []string { return db.pairsByToken[tokenID] }

func (db *DB) Token(id string) *model.Token { return db.tokens[id] }

func (db *DB) SaveToken(t *model.Token) { db.tokens[t.ID] = t }

func (db *DB) Transaction(id string) *model.Transaction { return db.transactions[id] }

func (db *DB) SaveTransaction(tx *model.Transaction) { db.transactions[tx.ID] = tx }

func (db *DB) Mint(id string) *model.Mint { return db.mints[id] }

func (db *DB) SaveMint(m *model.Mint) {
	if _, ok := db.mints[m.ID]; !ok {
		db.mintOrder = append(db.mintOrder, m.ID)
	}
	db.mints[m.ID] = m
}

// RemoveMint deletes a mint record; used when a protocol-fee mint is
// absorbed into a burn.
func (db *DB) RemoveMint(id string) {
	if _, ok := db.mints[id]; !ok {
		return
	}
	delete(db.mints, id)
	for i, mid := range db.mintOrder {
		if mid == id {
			db.mintOrder = append(db.mintOrder[:i], db.mintOrder[i+1:]...)
			break
		}
	}
}

func (db *DB) Burn(id string) *model.Burn { return db.burns[id] }

func (db *DB) SaveBurn(b *model.Burn) {
	if _, ok := db.burns[b.ID]; !ok {
		db.burnOrder = append(db.burnOrder, b.ID)
	}
	db.burns[b.ID] = b
}

func (db *DB) Swap(id string) *model.Swap { return db.swaps[id] }

func (db *DB) SaveSwap(s *model.Swap) {
	if _, ok := db.swaps[s.ID]; !ok {
		db.swapOrder = append(db.swapOrder, s.ID)
	}
	db.swaps[s.ID] = s
}

func (db *DB) User(id string) *model.User { return db.users[id] }

func (db *DB) SaveUser(u *model.User) { db.users[u.ID] = u }

func (db *DB) Position(id string) *model.LiquidityPosition { return db.positions[id] }

func (db *DB) SavePosition(p *model.LiquidityPosition) { db.positions[p.ID] = p }

// AppendSnapshot stores an audit snapshot; snapshots are never mutated.
func (db *DB) AppendSnapshot(s *model.LiquidityPositionSnapshot) {
	db.snapshots = append(db.snapshots, s)
}

func (db *DB) Snapshots() []*model.LiquidityPositionSnapshot { return db.snapshots }

func (db *DB) PairDay(id string) *model.PairDayData { return db.pairDays[id] }

func (db *DB) SavePairDay(d *model.PairDayData) { db.pairDays[d.ID] = d }

func (db *DB) PairHour(id string) *model.PairHourData { return db.pairHours[id] }

func (db *DB) SavePairHour(h *model.PairHourData) { db.pairHours[h.ID] = h }

func (db *DB) TokenDay(id string) *model.TokenDayData { return db.tokenDays[id] }

func (db *DB) SaveTokenDay(d *model.TokenDayData) { db.tokenDays[d.ID] = d }

func (db *DB) FactoryDay(id string) *model.FactoryDayData { return db.factoryDays[id] }

func (db *DB) SaveFactoryDay(d *model.FactoryDayData) { db.factoryDays[d.ID] = d }

// Mints returns all mint records in insertion order.
func (db *DB) Mints() []*model.Mint {
	out := make([]*model.Mint, 0, len(db.mintOrder))
	for _, id := range db.mintOrder {
		out = append(out, db.mints[id])
	}
	return out
}

// Burns returns all burn records in insertion order.
func (db *DB) Burns() []*model.Burn {
	out := make([]*model.Burn, 0, len(db.burnOrder))
	for _, id := range db.burnOrder {
		out = append(out, db.burns[id])
	}
	return out
}

// Swaps returns all swap records in insertion order.
func (db *DB) Swaps() []*model.Swap {
	out := make([]*model.Swap, 0, len(db.swapOrder))
	for _, id := range db.swapOrder {
		out = append(out, db.swaps[id])
	}
	return out
}

// Pairs returns all pairs in unspecified order.
func (db *DB) Pairs() []*model.Pair {
	out := make([]*model.Pair, 0, len(db.pairs))
	for _, p := range db.pairs {
		out = append(out, p)
	}
	return out
}

// Tokens returns all tokens in unspecified order.
func (db *DB) Tokens() []*model.Token {
	out := make([]*model.Token, 0, len(db.tokens))
	for _, t := range db.tokens {
		out = append(out, t)
	}
	return out
}

// PairDays returns all pair-day rollups in unspecified order.
func (db *DB) PairDays() []*model.PairDayData {
	out := make([]*model.PairDayData, 0, len(db.pairDays))
	for _, d := range db.pairDays {
		out = append(out, d)
	}
	return out
}

// PairHours returns all pair-hour rollups in unspecified order.
func (db *DB) PairHours() []*model.PairHourData {
	out := make([]*model.PairHourData, 0, len(db.pairHours))
	for _, h := range db.pairHours {
		out = append(out, h)
	}
	return out
}

// TokenDays returns all token-day rollups in unspecified order.
func (db *DB) TokenDays() []*model.TokenDayData {
	out := make([]*model.TokenDayData, 0, len(db.tokenDays))
	for _, d := range db.tokenDays {
		out = append(out, d)
	}
	return out
}

// FactoryDays returns all global daily rollups in unspecified order.
func (db *DB) FactoryDays() []*model.FactoryDayData {
	out := make([]*model.FactoryDayData, 0, len(db.factoryDays))
	for _, d := range db.factoryDays {
		out = append(out, d)
	}
	return out
}
