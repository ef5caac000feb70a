package model

import "github.com/shopspring/decimal"

// MintState is the lifecycle state of a logical mint.
type MintState uint8

const (
	// MintOpen means the liquidity-token amount is known but the initiator
	// and per-token amounts have not been notified yet.
	MintOpen MintState = iota
	// MintComplete means all fields are populated.
	MintComplete
)

// BurnState is the lifecycle state of a logical burn.
type BurnState uint8

const (
	// BurnPending means liquidity tokens were observed moving into the pair
	// itself and per-token amounts are not yet known.
	BurnPending BurnState = iota
	// BurnResolved means the amounts are known.
	BurnResolved
)

// Mint is one logical "add liquidity" operation, reconstructed from the
// liquidity-token Transfer and the Mint notification of one transaction.
type Mint struct {
	ID        string          `json:"id"`
	State     MintState       `json:"state"`
	Pair      string          `json:"pair"`
	To        string          `json:"to"`
	Liquidity decimal.Decimal `json:"liquidity"`
	Sender    string          `json:"sender,omitempty"`
	Amount0   decimal.Decimal `json:"amount0"`
	Amount1   decimal.Decimal `json:"amount1"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	LogIndex  uint64          `json:"log_index"`
	Timestamp uint64          `json:"timestamp"`
}

// Burn is one logical "remove liquidity" operation. FeeTo and FeeLiquidity
// are populated when a same-transaction protocol-fee mint was absorbed.
type Burn struct {
	ID           string          `json:"id"`
	State        BurnState       `json:"state"`
	Pair         string          `json:"pair"`
	Sender       string          `json:"sender,omitempty"`
	To           string          `json:"to,omitempty"`
	Liquidity    decimal.Decimal `json:"liquidity"`
	Amount0      decimal.Decimal `json:"amount0"`
	Amount1      decimal.Decimal `json:"amount1"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	FeeTo        string          `json:"fee_to,omitempty"`
	FeeLiquidity decimal.Decimal `json:"fee_liquidity"`
	LogIndex     uint64          `json:"log_index"`
	Timestamp    uint64          `json:"timestamp"`
}

// Swap is one swap business record.
type Swap struct {
	ID         string          `json:"id"`
	Pair       string          `json:"pair"`
	Sender     string          `json:"sender"`
	To         string          `json:"to"`
	Amount0In  decimal.Decimal `json:"amount0_in"`
	Amount1In  decimal.Decimal `json:"amount1_in"`
	Amount0Out decimal.Decimal `json:"amount0_out"`
	Amount1Out decimal.Decimal `json:"amount1_out"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
	LogIndex   uint64          `json:"log_index"`
	Timestamp  uint64          `json:"timestamp"`
}

// User is an account observed holding or moving liquidity tokens.
type User struct {
	ID         string          `json:"id"`
	USDSwapped decimal.Decimal `json:"usd_swapped"`
}

// LiquidityPosition is the current liquidity-token balance of one account
// in one pair, created at most once per (pair, user).
type LiquidityPosition struct {
	ID                    string          `json:"id"`
	Pair                  string          `json:"pair"`
	User                  string          `json:"user"`
	LiquidityTokenBalance decimal.Decimal `json:"liquidity_token_balance"`
}

// LiquidityPositionSnapshot is an append-only audit row recording the pair
// state and position balance at one block timestamp.
type LiquidityPositionSnapshot struct {
	ID                        string          `json:"id"`
	LiquidityPosition         string          `json:"liquidity_position"`
	Timestamp                 uint64          `json:"timestamp"`
	Block                     uint64          `json:"block"`
	User                      string          `json:"user"`
	Pair                      string          `json:"pair"`
	Token0PriceUSD            decimal.Decimal `json:"token0_price_usd"`
	Token1PriceUSD            decimal.Decimal `json:"token1_price_usd"`
	Reserve0                  decimal.Decimal `json:"reserve0"`
	Reserve1                  decimal.Decimal `json:"reserve1"`
	ReserveUSD                decimal.Decimal `json:"reserve_usd"`
	LiquidityTokenTotalSupply decimal.Decimal `json:"liquidity_token_total_supply"`
	LiquidityTokenBalance     decimal.Decimal `json:"liquidity_token_balance"`
}
