package model

import "github.com/shopspring/decimal"

// Pair is the derived-state record for one tracked trading pair.
//
// Reserves and prices always reflect the most recent Sync event processed
// for the pair; token0Price and token1Price are each computed from their
// own reserve ratio and forced to zero when the divisor reserve is zero.
type Pair struct {
	ID                     string          `json:"id"`
	Token0                 string          `json:"token0"`
	Token1                 string          `json:"token1"`
	Reserve0               decimal.Decimal `json:"reserve0"`
	Reserve1               decimal.Decimal `json:"reserve1"`
	TotalSupply            decimal.Decimal `json:"total_supply"`
	ReserveNative          decimal.Decimal `json:"reserve_native"`
	ReserveUSD             decimal.Decimal `json:"reserve_usd"`
	TrackedReserveNative   decimal.Decimal `json:"tracked_reserve_native"`
	Token0Price            decimal.Decimal `json:"token0_price"`
	Token1Price            decimal.Decimal `json:"token1_price"`
	VolumeToken0           decimal.Decimal `json:"volume_token0"`
	VolumeToken1           decimal.Decimal `json:"volume_token1"`
	VolumeUSD              decimal.Decimal `json:"volume_usd"`
	UntrackedVolumeUSD     decimal.Decimal `json:"untracked_volume_usd"`
	TxCount                uint64          `json:"tx_count"`
	LiquidityProviderCount uint64          `json:"liquidity_provider_count"`
	CreatedAtTimestamp     uint64          `json:"created_at_timestamp"`
	CreatedAtBlockNumber   uint64          `json:"created_at_block_number"`
}
