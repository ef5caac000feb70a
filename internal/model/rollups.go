package model

import "github.com/shopspring/decimal"

// Time-bucketed rollups. Buckets are keyed by (entity, floor(ts/bucket));
// on every touch the snapshot-style fields (reserves, prices, supply) are
// overwritten with the latest values and the per-bucket transaction counter
// is incremented. Volume accumulators only grow on swaps.

// PairDayData is the per-pair daily rollup.
type PairDayData struct {
	ID                string          `json:"id"`
	Date              uint64          `json:"date"`
	PairAddress       string          `json:"pair_address"`
	Token0            string          `json:"token0"`
	Token1            string          `json:"token1"`
	Reserve0          decimal.Decimal `json:"reserve0"`
	Reserve1          decimal.Decimal `json:"reserve1"`
	TotalSupply       decimal.Decimal `json:"total_supply"`
	ReserveUSD        decimal.Decimal `json:"reserve_usd"`
	DailyVolumeToken0 decimal.Decimal `json:"daily_volume_token0"`
	DailyVolumeToken1 decimal.Decimal `json:"daily_volume_token1"`
	DailyVolumeUSD    decimal.Decimal `json:"daily_volume_usd"`
	DailyTxns         uint64          `json:"daily_txns"`
}

// PairHourData is the per-pair hourly rollup.
type PairHourData struct {
	ID                 string          `json:"id"`
	HourStartUnix      uint64          `json:"hour_start_unix"`
	Pair               string          `json:"pair"`
	Reserve0           decimal.Decimal `json:"reserve0"`
	Reserve1           decimal.Decimal `json:"reserve1"`
	TotalSupply        decimal.Decimal `json:"total_supply"`
	ReserveUSD         decimal.Decimal `json:"reserve_usd"`
	HourlyVolumeToken0 decimal.Decimal `json:"hourly_volume_token0"`
	HourlyVolumeToken1 decimal.Decimal `json:"hourly_volume_token1"`
	HourlyVolumeUSD    decimal.Decimal `json:"hourly_volume_usd"`
	HourlyTxns         uint64          `json:"hourly_txns"`
}

// TokenDayData is the per-token daily rollup.
type TokenDayData struct {
	ID                   string          `json:"id"`
	Date                 uint64          `json:"date"`
	Token                string          `json:"token"`
	DailyVolumeToken     decimal.Decimal `json:"daily_volume_token"`
	DailyVolumeNative    decimal.Decimal `json:"daily_volume_native"`
	DailyVolumeUSD       decimal.Decimal `json:"daily_volume_usd"`
	DailyTxns            uint64          `json:"daily_txns"`
	TotalLiquidityToken  decimal.Decimal `json:"total_liquidity_token"`
	TotalLiquidityNative decimal.Decimal `json:"total_liquidity_native"`
	TotalLiquidityUSD    decimal.Decimal `json:"total_liquidity_usd"`
	PriceUSD             decimal.Decimal `json:"price_usd"`
}

// FactoryDayData is the global daily rollup.
type FactoryDayData struct {
	ID                   string          `json:"id"`
	Date                 uint64          `json:"date"`
	DailyVolumeUSD       decimal.Decimal `json:"daily_volume_usd"`
	DailyVolumeNative    decimal.Decimal `json:"daily_volume_native"`
	DailyVolumeUntracked decimal.Decimal `json:"daily_volume_untracked"`
	TotalVolumeUSD       decimal.Decimal `json:"total_volume_usd"`
	TotalVolumeNative    decimal.Decimal `json:"total_volume_native"`
	TotalLiquidityUSD    decimal.Decimal `json:"total_liquidity_usd"`
	TotalLiquidityNative decimal.Decimal `json:"total_liquidity_native"`
	TxCount              uint64          `json:"tx_count"`
}
