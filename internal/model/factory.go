package model

import "github.com/shopspring/decimal"

// Factory is the process-wide aggregate record, created on the first
// PairCreated event and updated by every business event.
type Factory struct {
	ID                   string          `json:"id"`
	PairCount            uint64          `json:"pair_count"`
	TotalVolumeUSD       decimal.Decimal `json:"total_volume_usd"`
	TotalVolumeNative    decimal.Decimal `json:"total_volume_native"`
	UntrackedVolumeUSD   decimal.Decimal `json:"untracked_volume_usd"`
	TotalLiquidityUSD    decimal.Decimal `json:"total_liquidity_usd"`
	TotalLiquidityNative decimal.Decimal `json:"total_liquidity_native"`
	TxCount              uint64          `json:"tx_count"`
}

// Bundle holds the current reference-currency price of the chain's native
// asset. A single record, created alongside the Factory and recomputed on
// every Sync event.
type Bundle struct {
	NativePriceUSD decimal.Decimal `json:"native_price_usd"`
}
