package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Token is the derived-state record for one ERC20 token.
type Token struct {
	ID                 string          `json:"id"`
	Symbol             string          `json:"symbol"`
	Name               string          `json:"name"`
	Decimals           uint8           `json:"decimals"`
	TotalSupply        *big.Int        `json:"total_supply"`
	TradeVolume        decimal.Decimal `json:"trade_volume"`
	TradeVolumeUSD     decimal.Decimal `json:"trade_volume_usd"`
	UntrackedVolumeUSD decimal.Decimal `json:"untracked_volume_usd"`
	TotalLiquidity     decimal.Decimal `json:"total_liquidity"`
	DerivedNative      decimal.Decimal `json:"derived_native"`
	TxCount            uint64          `json:"tx_count"`
}

// TokenMeta captures resolved ERC20 metadata.
type TokenMeta struct {
	Address     string   `json:"address"`
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Decimals    uint8    `json:"decimals"`
	TotalSupply *big.Int `json:"total_supply"`
}
