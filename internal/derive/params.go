package derive

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// StablePair designates one reference stable pool used to price the native
// asset. StableIsToken0 records which side of the pair holds the stable.
type StablePair struct {
	Pair           common.Address
	StableIsToken0 bool
}

// Params holds the oracle and filter configuration for one deployment.
type Params struct {
	// FactoryAddress keys the global aggregate record.
	FactoryAddress common.Address
	// NativeToken is the wrapped native asset; its derived price is 1.
	NativeToken common.Address
	// StablePairs are the reference pools averaged into the native price.
	StablePairs []StablePair
	// Whitelist is the fixed set of reference tokens that anchor derived
	// prices and tracked valuations.
	Whitelist map[common.Address]bool
	// UntrackedPairs is the denylist of pairs with non-standard accounting
	// (rebasing tokens); their activity never counts as tracked.
	UntrackedPairs map[common.Address]bool
	// MinimumLiquidity is the pool-bootstrap self-burn amount; the matching
	// initial transfer to the null address carries no business meaning.
	MinimumLiquidity *big.Int
}

// MainnetParams returns the Ethereum mainnet configuration.
func MainnetParams() Params {
	whitelist := map[common.Address]bool{
		common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"): true, // WETH
		common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f"): true, // DAI
		common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"): true, // USDC
		common.HexToAddress("0xdac17f958d2ee523a2206206994597c13d831ec7"): true, // USDT
		common.HexToAddress("0x0000000000085d4780b73119b644ae5ecd22b376"): true, // TUSD
		common.HexToAddress("0x2260fac5e5542a773aa44fbcfedf7c193bc2c599"): true, // WBTC
		common.HexToAddress("0x5d3a536e4d6dbd6114cc1ead35777bab948e3643"): true, // cDAI
		common.HexToAddress("0x514910771af9ca656af840dff83e8264ecf986ca"): true, // LINK
		common.HexToAddress("0x960b236a07cf122663c4303350609a66a7b288c0"): true, // ANT
		common.HexToAddress("0xc011a73ee8576fb46f5e1c5751ca3b9fe0af2a6f"): true, // SNX
		common.HexToAddress("0x0bc529c00c6401aef6d220be8c6ea1667f6ad93e"): true, // YFI
	}

	return Params{
		FactoryAddress: common.HexToAddress("0x5c69bee701ef814a2b6a3edd4b1652cb9cc5aa6f"),
		NativeToken:    common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"),
		StablePairs: []StablePair{
			{Pair: common.HexToAddress("0xa478c2975ab1ea89e8196811f51a7b7ade33eb11"), StableIsToken0: true},  // DAI-WETH
			{Pair: common.HexToAddress("0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc"), StableIsToken0: true},  // USDC-WETH
			{Pair: common.HexToAddress("0x0d4a11d5eeaa502b008fac4e59c3aa7bd2dea343"), StableIsToken0: false}, // WETH-USDT
		},
		Whitelist: whitelist,
		UntrackedPairs: map[common.Address]bool{
			common.HexToAddress("0x9ea3b5b4ec044b70375236a281986106457b20ef"): true, // AMPL-WETH
		},
		MinimumLiquidity: big.NewInt(1000),
	}
}
