package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairScope/internal/chain"
	"pairScope/internal/model"
)

// TokenMetaCache caches token metadata by address.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.TokenMeta
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[common.Address]model.TokenMeta)}
}

func (c *TokenMetaCache) Get(address common.Address) (model.TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(address common.Address, meta model.TokenMeta) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// staticOverride fills in symbol, name, and decimals for tokens whose
// contracts misreport or omit them.
type staticOverride struct {
	Symbol   string
	Name     string
	Decimals uint8
}

var staticOverrides = map[common.Address]staticOverride{
	common.HexToAddress("0xe0b7927c4af23765cb51314a0e0521a9645f0e2a"): {Symbol: "DGD", Name: "DGD", Decimals: 9},
	common.HexToAddress("0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9"): {Symbol: "AAVE", Name: "Aave Token", Decimals: 18},
	common.HexToAddress("0xeb9951021698b42e4399f9cbb6267aa35f82d59d"): {Symbol: "LIF", Name: "Lif", Decimals: 18},
	common.HexToAddress("0xbdeb4b83251fb146687fa19d1c660f99411eefe3"): {Symbol: "SVD", Name: "savedroid", Decimals: 18},
	common.HexToAddress("0xbb9bc244d798123fde783fcc1c72d3bb8c189413"): {Symbol: "TheDAO", Name: "TheDAO", Decimals: 16},
	common.HexToAddress("0x38c6a68304cdefb9bec48bbfaaba5c5b47818bb2"): {Symbol: "HPB", Name: "HPBCoin", Decimals: 18},
}

// FetchTokenMeta loads token metadata. A static override wins over whatever
// the contract reports; without one, decimals are required (a token that
// reports none is unusable) and symbol/name fall back from the string ABI to
// the bytes32 ABI, then to "unknown".
func FetchTokenMeta(ctx context.Context, chainClient *chain.Client, token common.Address, logger *zap.Logger) (model.TokenMeta, error) {
	meta := model.TokenMeta{Address: token.Hex()}
	override, hasOverride := staticOverrides[token]

	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	call := func(method string, parsed abi.ABI) ([]interface{}, error) {
		if chainClient == nil {
			return nil, fmt.Errorf("chain client is nil")
		}
		data, err := parsed.Pack(method)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", method, err)
		}
		msg := ethereum.CallMsg{To: &token, Data: data}
		resp, err := chainClient.CallContract(ctx, msg, nil)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", method, err)
		}
		values, err := parsed.Unpack(method, resp)
		if err != nil {
			return nil, fmt.Errorf("unpack %s: %w", method, err)
		}
		return values, nil
	}

	if hasOverride {
		meta.Decimals = override.Decimals
	} else if values, err := call("decimals", stringABI); err == nil {
		decimals, err := asUint8(values[0])
		if err != nil {
			return meta, err
		}
		meta.Decimals = decimals
	} else {
		return meta, fmt.Errorf("token %s: decimals unavailable: %w", token.Hex(), err)
	}

	meta.Symbol = "unknown"
	if hasOverride {
		meta.Symbol = override.Symbol
	} else if values, err := call("symbol", stringABI); err == nil {
		if symbol, ok := values[0].(string); ok {
			meta.Symbol = symbol
		}
	} else if values, err := call("symbol", bytes32ABI); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			meta.Symbol = symbol
		}
	} else if logger != nil {
		logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	meta.Name = "unknown"
	if hasOverride {
		meta.Name = override.Name
	} else if values, err := call("name", stringABI); err == nil {
		if name, ok := values[0].(string); ok {
			meta.Name = name
		}
	} else if values, err := call("name", bytes32ABI); err == nil {
		if name, ok := bytes32ToString(values[0]); ok {
			meta.Name = name
		}
	} else if logger != nil {
		logger.Debug("name call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	if chainClient != nil {
		if values, err := call("totalSupply", stringABI); err == nil {
			if supply, err := asBigInt(values[0]); err == nil {
				meta.TotalSupply = supply
			}
		} else if logger != nil {
			logger.Debug("totalSupply call failed", zap.String("token", token.Hex()), zap.Error(err))
		}
	}

	return meta, nil
}

// Resolver fetches token metadata with an in-memory cache. It satisfies the
// derive engine's metadata dependency.
type Resolver struct {
	chain  *chain.Client
	cache  *TokenMetaCache
	logger *zap.Logger
}

func NewResolver(chainClient *chain.Client, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		chain:  chainClient,
		cache:  NewTokenMetaCache(),
		logger: logger,
	}
}

func (r *Resolver) TokenMeta(ctx context.Context, token common.Address) (model.TokenMeta, error) {
	if meta, ok := r.cache.Get(token); ok {
		return meta, nil
	}
	meta, err := FetchTokenMeta(ctx, r.chain, token, r.logger)
	if err != nil {
		return model.TokenMeta{}, err
	}
	r.cache.Set(token, meta)
	return meta, nil
}

// nullBytes32 is the sentinel some non-compliant tokens return for an unset
// bytes32 symbol or name; it must not be mistaken for a one-byte string.
var nullBytes32 = func() [32]byte {
	var v [32]byte
	v[31] = 1
	return v
}()

func bytes32ToString(value interface{}) (string, bool) {
	var raw [32]byte
	switch v := value.(type) {
	case [32]byte:
		raw = v
	case []byte:
		if len(v) > 32 {
			return "", false
		}
		copy(raw[:], v)
	default:
		return "", false
	}
	if raw == nullBytes32 {
		return "", false
	}
	return string(bytes.TrimRight(raw[:], "\x00")), true
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
