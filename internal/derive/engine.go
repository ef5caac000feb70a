package derive

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairScope/internal/model"
	"pairScope/internal/state"
)

// TokenMetaSource resolves ERC20 metadata for token onboarding.
type TokenMetaSource interface {
	TokenMeta(ctx context.Context, token common.Address) (model.TokenMeta, error)
}

// BalanceReader returns the authoritative on-chain liquidity-token balance
// of owner in the given pair contract.
type BalanceReader interface {
	BalanceOf(ctx context.Context, pair common.Address, owner common.Address) (*big.Int, error)
}

// EventMeta carries the envelope of one log record into a handler.
type EventMeta struct {
	Address     common.Address
	TxHash      string
	BlockNumber uint64
	Timestamp   uint64
	LogIndex    uint64
}

// Engine derives aggregate AMM state from the ordered event stream.
//
// Each event is fully processed before the next begins; handlers mutate the
// state DB directly and rely on that strict ordering for the per-transaction
// "most recent" correlation rules.
type Engine struct {
	db       *state.DB
	params   Params
	meta     TokenMetaSource
	balances BalanceReader
	logger   *zap.Logger
}

func NewEngine(db *state.DB, params Params, meta TokenMetaSource, balances BalanceReader, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		db:       db,
		params:   params,
		meta:     meta,
		balances: balances,
		logger:   logger,
	}
}

// DB exposes the underlying state for export.
func (e *Engine) DB() *state.DB { return e.db }

// Apply dispatches one typed event record to its handler. An error aborts
// stream processing; derived state must not drift past a record the engine
// could not fully apply.
func (e *Engine) Apply(ctx context.Context, record model.TypedEventRecord) error {
	if !common.IsHexAddress(record.Address) {
		return fmt.Errorf("invalid event address: %s", record.Address)
	}
	meta := EventMeta{
		Address:     common.HexToAddress(record.Address),
		TxHash:      record.TxHash,
		BlockNumber: record.BlockNumber,
		Timestamp:   record.Timestamp,
		LogIndex:    record.LogIndex,
	}

	switch record.EventName {
	case "PairCreated":
		var data model.PairCreatedEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode pair-created payload: %w", err)
		}
		return e.HandlePairCreated(ctx, meta, data)
	case "Transfer":
		var data model.TransferEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode transfer payload: %w", err)
		}
		return e.HandleTransfer(ctx, meta, data)
	case "Sync":
		var data model.SyncEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode sync payload: %w", err)
		}
		return e.HandleSync(ctx, meta, data)
	case "Mint":
		var data model.MintEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode mint payload: %w", err)
		}
		return e.HandleMint(ctx, meta, data)
	case "Burn":
		var data model.BurnEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode burn payload: %w", err)
		}
		return e.HandleBurn(ctx, meta, data)
	case "Swap":
		var data model.SwapEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode swap payload: %w", err)
		}
		return e.HandleSwap(ctx, meta, data)
	default:
		e.logger.Debug("unsupported event", zap.String("event", record.EventName))
		return nil
	}
}
