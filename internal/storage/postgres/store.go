package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pairScope/internal/model"
)

// Store provides Postgres persistence for derived state.
//
// Numeric values are bound as strings; Postgres parses them into NUMERIC
// columns without float round-trips.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertFactory writes the global aggregate singleton.
func (s *Store) UpsertFactory(ctx context.Context, f *model.Factory) error {
	if f == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO factories (
			id, pair_count, total_volume_usd, total_volume_native, untracked_volume_usd,
			total_liquidity_usd, total_liquidity_native, tx_count, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
		ON CONFLICT (id) DO UPDATE SET
			pair_count = EXCLUDED.pair_count,
			total_volume_usd = EXCLUDED.total_volume_usd,
			total_volume_native = EXCLUDED.total_volume_native,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			total_liquidity_usd = EXCLUDED.total_liquidity_usd,
			total_liquidity_native = EXCLUDED.total_liquidity_native,
			tx_count = EXCLUDED.tx_count,
			updated_at = now()
	`,
		f.ID,
		int64(f.PairCount),
		f.TotalVolumeUSD.String(),
		f.TotalVolumeNative.String(),
		f.UntrackedVolumeUSD.String(),
		f.TotalLiquidityUSD.String(),
		f.TotalLiquidityNative.String(),
		int64(f.TxCount),
	)
	return err
}

// UpsertPairs inserts or updates pair records.
func (s *Store) UpsertPairs(ctx context.Context, pairs []*model.Pair) error {
	if len(pairs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range pairs {
		batch.Queue(`
			INSERT INTO pairs (
				id, token0, token1, reserve0, reserve1, total_supply,
				reserve_native, reserve_usd, tracked_reserve_native,
				token0_price, token1_price,
				volume_token0, volume_token1, volume_usd, untracked_volume_usd,
				tx_count, liquidity_provider_count,
				created_at_timestamp, created_at_block_number, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,now())
			ON CONFLICT (id) DO UPDATE SET
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				total_supply = EXCLUDED.total_supply,
				reserve_native = EXCLUDED.reserve_native,
				reserve_usd = EXCLUDED.reserve_usd,
				tracked_reserve_native = EXCLUDED.tracked_reserve_native,
				token0_price = EXCLUDED.token0_price,
				token1_price = EXCLUDED.token1_price,
				volume_token0 = EXCLUDED.volume_token0,
				volume_token1 = EXCLUDED.volume_token1,
				volume_usd = EXCLUDED.volume_usd,
				untracked_volume_usd = EXCLUDED.untracked_volume_usd,
				tx_count = EXCLUDED.tx_count,
				liquidity_provider_count = EXCLUDED.liquidity_provider_count,
				updated_at = now()
		`,
			p.ID,
			p.Token0,
			p.Token1,
			p.Reserve0.String(),
			p.Reserve1.String(),
			p.TotalSupply.String(),
			p.ReserveNative.String(),
			p.ReserveUSD.String(),
			p.TrackedReserveNative.String(),
			p.Token0Price.String(),
			p.Token1Price.String(),
			p.VolumeToken0.String(),
			p.VolumeToken1.String(),
			p.VolumeUSD.String(),
			p.UntrackedVolumeUSD.String(),
			int64(p.TxCount),
			int64(p.LiquidityProviderCount),
			int64(p.CreatedAtTimestamp),
			int64(p.CreatedAtBlockNumber),
		)
	}
	return s.sendBatch(ctx, batch, len(pairs))
}

// UpsertTokens inserts or updates token records.
func (s *Store) UpsertTokens(ctx context.Context, tokens []*model.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, t := range tokens {
		totalSupply := "0"
		if t.TotalSupply != nil {
			totalSupply = t.TotalSupply.String()
		}
		batch.Queue(`
			INSERT INTO tokens (
				id, symbol, name, decimals, total_supply,
				trade_volume, trade_volume_usd, untracked_volume_usd,
				total_liquidity, derived_native, tx_count, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
			ON CONFLICT (id) DO UPDATE SET
				symbol = EXCLUDED.symbol,
				name = EXCLUDED.name,
				decimals = EXCLUDED.decimals,
				total_supply = EXCLUDED.total_supply,
				trade_volume = EXCLUDED.trade_volume,
				trade_volume_usd = EXCLUDED.trade_volume_usd,
				untracked_volume_usd = EXCLUDED.untracked_volume_usd,
				total_liquidity = EXCLUDED.total_liquidity,
				derived_native = EXCLUDED.derived_native,
				tx_count = EXCLUDED.tx_count,
				updated_at = now()
		`,
			t.ID,
			t.Symbol,
			t.Name,
			int16(t.Decimals),
			totalSupply,
			t.TradeVolume.String(),
			t.TradeVolumeUSD.String(),
			t.UntrackedVolumeUSD.String(),
			t.TotalLiquidity.String(),
			t.DerivedNative.String(),
			int64(t.TxCount),
		)
	}
	return s.sendBatch(ctx, batch, len(tokens))
}

// UpsertPairDays inserts or updates daily pair rollups.
func (s *Store) UpsertPairDays(ctx context.Context, days []*model.PairDayData) error {
	if len(days) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range days {
		batch.Queue(`
			INSERT INTO pair_day_data (
				id, date, pair_address, token0, token1,
				reserve0, reserve1, total_supply, reserve_usd,
				daily_volume_token0, daily_volume_token1, daily_volume_usd,
				daily_txns, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now())
			ON CONFLICT (id) DO UPDATE SET
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				total_supply = EXCLUDED.total_supply,
				reserve_usd = EXCLUDED.reserve_usd,
				daily_volume_token0 = EXCLUDED.daily_volume_token0,
				daily_volume_token1 = EXCLUDED.daily_volume_token1,
				daily_volume_usd = EXCLUDED.daily_volume_usd,
				daily_txns = EXCLUDED.daily_txns,
				updated_at = now()
		`,
			d.ID,
			int64(d.Date),
			d.PairAddress,
			d.Token0,
			d.Token1,
			d.Reserve0.String(),
			d.Reserve1.String(),
			d.TotalSupply.String(),
			d.ReserveUSD.String(),
			d.DailyVolumeToken0.String(),
			d.DailyVolumeToken1.String(),
			d.DailyVolumeUSD.String(),
			int64(d.DailyTxns),
		)
	}
	return s.sendBatch(ctx, batch, len(days))
}

// UpsertPairHours inserts or updates hourly pair rollups.
func (s *Store) UpsertPairHours(ctx context.Context, hours []*model.PairHourData) error {
	if len(hours) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, h := range hours {
		batch.Queue(`
			INSERT INTO pair_hour_data (
				id, hour_start_unix, pair,
				reserve0, reserve1, total_supply, reserve_usd,
				hourly_volume_token0, hourly_volume_token1, hourly_volume_usd,
				hourly_txns, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
			ON CONFLICT (id) DO UPDATE SET
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				total_supply = EXCLUDED.total_supply,
				reserve_usd = EXCLUDED.reserve_usd,
				hourly_volume_token0 = EXCLUDED.hourly_volume_token0,
				hourly_volume_token1 = EXCLUDED.hourly_volume_token1,
				hourly_volume_usd = EXCLUDED.hourly_volume_usd,
				hourly_txns = EXCLUDED.hourly_txns,
				updated_at = now()
		`,
			h.ID,
			int64(h.HourStartUnix),
			h.Pair,
			h.Reserve0.String(),
			h.Reserve1.String(),
			h.TotalSupply.String(),
			h.ReserveUSD.String(),
			h.HourlyVolumeToken0.String(),
			h.HourlyVolumeToken1.String(),
			h.HourlyVolumeUSD.String(),
			int64(h.HourlyTxns),
		)
	}
	return s.sendBatch(ctx, batch, len(hours))
}

// UpsertTokenDays inserts or updates daily token rollups.
func (s *Store) UpsertTokenDays(ctx context.Context, days []*model.TokenDayData) error {
	if len(days) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range days {
		batch.Queue(`
			INSERT INTO token_day_data (
				id, date, token,
				daily_volume_token, daily_volume_native, daily_volume_usd, daily_txns,
				total_liquidity_token, total_liquidity_native, total_liquidity_usd,
				price_usd, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
			ON CONFLICT (id) DO UPDATE SET
				daily_volume_token = EXCLUDED.daily_volume_token,
				daily_volume_native = EXCLUDED.daily_volume_native,
				daily_volume_usd = EXCLUDED.daily_volume_usd,
				daily_txns = EXCLUDED.daily_txns,
				total_liquidity_token = EXCLUDED.total_liquidity_token,
				total_liquidity_native = EXCLUDED.total_liquidity_native,
				total_liquidity_usd = EXCLUDED.total_liquidity_usd,
				price_usd = EXCLUDED.price_usd,
				updated_at = now()
		`,
			d.ID,
			int64(d.Date),
			d.Token,
			d.DailyVolumeToken.String(),
			d.DailyVolumeNative.String(),
			d.DailyVolumeUSD.String(),
			int64(d.DailyTxns),
			d.TotalLiquidityToken.String(),
			d.TotalLiquidityNative.String(),
			d.TotalLiquidityUSD.String(),
			d.PriceUSD.String(),
		)
	}
	return s.sendBatch(ctx, batch, len(days))
}

// UpsertFactoryDays inserts or updates global daily rollups.
func (s *Store) UpsertFactoryDays(ctx context.Context, days []*model.FactoryDayData) error {
	if len(days) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range days {
		batch.Queue(`
			INSERT INTO factory_day_data (
				id, date,
				daily_volume_usd, daily_volume_native, daily_volume_untracked,
				total_volume_usd, total_volume_native,
				total_liquidity_usd, total_liquidity_native,
				tx_count, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now())
			ON CONFLICT (id) DO UPDATE SET
				daily_volume_usd = EXCLUDED.daily_volume_usd,
				daily_volume_native = EXCLUDED.daily_volume_native,
				daily_volume_untracked = EXCLUDED.daily_volume_untracked,
				total_volume_usd = EXCLUDED.total_volume_usd,
				total_volume_native = EXCLUDED.total_volume_native,
				total_liquidity_usd = EXCLUDED.total_liquidity_usd,
				total_liquidity_native = EXCLUDED.total_liquidity_native,
				tx_count = EXCLUDED.tx_count,
				updated_at = now()
		`,
			d.ID,
			int64(d.Date),
			d.DailyVolumeUSD.String(),
			d.DailyVolumeNative.String(),
			d.DailyVolumeUntracked.String(),
			d.TotalVolumeUSD.String(),
			d.TotalVolumeNative.String(),
			d.TotalLiquidityUSD.String(),
			d.TotalLiquidityNative.String(),
			int64(d.TxCount),
		)
	}
	return s.sendBatch(ctx, batch, len(days))
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, n int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_ts for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_ts FROM indexer_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return ts, true, nil
}

// SaveState upserts last_processed_ts for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO indexer_state (name, last_processed_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_ts = EXCLUDED.last_processed_ts, updated_at = now()
	`, name, ts)
	return err
}
