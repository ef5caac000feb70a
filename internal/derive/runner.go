package derive

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"pairScope/internal/model"
	"pairScope/internal/storage"
	"pairScope/internal/storage/postgres"
)

// Runner replays a typed-event JSONL stream through the engine, then flushes
// the derived state to Postgres and optionally exports the business records.
//
// Derivation is a deterministic replay from the first record; the state store
// only tracks how far a completed run reached so operators can line up input
// files between runs.
type Runner struct {
	engine    *Engine
	store     *postgres.Store
	state     StateStore
	exportDir string
	logger    *zap.Logger
}

func NewRunner(engine *Engine, store *postgres.Store, state StateStore, exportDir string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		engine:    engine,
		store:     store,
		state:     state,
		exportDir: exportDir,
		logger:    logger,
	}
}

// Run processes the input file end to end. A record the engine cannot apply
// aborts the run: derived state depends on every prior event, so skipping one
// would silently corrupt everything downstream. An input that ends before the
// stored watermark is refused, since flushing it would replace newer derived
// state with older.
func (r *Runner) Run(ctx context.Context, inputPath string) error {
	if r.engine == nil {
		return fmt.Errorf("engine is nil")
	}

	var watermark uint64
	var haveWatermark bool
	if r.state != nil {
		var err error
		watermark, haveWatermark, err = r.state.Load(ctx)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var total, applied, failed int
	var maxTs uint64

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.TypedEventRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			r.logger.Warn("parse typed event", zap.Int("line", total), zap.Error(err))
			continue
		}

		if err := r.engine.Apply(ctx, record); err != nil {
			return fmt.Errorf("apply %s event at %s-%d: %w", record.EventName, record.TxHash, record.LogIndex, err)
		}
		applied++

		if record.Timestamp > maxTs {
			maxTs = record.Timestamp
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if haveWatermark && maxTs < watermark {
		return fmt.Errorf("input ends at %d, before stored watermark %d", maxTs, watermark)
	}

	if err := r.flush(ctx); err != nil {
		return err
	}

	if r.exportDir != "" {
		if err := r.export(); err != nil {
			return err
		}
	}

	if r.state != nil && maxTs > 0 {
		if err := r.state.Save(ctx, maxTs); err != nil {
			return err
		}
	}

	r.logger.Info("derive complete",
		zap.Int("total", total),
		zap.Int("applied", applied),
		zap.Int("failed", failed),
		zap.Uint64("max_timestamp", maxTs),
	)

	return nil
}

func (r *Runner) flush(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	db := r.engine.DB()

	if err := r.store.UpsertFactory(ctx, db.Factory()); err != nil {
		return fmt.Errorf("flush factory: %w", err)
	}
	if err := r.store.UpsertTokens(ctx, db.Tokens()); err != nil {
		return fmt.Errorf("flush tokens: %w", err)
	}
	if err := r.store.UpsertPairs(ctx, db.Pairs()); err != nil {
		return fmt.Errorf("flush pairs: %w", err)
	}
	if err := r.store.UpsertPairDays(ctx, db.PairDays()); err != nil {
		return fmt.Errorf("flush pair days: %w", err)
	}
	if err := r.store.UpsertPairHours(ctx, db.PairHours()); err != nil {
		return fmt.Errorf("flush pair hours: %w", err)
	}
	if err := r.store.UpsertTokenDays(ctx, db.TokenDays()); err != nil {
		return fmt.Errorf("flush token days: %w", err)
	}
	if err := r.store.UpsertFactoryDays(ctx, db.FactoryDays()); err != nil {
		return fmt.Errorf("flush factory days: %w", err)
	}
	return nil
}

// export writes the correlated business records as JSONL, one file per kind,
// in insertion order.
func (r *Runner) export() error {
	db := r.engine.DB()

	mints := db.Mints()
	burns := db.Burns()
	swaps := db.Swaps()

	if err := exportFile(filepath.Join(r.exportDir, "mints.jsonl"), len(mints), func(i int) interface{} { return mints[i] }); err != nil {
		return err
	}
	if err := exportFile(filepath.Join(r.exportDir, "burns.jsonl"), len(burns), func(i int) interface{} { return burns[i] }); err != nil {
		return err
	}
	if err := exportFile(filepath.Join(r.exportDir, "swaps.jsonl"), len(swaps), func(i int) interface{} { return swaps[i] }); err != nil {
		return err
	}

	r.logger.Info("export complete",
		zap.String("dir", r.exportDir),
		zap.Int("mints", len(mints)),
		zap.Int("burns", len(burns)),
		zap.Int("swaps", len(swaps)),
	)
	return nil
}

func exportFile(path string, n int, at func(int) interface{}) error {
	writer, err := storage.NewJsonlWriter(path, false)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(at(i)); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}
