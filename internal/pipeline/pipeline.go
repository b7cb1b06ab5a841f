package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/common"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/exchange"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/loader"
)

// Inputs are the three exchange-format files of a run.
type Inputs struct {
	UsersPath    string
	ReceiptsPath string
	BrandsPath   string
}

// InputsFrom maps the application input configuration onto Inputs.
func InputsFrom(c common.InputConfig) Inputs {
	return Inputs{UsersPath: c.UsersPath, ReceiptsPath: c.ReceiptsPath, BrandsPath: c.BrandsPath}
}

// Summary describes a completed run.
type Summary struct {
	RunID    uuid.UUID
	Read     map[constants.Collection]exchange.ReadStats
	Rows     map[constants.Table]int
	Duration time.Duration
}

// Pipeline runs read -> normalize -> load, sequentially.
type Pipeline struct {
	Logger *slog.Logger
	Reader *exchange.Reader
	Loader *loader.Loader
}

func New(logger *slog.Logger, reader *exchange.Reader, ld *loader.Loader) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Logger: logger, Reader: reader, Loader: ld}
}

// Build reads the three inputs and normalizes them without touching the store.
func (p *Pipeline) Build(ctx context.Context, in Inputs) (*Dataset, map[constants.Collection]exchange.ReadStats, error) {
	return p.build(ctx, p.Logger, in)
}

func (p *Pipeline) build(ctx context.Context, log *slog.Logger, in Inputs) (*Dataset, map[constants.Collection]exchange.ReadStats, error) {
	files := []struct {
		c    constants.Collection
		path string
	}{
		{constants.CollectionUsers, in.UsersPath},
		{constants.CollectionReceipts, in.ReceiptsPath},
		{constants.CollectionBrands, in.BrandsPath},
	}

	records := make(map[constants.Collection][]exchange.Record, len(files))
	stats := make(map[constants.Collection]exchange.ReadStats, len(files))
	for _, f := range files {
		recs, st, err := p.Reader.ReadFile(ctx, f.path, f.c)
		if err != nil {
			log.Error("pipeline.read.failed", "collection", f.c, "file", f.path, "error", err)
			return nil, nil, common.NewAppError(common.CodeInput, "read "+string(f.c), err)
		}
		records[f.c] = recs
		stats[f.c] = st
	}

	ds, err := Normalize(records[constants.CollectionUsers], records[constants.CollectionReceipts], records[constants.CollectionBrands])
	if err != nil {
		log.Error("pipeline.normalize.failed", "error", err)
		return nil, nil, common.WrapError(err, "normalize")
	}
	log.Info("pipeline.normalize.ok",
		"users", len(ds.Users),
		"receipts", len(ds.Receipts),
		"receipt_items", len(ds.ReceiptItems),
		"brands", len(ds.Brands),
		"products", len(ds.Products),
		"cpg", len(ds.CPGs),
		"categories", len(ds.Categories))
	return ds, stats, nil
}

// Run builds the dataset and replaces the destination tables with it.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Summary, error) {
	start := time.Now()
	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID)
	log := p.Logger.With("run_id", runID)

	log.Info("pipeline.start", "users", in.UsersPath, "receipts", in.ReceiptsPath, "brands", in.BrandsPath)
	ds, stats, err := p.build(ctx, log, in)
	if err != nil {
		return nil, err
	}

	if err := p.Loader.Load(ctx, ds.Tables()); err != nil {
		log.Error("pipeline.load.failed", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "load", err)
	}

	sum := &Summary{
		RunID:    common.RunIDFromContext(ctx),
		Read:     stats,
		Rows:     ds.RowCounts(),
		Duration: time.Since(start),
	}
	log.Info("pipeline.ok", "duration", sum.Duration)
	return sum, nil
}
