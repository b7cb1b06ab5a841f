// Package loader replaces the normalized tables in the relational store.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/common"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/schema"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/store"
)

const defaultBatchSize = 200

// TableData is one table definition and its rows in column order.
type TableData struct {
	Table schema.Table
	Rows  [][]any
}

// Options controls how tables are written.
type Options struct {
	// Transactional wraps every table replace in one transaction.
	Transactional bool
	BatchSize     int
}

// Loader drops, recreates and fills tables.
type Loader struct {
	store  *store.Store
	opts   Options
	logger *slog.Logger
}

func New(s *store.Store, opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Loader{store: s, opts: opts, logger: logger}
}

// Load checks every row against its table schema, then replaces the tables in the
// given order. Without Transactional a failure leaves earlier tables replaced and
// later ones stale.
func (l *Loader) Load(ctx context.Context, tables []TableData) error {
	for _, td := range tables {
		if err := td.Table.Check(td.Rows); err != nil {
			return fmt.Errorf("table %s: %w", td.Table.Name, err)
		}
	}

	start := time.Now()
	if !l.opts.Transactional {
		for _, td := range tables {
			if err := l.replace(ctx, l.store.Driver(), td); err != nil {
				return err
			}
		}
		l.logger.Info("tables replaced", "tables", len(tables), "transactional", false, "duration", time.Since(start))
		return nil
	}

	tx, err := l.store.Driver().Tx(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", common.ErrDatabase, err)
	}
	for _, td := range tables {
		if err := l.replace(ctx, tx, td); err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				l.logger.Error("rollback failed", "error", rerr)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", common.ErrDatabase, err)
	}
	l.logger.Info("tables replaced", "tables", len(tables), "transactional", true, "duration", time.Since(start))
	return nil
}

// replace drops and recreates one table, then inserts its rows in batches.
func (l *Loader) replace(ctx context.Context, ex dialect.ExecQuerier, td TableData) error {
	name := string(td.Table.Name)
	b := entsql.Dialect(l.store.Dialect())

	if err := ex.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", name), []any{}, nil); err != nil {
		return fmt.Errorf("%w: drop %s: %v", common.ErrDatabase, name, err)
	}

	if err := ex.Exec(ctx, createTable(b, l.store.Dialect(), td.Table), []any{}, nil); err != nil {
		return fmt.Errorf("%w: create %s: %v", common.ErrDatabase, name, err)
	}

	names := td.Table.ColumnNames()
	for start := 0; start < len(td.Rows); start += l.opts.BatchSize {
		end := min(start+l.opts.BatchSize, len(td.Rows))
		insert := b.Insert(name).Columns(names...)
		for _, row := range td.Rows[start:end] {
			insert.Values(row...)
		}
		query, args := insert.Query()
		if err := ex.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("%w: insert %s rows %d-%d: %v", common.ErrDatabase, name, start, end-1, err)
		}
	}

	l.logger.Debug("table replaced", "table", name, "rows", len(td.Rows))
	return nil
}

// createTable renders CREATE TABLE for t, each column definition coming from
// the dialect's column builder.
func createTable(b *entsql.DialectBuilder, d string, t schema.Table) string {
	return b.String(func(sb *entsql.Builder) {
		sb.WriteString("CREATE TABLE ").Ident(string(t.Name)).WriteString(" (")
		for i, c := range t.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			def, _ := b.Column(c.Name).Type(c.Type.SQLType(d)).Query()
			sb.WriteString(def)
		}
		sb.WriteString(")")
	})
}
