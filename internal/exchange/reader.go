package exchange

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
)

// Record is one decoded exchange-format document. Numbers are json.Number.
type Record = map[string]any

// Policy decides what happens to a malformed line.
type Policy int

const (
	// FailFast aborts the read on the first malformed line.
	FailFast Policy = iota
	// SkipMalformed logs the line and keeps reading.
	SkipMalformed
)

func (p Policy) String() string {
	if p == SkipMalformed {
		return "skip"
	}
	return "fail-fast"
}

const maxLineBytes = 32 * 1024 * 1024

// ReadStats summarises a single file read.
type ReadStats struct {
	Lines   int
	Records int
	Blank   int
	Skipped int
}

// Reader parses newline-delimited exchange-format files.
type Reader struct {
	policy  Policy
	schemas map[constants.Collection]*jsonschema.Schema
	logger  *slog.Logger
}

// NewReader compiles the per-collection schemas.
func NewReader(policy Policy, logger *slog.Logger) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schemas := make(map[constants.Collection]*jsonschema.Schema, 3)
	for _, c := range []constants.Collection{constants.CollectionUsers, constants.CollectionReceipts, constants.CollectionBrands} {
		s, err := compileSchema(string(c), BuildCollectionSchema(c))
		if err != nil {
			return nil, fmt.Errorf("%s schema: %w", c, err)
		}
		schemas[c] = s
	}
	return &Reader{policy: policy, schemas: schemas, logger: logger}, nil
}

// ReadFile reads every record of the file at path.
func (r *Reader) ReadFile(ctx context.Context, path string, c constants.Collection) ([]Record, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(ctx, f, path, c)
}

// Read reads records from src; name is used in errors and logs.
func (r *Reader) Read(ctx context.Context, src io.Reader, name string, c constants.Collection) ([]Record, ReadStats, error) {
	schema, ok := r.schemas[c]
	if !ok {
		return nil, ReadStats{}, fmt.Errorf("unknown collection %q", c)
	}

	var (
		records []Record
		stats   ReadStats
	)
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.Lines++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			stats.Blank++
			continue
		}

		rec, err := decodeLine(line)
		if err == nil {
			if verr := schema.Validate(rec); verr != nil {
				err = fmt.Errorf("%s record does not match schema: %w", c, verr)
			}
		}
		if err != nil {
			perr := &ParseError{Path: name, Line: stats.Lines, Err: err}
			if r.policy == FailFast {
				r.logger.Error("malformed input line", "file", name, "line", stats.Lines, "error", err)
				return nil, stats, perr
			}
			r.logger.Warn("skipping malformed input line", "file", name, "line", stats.Lines, "error", err)
			stats.Skipped++
			continue
		}
		records = append(records, rec)
		stats.Records++
	}
	if err := sc.Err(); err != nil {
		return nil, stats, &ParseError{Path: name, Line: stats.Lines + 1, Err: err}
	}

	r.logger.Info("read input file",
		"file", name,
		"collection", c,
		"lines", stats.Lines,
		"records", stats.Records,
		"skipped", stats.Skipped)
	return records, stats, nil
}

// decodeLine decodes exactly one JSON object.
func decodeLine(line []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after record")
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("record is %T, want object", v)
	}
	return rec, nil
}
