package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/store"
)

// Clock returns the reference time for the month and six-month windows.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// Results holds the answers to all six questions.
type Results struct {
	AsOf                   time.Time
	AverageSpend           []StatusValue
	ItemsPurchased         []StatusValue
	TopBrandsThisMonth     []BrandValue
	TopBrandsPreviousMonth []BrandValue
	TopBrandSpend          []BrandValue
	TopBrandTransactions   []BrandValue
}

// RunAll answers every question against s, reading the clock once.
func RunAll(ctx context.Context, s *store.Store, clock Clock, logger *slog.Logger) (*Results, error) {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := clock()
	res := &Results{AsOf: now}

	var err error
	if res.AverageSpend, err = AverageSpendByStatus(ctx, s); err != nil {
		return nil, err
	}
	if res.ItemsPurchased, err = ItemsPurchasedByStatus(ctx, s); err != nil {
		return nil, err
	}
	if res.TopBrandsThisMonth, err = TopBrandsByReceiptsScanned(ctx, s, now); err != nil {
		return nil, err
	}
	if res.TopBrandsPreviousMonth, err = TopBrandsByReceiptsScannedPreviousMonth(ctx, s, now); err != nil {
		return nil, err
	}
	if res.TopBrandSpend, err = TopBrandBySpendRecentUsers(ctx, s, now); err != nil {
		return nil, err
	}
	if res.TopBrandTransactions, err = TopBrandByTransactionsRecentUsers(ctx, s, now); err != nil {
		return nil, err
	}

	logger.Info("queries complete",
		"as_of", now.UTC().Format(time.RFC3339),
		"status_rows", len(res.AverageSpend),
		"top_brands_this_month", len(res.TopBrandsThisMonth),
		"top_brands_previous_month", len(res.TopBrandsPreviousMonth))
	return res, nil
}

// Highest returns the first (highest ranked) row, or false when there is none.
func Highest[T any](rows []T) (T, bool) {
	var zero T
	if len(rows) == 0 {
		return zero, false
	}
	return rows[0], true
}
