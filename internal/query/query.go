// Package query answers the fixed analytical questions over the normalized schema.
// Every function takes the store explicitly; time-relative questions take the
// reference time so callers can pin the clock.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/store"
)

// StatusValue is an aggregate for one receipt status.
type StatusValue struct {
	Status string
	Value  float64
}

// BrandValue is an aggregate for one brand.
type BrandValue struct {
	Brand string
	Value float64
}

const statusAverage = `
SELECT rewards_receipt_status, AVG(total_spent) AS average_spent
FROM receipts
WHERE rewards_receipt_status IN (?, ?)
GROUP BY rewards_receipt_status
ORDER BY average_spent DESC, rewards_receipt_status ASC`

const statusItemCount = `
SELECT rewards_receipt_status, SUM(purchased_item_count) AS items_purchased
FROM receipts
WHERE rewards_receipt_status IN (?, ?)
GROUP BY rewards_receipt_status
ORDER BY items_purchased DESC, rewards_receipt_status ASC`

// brandReceipts joins every brand to the receipts whose items reference its products.
const brandReceipts = `
FROM brands b
JOIN products p ON b.brand_uuid = p.brand_uuid
JOIN receipt_items ri ON p.product_id = ri.product_id
JOIN receipts r ON ri.receipt_id = r.receipt_uuid`

const scannedSince = `
SELECT b.brand_name, COUNT(DISTINCT r.receipt_uuid) AS receipts_scanned` + brandReceipts + `
WHERE b.brand_name IS NOT NULL AND r.date_scanned >= ?
GROUP BY b.brand_name
ORDER BY receipts_scanned DESC, b.brand_name ASC
LIMIT 5`

const scannedBetween = `
SELECT b.brand_name, COUNT(DISTINCT r.receipt_uuid) AS receipts_scanned` + brandReceipts + `
WHERE b.brand_name IS NOT NULL AND r.date_scanned >= ? AND r.date_scanned < ?
GROUP BY b.brand_name
ORDER BY receipts_scanned DESC, b.brand_name ASC
LIMIT 5`

// spendRecentUsers sums each receipt's total once per brand.
const spendRecentUsers = `
SELECT brand_name, SUM(total_spent) AS total_spend
FROM (
	SELECT DISTINCT b.brand_name, r.receipt_uuid, r.total_spent` + brandReceipts + `
	JOIN users u ON r.user_id = u.user_id
	WHERE b.brand_name IS NOT NULL AND u.created_date >= ?
) AS brand_spend
GROUP BY brand_name
ORDER BY total_spend DESC, brand_name ASC
LIMIT 1`

const transactionsRecentUsers = `
SELECT b.brand_name, COUNT(DISTINCT r.receipt_uuid) AS total_transactions` + brandReceipts + `
JOIN users u ON r.user_id = u.user_id
WHERE b.brand_name IS NOT NULL AND u.created_date >= ?
GROUP BY b.brand_name
ORDER BY total_transactions DESC, b.brand_name ASC
LIMIT 1`

// AverageSpendByStatus returns the average total_spent for ACCEPTED and REJECTED
// receipts, highest first.
func AverageSpendByStatus(ctx context.Context, s *store.Store) ([]StatusValue, error) {
	return statusValues(ctx, s, "average spend by status", statusAverage)
}

// ItemsPurchasedByStatus returns the summed purchased_item_count for ACCEPTED and
// REJECTED receipts, highest first.
func ItemsPurchasedByStatus(ctx context.Context, s *store.Store) ([]StatusValue, error) {
	return statusValues(ctx, s, "items purchased by status", statusItemCount)
}

// TopBrandsByReceiptsScanned returns the five brands with the most distinct receipts
// scanned since one month before now.
func TopBrandsByReceiptsScanned(ctx context.Context, s *store.Store, now time.Time) ([]BrandValue, error) {
	return brandValues(ctx, s, "top brands this month", brandTables, scannedSince, MonthsBefore(now, 1))
}

// TopBrandsByReceiptsScannedPreviousMonth returns the same ranking for the month
// immediately preceding the one used by TopBrandsByReceiptsScanned.
func TopBrandsByReceiptsScannedPreviousMonth(ctx context.Context, s *store.Store, now time.Time) ([]BrandValue, error) {
	return brandValues(ctx, s, "top brands previous month", brandTables, scannedBetween, MonthsBefore(now, 2), MonthsBefore(now, 1))
}

// TopBrandBySpendRecentUsers returns the brand with the most spend among users
// created within the six months before now.
func TopBrandBySpendRecentUsers(ctx context.Context, s *store.Store, now time.Time) ([]BrandValue, error) {
	return brandValues(ctx, s, "top brand by spend", recentUserTables, spendRecentUsers, MonthsBefore(now, 6))
}

// TopBrandByTransactionsRecentUsers returns the brand with the most receipts among
// users created within the six months before now.
func TopBrandByTransactionsRecentUsers(ctx context.Context, s *store.Store, now time.Time) ([]BrandValue, error) {
	return brandValues(ctx, s, "top brand by transactions", recentUserTables, transactionsRecentUsers, MonthsBefore(now, 6))
}

// Tables read by the brand rankings.
var (
	brandTables = []constants.Table{
		constants.TableBrands,
		constants.TableProducts,
		constants.TableReceiptItems,
		constants.TableReceipts,
	}
	recentUserTables = append(brandTables[:len(brandTables):len(brandTables)], constants.TableUsers)
)

// loaded reports whether every table exists; a partially loaded store answers
// with empty results instead of errors.
func loaded(ctx context.Context, s *store.Store, tables ...constants.Table) (bool, error) {
	for _, t := range tables {
		ok, err := s.TableExists(ctx, string(t))
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func wrapName(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// MonthsBefore returns UTC midnight of the day n calendar months before now.
func MonthsBefore(now time.Time, n int) time.Time {
	t := now.UTC().AddDate(0, -n, 0)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func statusValues(ctx context.Context, s *store.Store, name, q string) ([]StatusValue, error) {
	if ok, err := loaded(ctx, s, constants.TableReceipts); err != nil || !ok {
		return []StatusValue{}, wrapName(name, err)
	}
	args := make([]any, len(constants.ComparedStatuses))
	for i, st := range constants.ComparedStatuses {
		args[i] = string(st)
	}
	out := []StatusValue{}
	err := s.QueryRows(ctx, q, args, func(rows *entsql.Rows) error {
		var (
			status string
			value  sql.NullFloat64
		)
		if err := rows.Scan(&status, &value); err != nil {
			return err
		}
		out = append(out, StatusValue{Status: status, Value: value.Float64})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func brandValues(ctx context.Context, s *store.Store, name string, tables []constants.Table, q string, args ...any) ([]BrandValue, error) {
	if ok, err := loaded(ctx, s, tables...); err != nil || !ok {
		return []BrandValue{}, wrapName(name, err)
	}
	out := []BrandValue{}
	err := s.QueryRows(ctx, q, args, func(rows *entsql.Rows) error {
		var (
			brand string
			value sql.NullFloat64
		)
		if err := rows.Scan(&brand, &value); err != nil {
			return err
		}
		out = append(out, BrandValue{Brand: brand, Value: value.Float64})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
