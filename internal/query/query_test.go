package query

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/common"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/entity"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/loader"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/schema"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/store"
)

var now = time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
	return &t
}

type fixture struct {
	users    []entity.User
	brands   []entity.Brand
	products []entity.Product
	receipts []entity.Receipt
	items    []entity.ReceiptItem
}

func receipt(id, user string, scanned *time.Time, status string, total float64, count int64) entity.Receipt {
	return entity.Receipt{
		ReceiptUUID:          &id,
		UserID:               &user,
		DateScanned:          scanned,
		RewardsReceiptStatus: &status,
		TotalSpent:           &total,
		PurchasedItemCount:   &count,
	}
}

func item(receiptID, productID string) entity.ReceiptItem {
	return entity.ReceiptItem{ReceiptID: &receiptID, ProductID: &productID}
}

func sample() fixture {
	return fixture{
		users: []entity.User{
			{UserID: ptr("u1"), CreatedDate: day(2021, 1, 1)},
			{UserID: ptr("u2"), CreatedDate: day(2020, 1, 1)},
		},
		brands: []entity.Brand{
			{BrandUUID: ptr("b1"), BrandName: ptr("Tostitos"), BrandCode: ptr("TOS")},
			{BrandUUID: ptr("b2"), BrandName: ptr("Swanson"), BrandCode: ptr("SWA")},
			{BrandUUID: ptr("b3"), BrandName: ptr("Kraft"), BrandCode: ptr("KRA")},
			{BrandUUID: ptr("b4"), BrandCode: ptr("NON")},
		},
		products: []entity.Product{
			{ProductID: ptr("111"), BrandUUID: ptr("b1")},
			{ProductID: ptr("222"), BrandUUID: ptr("b2")},
			{ProductID: ptr("333"), BrandUUID: ptr("b3")},
			{ProductID: ptr("444"), BrandUUID: ptr("b4")},
		},
		receipts: []entity.Receipt{
			receipt("r1", "u1", day(2021, 3, 1), "ACCEPTED", 10, 3),
			receipt("r2", "u1", day(2021, 2, 20), "REJECTED", 4, 1),
			receipt("r3", "u2", day(2021, 2, 1), "ACCEPTED", 20, 5),
			receipt("r4", "u2", day(2021, 1, 20), "FLAGGED", 100, 50),
			receipt("r5", "u1", day(2021, 1, 10), "ACCEPTED", 30, 2),
		},
		items: []entity.ReceiptItem{
			item("r1", "111"), item("r1", "111"), item("r1", "222"),
			item("r2", "222"), item("r2", "444"),
			item("r3", "333"),
			item("r4", "333"), item("r4", "111"),
			item("r5", "111"),
		},
	}
}

func load(t *testing.T, f fixture) *store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{Driver: common.DriverSQLite, DSN: filepath.Join(t.TempDir(), "q.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	err = loader.New(s, loader.Options{Transactional: true}, nil).Load(ctx, []loader.TableData{
		{Table: schema.Users, Rows: schema.Values(f.users)},
		{Table: schema.Receipts, Rows: schema.Values(f.receipts)},
		{Table: schema.Brands, Rows: schema.Values(f.brands)},
		{Table: schema.Products, Rows: schema.Values(f.products)},
		{Table: schema.CPG},
		{Table: schema.Category},
		{Table: schema.ReceiptItems, Rows: schema.Values(f.items)},
	})
	require.NoError(t, err)
	return s
}

func TestStatusQueries(t *testing.T) {
	s := load(t, sample())
	ctx := context.Background()

	avg, err := AverageSpendByStatus(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []StatusValue{{"ACCEPTED", 20}, {"REJECTED", 4}}, avg)

	items, err := ItemsPurchasedByStatus(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []StatusValue{{"ACCEPTED", 10}, {"REJECTED", 1}}, items)
}

func TestTopBrandsByMonth(t *testing.T) {
	s := load(t, sample())
	ctx := context.Background()

	recent, err := TopBrandsByReceiptsScanned(ctx, s, now)
	require.NoError(t, err)
	assert.Equal(t, []BrandValue{{"Swanson", 2}, {"Tostitos", 1}}, recent, "receipts count once per brand and unnamed brands are dropped")

	previous, err := TopBrandsByReceiptsScannedPreviousMonth(ctx, s, now)
	require.NoError(t, err)
	assert.Equal(t, []BrandValue{{"Kraft", 2}, {"Tostitos", 1}}, previous)
}

func TestTopBrandsLimit(t *testing.T) {
	f := sample()
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, n := range names {
		bid, pid, rid := "nb"+n, "np"+n, "nr"+n
		f.brands = append(f.brands, entity.Brand{BrandUUID: ptr(bid), BrandName: ptr(n)})
		f.products = append(f.products, entity.Product{ProductID: ptr(pid), BrandUUID: ptr(bid)})
		f.receipts = append(f.receipts, receipt(rid, "u1", day(2021, 3, 2+i), "ACCEPTED", 1, 1))
		f.items = append(f.items, item(rid, pid))
	}
	s := load(t, f)

	recent, err := TopBrandsByReceiptsScanned(context.Background(), s, now)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, BrandValue{"Swanson", 2}, recent[0])
	assert.Equal(t, []string{"A", "B", "C", "D"}, []string{recent[1].Brand, recent[2].Brand, recent[3].Brand, recent[4].Brand}, "ties break by name")
}

func TestRecentUserQueries(t *testing.T) {
	s := load(t, sample())
	ctx := context.Background()

	spend, err := TopBrandBySpendRecentUsers(ctx, s, now)
	require.NoError(t, err)
	assert.Equal(t, []BrandValue{{"Tostitos", 40}}, spend, "a receipt's total counts once per brand")

	tx, err := TopBrandByTransactionsRecentUsers(ctx, s, now)
	require.NoError(t, err)
	assert.Equal(t, []BrandValue{{"Swanson", 2}}, tx, "ties break by name")
}

func TestQueriesOnEmptyTables(t *testing.T) {
	s := load(t, fixture{})
	res, err := RunAll(context.Background(), s, func() time.Time { return now }, nil)
	require.NoError(t, err)

	assert.Equal(t, now, res.AsOf)
	assert.Empty(t, res.AverageSpend)
	assert.NotNil(t, res.AverageSpend)
	assert.Empty(t, res.ItemsPurchased)
	assert.Empty(t, res.TopBrandsThisMonth)
	assert.Empty(t, res.TopBrandsPreviousMonth)
	assert.Empty(t, res.TopBrandSpend)
	assert.Empty(t, res.TopBrandTransactions)

	_, ok := Highest(res.TopBrandSpend)
	assert.False(t, ok)
}

func TestRunAll(t *testing.T) {
	s := load(t, sample())
	res, err := RunAll(context.Background(), s, func() time.Time { return now }, nil)
	require.NoError(t, err)

	top, ok := Highest(res.AverageSpend)
	require.True(t, ok)
	assert.Equal(t, "ACCEPTED", top.Status)
	assert.Len(t, res.TopBrandsThisMonth, 2)
	assert.Len(t, res.TopBrandsPreviousMonth, 2)
	assert.Len(t, res.TopBrandSpend, 1)
	assert.Len(t, res.TopBrandTransactions, 1)
}

func TestMissingTablesGiveEmptyResults(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{Driver: common.DriverSQLite, DSN: filepath.Join(t.TempDir(), "none.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	avg, err := AverageSpendByStatus(ctx, s)
	require.NoError(t, err)
	assert.NotNil(t, avg)
	assert.Empty(t, avg)

	f := sample()
	err = loader.New(s, loader.Options{}, nil).Load(ctx, []loader.TableData{
		{Table: schema.Users, Rows: schema.Values(f.users)},
		{Table: schema.Receipts, Rows: schema.Values(f.receipts)},
	})
	require.NoError(t, err)

	res, err := RunAll(ctx, s, func() time.Time { return now }, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AverageSpend)
	assert.NotNil(t, res.TopBrandsThisMonth)
	assert.Empty(t, res.TopBrandsThisMonth)
	assert.Empty(t, res.TopBrandsPreviousMonth)
	assert.Empty(t, res.TopBrandSpend)
	assert.Empty(t, res.TopBrandTransactions)
}

func TestMonthsBefore(t *testing.T) {
	assert.Equal(t, time.Date(2021, 2, 15, 0, 0, 0, 0, time.UTC), MonthsBefore(now, 1))
	assert.Equal(t, time.Date(2020, 9, 15, 0, 0, 0, 0, time.UTC), MonthsBefore(now, 6))

	local := time.Date(2021, 3, 1, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))
	assert.Equal(t, time.Date(2021, 1, 28, 0, 0, 0, 0, time.UTC), MonthsBefore(local, 1))
}
