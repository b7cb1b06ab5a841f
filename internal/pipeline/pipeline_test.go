package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/common"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/exchange"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/loader"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/query"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/schema"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/store"
)

var (
	usersFile = []string{
		`{"_id":{"$oid":"5ff1e194b6a9d73a3a9f1052"},"active":true,"createdDate":{"$date":1609687444800},"role":"consumer","signUpSource":"Email"}`,
		`{"_id":{"$oid":"5ff1e194b6a9d73a3a9f1052"},"active":true,"createdDate":{"$date":1609687444800},"role":"consumer","signUpSource":"Email"}`,
		`{"_id":{"$oid":"5ff1e1eacfcf6c399c274ae6"},"active":true,"createdDate":{"$date":1609687530554},"role":"consumer"}`,
	}
	brandsFile = []string{
		`{"_id":{"$oid":"601ac115be37ce2ead437551"},"barcode":"511111019862","brandCode":"TOS","category":"Baking","categoryCode":"BAKING","cpg":{"$id":{"$oid":"601ac114be37ce2ead437550"},"$ref":"Cogs"},"name":"Tostitos","topBrand":false}`,
		`{"_id":{"$oid":"601c5460be37ce2ead43755f"},"barcode":"511111519928","brandCode":"SWA","name":"Swanson"}`,
	}
	receiptsFile = []string{
		`{"_id":{"$oid":"5ff1e1eb0a720f0523000575"},"userId":"5ff1e194b6a9d73a3a9f1052","dateScanned":{"$date":1609687531000},"rewardsReceiptStatus":"FINISHED","totalSpent":"10.00","purchasedItemCount":1,"rewardsReceiptItemList":[{"barcode":"111","brandCode":"TOS","finalPrice":"10.00","itemPrice":"10.00"}]}`,
		``,
		`{"_id":{"$oid":"5ff1e1bb0a720f052300056b"},"userId":"5ff1e1eacfcf6c399c274ae6","dateScanned":{"$date":1609687483000},"rewardsReceiptStatus":"REJECTED","totalSpent":"4.00","purchasedItemCount":1,"rewardsReceiptItemList":[{"barcode":null,"itemNumber":"123","finalPrice":"4.00"}]}`,
	}
)

func writeInputs(t *testing.T, receipts []string) Inputs {
	t.Helper()
	dir := t.TempDir()
	write := func(name string, lines []string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
		return p
	}
	return Inputs{
		UsersPath:    write("users.json", usersFile),
		ReceiptsPath: write("receipts.json", receipts),
		BrandsPath:   write("brands.json", brandsFile),
	}
}

func newPipeline(t *testing.T, policy exchange.Policy) (*Pipeline, *store.Store) {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{Driver: common.DriverSQLite, DSN: filepath.Join(t.TempDir(), "rewards.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	r, err := exchange.NewReader(policy, nil)
	require.NoError(t, err)
	return New(nil, r, loader.New(s, loader.Options{Transactional: true}, nil)), s
}

func TestRun(t *testing.T) {
	p, s := newPipeline(t, exchange.FailFast)
	ctx := context.Background()

	sum, err := p.Run(ctx, writeInputs(t, receiptsFile))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sum.RunID)
	assert.Equal(t, 3, sum.Read[constants.CollectionUsers].Records)
	assert.Equal(t, 1, sum.Read[constants.CollectionReceipts].Blank)
	assert.Equal(t, map[constants.Table]int{
		constants.TableUsers:        2,
		constants.TableReceipts:     2,
		constants.TableBrands:       2,
		constants.TableProducts:     2,
		constants.TableCPG:          1,
		constants.TableCategory:     1,
		constants.TableReceiptItems: 2,
	}, sum.Rows)

	for table, want := range sum.Rows {
		n, err := s.CountRows(ctx, string(table))
		require.NoError(t, err)
		assert.Equal(t, int64(want), n, table)
	}

	// FINISHED is loaded as ACCEPTED and ranks above REJECTED
	avg, err := query.AverageSpendByStatus(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []query.StatusValue{{Status: "ACCEPTED", Value: 10}, {Status: "REJECTED", Value: 4}}, avg)
}

func TestRunIsIdempotent(t *testing.T) {
	p, s := newPipeline(t, exchange.FailFast)
	ctx := context.Background()
	in := writeInputs(t, receiptsFile)

	first, err := p.Run(ctx, in)
	require.NoError(t, err)
	before := dump(t, s)
	second, err := p.Run(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, before, dump(t, s))
	assert.Len(t, before[string(constants.TableReceiptItems)], 2)
	assert.NotEmpty(t, before[string(constants.TableUsers)])
}

// dump renders every table's rows in a stable order.
func dump(t *testing.T, s *store.Store) map[string][]string {
	t.Helper()
	out := map[string][]string{}
	for _, tbl := range schema.All() {
		cols := tbl.ColumnNames()
		quoted := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = fmt.Sprintf("%q", c)
		}
		list := strings.Join(quoted, ", ")
		q := fmt.Sprintf("SELECT %s FROM %q ORDER BY %s", list, string(tbl.Name), list)
		rows := []string{}
		err := s.QueryRows(context.Background(), q, nil, func(r *entsql.Rows) error {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := r.Scan(ptrs...); err != nil {
				return err
			}
			rows = append(rows, fmt.Sprint(vals...))
			return nil
		})
		require.NoError(t, err)
		out[string(tbl.Name)] = rows
	}
	return out
}

func TestRunMalformedInputLeavesStoreUntouched(t *testing.T) {
	p, s := newPipeline(t, exchange.FailFast)
	ctx := context.Background()

	_, err := p.Run(ctx, writeInputs(t, receiptsFile))
	require.NoError(t, err)

	broken := append([]string{receiptsFile[0], `{"_id": {"$oid": "5ff1e1bb0a720f052300056c"}, `}, receiptsFile[2])
	_, err = p.Run(ctx, writeInputs(t, broken))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrParse))
	assert.ErrorIs(t, err, &common.AppError{Code: common.CodeInput})

	var perr *exchange.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)

	n, err := s.CountRows(ctx, string(constants.TableReceipts))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRunSkipMalformed(t *testing.T) {
	p, _ := newPipeline(t, exchange.SkipMalformed)

	broken := append([]string{`not json`}, receiptsFile...)
	sum, err := p.Run(context.Background(), writeInputs(t, broken))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Read[constants.CollectionReceipts].Skipped)
	assert.Equal(t, 2, sum.Rows[constants.TableReceipts])
}

func TestBuildProductFallbackAndJoin(t *testing.T) {
	p, _ := newPipeline(t, exchange.FailFast)

	ds, _, err := p.Build(context.Background(), writeInputs(t, receiptsFile))
	require.NoError(t, err)

	require.Len(t, ds.ReceiptItems, 2)
	assert.Equal(t, "111", *ds.ReceiptItems[0].ProductID)
	assert.Equal(t, "123", *ds.ReceiptItems[1].ProductID)

	require.Len(t, ds.Products, 2)
	assert.Equal(t, "601ac115be37ce2ead437551", *ds.Products[0].BrandUUID)
	assert.Nil(t, ds.Products[1].BrandUUID)

	require.Len(t, ds.CPGs, 1)
	assert.Equal(t, "Cogs", *ds.CPGs[0].CPGReference)
}

func TestNormalizeEmptyInputs(t *testing.T) {
	ds, err := Normalize(nil, nil, nil)
	require.NoError(t, err)
	for _, td := range ds.Tables() {
		assert.Empty(t, td.Rows, td.Table.Name)
	}
	assert.Len(t, ds.Tables(), 7)
}
