package pipeline

import (
	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/entity"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/exchange"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/flatten"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/loader"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/normalize"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/schema"
)

// Dataset is the seven normalized tables of one run.
type Dataset struct {
	Users        []entity.User
	CPGs         []entity.CPG
	Categories   []entity.Category
	Brands       []entity.Brand
	Products     []entity.Product
	Receipts     []entity.Receipt
	ReceiptItems []entity.ReceiptItem
}

// Normalize reshapes raw records into the normalized tables. Brands and receipts are
// decomposed first because products need both the cleaned brands and every line item.
func Normalize(users, receipts, brands []exchange.Record) (*Dataset, error) {
	bt := normalize.DecomposeBrands(flattenAll(brands))
	rt := normalize.DecomposeReceipts(flattenAll(receipts))
	if err := normalize.CheckReceiptRefs(rt.Receipts, rt.Items); err != nil {
		return nil, err
	}

	return &Dataset{
		Users:        normalize.DecodeUsers(flattenAll(users)),
		CPGs:         bt.CPGs,
		Categories:   bt.Categories,
		Brands:       bt.Brands,
		Products:     normalize.DeriveProducts(rt.LineItems, bt.Brands),
		Receipts:     rt.Receipts,
		ReceiptItems: rt.Items,
	}, nil
}

func flattenAll(recs []exchange.Record) []flatten.Row {
	rows := make([]flatten.Row, len(recs))
	for i, r := range recs {
		rows[i] = flatten.Flatten(r)
	}
	return rows
}

// Tables returns the dataset as loader input, in load order.
func (d *Dataset) Tables() []loader.TableData {
	return []loader.TableData{
		{Table: schema.Users, Rows: schema.Values(d.Users)},
		{Table: schema.Receipts, Rows: schema.Values(d.Receipts)},
		{Table: schema.Brands, Rows: schema.Values(d.Brands)},
		{Table: schema.Products, Rows: schema.Values(d.Products)},
		{Table: schema.CPG, Rows: schema.Values(d.CPGs)},
		{Table: schema.Category, Rows: schema.Values(d.Categories)},
		{Table: schema.ReceiptItems, Rows: schema.Values(d.ReceiptItems)},
	}
}

// RowCounts returns the number of rows per table.
func (d *Dataset) RowCounts() map[constants.Table]int {
	counts := make(map[constants.Table]int, 7)
	for _, td := range d.Tables() {
		counts[td.Table.Name] = len(td.Rows)
	}
	return counts
}
