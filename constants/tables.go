package constants

// Table is the name of a destination table in the relational store.
type Table string

const (
	TableUsers        Table = "users"
	TableReceipts     Table = "receipts"
	TableBrands       Table = "brands"
	TableProducts     Table = "products"
	TableCPG          Table = "cpg"
	TableCategory     Table = "category"
	TableReceiptItems Table = "receipt_items"
)

// allTables is the load order.
var allTables = []Table{
	TableUsers,
	TableReceipts,
	TableBrands,
	TableProducts,
	TableCPG,
	TableCategory,
	TableReceiptItems,
}

// Tables returns the seven destination tables in load order.
func Tables() []Table {
	out := make([]Table, len(allTables))
	copy(out, allTables)
	return out
}
