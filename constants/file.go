package constants

// Collection names one of the three exchange-format inputs.
type Collection string

const (
	CollectionUsers    Collection = "users"
	CollectionReceipts Collection = "receipts"
	CollectionBrands   Collection = "brands"
)

// DefaultInputFiles holds the input paths used when none are configured.
var DefaultInputFiles = map[Collection]string{
	CollectionUsers:    "./data/users.json",
	CollectionReceipts: "./data/receipts.json",
	CollectionBrands:   "./data/brands.json",
}
