package constants

// ReceiptStatus is the rewards_receipt_status value stored on receipts.
type ReceiptStatus string

// Values seen in the receipts export.
const (
	ReceiptStatusAccepted  ReceiptStatus = "ACCEPTED"
	ReceiptStatusFinished  ReceiptStatus = "FINISHED" // legacy spelling of ACCEPTED
	ReceiptStatusRejected  ReceiptStatus = "REJECTED"
	ReceiptStatusFlagged   ReceiptStatus = "FLAGGED"
	ReceiptStatusPending   ReceiptStatus = "PENDING"
	ReceiptStatusSubmitted ReceiptStatus = "SUBMITTED"
)

// ComparedStatuses are the statuses the spend and item-count questions compare.
var ComparedStatuses = []ReceiptStatus{ReceiptStatusRejected, ReceiptStatusAccepted}

// NormalizeStatus rewrites FINISHED to ACCEPTED. Every other value, including nil,
// is returned unchanged.
func NormalizeStatus(s *string) *string {
	if s == nil || *s != string(ReceiptStatusFinished) {
		return s
	}
	accepted := string(ReceiptStatusAccepted)
	return &accepted
}
