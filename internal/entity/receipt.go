package entity

import "time"

// Receipt is a receipt header; its line items live in ReceiptItem.
type Receipt struct {
	ReceiptUUID                *string    `json:"receipt_uuid"`
	UserID                     *string    `json:"user_id"`
	BonusPointsEarned          *int64     `json:"bonus_points_earned"`
	BonusPointsReason          *string    `json:"bonus_points_reason"`
	CreateDate                 *time.Time `json:"create_date"`
	DateScanned                *time.Time `json:"date_scanned"`
	FinishedDate               *time.Time `json:"finished_date"`
	ModifyDate                 *time.Time `json:"modify_date"`
	PointsAwardedDate          *time.Time `json:"points_awarded_date"`
	PurchaseDate               *time.Time `json:"purchase_date"`
	PointsEarned               *float64   `json:"points_earned"`
	PurchasedItemCount         *int64     `json:"purchased_item_count"`
	RewardsReceiptStatus       *string    `json:"rewards_receipt_status"`
	RewardsReceiptStatusReason *string    `json:"rewards_receipt_status_reason"`
	TotalSpent                 *float64   `json:"total_spent"`
}

func (r Receipt) Values() []any {
	return []any{
		deref(r.ReceiptUUID),
		deref(r.UserID),
		deref(r.BonusPointsEarned),
		deref(r.BonusPointsReason),
		deref(r.CreateDate),
		deref(r.DateScanned),
		deref(r.FinishedDate),
		deref(r.ModifyDate),
		deref(r.PointsAwardedDate),
		deref(r.PurchaseDate),
		deref(r.PointsEarned),
		deref(r.PurchasedItemCount),
		deref(r.RewardsReceiptStatus),
		deref(r.RewardsReceiptStatusReason),
		deref(r.TotalSpent),
	}
}

// ReceiptItem is one purchased line of a receipt.
type ReceiptItem struct {
	ReceiptID                          *string  `json:"receipt_id"`
	ProductID                          *string  `json:"product_id"`
	FinalPrice                         *float64 `json:"final_price"`
	NeedsFetchReview                   *bool    `json:"needs_fetch_review"`
	PartnerItemID                      *string  `json:"partner_item_id"`
	PreventTargetGapPoints             *bool    `json:"prevent_target_gap_points"`
	QuantityPurchased                  *int64   `json:"quantity_purchased"`
	UserFlaggedBarcode                 *string  `json:"user_flagged_barcode"`
	UserFlaggedNewItem                 *bool    `json:"user_flagged_new_item"`
	UserFlaggedPrice                   *float64 `json:"user_flagged_price"`
	UserFlaggedQuantity                *int64   `json:"user_flagged_quantity"`
	NeedsFetchReviewReason             *string  `json:"needs_fetch_review_reason"`
	PointsNotAwardedReason             *string  `json:"points_not_awarded_reason"`
	PointsPayerID                      *string  `json:"points_payer_id"`
	RewardsGroup                       *string  `json:"rewards_group"`
	UserFlaggedDescription             *string  `json:"user_flagged_description"`
	RewardsProductPartnerID            *string  `json:"rewards_product_partner_id"`
	DiscountedItemPrice                *float64 `json:"discounted_item_price"`
	OriginalReceiptItemText            *string  `json:"original_receipt_item_text"`
	OriginalMetabriteQuantityPurchased *int64   `json:"original_metabrite_quantity_purchased"`
	PointsEarned                       *float64 `json:"points_earned"`
	TargetPrice                        *float64 `json:"target_price"`
	OriginalFinalPrice                 *float64 `json:"original_final_price"`
	PriceAfterCoupon                   *float64 `json:"price_after_coupon"`
}

func (i ReceiptItem) Values() []any {
	return []any{
		deref(i.ReceiptID),
		deref(i.ProductID),
		deref(i.FinalPrice),
		deref(i.NeedsFetchReview),
		deref(i.PartnerItemID),
		deref(i.PreventTargetGapPoints),
		deref(i.QuantityPurchased),
		deref(i.UserFlaggedBarcode),
		deref(i.UserFlaggedNewItem),
		deref(i.UserFlaggedPrice),
		deref(i.UserFlaggedQuantity),
		deref(i.NeedsFetchReviewReason),
		deref(i.PointsNotAwardedReason),
		deref(i.PointsPayerID),
		deref(i.RewardsGroup),
		deref(i.UserFlaggedDescription),
		deref(i.RewardsProductPartnerID),
		deref(i.DiscountedItemPrice),
		deref(i.OriginalReceiptItemText),
		deref(i.OriginalMetabriteQuantityPurchased),
		deref(i.PointsEarned),
		deref(i.TargetPrice),
		deref(i.OriginalFinalPrice),
		deref(i.PriceAfterCoupon),
	}
}
