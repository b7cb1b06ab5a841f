package normalize

import (
	"fmt"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/common"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/entity"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/flatten"
)

const itemListField = "rewardsReceiptItemList"

// LineItem is a decoded receipt line: the ReceiptItem row plus the descriptive
// fields the Product Deriver needs.
type LineItem struct {
	Item                         entity.ReceiptItem
	BrandCode                    *string
	Description                  *string
	ItemPrice                    *float64
	MetabriteCampaignID          *string
	OriginalMetabriteBarcode     *string
	OriginalMetabriteDescription *string
	OriginalMetabriteItemPrice   *float64
	CompetitiveProduct           *bool
	CompetitorRewardsGroup       *string
}

// ReceiptTables is the output of DecomposeReceipts.
type ReceiptTables struct {
	Receipts  []entity.Receipt
	Items     []entity.ReceiptItem
	LineItems []LineItem
}

// DecomposeReceipts splits flattened receipt records into header rows and line-item
// rows. Headers get FINISHED rewritten to ACCEPTED; items inherit the receipt id and
// fall back from barcode to itemNumber for product_id. Both are de-duplicated on
// full row identity. LineItems keeps every exploded line in source order.
func DecomposeReceipts(rows []flatten.Row) ReceiptTables {
	var out ReceiptTables
	for _, r := range rows {
		out.Receipts = append(out.Receipts, decodeReceipt(r))

		for _, ir := range flatten.Explode(r, itemListField, flatten.Parent{As: "receipt_id", Path: "_id.$oid"}) {
			li := decodeLineItem(ir)
			out.LineItems = append(out.LineItems, li)
			out.Items = append(out.Items, li.Item)
		}
	}
	out.Receipts = dedupe(out.Receipts)
	out.Items = dedupe(out.Items)
	return out
}

func decodeReceipt(r flatten.Row) entity.Receipt {
	return entity.Receipt{
		ReceiptUUID:                r.ObjectID("_id"),
		UserID:                     r.ObjectID("userId"),
		BonusPointsEarned:          r.Int("bonusPointsEarned"),
		BonusPointsReason:          r.String("bonusPointsEarnedReason"),
		CreateDate:                 r.Time("createDate"),
		DateScanned:                r.Time("dateScanned"),
		FinishedDate:               r.Time("finishedDate"),
		ModifyDate:                 r.Time("modifyDate"),
		PointsAwardedDate:          r.Time("pointsAwardedDate"),
		PurchaseDate:               r.Time("purchaseDate"),
		PointsEarned:               r.Float("pointsEarned"),
		PurchasedItemCount:         r.Int("purchasedItemCount"),
		RewardsReceiptStatus:       constants.NormalizeStatus(r.String("rewardsReceiptStatus")),
		RewardsReceiptStatusReason: r.String("rewardsReceiptStatusReason"),
		TotalSpent:                 r.Float("totalSpent"),
	}
}

func decodeLineItem(r flatten.Row) LineItem {
	return LineItem{
		Item: entity.ReceiptItem{
			ReceiptID:                          r.ObjectID("receipt_id"),
			ProductID:                          productID(r),
			FinalPrice:                         r.Float("finalPrice"),
			NeedsFetchReview:                   r.Bool("needsFetchReview"),
			PartnerItemID:                      r.String("partnerItemId"),
			PreventTargetGapPoints:             r.Bool("preventTargetGapPoints"),
			QuantityPurchased:                  r.Int("quantityPurchased"),
			UserFlaggedBarcode:                 r.String("userFlaggedBarcode"),
			UserFlaggedNewItem:                 r.Bool("userFlaggedNewItem"),
			UserFlaggedPrice:                   r.Float("userFlaggedPrice"),
			UserFlaggedQuantity:                r.Int("userFlaggedQuantity"),
			NeedsFetchReviewReason:             r.String("needsFetchReviewReason"),
			PointsNotAwardedReason:             r.String("pointsNotAwardedReason"),
			PointsPayerID:                      r.String("pointsPayerId"),
			RewardsGroup:                       r.String("rewardsGroup"),
			UserFlaggedDescription:             r.String("userFlaggedDescription"),
			RewardsProductPartnerID:            r.String("rewardsProductPartnerId"),
			DiscountedItemPrice:                r.Float("discountedItemPrice"),
			OriginalReceiptItemText:            r.String("originalReceiptItemText"),
			OriginalMetabriteQuantityPurchased: r.Int("originalMetaBriteQuantityPurchased"),
			PointsEarned:                       r.Float("pointsEarned"),
			TargetPrice:                        r.Float("targetPrice"),
			OriginalFinalPrice:                 r.Float("originalFinalPrice"),
			PriceAfterCoupon:                   r.Float("priceAfterCoupon"),
		},
		BrandCode:                    r.String("brandCode"),
		Description:                  r.String("description"),
		ItemPrice:                    r.Float("itemPrice"),
		MetabriteCampaignID:          r.String("metabriteCampaignId"),
		OriginalMetabriteBarcode:     r.String("originalMetaBriteBarcode"),
		OriginalMetabriteDescription: r.String("originalMetaBriteDescription"),
		OriginalMetabriteItemPrice:   r.Float("originalMetaBriteItemPrice"),
		CompetitiveProduct:           r.Bool("competitiveProduct"),
		CompetitorRewardsGroup:       r.String("competitorRewardsGroup"),
	}
}

// productID is the barcode, else the item number, else nil.
func productID(r flatten.Row) *string {
	if barcode := r.String("barcode"); barcode != nil {
		return barcode
	}
	return r.String("itemNumber")
}

// CheckReceiptRefs verifies that every item references a receipt produced in the same run.
func CheckReceiptRefs(receipts []entity.Receipt, items []entity.ReceiptItem) error {
	ids := make(map[string]struct{}, len(receipts))
	for _, r := range receipts {
		if r.ReceiptUUID != nil {
			ids[*r.ReceiptUUID] = struct{}{}
		}
	}
	for i, it := range items {
		if it.ReceiptID == nil {
			return fmt.Errorf("%w: receipt item %d has no receipt_id", common.ErrValidation, i)
		}
		if _, ok := ids[*it.ReceiptID]; !ok {
			return fmt.Errorf("%w: receipt item %d references unknown receipt %s", common.ErrValidation, i, *it.ReceiptID)
		}
	}
	return nil
}
