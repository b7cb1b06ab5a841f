package schema

import "github.com/ShravyaChalla/fetch-rewards-assessment/constants"

var Users = Table{
	Name: constants.TableUsers,
	Columns: []Column{
		{"user_id", String},
		{"active", Boolean},
		{"role", String},
		{"sign_up_source", String},
		{"created_date", Timestamp},
		{"last_login", Timestamp},
	},
}

var CPG = Table{
	Name: constants.TableCPG,
	Columns: []Column{
		{"cpg_id", String},
		{"cpg_reference", String},
	},
}

var Category = Table{
	Name: constants.TableCategory,
	Columns: []Column{
		{"category_name", String},
		{"category_code", String},
		{"cpg_id", String},
	},
}

var Brands = Table{
	Name: constants.TableBrands,
	Columns: []Column{
		{"brand_uuid", String},
		{"barcode", String},
		{"brand_code", String},
		{"brand_name", String},
		{"category_code", String},
		{"top_brand", Boolean},
	},
}

var Products = Table{
	Name: constants.TableProducts,
	Columns: []Column{
		{"product_id", String},
		{"brand_uuid", String},
		{"description", String},
		{"metabrite_campaign_id", String},
		{"original_metabrite_barcode", String},
		{"original_metabrite_description", String},
		{"original_metabrite_item_price", Float},
		{"rewards_group", String},
		{"rewards_product_partner_id", String},
		{"product_price", Float},
		{"competitive_product", Boolean},
		{"competitor_rewards_group", String},
	},
}

var Receipts = Table{
	Name: constants.TableReceipts,
	Columns: []Column{
		{"receipt_uuid", String},
		{"user_id", String},
		{"bonus_points_earned", Integer},
		{"bonus_points_reason", String},
		{"create_date", Timestamp},
		{"date_scanned", Timestamp},
		{"finished_date", Timestamp},
		{"modify_date", Timestamp},
		{"points_awarded_date", Timestamp},
		{"purchase_date", Timestamp},
		{"points_earned", Float},
		{"purchased_item_count", Integer},
		{"rewards_receipt_status", String},
		{"rewards_receipt_status_reason", String},
		{"total_spent", Float},
	},
}

var ReceiptItems = Table{
	Name: constants.TableReceiptItems,
	Columns: []Column{
		{"receipt_id", String},
		{"product_id", String},
		{"final_price", Float},
		{"needs_fetch_review", Boolean},
		{"partner_item_id", String},
		{"prevent_target_gap_points", Boolean},
		{"quantity_purchased", Integer},
		{"user_flagged_barcode", String},
		{"user_flagged_new_item", Boolean},
		{"user_flagged_price", Float},
		{"user_flagged_quantity", Integer},
		{"needs_fetch_review_reason", String},
		{"points_not_awarded_reason", String},
		{"points_payer_id", String},
		{"rewards_group", String},
		{"user_flagged_description", String},
		{"rewards_product_partner_id", String},
		{"discounted_item_price", Float},
		{"original_receipt_item_text", String},
		{"original_metabrite_quantity_purchased", Integer},
		{"points_earned", Float},
		{"target_price", Float},
		{"original_final_price", Float},
		{"price_after_coupon", Float},
	},
}

// All returns the seven tables in load order.
func All() []Table {
	return []Table{Users, Receipts, Brands, Products, CPG, Category, ReceiptItems}
}
