package entity

// CPG is a Consumer-Packaged-Goods reference derived from brands.
type CPG struct {
	CPGID        *string `json:"cpg_id"`
	CPGReference *string `json:"cpg_reference"`
}

func (c CPG) Values() []any {
	return []any{deref(c.CPGID), deref(c.CPGReference)}
}

// Category is a brand category derived from brands.
type Category struct {
	CategoryName *string `json:"category_name"`
	CategoryCode *string `json:"category_code"`
	CPGID        *string `json:"cpg_id"`
}

func (c Category) Values() []any {
	return []any{deref(c.CategoryName), deref(c.CategoryCode), deref(c.CPGID)}
}

// Brand is a cleaned brand catalog row; cpg and category name live in CPG and Category.
type Brand struct {
	BrandUUID    *string `json:"brand_uuid"`
	Barcode      *string `json:"barcode"`
	BrandCode    *string `json:"brand_code"`
	BrandName    *string `json:"brand_name"`
	CategoryCode *string `json:"category_code"`
	TopBrand     *bool   `json:"top_brand"`
}

func (b Brand) Values() []any {
	return []any{
		deref(b.BrandUUID),
		deref(b.Barcode),
		deref(b.BrandCode),
		deref(b.BrandName),
		deref(b.CategoryCode),
		deref(b.TopBrand),
	}
}

// Product is a canonical catalog row derived from receipt line items.
type Product struct {
	ProductID                    *string  `json:"product_id"`
	BrandUUID                    *string  `json:"brand_uuid"`
	Description                  *string  `json:"description"`
	MetabriteCampaignID          *string  `json:"metabrite_campaign_id"`
	OriginalMetabriteBarcode     *string  `json:"original_metabrite_barcode"`
	OriginalMetabriteDescription *string  `json:"original_metabrite_description"`
	OriginalMetabriteItemPrice   *float64 `json:"original_metabrite_item_price"`
	RewardsGroup                 *string  `json:"rewards_group"`
	RewardsProductPartnerID      *string  `json:"rewards_product_partner_id"`
	ProductPrice                 *float64 `json:"product_price"`
	CompetitiveProduct           *bool    `json:"competitive_product"`
	CompetitorRewardsGroup       *string  `json:"competitor_rewards_group"`
}

func (p Product) Values() []any {
	return []any{
		deref(p.ProductID),
		deref(p.BrandUUID),
		deref(p.Description),
		deref(p.MetabriteCampaignID),
		deref(p.OriginalMetabriteBarcode),
		deref(p.OriginalMetabriteDescription),
		deref(p.OriginalMetabriteItemPrice),
		deref(p.RewardsGroup),
		deref(p.RewardsProductPartnerID),
		deref(p.ProductPrice),
		deref(p.CompetitiveProduct),
		deref(p.CompetitorRewardsGroup),
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
