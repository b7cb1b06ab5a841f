package normalize

import "github.com/ShravyaChalla/fetch-rewards-assessment/internal/entity"

// productCandidate is a product signature before the brand join.
type productCandidate struct {
	Product   entity.Product
	BrandCode *string
}

// DeriveProducts collapses line items into one Product per distinct signature and
// attaches brand_uuid by brand_code. The join is a left join: a signature without a
// matching brand keeps a null brand_uuid, and a code matching several brands yields
// one Product per brand. A null brand_code matches nothing.
func DeriveProducts(items []LineItem, brands []entity.Brand) []entity.Product {
	cands := make([]productCandidate, 0, len(items))
	for _, li := range items {
		cands = append(cands, productCandidate{
			Product: entity.Product{
				ProductID:                    li.Item.ProductID,
				Description:                  li.Description,
				MetabriteCampaignID:          li.MetabriteCampaignID,
				OriginalMetabriteBarcode:     li.OriginalMetabriteBarcode,
				OriginalMetabriteDescription: li.OriginalMetabriteDescription,
				OriginalMetabriteItemPrice:   li.OriginalMetabriteItemPrice,
				RewardsGroup:                 li.Item.RewardsGroup,
				RewardsProductPartnerID:      li.Item.RewardsProductPartnerID,
				ProductPrice:                 li.ItemPrice,
				CompetitiveProduct:           li.CompetitiveProduct,
				CompetitorRewardsGroup:       li.CompetitorRewardsGroup,
			},
			BrandCode: li.BrandCode,
		})
	}
	cands = dedupe(cands)

	byCode := make(map[string][]*string)
	for _, b := range brands {
		if b.BrandCode == nil {
			continue
		}
		byCode[*b.BrandCode] = append(byCode[*b.BrandCode], b.BrandUUID)
	}

	products := make([]entity.Product, 0, len(cands))
	for _, c := range cands {
		var matches []*string
		if c.BrandCode != nil {
			matches = byCode[*c.BrandCode]
		}
		if len(matches) == 0 {
			products = append(products, c.Product)
			continue
		}
		for _, brandUUID := range matches {
			p := c.Product
			p.BrandUUID = brandUUID
			products = append(products, p)
		}
	}
	return dedupe(products)
}
