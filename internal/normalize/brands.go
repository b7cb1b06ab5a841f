package normalize

import (
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/entity"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/flatten"
)

// BrandTables is the output of DecomposeBrands.
type BrandTables struct {
	CPGs       []entity.CPG
	Categories []entity.Category
	Brands     []entity.Brand
}

// DecomposeBrands splits brand records into CPG, Category and cleaned Brand rows,
// each de-duplicated on full row identity.
//
// A CPG row needs a cpg id: brands without a cpg object contribute none, while a cpg
// without a $ref contributes a row with a null reference. Only the all-null
// category triple is omitted.
func DecomposeBrands(rows []flatten.Row) BrandTables {
	var out BrandTables
	for _, r := range rows {
		cpgID := r.ObjectID("cpg.$id")
		if cpgID != nil {
			out.CPGs = append(out.CPGs, entity.CPG{
				CPGID:        cpgID,
				CPGReference: r.String("cpg.$ref"),
			})
		}

		name := r.String("category")
		code := r.String("categoryCode")
		if name != nil || code != nil || cpgID != nil {
			out.Categories = append(out.Categories, entity.Category{
				CategoryName: name,
				CategoryCode: code,
				CPGID:        cpgID,
			})
		}

		out.Brands = append(out.Brands, entity.Brand{
			BrandUUID:    r.ObjectID("_id"),
			Barcode:      r.String("barcode"),
			BrandCode:    r.String("brandCode"),
			BrandName:    r.String("name"),
			CategoryCode: code,
			TopBrand:     r.Bool("topBrand"),
		})
	}

	out.CPGs = dedupe(out.CPGs)
	out.Categories = dedupe(out.Categories)
	out.Brands = dedupe(out.Brands)
	return out
}
