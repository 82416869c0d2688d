package models

import "time"

// Product categories shown in the storefront navigation.
const (
	CategoryWomen       = "women"
	CategoryMen         = "men"
	CategoryKids        = "kids"
	CategoryBestSellers = "best-sellers"
	CategoryBrand       = "brand"
)

var Categories = []string{
	CategoryWomen,
	CategoryMen,
	CategoryKids,
	CategoryBestSellers,
	CategoryBrand,
}

func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Color struct {
	Name string `json:"name" bson:"name"`
	Hex  string `json:"hex" bson:"hex"`
}

// Product is a catalog document. Prices are whole-naira amounts.
// Owned by the catalog; the only mutation outside admin edits is the
// stock decrement inside an order commit.
type Product struct {
	ProductID     string    `json:"id" bson:"productid"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description" bson:"description"`
	Price         int64     `json:"price" bson:"price"`
	OriginalPrice int64     `json:"originalPrice,omitempty" bson:"original_price,omitempty"`
	Images        []string  `json:"images" bson:"images"`
	Category      string    `json:"category" bson:"category"`
	Brand         string    `json:"brand" bson:"brand"`
	Tags          []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Sizes         []string  `json:"sizes" bson:"sizes"`
	Colors        []Color   `json:"colors" bson:"colors"`
	InStock       bool      `json:"inStock" bson:"in_stock"`
	StockQuantity int       `json:"stockQuantity" bson:"stock_quantity"`
	Rating        float64   `json:"rating" bson:"rating"`
	ReviewCount   int       `json:"reviewCount" bson:"review_count"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// HasSize reports whether s is one of the product's declared sizes.
func (p *Product) HasSize(s string) bool {
	for _, v := range p.Sizes {
		if v == s {
			return true
		}
	}
	return false
}

// HasColor reports whether name is one of the product's declared colors.
func (p *Product) HasColor(name string) bool {
	for _, c := range p.Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}
