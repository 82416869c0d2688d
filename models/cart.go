package models

import "time"

// CartItem is one line of a cart, stored as its own document keyed by
// the owning identity (user id, or a guest cart token). Price is the
// unit price captured when the line was added; checkout recomputes
// from the catalog, so this field is display-only.
type CartItem struct {
	ItemID    string    `json:"id" bson:"itemid"`
	OwnerID   string    `json:"-" bson:"ownerid"`
	Guest     bool      `json:"-" bson:"guest"`
	ProductID string    `json:"productId" bson:"productid"`
	Size      string    `json:"size" bson:"size"`
	Color     string    `json:"color" bson:"color"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Price     int64     `json:"price" bson:"price"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`

	// Hydrated on read, never stored.
	Product *Product `json:"product,omitempty" bson:"-"`
}

// Cart is the hydrated aggregate returned to the client. Warnings carry
// non-fatal rejections, e.g. a promo code that did not apply.
type Cart struct {
	Items     []CartItem `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	Discount  int64      `json:"discount"`
	Total     int64      `json:"total"`
	PromoCode string     `json:"promoCode,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
}
