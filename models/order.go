package models

import "time"

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses, an axis orthogonal to the order status.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment methods.
const (
	PayPaystack     = "paystack"
	PayBankTransfer = "bank-transfer"
)

type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zip_code"`
	Country string `json:"country" bson:"country"`
}

// Order is the committed record. Total = Subtotal - Discount + Shipping,
// computed once at commit and never recomputed.
type Order struct {
	OrderID         string    `json:"id" bson:"orderid"`
	UserID          string    `json:"userId,omitempty" bson:"userid,omitempty"`
	Email           string    `json:"email" bson:"email"`
	ShippingAddress Address   `json:"shippingAddress" bson:"shipping_address"`
	PaymentMethod   string    `json:"paymentMethod" bson:"payment_method"`
	PaymentStatus   string    `json:"paymentStatus" bson:"payment_status"`
	OrderStatus     string    `json:"orderStatus" bson:"order_status"`
	Subtotal        int64     `json:"subtotal" bson:"subtotal"`
	Discount        int64     `json:"discount" bson:"discount"`
	Shipping        int64     `json:"shipping" bson:"shipping"`
	Total           int64     `json:"total" bson:"total"`
	PromoCode       string    `json:"promoCode,omitempty" bson:"promo_code,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`

	// Hydrated on read, never stored on the order document.
	Items []OrderItem `json:"items,omitempty" bson:"-"`
}

// OrderItem snapshots one cart line at commit time. Immutable after the
// commit; PriceAtPurchase is independent of later catalog price changes.
type OrderItem struct {
	OrderItemID     string    `json:"id" bson:"orderitemid"`
	OrderID         string    `json:"orderId" bson:"orderid"`
	ProductID       string    `json:"productId" bson:"productid"`
	ProductName     string    `json:"productName" bson:"product_name"`
	Image           string    `json:"image" bson:"image"`
	Size            string    `json:"size" bson:"size"`
	Color           string    `json:"color" bson:"color"`
	Quantity        int       `json:"quantity" bson:"quantity"`
	PriceAtPurchase int64     `json:"priceAtPurchase" bson:"price_at_purchase"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
}

// OrderSummary is the list-view shape: the order plus a one-line preview.
type OrderSummary struct {
	Order       `bson:",inline"`
	PreviewItem *OrderItem `json:"previewItem,omitempty" bson:"-"`
	ItemCount   int64      `json:"itemCount" bson:"-"`
}
