package orders

import (
	"time"

	"velour/apperr"
	"velour/models"
	"velour/promo"
	"velour/utils"
)

// CommitRequest carries everything the caller supplies for checkout.
type CommitRequest struct {
	UserID          string
	Email           string
	ShippingAddress models.Address
	PaymentMethod   string
	PromoCode       string
	ShippingFee     int64
}

// CommitPlan is the fully computed, not-yet-persisted order: the order
// record, one item per cart line, and the stock decrement per product.
// Building the plan is pure; persisting it is one transaction.
type CommitPlan struct {
	Order      models.Order
	Items      []models.OrderItem
	StockDelta map[string]int
	Warnings   []string
}

// BuildCommit validates stock and computes totals for a set of hydrated
// cart lines. The catalog price at commit time is authoritative: it is
// both what the subtotal sums and what each item snapshots as
// price-at-purchase. A rejected promo code becomes a warning, never an
// abort. Any line short on stock fails the whole build with OutOfStock.
func BuildCommit(req CommitRequest, lines []models.CartItem, now time.Time) (*CommitPlan, error) {
	if len(lines) == 0 {
		return nil, apperr.New(apperr.OrderCommitFailed, "cart is empty")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PayPaystack
	}
	if req.PaymentMethod != models.PayPaystack && req.PaymentMethod != models.PayBankTransfer {
		return nil, apperr.New(apperr.OrderCommitFailed, "unsupported payment method")
	}

	plan := &CommitPlan{StockDelta: make(map[string]int)}

	var subtotal int64
	for _, line := range lines {
		p := line.Product
		if p == nil {
			return nil, apperr.Newf(apperr.NotFound, "product %s no longer exists", line.ProductID)
		}
		needed := line.Quantity + plan.StockDelta[p.ProductID]
		if !p.InStock || needed > p.StockQuantity {
			return nil, apperr.Newf(apperr.OutOfStock, "not enough stock for %s", p.Name)
		}
		plan.StockDelta[p.ProductID] = needed
		subtotal += p.Price * int64(line.Quantity)
	}

	discount, err := promo.Apply(req.PromoCode, subtotal, now)
	appliedCode := req.PromoCode
	if err != nil {
		plan.Warnings = append(plan.Warnings, err.Error())
		discount = 0
		appliedCode = ""
	}

	orderID := utils.NewID("ord")
	plan.Order = models.Order{
		OrderID:         orderID,
		UserID:          req.UserID,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderPending,
		Subtotal:        subtotal,
		Discount:        discount,
		Shipping:        req.ShippingFee,
		Total:           subtotal - discount + req.ShippingFee,
		PromoCode:       appliedCode,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, line := range lines {
		p := line.Product
		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		plan.Items = append(plan.Items, models.OrderItem{
			OrderItemID:     utils.NewID("oit"),
			OrderID:         orderID,
			ProductID:       p.ProductID,
			ProductName:     p.Name,
			Image:           image,
			Size:            line.Size,
			Color:           line.Color,
			Quantity:        line.Quantity,
			PriceAtPurchase: p.Price,
			CreatedAt:       now,
		})
	}

	return plan, nil
}

// lineIDs collects the cart line ids a plan consumes.
func lineIDs(lines []models.CartItem) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}
