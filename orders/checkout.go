package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velour/apperr"
	"velour/cart"
	"velour/db"
	"velour/live"
	"velour/models"
	"velour/rdx"
	"velour/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PlaceOrder serves POST /api/orders. The commit is all-or-nothing: the
// order record, one order_item per cart line, the stock decrements and
// the cart purge go through a single Mongo transaction. A failure at any
// point rolls everything back; no stock decrement or order record
// survives a partial failure.
func PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "sign in to place an order"))
		return
	}

	var input struct {
		Email           string         `json:"email"`
		ShippingAddress models.Address `json:"shippingAddress"`
		PaymentMethod   string         `json:"paymentMethod"`
		PromoCode       string         `json:"promoCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.Email == "" || input.ShippingAddress.Street == "" ||
		input.ShippingAddress.City == "" || input.ShippingAddress.State == "" {
		http.Error(w, "Email and shipping address are required", http.StatusBadRequest)
		return
	}

	lines, err := cart.LoadLines(ctx, userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	plan, err := BuildCommit(CommitRequest{
		UserID:          userID,
		Email:           input.Email,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PromoCode:       input.PromoCode,
		ShippingFee:     shippingFee(),
	}, lines, time.Now())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	if err := persistCommit(ctx, plan, lineIDs(lines)); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	// Post-commit side effects: stock push and catalog cache drop.
	for _, line := range lines {
		live.BroadcastStock(line.ProductID, line.Product.StockQuantity-plan.StockDelta[line.ProductID])
	}
	rdx.InvalidateCatalog()

	order := plan.Order
	order.Items = plan.Items
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"data":     order,
		"warnings": plan.Warnings,
		"error":    nil,
	})
}

// persistCommit runs the plan inside one transaction. The stock update
// filter demands enough remaining stock, so a concurrent sale that
// drained a line aborts this commit instead of driving stock negative.
func persistCommit(ctx context.Context, plan *CommitPlan, cartLineIDs []string) error {
	session, err := db.Client.StartSession()
	if err != nil {
		log.Println("persistCommit StartSession error:", err)
		return apperr.New(apperr.OrderCommitFailed, "could not open transaction")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.OrdersCollection.InsertOne(sc, plan.Order); err != nil {
			return nil, err
		}

		docs := make([]interface{}, 0, len(plan.Items))
		for _, it := range plan.Items {
			docs = append(docs, it)
		}
		if _, err := db.OrderItemsCollection.InsertMany(sc, docs); err != nil {
			return nil, err
		}

		now := time.Now()
		for productID, qty := range plan.StockDelta {
			res, err := db.ProductsCollection.UpdateOne(sc,
				bson.M{"productid": productID, "stock_quantity": bson.M{"$gte": qty}},
				bson.M{
					"$inc": bson.M{"stock_quantity": -qty},
					"$set": bson.M{"updated_at": now},
				},
			)
			if err != nil {
				return nil, err
			}
			if res.ModifiedCount == 0 {
				return nil, apperr.Newf(apperr.OutOfStock, "stock changed for %s during checkout", productID)
			}
			// Flag sold-out products so the catalog stops offering them.
			if _, err := db.ProductsCollection.UpdateOne(sc,
				bson.M{"productid": productID, "stock_quantity": 0},
				bson.M{"$set": bson.M{"in_stock": false}},
			); err != nil {
				return nil, err
			}
		}

		if _, err := db.CartItemsCollection.DeleteMany(sc,
			bson.M{"itemid": bson.M{"$in": cartLineIDs}},
		); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		if apperr.Is(err, apperr.OutOfStock) {
			return err
		}
		log.Println("persistCommit transaction error:", err)
		return apperr.New(apperr.OrderCommitFailed, "order could not be committed")
	}
	return nil
}

// Flat shipping fee; the source charged none.
func shippingFee() int64 { return 0 }
