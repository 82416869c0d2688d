package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velour/apperr"
	"velour/catalog"
	"velour/db"
	"velour/live"
	"velour/middleware"
	"velour/models"
	"velour/rdx"
	"velour/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func fetchOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		log.Println("fetchOrder error:", err)
		return nil, apperr.New(apperr.BackendUnavailable, "could not load order")
	}
	return &order, nil
}

func fetchOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	cursor, err := db.OrderItemsCollection.Find(ctx, bson.M{"orderid": orderID})
	if err != nil {
		log.Println("fetchOrderItems Find error:", err)
		return nil, apperr.New(apperr.BackendUnavailable, "could not load order items")
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("fetchOrderItems cursor.All error:", err)
		return nil, apperr.New(apperr.BackendUnavailable, "could not read order items")
	}
	return items, nil
}

func mayAccessOrder(r *http.Request, order *models.Order) bool {
	userID := utils.GetUserIDFromRequest(r)
	return (order.UserID != "" && order.UserID == userID) || middleware.HasRole(r, "admin")
}

// GetOrder serves GET /api/orders/:id with the item list hydrated.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := fetchOrder(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if !mayAccessOrder(r, order) {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "not your order"))
		return
	}

	items, err := fetchOrderItems(ctx, order.OrderID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	order.Items = items

	utils.RespondWithData(w, http.StatusOK, order)
}

// GetMyOrders serves GET /api/orders: the caller's orders newest first,
// each with a one-line preview and its item count.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "sign in to view orders"))
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"userid": userID}, opts)
	if err != nil {
		log.Println("GetMyOrders Find error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "could not load orders"))
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("GetMyOrders cursor.All error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "could not read orders"))
		return
	}

	summaries := make([]models.OrderSummary, 0, len(orders))
	for _, o := range orders {
		summary := models.OrderSummary{Order: o}

		var preview models.OrderItem
		err := db.OrderItemsCollection.FindOne(ctx, bson.M{"orderid": o.OrderID}).Decode(&preview)
		if err == nil {
			summary.PreviewItem = &preview
		}

		count, err := db.OrderItemsCollection.CountDocuments(ctx, bson.M{"orderid": o.OrderID})
		if err == nil {
			summary.ItemCount = count
		}

		summaries = append(summaries, summary)
	}

	utils.RespondWithData(w, http.StatusOK, summaries)
}

// CancelOrder serves POST /api/orders/:id/cancel. Only pending or
// processing orders cancel; the transaction restores the stock the
// order had claimed.
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := fetchOrder(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if !mayAccessOrder(r, order) {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "not your order"))
		return
	}
	if !ValidTransition(order.OrderStatus, models.OrderCancelled) {
		http.Error(w, "Order can no longer be cancelled", http.StatusBadRequest)
		return
	}

	items, err := fetchOrderItems(ctx, order.OrderID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	session, err := db.Client.StartSession()
	if err != nil {
		log.Println("CancelOrder StartSession error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.OrderCommitFailed, "could not open transaction"))
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := db.OrdersCollection.UpdateOne(sc,
			bson.M{"orderid": order.OrderID, "order_status": order.OrderStatus},
			bson.M{"$set": bson.M{"order_status": models.OrderCancelled, "updated_at": time.Now()}},
		)
		if err != nil {
			return nil, err
		}
		if res.ModifiedCount == 0 {
			return nil, apperr.New(apperr.OrderCommitFailed, "order state changed underneath cancel")
		}

		for _, it := range items {
			if _, err := db.ProductsCollection.UpdateOne(sc,
				bson.M{"productid": it.ProductID},
				bson.M{
					"$inc": bson.M{"stock_quantity": it.Quantity},
					"$set": bson.M{"in_stock": true, "updated_at": time.Now()},
				},
			); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		log.Println("CancelOrder transaction error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.OrderCommitFailed, "cancel could not be committed"))
		return
	}

	for _, it := range items {
		if p, err := catalog.FetchProduct(ctx, it.ProductID); err == nil {
			live.BroadcastStock(p.ProductID, p.StockQuantity)
		}
	}
	rdx.InvalidateCatalog()

	utils.RespondWithData(w, http.StatusOK, utils.M{"status": models.OrderCancelled})
}

// UpdateOrderStatus serves PUT /api/orders/:id/status (admin). Both the
// order axis and the payment axis move only along their machines.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !middleware.HasRole(r, "admin") {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "admin only"))
		return
	}

	var input struct {
		OrderStatus   string `json:"orderStatus"`
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	order, err := fetchOrder(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if input.OrderStatus != "" {
		if !ValidTransition(order.OrderStatus, input.OrderStatus) {
			http.Error(w, "Invalid order status transition", http.StatusBadRequest)
			return
		}
		set["order_status"] = input.OrderStatus
	}
	if input.PaymentStatus != "" {
		if !ValidPaymentTransition(order.PaymentStatus, input.PaymentStatus) {
			http.Error(w, "Invalid payment status transition", http.StatusBadRequest)
			return
		}
		set["payment_status"] = input.PaymentStatus
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderid": order.OrderID},
		bson.M{"$set": set},
	); err != nil {
		log.Println("UpdateOrderStatus error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to update order"))
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{"updated": true})
}
