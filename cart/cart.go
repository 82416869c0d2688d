package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velour/apperr"
	"velour/catalog"
	"velour/db"
	"velour/models"
	"velour/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddToCart inserts a new line or atomically bumps the quantity of an
// existing same-variant line ($inc upsert, so concurrent adds accumulate
// instead of racing last-write-wins).
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
		Color     string `json:"color"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	ownerID, guest := utils.GetCartOwnerFromRequest(r)
	if ownerID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "sign in or supply a guest cart token"))
		return
	}
	if input.ProductID == "" {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	product, err := catalog.FetchProduct(ctx, input.ProductID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if err := ValidateVariant(product, input.Size, input.Color); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if !product.InStock {
		utils.RespondWithAppError(w, apperr.Newf(apperr.OutOfStock, "%s is out of stock", product.Name))
		return
	}

	qty := NormalizeQuantity(input.Quantity)
	now := time.Now()

	filter := bson.M{
		"ownerid":   ownerID,
		"productid": input.ProductID,
		"size":      input.Size,
		"color":     input.Color,
	}
	update := bson.M{
		"$inc": bson.M{"quantity": qty},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"itemid":     utils.NewID("ci"),
			"guest":      guest,
			"price":      product.Price, // unit price captured at add time
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartItemsCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to add to cart"))
		return
	}

	utils.RespondWithData(w, http.StatusCreated, utils.M{"status": "added"})
}

// GetCart returns the hydrated aggregate: lines with product snapshots,
// subtotal, and (for an optional ?promo= code) discount and total.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ownerID, _ := utils.GetCartOwnerFromRequest(r)
	if ownerID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "sign in or supply a guest cart token"))
		return
	}

	items, err := LoadLines(ctx, ownerID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	aggregate := models.Cart{Items: items, Subtotal: Subtotal(items)}
	applyPromo(&aggregate, r.URL.Query().Get("promo"), time.Now())

	utils.RespondWithData(w, http.StatusOK, aggregate)
}

// LoadLines reads an owner's cart lines and resolves each product
// reference. Lines whose product no longer resolves are dropped rather
// than surfaced with dangling references.
func LoadLines(ctx context.Context, ownerID string) ([]models.CartItem, error) {
	cursor, err := db.CartItemsCollection.Find(ctx, bson.M{"ownerid": ownerID})
	if err != nil {
		log.Println("LoadLines Find error:", err)
		return nil, apperr.New(apperr.BackendUnavailable, "could not retrieve cart")
	}
	defer cursor.Close(ctx)

	var raw []models.CartItem
	if err := cursor.All(ctx, &raw); err != nil {
		log.Println("LoadLines cursor.All error:", err)
		return nil, apperr.New(apperr.BackendUnavailable, "error reading cart data")
	}

	items := make([]models.CartItem, 0, len(raw))
	for _, it := range raw {
		product, err := catalog.FetchProduct(ctx, it.ProductID)
		if err != nil {
			if apperr.Is(err, apperr.NotFound) {
				continue
			}
			return nil, err
		}
		it.Product = product
		items = append(items, it)
	}
	return items, nil
}

// UpdateCartItem sets a line's quantity. Quantity ≤ 0 removes the line:
// the cart never holds ghost lines.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	ownerID, _ := utils.GetCartOwnerFromRequest(r)
	if ownerID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "sign in or supply a guest cart token"))
		return
	}

	filter := bson.M{"ownerid": ownerID, "itemid": ps.ByName("itemId")}

	if input.Quantity <= 0 {
		res, err := db.CartItemsCollection.DeleteOne(ctx, filter)
		if err != nil {
			log.Println("UpdateCartItem delete error:", err)
			utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to remove item"))
			return
		}
		if res.DeletedCount == 0 {
			utils.RespondWithAppError(w, apperr.New(apperr.NotFound, "cart item not found"))
			return
		}
		utils.RespondWithData(w, http.StatusOK, utils.M{"status": "removed"})
		return
	}

	res, err := db.CartItemsCollection.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"quantity": input.Quantity, "updated_at": time.Now()},
	})
	if err != nil {
		log.Println("UpdateCartItem update error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to update item"))
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithAppError(w, apperr.New(apperr.NotFound, "cart item not found"))
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{"status": "updated"})
}

// RemoveCartItem deletes one line.
func RemoveCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ownerID, _ := utils.GetCartOwnerFromRequest(r)
	if ownerID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "sign in or supply a guest cart token"))
		return
	}

	res, err := db.CartItemsCollection.DeleteOne(ctx, bson.M{
		"ownerid": ownerID,
		"itemid":  ps.ByName("itemId"),
	})
	if err != nil {
		log.Println("RemoveCartItem error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to remove item"))
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithAppError(w, apperr.New(apperr.NotFound, "cart item not found"))
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{"status": "removed"})
}

// ClearCart deletes every line the owner holds.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ownerID, _ := utils.GetCartOwnerFromRequest(r)
	if ownerID == "" {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "sign in or supply a guest cart token"))
		return
	}

	if _, err := db.CartItemsCollection.DeleteMany(ctx, bson.M{"ownerid": ownerID}); err != nil {
		log.Println("ClearCart error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to clear cart"))
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{"status": "cleared"})
}
