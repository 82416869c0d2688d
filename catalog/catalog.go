package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"velour/apperr"
	"velour/db"
	"velour/middleware"
	"velour/models"
	"velour/rdx"
	"velour/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPageSize = 20
const maxPageSize = 100

// ProductPage is the list payload: one page plus the continuation token
// and the total count under the category filter.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"nextCursor,omitempty"`
	TotalCount int64            `json:"totalCount"`
}

// ListProducts serves GET /api/products?category=&limit=&cursor=.
// Ordered by creation time descending; pagination is cursor-based.
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	if category == "all" || category == "All Categories" {
		category = ""
	}

	limit := defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	cursorToken := r.URL.Query().Get("cursor")

	// First page per category is cached briefly.
	if cursorToken == "" && limit == defaultPageSize {
		if cached, err := rdx.GetCachedCatalogPage(category); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
	}

	countFilter := bson.M{}
	if category != "" {
		countFilter["category"] = category
	}

	filter := bson.M{}
	for k, v := range countFilter {
		filter[k] = v
	}
	if cursorToken != "" {
		at, id, err := decodeCursor(cursorToken)
		if err != nil {
			utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "invalid cursor"))
			return
		}
		filter["$or"] = bson.A{
			bson.M{"created_at": bson.M{"$lt": at}},
			bson.M{"created_at": at, "productid": bson.M{"$lt": id}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "productid", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := db.ProductsCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("ListProducts Find error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "could not load products"))
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("ListProducts cursor.All error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "could not read products"))
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	totalCount, err := db.ProductsCollection.CountDocuments(ctx, countFilter)
	if err != nil {
		log.Println("ListProducts CountDocuments error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "could not count products"))
		return
	}

	page := ProductPage{Products: products, TotalCount: totalCount}
	if len(products) == limit {
		page.NextCursor = encodeCursor(products[len(products)-1])
	}

	if cursorToken == "" && limit == defaultPageSize {
		if raw, err := json.Marshal(utils.M{"data": page, "error": nil}); err == nil {
			_ = rdx.CacheCatalogPage(category, string(raw))
		}
	}

	utils.RespondWithData(w, http.StatusOK, page)
}

// GetProduct serves GET /api/products/:id.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := FetchProduct(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, product)
}

// FetchProduct resolves a product reference. NotFound when the id does
// not resolve, BackendUnavailable on transport failure.
func FetchProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		log.Println("FetchProduct error:", err)
		return nil, apperr.New(apperr.BackendUnavailable, "could not load product")
	}
	return &product, nil
}

// CreateProduct serves POST /api/products (admin).
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !middleware.HasRole(r, "admin") {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "admin only"))
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if product.Name == "" || product.Price <= 0 || !models.IsValidCategory(product.Category) {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}
	if product.StockQuantity < 0 {
		http.Error(w, "Stock must be non-negative", http.StatusBadRequest)
		return
	}

	now := time.Now()
	product.ProductID = utils.NewID("prd")
	product.InStock = product.StockQuantity > 0
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to create product"))
		return
	}

	rdx.InvalidateCatalog()
	utils.RespondWithData(w, http.StatusCreated, product)
}

// UpdateProduct serves PUT /api/products/:id (admin). Stock changes here
// are admin corrections; sale decrements happen only in order commits.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !middleware.HasRole(r, "admin") {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "admin only"))
		return
	}

	var patch struct {
		Name          *string        `json:"name"`
		Description   *string        `json:"description"`
		Price         *int64         `json:"price"`
		OriginalPrice *int64         `json:"originalPrice"`
		Category      *string        `json:"category"`
		Brand         *string        `json:"brand"`
		Tags          []string       `json:"tags"`
		Sizes         []string       `json:"sizes"`
		Colors        []models.Color `json:"colors"`
		StockQuantity *int           `json:"stockQuantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			http.Error(w, "Price must be positive", http.StatusBadRequest)
			return
		}
		set["price"] = *patch.Price
	}
	if patch.OriginalPrice != nil {
		set["original_price"] = *patch.OriginalPrice
	}
	if patch.Category != nil {
		if !models.IsValidCategory(*patch.Category) {
			http.Error(w, "Invalid category", http.StatusBadRequest)
			return
		}
		set["category"] = *patch.Category
	}
	if patch.Brand != nil {
		set["brand"] = *patch.Brand
	}
	if patch.Tags != nil {
		set["tags"] = patch.Tags
	}
	if patch.Sizes != nil {
		set["sizes"] = patch.Sizes
	}
	if patch.Colors != nil {
		set["colors"] = patch.Colors
	}
	if patch.StockQuantity != nil {
		if *patch.StockQuantity < 0 {
			http.Error(w, "Stock must be non-negative", http.StatusBadRequest)
			return
		}
		set["stock_quantity"] = *patch.StockQuantity
		set["in_stock"] = *patch.StockQuantity > 0
	}

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": ps.ByName("id")},
		bson.M{"$set": set},
	)
	if err != nil {
		log.Println("UpdateProduct error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to update product"))
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithAppError(w, apperr.New(apperr.NotFound, "Product not found"))
		return
	}

	rdx.InvalidateCatalog()
	utils.RespondWithData(w, http.StatusOK, utils.M{"updated": true})
}
