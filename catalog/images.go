package catalog

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"velour/apperr"
	"velour/db"
	"velour/middleware"
	"velour/rdx"
	"velour/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var productPicPath = "./static/productpic"

const thumbWidth = 320

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadProductImage serves POST /api/products/:id/images (admin).
// Stores the original and a 320px-wide thumbnail, and appends the image
// name to the product's image list.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if !middleware.HasRole(r, "admin") {
		utils.RespondWithAppError(w, apperr.New(apperr.Unauthenticated, "admin only"))
		return
	}

	productID := ps.ByName("id")
	if _, err := FetchProduct(ctx, productID); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !supportedImageTypes[header.Header.Get("Content-Type")] {
		http.Error(w, "Invalid file type. Supported formats: JPEG, PNG, WebP.", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(filepath.Join(productPicPath, productID), 0755); err != nil {
		log.Println("UploadProductImage mkdir error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "failed to store image"))
		return
	}

	imageName := utils.NewID("img") + ".jpg"
	fullPath := filepath.Join(productPicPath, productID, imageName)
	thumbPath := filepath.Join(productPicPath, productID, "thumb_"+imageName)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Println("UploadProductImage create error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "failed to store image"))
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		log.Println("UploadProductImage copy error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "failed to store image"))
		return
	}
	out.Close()

	img, err := imaging.Open(fullPath)
	if err != nil {
		log.Println("UploadProductImage decode error:", err)
		http.Error(w, "Could not decode image", http.StatusBadRequest)
		return
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		log.Println("UploadProductImage thumbnail error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.Unknown, "failed to store thumbnail"))
		return
	}

	_, err = db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{
			"$push": bson.M{"images": imageName},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		log.Println("UploadProductImage update error:", err)
		utils.RespondWithAppError(w, apperr.New(apperr.BackendUnavailable, "failed to attach image"))
		return
	}

	rdx.InvalidateCatalog()
	utils.RespondWithData(w, http.StatusCreated, utils.M{"image": imageName})
}
