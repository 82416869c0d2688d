package cart

import (
	"encoding/json"
	"net/http"
	"time"

	"velour/promo"
	"velour/utils"

	"github.com/julienschmidt/httprouter"
)

type promoRequest struct {
	Code string `json:"code"`
	Cart int64  `json:"cart"` // cart subtotal
}

type promoResponse struct {
	Valid    bool   `json:"valid"`
	Discount int64  `json:"discount"` // absolute amount, not %
	Message  string `json:"message"`
}

// ValidatePromoHandler checks a promo code against the current subtotal
// and returns the absolute discount it would grant.
func ValidatePromoHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req promoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.Code == "" {
		utils.RespondWithJSON(w, http.StatusOK, promoResponse{Valid: false, Message: "No promo code provided"})
		return
	}

	discount, err := promo.Apply(req.Code, req.Cart, time.Now())
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, promoResponse{Valid: false, Message: err.Error()})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, promoResponse{
		Valid:    true,
		Discount: discount,
		Message:  "Promo code applied successfully",
	})
}
