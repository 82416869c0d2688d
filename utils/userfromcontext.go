package utils

import (
	"net/http"

	"velour/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

// GetCartOwnerFromRequest resolves who a cart belongs to: the signed-in
// user, or the client-held guest cart token. Guest carts live only under
// that token; there is no cross-device sync for them.
func GetCartOwnerFromRequest(r *http.Request) (ownerID string, guest bool) {
	if userID := GetUserIDFromRequest(r); userID != "" {
		return userID, false
	}
	return r.Header.Get("X-Guest-Cart"), true
}
