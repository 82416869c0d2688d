package utils

import (
	"encoding/json"
	"net/http"

	"velour/apperr"
)

type M map[string]interface{}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// RespondWithAppError sends the uniform {data:null, error} envelope for a
// typed failure, with the status derived from its failure class.
func RespondWithAppError(w http.ResponseWriter, err error) {
	RespondWithJSON(w, apperr.HTTPStatus(err), M{
		"data":  nil,
		"error": err.Error(),
		"code":  string(apperr.CodeOf(err)),
	})
}

// RespondWithData sends the uniform {data, error:null} envelope.
func RespondWithData(w http.ResponseWriter, statusCode int, data interface{}) {
	RespondWithJSON(w, statusCode, M{"data": data, "error": nil})
}

func SendResponse(w http.ResponseWriter, status int, data any, message string, err error) {
	resp := map[string]any{
		"status":  status,
		"message": message,
		"data":    data,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	RespondWithJSON(w, status, resp)
}
