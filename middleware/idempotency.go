package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"velour/db"
	"velour/models"
	"velour/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func computeRequestHash(r *http.Request, bodyBytes []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + userID + ":"))
	h.Write(bodyBytes)
	return hex.EncodeToString(h.Sum(nil))
}

// callerIdentity runs before the router's auth wrapper, so it has to
// parse the Authorization header itself. Guest carts fall back to their
// client-held token.
func callerIdentity(r *http.Request) string {
	if claims, err := ValidateJWT(r.Header.Get("Authorization")); err == nil {
		return claims.UserID
	}
	return r.Header.Get("X-Guest-Cart")
}

// statusFromRecord tolerates the numeric types bson decoding may produce.
func statusFromRecord(v interface{}) int {
	switch s := v.(type) {
	case int32:
		return int(s)
	case int64:
		return int(s)
	case float64:
		return int(s)
	case int:
		return s
	}
	return http.StatusOK
}

// captureResponseWriter wraps http.ResponseWriter to capture status and body.
type captureResponseWriter struct {
	w           http.ResponseWriter
	statusCode  int
	buf         bytes.Buffer
	wroteHeader bool
}

func newCaptureResponseWriter(w http.ResponseWriter) *captureResponseWriter {
	return &captureResponseWriter{w: w, statusCode: http.StatusOK}
}

func (c *captureResponseWriter) Header() http.Header {
	return c.w.Header()
}

func (c *captureResponseWriter) WriteHeader(statusCode int) {
	if !c.wroteHeader {
		c.statusCode = statusCode
		c.w.WriteHeader(statusCode)
		c.wroteHeader = true
	}
}

func (c *captureResponseWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.w.Write(b)
}

// Idempotency guards mutating endpoints when the client provides an
// Idempotency-Key header. First request with a key records the response;
// a retry with the same key and body replays it; the same key with a
// different body is rejected with 409. Without the header requests pass
// straight through, so order commit retries without a key can still
// duplicate, exactly like the source.
func Idempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID := callerIdentity(r)

		// Cap the buffered body at 1 MB.
		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		reqHash := computeRequestHash(r, bodyBytes, userID)
		now := time.Now()
		rec := models.IdempotencyRecord{
			Key:         key,
			Method:      r.Method,
			Path:        r.URL.Path,
			UserID:      userID,
			RequestHash: reqHash,
			CreatedAt:   now,
			ExpiresAt:   now.Add(24 * time.Hour),
		}

		ctx := r.Context()
		_, err = db.IdempotencyCollection.InsertOne(ctx, rec)
		if err == nil {
			// First time through: run the handler and record its response.
			crw := newCaptureResponseWriter(w)
			next.ServeHTTP(crw, r)

			var parsed interface{}
			if err := json.Unmarshal(crw.buf.Bytes(), &parsed); err != nil {
				parsed = crw.buf.String()
			}

			_, _ = db.IdempotencyCollection.UpdateOne(ctx,
				bson.M{"key": key},
				bson.M{"$set": bson.M{"response": bson.M{
					"status": crw.statusCode,
					"body":   parsed,
				}}},
			)
			return
		}

		if !db.IsDuplicateKeyError(err) {
			http.Error(w, "idempotency lookup error", http.StatusInternalServerError)
			return
		}

		var existing models.IdempotencyRecord
		if err := db.IdempotencyCollection.FindOne(ctx, bson.M{"key": key}).Decode(&existing); err != nil {
			http.Error(w, "idempotency lookup error", http.StatusInternalServerError)
			return
		}

		// Same key, different request.
		if existing.RequestHash != reqHash {
			http.Error(w, "idempotency-key conflict", http.StatusConflict)
			return
		}

		if existing.Response != nil {
			utils.RespondWithJSON(w, statusFromRecord(existing.Response["status"]), existing.Response["body"])
			return
		}

		// Record exists but the original request is still in flight.
		next.ServeHTTP(w, r)
	})
}
