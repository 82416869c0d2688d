package catalog

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"velour/models"
)

// pageCursor is the continuation token for catalog paging: the sort key
// (created_at desc, productid desc) of the last item on the page.
// Opaque to clients; never an offset.
type pageCursor struct {
	CreatedAt int64  `json:"t"` // unix nanos
	ProductID string `json:"id"`
}

func encodeCursor(last models.Product) string {
	raw, _ := json.Marshal(pageCursor{
		CreatedAt: last.CreatedAt.UnixNano(),
		ProductID: last.ProductID,
	})
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor: %w", err)
	}
	var c pageCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor: %w", err)
	}
	if c.ProductID == "" {
		return time.Time{}, "", fmt.Errorf("malformed cursor: empty id")
	}
	return time.Unix(0, c.CreatedAt), c.ProductID, nil
}
