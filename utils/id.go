package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed, dash-free identifier, e.g. "ord_6f1c...".
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
