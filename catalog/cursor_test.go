package catalog

import (
	"testing"
	"time"

	"velour/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 4, 2, 9, 30, 0, 123456789, time.UTC)
	p := models.Product{ProductID: "prd_abc123", CreatedAt: created}

	token := encodeCursor(p)
	require.NotEmpty(t, token)

	at, id, err := decodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "prd_abc123", id)
	assert.True(t, at.Equal(created))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	t.Run("NotBase64", func(t *testing.T) {
		_, _, err := decodeCursor("%%%")
		require.Error(t, err)
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, _, err := decodeCursor("bm90LWpzb24")
		require.Error(t, err)
	})

	t.Run("EmptyID", func(t *testing.T) {
		_, _, err := decodeCursor("eyJ0IjoxLCJpZCI6IiJ9")
		require.Error(t, err)
	})
}
