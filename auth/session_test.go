package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnIdentityChange(t *testing.T) {
	type event struct {
		userID   string
		signedIn bool
	}

	var got []event
	unsubscribe := OnIdentityChange(func(userID string, signedIn bool) {
		got = append(got, event{userID, signedIn})
	})

	notifyIdentityChange("u_1", true)
	notifyIdentityChange("u_1", false)

	require.Len(t, got, 2)
	assert.Equal(t, event{"u_1", true}, got[0])
	assert.Equal(t, event{"u_1", false}, got[1])

	unsubscribe()
	notifyIdentityChange("u_2", true)
	assert.Len(t, got, 2, "unsubscribed listener must not fire")
}

func TestOnIdentityChangeMultipleListeners(t *testing.T) {
	var a, b int
	offA := OnIdentityChange(func(string, bool) { a++ })
	offB := OnIdentityChange(func(string, bool) { b++ })
	defer offA()
	defer offB()

	notifyIdentityChange("u_3", true)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
