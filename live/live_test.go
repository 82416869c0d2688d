package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscriberCount(productID string) int {
	mu.Lock()
	defer mu.Unlock()
	return len(subs[productID])
}

func dialSubscriber(t *testing.T, productID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SubscribeStock(w, r, httprouter.Params{{Key: "id", Value: productID}})
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return subscriberCount(productID) == 1
	}, time.Second, 10*time.Millisecond)

	return conn
}

func TestBroadcastStockDelivers(t *testing.T) {
	conn := dialSubscriber(t, "prd_tee")

	BroadcastStock("prd_tee", 4)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got StockUpdate
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, StockUpdate{ProductID: "prd_tee", StockQuantity: 4}, got)
}

// Concurrent commits and cancels broadcast to the same product from
// separate goroutines; all writes must funnel through the single writer.
func TestBroadcastStockConcurrent(t *testing.T) {
	conn := dialSubscriber(t, "prd_coat")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(stock int) {
			defer wg.Done()
			BroadcastStock("prd_coat", stock)
		}(i)
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got StockUpdate
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "prd_coat", got.ProductID)
}

func TestBroadcastStockNoSubscribers(t *testing.T) {
	assert.NotPanics(t, func() { BroadcastStock("prd_ghost", 1) })
}
