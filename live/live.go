package live

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// StockUpdate is pushed to subscribers of a product whenever an order
// commit or cancel changes its stock.
type StockUpdate struct {
	ProductID     string `json:"productId"`
	StockQuantity int    `json:"stockQuantity"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscriber owns its connection's writes: broadcasts go through the
// send channel and a single writer goroutine, since the conn forbids
// concurrent writers.
type subscriber struct {
	productID string
	conn      *websocket.Conn
	send      chan StockUpdate
}

var (
	mu   sync.Mutex
	subs = make(map[string]map[*subscriber]bool)
)

// SubscribeStock serves GET /api/products/:id/live over WebSocket.
func SubscribeStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("SubscribeStock upgrade error:", err)
		return
	}

	s := &subscriber{productID: productID, conn: conn, send: make(chan StockUpdate, 8)}

	mu.Lock()
	if subs[productID] == nil {
		subs[productID] = make(map[*subscriber]bool)
	}
	subs[productID][s] = true
	mu.Unlock()

	go s.writePump()

	// Read pump exists only to notice the peer going away.
	go func() {
		defer unsubscribe(s)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// writePump is the connection's only writer.
func (s *subscriber) writePump() {
	for update := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := s.conn.WriteJSON(update); err != nil {
			break
		}
	}
	s.conn.Close()
}

// unsubscribe removes the subscriber and closes its send channel. Both
// removal and channel close happen under mu, so a concurrent broadcast
// never sends on a closed channel.
func unsubscribe(s *subscriber) {
	mu.Lock()
	if set, ok := subs[s.productID]; ok {
		if set[s] {
			delete(set, s)
			close(s.send)
			if len(set) == 0 {
				delete(subs, s.productID)
			}
		}
	}
	mu.Unlock()
	s.conn.Close()
}

// BroadcastStock pushes the new stock level to every subscriber of the
// product. A subscriber whose buffer is full misses this update rather
// than blocking the caller.
func BroadcastStock(productID string, stockQuantity int) {
	update := StockUpdate{ProductID: productID, StockQuantity: stockQuantity}

	mu.Lock()
	for s := range subs[productID] {
		select {
		case s.send <- update:
		default:
		}
	}
	mu.Unlock()
}
