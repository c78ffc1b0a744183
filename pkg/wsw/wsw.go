// Package wsw wraps a websocket connection with a write mutex. The bridge
// writes to each connection from more than one goroutine (audio relay and
// function-call responses), and gorilla/websocket allows only one
// concurrent writer.
package wsw

import (
	"sync"

	"github.com/gorilla/websocket"
)

type WSWrapper struct {
	*websocket.Conn
	mu sync.Mutex
}

func NewWSWrapper(c *websocket.Conn) *WSWrapper {
	return &WSWrapper{Conn: c}
}

// WriteJSONConcurrent serializes v and writes it under the write mutex.
func (ws *WSWrapper) WriteJSONConcurrent(v any) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.WriteJSON(v)
}

// WriteMessageConcurrent writes a raw message under the write mutex.
func (ws *WSWrapper) WriteMessageConcurrent(messageType int, data []byte) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.WriteMessage(messageType, data)
}
