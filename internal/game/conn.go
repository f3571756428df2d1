package game

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// ClientConn wraps one websocket with a buffered outbound queue drained by
// a writer goroutine.
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func newClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// Send enqueues an envelope without blocking. A client that cannot keep up
// loses messages rather than stalling the session.
func (c *ClientConn) Send(env Envelope) {
	b, _ := json.Marshal(env)
	select {
	case c.send <- b:
	default:
	}
}
