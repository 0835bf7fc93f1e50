package ipc

import (
	"fmt"
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Transport moves whole envelopes between the engine and the agent.
type Transport interface {
	ReadEnvelope() (Envelope, error)
	WriteEnvelope(Envelope) error
	Close() error
	// Name identifies the peer in logs.
	Name() string
}

// StreamTransport frames envelopes over a byte stream such as a unix socket.
type StreamTransport struct {
	conn net.Conn
	wmu  sync.Mutex
}

func NewStreamTransport(conn net.Conn) *StreamTransport {
	return &StreamTransport{conn: conn}
}

func (t *StreamTransport) ReadEnvelope() (Envelope, error) { return ReadEnvelope(t.conn) }

func (t *StreamTransport) WriteEnvelope(env Envelope) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	return WriteEnvelope(t.conn, env)
}

func (t *StreamTransport) Close() error { return t.conn.Close() }

func (t *StreamTransport) Name() string {
	if a := t.conn.RemoteAddr(); a != nil && a.String() != "" {
		return "stream:" + a.String()
	}
	return "stream"
}

// WebSocketTransport carries one JSON envelope per text message.
type WebSocketTransport struct {
	ws  *websocket.Conn
	wmu sync.Mutex
}

func NewWebSocketTransport(ws *websocket.Conn) *WebSocketTransport {
	ws.SetReadLimit(maxFrame)
	return &WebSocketTransport{ws: ws}
}

func (t *WebSocketTransport) ReadEnvelope() (Envelope, error) {
	kind, payload, err := t.ws.ReadMessage()
	if err != nil {
		return Envelope{}, fmt.Errorf("read message: %w", err)
	}
	if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
		return Envelope{}, fmt.Errorf("unexpected websocket message type %d", kind)
	}
	return decodeEnvelope(payload)
}

func (t *WebSocketTransport) WriteEnvelope(env Envelope) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	if err := t.ws.WriteJSON(env); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (t *WebSocketTransport) Close() error {
	t.wmu.Lock()
	_ = t.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.wmu.Unlock()
	return t.ws.Close()
}

func (t *WebSocketTransport) Name() string { return "ws:" + t.ws.RemoteAddr().String() }
