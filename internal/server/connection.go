package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/vecview/pkg/generic"
)

var bufferPool = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// connection wraps a websocket with deadlines, serialized writes and
// traffic counters.
type connection struct {
	conn         *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
	lastActivity int64 // Unix timestamp
	connectedAt  time.Time
	closed       int32

	messagesSent     uint64
	messagesReceived uint64
	bytesSent        uint64
	bytesReceived    uint64

	// Write mutex to ensure thread-safe writes
	writeMu sync.Mutex
}

// ConnectionStats are the traffic counters of one session.
type ConnectionStats struct {
	MessagesSent     uint64    `json:"messagesSent"`
	MessagesReceived uint64    `json:"messagesReceived"`
	BytesSent        uint64    `json:"bytesSent"`
	BytesReceived    uint64    `json:"bytesReceived"`
	ConnectedAt      time.Time `json:"connectedAt"`
	LastActivity     time.Time `json:"lastActivity"`
}

func newConnection(conn *websocket.Conn, readTimeout, writeTimeout time.Duration) *connection {
	now := time.Now()
	return &connection{
		conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		lastActivity: now.Unix(),
		connectedAt:  now,
	}
}

func (c *connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Receive reads the next text or binary frame.
func (c *connection) Receive() ([]byte, error) {
	if c.IsClosed() {
		return nil, ErrConnectionClosed
	}

	if c.readTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	messageType, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
		return nil, fmt.Errorf("%w: frame type %d", ErrInvalidMessage, messageType)
	}

	atomic.AddUint64(&c.messagesReceived, 1)
	atomic.AddUint64(&c.bytesReceived, uint64(len(data)))
	atomic.StoreInt64(&c.lastActivity, time.Now().Unix())

	return data, nil
}

// SendJSON encodes v and writes it as one text frame.
func (c *connection) SendJSON(v any) error {
	if c.IsClosed() {
		return ErrConnectionClosed
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	atomic.AddUint64(&c.messagesSent, 1)
	atomic.AddUint64(&c.bytesSent, uint64(len(data)))
	atomic.StoreInt64(&c.lastActivity, time.Now().Unix())

	return nil
}

// Close sends a close frame with reason and closes the socket. Later calls
// are no-ops.
func (c *connection) Close(code int, reason string) error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}

	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()

	return c.conn.Close()
}

func (c *connection) IsClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *connection) Stats() ConnectionStats {
	return ConnectionStats{
		MessagesSent:     atomic.LoadUint64(&c.messagesSent),
		MessagesReceived: atomic.LoadUint64(&c.messagesReceived),
		BytesSent:        atomic.LoadUint64(&c.bytesSent),
		BytesReceived:    atomic.LoadUint64(&c.bytesReceived),
		ConnectedAt:      c.connectedAt,
		LastActivity:     time.Unix(atomic.LoadInt64(&c.lastActivity), 0),
	}
}
