package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionCountsTrafficAndClosesOnce(t *testing.T) {
	serverSide := make(chan *connection, 1)
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverSide <- newConnection(conn, time.Second, time.Second)
	}))
	defer ts.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	c := <-serverSide

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"hello"}`)))
	data, err := c.Receive()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"hello"}`, string(data))

	require.NoError(t, c.SendJSON(errorMessage{Type: TypeError, Error: "boom"}))
	_, payload, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"error","error":"boom"}`, string(payload))

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.MessagesReceived)
	assert.Equal(t, uint64(1), stats.MessagesSent)
	assert.Equal(t, uint64(len(payload)), stats.BytesSent)

	require.NoError(t, c.Close(websocket.CloseNormalClosure, "bye"))
	assert.NoError(t, c.Close(websocket.CloseNormalClosure, "again"))
	assert.True(t, c.IsClosed())
	assert.ErrorIs(t, c.SendJSON(struct{}{}), ErrConnectionClosed)

	_, _, err = client.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}
