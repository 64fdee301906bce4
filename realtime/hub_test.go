package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialHub spins up a server that registers every incoming socket under the
// user id given in the path, then dials it. Returns the client side and the
// server side the hub holds.
func dialHub(t *testing.T, hub *Hub, userID string) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Add(strings.TrimPrefix(r.URL.Path, "/"), conn)
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	select {
	case serverConn := <-serverConns:
		return conn, serverConn
	case <-time.After(time.Second):
		t.Fatal("server never registered the connection")
		return nil, nil
	}
}

func TestHubDeliversToUser(t *testing.T) {
	hub := NewHub()
	conn, _ := dialHub(t, hub, "user-a")

	require.Equal(t, 1, hub.ConnCount("user-a"))

	hub.Send("user-a", []byte(`{"content":"hey"}`))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"content":"hey"}`, string(msg))
}

func TestHubSendIsSafeForConcurrentUse(t *testing.T) {
	hub := NewHub()
	conn, _ := dialHub(t, hub, "user-a")

	// Drain the socket so writes never block on a full buffer.
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Send("user-a", []byte(`{"content":"hey"}`))
			}
		}()
	}
	wg.Wait()

	conn.Close()
	<-drained
}

func TestHubSendToUnknownUserIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Send("nobody", []byte("x"))
	assert.Zero(t, hub.ConnCount("nobody"))
}

func TestHubRemove(t *testing.T) {
	hub := NewHub()
	_, serverConn := dialHub(t, hub, "user-a")

	require.Equal(t, 1, hub.ConnCount("user-a"))

	// Removing a connection the hub doesn't hold for this user is harmless.
	hub.Remove("user-b", serverConn)
	assert.Equal(t, 1, hub.ConnCount("user-a"))

	hub.Remove("user-a", serverConn)
	assert.Zero(t, hub.ConnCount("user-a"))
}
