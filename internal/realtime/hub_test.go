package realtime_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/01moynul/resellerhub-golang/internal/realtime"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// dial connects a websocket client and parks it in the given room.
func dial(t *testing.T, hub *realtime.Hub, room string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Join(room, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Join registers the client before its read loop; give the server
	// goroutine a moment to get there.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev realtime.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev.Event
}

func assertNoEvent(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var ev realtime.Event
	assert.Error(t, conn.ReadJSON(&ev))
}

func TestEmitReachesOnlyNamedRooms(t *testing.T) {
	hub := realtime.NewHub()
	admin := dial(t, hub, realtime.AdminRoom)
	resellerOne := dial(t, hub, realtime.ResellerRoom(1))
	resellerTwo := dial(t, hub, realtime.ResellerRoom(2))

	hub.Emit("orders", realtime.AdminRoom, realtime.ResellerRoom(1))

	assert.Equal(t, "orders", readEvent(t, admin))
	assert.Equal(t, "orders", readEvent(t, resellerOne))
	assertNoEvent(t, resellerTwo)
}

func TestEmitToEmptyRoomIsANoOp(t *testing.T) {
	hub := realtime.NewHub()
	hub.Emit("balance", realtime.ResellerRoom(42))
}

func TestBroadcastReachesEveryRoom(t *testing.T) {
	hub := realtime.NewHub()
	admin := dial(t, hub, realtime.AdminRoom)
	reseller := dial(t, hub, realtime.ResellerRoom(7))

	hub.Broadcast("products")

	assert.Equal(t, "products", readEvent(t, admin))
	assert.Equal(t, "products", readEvent(t, reseller))
}

func TestDisconnectedClientLeavesRoom(t *testing.T) {
	hub := realtime.NewHub()
	admin := dial(t, hub, realtime.AdminRoom)
	stale := dial(t, hub, realtime.AdminRoom)
	stale.Close()
	time.Sleep(50 * time.Millisecond)

	// The surviving connection still gets events after the other one drops.
	hub.Emit("withdrawals", realtime.AdminRoom)
	assert.Equal(t, "withdrawals", readEvent(t, admin))
}

func TestResellerRoomNaming(t *testing.T) {
	assert.Equal(t, "reseller:15", realtime.ResellerRoom(15))
}
