package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/leagueconsole/go/internal/console"
	"github.com/mcdev12/leagueconsole/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	return startHubWithConfig(t, DefaultConnectionConfig())
}

func startHubWithConfig(t *testing.T, config ConnectionConfig) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(config)
	go hub.Start(ctx)

	router := chi.NewRouter()
	NewWebSocketHandler(hub, func(r *http.Request) string {
		return r.URL.Query().Get("user")
	}).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/console" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForConnections(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.Stats().TotalConnections == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_broadcastsTablesToEveryPage(t *testing.T) {
	hub, srv := startHub(t)
	first := dial(t, srv, "?user=admin")
	second := dial(t, srv, "")
	waitForConnections(t, hub, 2)

	hub.TableUpdated(console.LeagueTable([]models.League{{ID: "l1", Name: "Premier"}}))

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg TableMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, MessageTypeTable, msg.Type)
		assert.Equal(t, console.ResourceLeagues, msg.Resource)
		require.Len(t, msg.Rows, 1)
		assert.Equal(t, "Premier", msg.Rows[0].Cells[1].Text)
	}
}

func TestHub_unregistersClosedConnections(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "")
	waitForConnections(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForConnections(t, hub, 0)
}

func TestHandleStats(t *testing.T) {
	hub, srv := startHub(t)
	dial(t, srv, "?user=admin")
	dial(t, srv, "?user=admin")
	dial(t, srv, "")
	waitForConnections(t, hub, 3)

	resp, err := http.Get(srv.URL + "/ws/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 3, stats.TotalConnections)
	assert.Equal(t, map[string]int{"admin": 2, "anonymous": 1}, stats.Users)
}

func TestHub_dropsTablesWithoutConnections(t *testing.T) {
	hub := NewHub(DefaultConnectionConfig())
	for i := 0; i < 1000; i++ {
		hub.TableUpdated(console.EmptyTable(console.ResourceTeams))
	}
	assert.Equal(t, 0, hub.Stats().TotalConnections)
}

func TestHub_broadcastWhilePagesDisconnect(t *testing.T) {
	hub := NewHub(DefaultConnectionConfig())
	conns := make([]*Connection, 20000)
	for i := range conns {
		conns[i] = &Connection{ID: fmt.Sprintf("page-%d", i), Send: make(chan []byte, 4), Hub: hub}
		hub.connections[conns[i]] = true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, c := range conns {
			hub.unregister(c)
		}
	}()

	table := TableMessage{Type: MessageTypeTable, Resource: console.ResourceLeagues}
	for i := 0; i < 3; i++ {
		assert.NotPanics(t, func() { hub.handleBroadcast(table) })
	}
	<-done

	assert.Equal(t, 0, hub.Stats().TotalConnections)
	for _, c := range conns {
		for range c.Send {
		}
	}
}

func TestHub_pingsOnClockTick(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Now())
	config := DefaultConnectionConfig()
	config.Clock = clock

	hub, srv := startHubWithConfig(t, config)
	conn := dial(t, srv, "")
	waitForConnections(t, hub, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	clock.Advance(config.PingInterval)
	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("no ping after the ping interval elapsed")
	}
}
