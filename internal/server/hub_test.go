package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/protobuf/types/known/structpb"
)

func dialSpectator(t *testing.T, srv *httptest.Server, matchID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/matches/" + matchID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubBroadcastsPerMatch(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	red := dialSpectator(t, srv, "red")
	blue := dialSpectator(t, srv, "blue")
	require.Eventually(t, func() bool {
		return hub.ClientCount("red") == 1 && hub.ClientCount("blue") == 1
	}, 5*time.Second, 10*time.Millisecond)

	hub.Sink("red").Publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, 1, "bear", "", 2))
	hub.Broadcast("blue", "note", "hello")

	msg := readMessage(t, red)
	assert.Equal(t, MessageEvent, msg.Type)
	assert.Equal(t, "red", msg.MatchID)
	data := msg.Data.(map[string]any)
	assert.Equal(t, string(rules.EventDamagedPlayer), data["type"])
	assert.Equal(t, float64(2), data["amount"])

	msg = readMessage(t, blue)
	assert.Equal(t, "note", msg.Type)
	assert.Equal(t, "hello", msg.Data)
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dialSpectator(t, srv, "m")
	require.Eventually(t, func() bool { return hub.ClientCount("m") == 1 }, 5*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount("m") == 0 }, 5*time.Second, 10*time.Millisecond)
	hub.Broadcast("m", MessageEvent, nil)
}

func TestHubClose(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dialSpectator(t, srv, "m")
	require.Eventually(t, func() bool { return hub.ClientCount("m") == 1 }, 5*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Zero(t, hub.ClientCount("m"))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure), "got %v", err)
}

func TestHubRejectsPlainHTTP(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws/matches/m")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws/other")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSpectatorFollowsMatch(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	ts := startServer(t, hub)

	conn := dialSpectator(t, srv, "watched")
	require.Eventually(t, func() bool { return hub.ClientCount("watched") == 1 }, 5*time.Second, 10*time.Millisecond)

	req, err := structpb.NewStruct(map[string]any{"match_id": "watched", "max_turns": 1, "async": true})
	require.NoError(t, err)
	_, err = ts.client.RunMatch(context.Background(), req)
	require.NoError(t, err)

	seen := map[string]int{}
	var last WSMessage
	for last.Type != MessageMatchFinished {
		last = readMessage(t, conn)
		if last.Type == MessageEvent {
			seen[last.Data.(map[string]any)["type"].(string)]++
		}
	}
	assert.Equal(t, "watched", last.MatchID)
	assert.Equal(t, StatusFinished, last.Data.(map[string]any)["status"])
	assert.Equal(t, 1, seen[string(rules.EventGameStarted)])
	assert.Equal(t, 1, seen[string(rules.EventGameOver)])
	assert.GreaterOrEqual(t, seen[string(rules.EventCardDrawn)], 14)
}
