package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/snakearena/pkg/protocol"
	"github.com/vango-dev/snakearena/pkg/world"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(&ServerConfig{
		Registry: prometheus.NewRegistry(),
		Logger:   testLogger(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	srv.Start(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-srv.hubDone
	})
	return srv, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

type testClient struct {
	t     *testing.T
	conn  *websocket.Conn
	codec protocol.Codec
}

func dial(t *testing.T, ts *httptest.Server, subprotocol string) *testClient {
	t.Helper()
	d := websocket.Dialer{HandshakeTimeout: time.Second}
	if subprotocol != "" {
		d.Subprotocols = []string{subprotocol}
	}
	conn, _, err := d.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	codec, err := protocol.CodecByName(conn.Subprotocol())
	if err != nil {
		t.Fatalf("negotiated codec: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn, codec: codec}
}

func (c *testClient) send(msg protocol.Message) {
	c.t.Helper()
	b, err := protocol.Encode(c.codec, msg)
	if err != nil {
		c.t.Fatalf("Encode error: %v", err)
	}
	mt := websocket.TextMessage
	if c.codec.Binary() {
		mt = websocket.BinaryMessage
	}
	if err := c.conn.WriteMessage(mt, b); err != nil {
		c.t.Fatalf("WriteMessage error: %v", err)
	}
}

func (c *testClient) recv() protocol.Message {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("ReadMessage error: %v", err)
	}
	env, err := c.codec.DecodeEnvelope(data)
	if err != nil {
		c.t.Fatalf("DecodeEnvelope error: %v", err)
	}
	msg, err := protocol.DecodeOutbound(env)
	if err != nil {
		c.t.Fatalf("DecodeOutbound error: %v", err)
	}
	return msg
}

func (c *testClient) join(name string) (string, []world.FoodItem, []world.PlayerRecord) {
	c.t.Helper()
	c.send(protocol.PlayerJoined{Name: name})
	w, ok := c.recv().(protocol.Welcome)
	if !ok {
		c.t.Fatal("expected welcome first")
	}
	food, ok := c.recv().(protocol.InitFood)
	if !ok {
		c.t.Fatal("expected initFood second")
	}
	players, ok := c.recv().(protocol.ActivePlayers)
	if !ok {
		c.t.Fatal("expected activePlayers third")
	}
	return w.ID, food.Food, players.Players
}

func TestWebSocketJoinRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)
	ava := dial(t, ts, "")

	id, food, players := ava.join("Ava")
	if id == "" {
		t.Error("welcome carried an empty id")
	}
	if len(food) != world.DefaultFoodCount {
		t.Errorf("initFood has %d items", len(food))
	}
	if len(players) != 1 || players[0].ID != id || players[0].Name != "Ava" {
		t.Errorf("activePlayers = %+v", players)
	}
}

func TestWebSocketLeaveBroadcast(t *testing.T) {
	_, ts := newTestServer(t)
	ava := dial(t, ts, protocol.CodecJSON)
	ava.join("Ava")

	bo := dial(t, ts, protocol.CodecMsgpack)
	if !bo.codec.Binary() {
		t.Fatal("expected msgpack negotiation")
	}
	bo.join("Bo")

	if got := ava.recv().(protocol.ActivePlayers); len(got.Players) != 2 {
		t.Fatalf("Ava sees %d players after Bo joined", len(got.Players))
	}

	bo.conn.Close()

	got, ok := ava.recv().(protocol.ActivePlayers)
	if !ok || len(got.Players) != 1 || got.Players[0].Name != "Ava" {
		t.Errorf("after Bo left Ava sees %+v", got)
	}
}

func TestWebSocketFoodEaten(t *testing.T) {
	_, ts := newTestServer(t)
	ava := dial(t, ts, "")
	_, food, _ := ava.join("Ava")

	ava.send(protocol.FoodEaten{FoodID: food[3].ID})
	update, ok := ava.recv().(protocol.UpdateFood)
	if !ok {
		t.Fatal("expected updateFood")
	}
	if len(update.Food) != world.DefaultFoodCount {
		t.Errorf("updateFood has %d items", len(update.Food))
	}
}

func TestWebSocketMalformedFrameKeepsConnection(t *testing.T) {
	_, ts := newTestServer(t)
	ava := dial(t, ts, "")

	if err := ava.conn.WriteMessage(websocket.TextMessage, []byte("not an envelope")); err != nil {
		t.Fatalf("WriteMessage error: %v", err)
	}
	if err := ava.conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"teleport","p":1}`)); err != nil {
		t.Fatalf("WriteMessage error: %v", err)
	}

	if _, _, players := ava.join("Ava"); len(players) != 1 {
		t.Errorf("join after bad frames saw %d players", len(players))
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	_, ts := newTestServer(t)

	header := http.Header{"Origin": {"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	if err == nil {
		t.Fatal("dial from a foreign origin should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}

	header = http.Header{"Origin": {"http://localhost:3000"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	if err != nil {
		t.Fatalf("dial from the allowed origin failed: %v", err)
	}
	conn.Close()
}

func TestHTTPEndpoints(t *testing.T) {
	_, ts := newTestServer(t)
	ava := dial(t, ts, "")
	ava.join("Ava")

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("/healthz = %q", body)
	}

	resp, err = http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status error: %v", err)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	resp.Body.Close()
	want := Status{Players: 1, Food: world.DefaultFoodCount, Connections: 1}
	if st != want {
		t.Errorf("/api/status = %+v, want %+v", st, want)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, want := range []string{
		"arena_players 1",
		"arena_connections 1",
		`arena_messages_received_total{event="playerJoined"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}
