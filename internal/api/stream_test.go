package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestStreamPrices_SingleSnapshot(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()
	conn := dialStream(t, srv)

	if err := conn.WriteJSON(map[string]interface{}{"symbol": "aapl", "period": 5}); err != nil {
		t.Fatal(err)
	}
	var msg streamMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Error != "" {
		t.Fatalf("unexpected error %s", msg.Error)
	}
	if msg.Symbol != "AAPL" || len(msg.Series) != 6 || msg.State == nil || len(msg.State.ChartWindow) != 6 {
		t.Fatalf("unexpected snapshot %+v", msg)
	}

	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal close after single snapshot, got %v", err)
	}
}

func TestStreamPrices_Repeats(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()
	conn := dialStream(t, srv)

	if err := conn.WriteJSON(map[string]interface{}{"symbol": "MSFT", "period": 2, "interval_seconds": 1}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if len(msg.Series) != 3 {
			t.Errorf("message %d: expected 3 records, got %d", i, len(msg.Series))
		}
	}
}

func TestStreamPrices_InvalidRequest(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	for _, req := range []map[string]interface{}{
		{"symbol": "AAPL", "period": -1},
		{"symbol": ""},
		{"symbol": "AAPL", "interval_seconds": -3},
	} {
		conn := dialStream(t, srv)
		if err := conn.WriteJSON(req); err != nil {
			t.Fatal(err)
		}
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
		if msg.Error == "" || msg.Series != nil {
			t.Errorf("%v: expected error without data, got %+v", req, msg)
		}
	}
}

func TestParseStreamRequest_Defaults(t *testing.T) {
	h := NewAPIHandler(nil, nil, WithStreamMinInterval(2*time.Second))
	symbol, period, interval, err := h.parseStreamRequest(streamRequest{Symbol: " tsla "})
	if err != nil {
		t.Fatal(err)
	}
	if symbol != "TSLA" || period != 30 || interval != 0 {
		t.Errorf("unexpected defaults %s/%d/%s", symbol, period, interval)
	}
	_, _, interval, _ = h.parseStreamRequest(streamRequest{Symbol: "TSLA", IntervalSeconds: 1})
	if interval != 2*time.Second {
		t.Errorf("expected clamp to 2s, got %s", interval)
	}
}
