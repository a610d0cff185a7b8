package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"skull/internal/domain"
)

type received struct {
	T string          `json:"t"`
	M json.RawMessage `json:"m"`
}

func newTestServer(t *testing.T, opts Options) (*Hub, *httptest.Server) {
	t.Helper()
	if opts.Rules == (domain.Rules{}) {
		opts.Rules = domain.DefaultRules()
	}
	hub := NewHub(opts, zap.NewNop())
	srv := httptest.NewServer(hub.Routes())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func createRoom(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/rooms", "application/json", nil)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create room status = %d", resp.StatusCode)
	}
	var body struct {
		Room string `json:"room"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode room: %v", err)
	}
	return body.Room
}

func dial(t *testing.T, srv *httptest.Server, room, user string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?room=" + room + "&user=" + user
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", user, err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func next(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var msg received
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// readUntil skips messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) received {
	t.Helper()
	for i := 0; i < 50; i++ {
		if msg := next(t, conn); msg.T == typ {
			return msg
		}
	}
	t.Fatalf("no %q message", typ)
	return received{}
}

func write(t *testing.T, conn *websocket.Conn, msg Msg) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func decodeState(t *testing.T, msg received) domain.UserState {
	t.Helper()
	var state domain.UserState
	if err := json.Unmarshal(msg.M, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func TestServeWS_RejectsBadRequests(t *testing.T) {
	_, srv := newTestServer(t, Options{AllowedOrigins: []string{"https://skull.example"}})
	room := createRoom(t, srv)

	tests := []struct {
		name   string
		query  string
		origin string
		want   int
	}{
		{name: "missing user", query: "?room=" + room, want: http.StatusBadRequest},
		{name: "unknown room", query: "?room=nope&user=a", want: http.StatusNotFound},
		{name: "foreign origin", query: "?room=" + room + "&user=a", origin: "https://evil.example", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/ws"+tt.query, nil)
			if err != nil {
				t.Fatal(err)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRoom_PlaysOverWebsocket(t *testing.T) {
	_, srv := newTestServer(t, Options{})
	room := createRoom(t, srv)

	a := dial(t, srv, room, "a")
	if state := decodeState(t, readUntil(t, a, MsgState)); state.Viewer != "a" || len(state.Players) != 1 {
		t.Fatalf("a state = %+v", state)
	}

	b := dial(t, srv, room, "b")
	if state := decodeState(t, readUntil(t, b, MsgState)); len(state.Players) != 2 {
		t.Fatalf("b sees %d players, want 2", len(state.Players))
	}
	readUntil(t, a, "player_joined")

	write(t, a, Msg{T: MsgStart})
	readUntil(t, a, "round_started")
	dealt := readUntil(t, a, "hand_dealt")
	var hand struct {
		UserID string        `json:"user_id"`
		Hand   []domain.Card `json:"hand"`
	}
	if err := json.Unmarshal(dealt.M, &hand); err != nil {
		t.Fatal(err)
	}
	if hand.UserID != "a" || len(hand.Hand) != 4 {
		t.Fatalf("a was dealt %+v", hand)
	}
	// b's hand is never sent to a.
	if msg := next(t, a); msg.T != MsgState {
		t.Fatalf("after own hand a got %q, want state", msg.T)
	}

	write(t, b, Msg{T: MsgBid, M: map[string]int{"count": 1}})
	errMsg := readUntil(t, b, MsgError)
	var body errorBody
	if err := json.Unmarshal(errMsg.M, &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != string(domain.ErrNotInBiddingStage.Code) {
		t.Fatalf("error code = %q", body.Code)
	}

	write(t, a, Msg{T: MsgPlace, M: map[string]string{"card": "flower"}})
	placed := readUntil(t, b, "card_placed")
	if strings.Contains(string(placed.M), "flower") {
		t.Fatalf("card_placed leaked the card: %s", placed.M)
	}

	write(t, b, Msg{T: MsgState})
	state := decodeState(t, readUntil(t, b, MsgState))
	if state.Players[0].PileSize != 1 || len(state.Pile) != 0 {
		t.Fatalf("b state after a placed = %+v", state)
	}
}

func TestRoom_UnknownMessageType(t *testing.T) {
	_, srv := newTestServer(t, Options{})
	room := createRoom(t, srv)
	a := dial(t, srv, room, "a")
	readUntil(t, a, MsgState)

	write(t, a, Msg{T: "shuffle"})
	var body errorBody
	if err := json.Unmarshal(readUntil(t, a, MsgError).M, &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "bad_request" {
		t.Fatalf("code = %q, want bad_request", body.Code)
	}
}

func TestHub_ListsRooms(t *testing.T) {
	_, srv := newTestServer(t, Options{})
	room := createRoom(t, srv)

	resp, err := http.Get(srv.URL + "/rooms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var rooms []RoomInfo
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 || rooms[0].ID != room || rooms[0].Open != 6 {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func TestHub_ClosesIdleRooms(t *testing.T) {
	hub := NewHub(Options{Rules: domain.DefaultRules(), IdleTimeout: 20 * time.Millisecond}, nil)
	room := hub.CreateRoom()

	select {
	case <-room.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("idle room did not close")
	}
	hub.Close()
	if hub.Room(room.ID) != nil {
		t.Fatal("closed room still listed")
	}
}
