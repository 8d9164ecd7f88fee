package server

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lazharichir/carta/events"
	"github.com/lazharichir/carta/game"
	serverevents "github.com/lazharichir/carta/server/events"
	"github.com/lazharichir/carta/server/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(events.NewInMemoryEventStore(), Options{}, game.WithRand(rand.New(rand.NewSource(42))))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createGame(t *testing.T, ts *httptest.Server) game.Snapshot {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/games", game.Rules{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[game.Snapshot](t, resp)
}

func TestCreateAndGetGame(t *testing.T) {
	s, ts := newTestServer(t)

	snap := createGame(t, ts)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, game.PhasePlaying, snap.Phase)
	assert.Len(t, snap.Rows, 4)
	assert.Len(t, snap.Rows[0], 6)
	assert.Equal(t, 3, snap.Location.Row)
	assert.Equal(t, 5, snap.Location.Col)
	assert.Equal(t, "2♣", snap.Current)
	assert.Equal(t, 10, snap.MaxMoves)

	resp, err := http.Get(ts.URL + "/api/games/" + snap.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[game.Snapshot](t, resp)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, snap.Rows, got.Rows)

	session, err := s.Games().Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Location, session.Location())

	resp, err = http.Get(ts.URL + "/api/games")
	require.NoError(t, err)
	defer resp.Body.Close()
	list := decode[[]game.Snapshot](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, snap.ID, list[0].ID)
}

func TestCreateGame_InvalidRules(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name  string
		rules game.Rules
	}{
		{"single cell", game.Rules{Rows: 1, Columns: 1}},
		{"negative moves", game.Rules{MaxMoves: -1}},
		{"unknown suit", game.Rules{Goal: game.CardSpec{Suit: "Stars", Rank: 2}}},
		{"grid larger than deck", game.Rules{Rows: 10, Columns: 10}},
		{"goal equals start", game.Rules{Goal: game.CardSpec{Suit: "Clubs", Rank: 2}}},
		{"rank outside deck", game.Rules{Goal: game.CardSpec{Suit: "Hearts", Rank: 40}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/games", tt.rules)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	resp, err := http.Post(ts.URL+"/api/games", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetGame_NotFound(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/api/games/missing", "/api/games/missing/events"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	resp := postJSON(t, ts.URL+"/api/games/missing/moves", MoveRequest{Token: "n"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMoves(t *testing.T) {
	_, ts := newTestServer(t)
	snap := createGame(t, ts)
	movesURL := ts.URL + "/api/games/" + snap.ID + "/moves"

	tests := []struct {
		token  string
		status int
	}{
		{"s", http.StatusUnprocessableEntity},  // off the board
		{"ne", http.StatusUnprocessableEntity}, // diagonal
		{"up", http.StatusUnprocessableEntity},
		{"n", http.StatusOK},
		{"q", http.StatusOK},
		{"w", http.StatusConflict},
	}
	for _, tt := range tests {
		resp := postJSON(t, movesURL, MoveRequest{Token: tt.token})
		assert.Equal(t, tt.status, resp.StatusCode, tt.token)
	}

	resp, err := http.Get(ts.URL + "/api/games/" + snap.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	got := decode[game.Snapshot](t, resp)
	assert.Equal(t, game.PhaseEnded, got.Phase)
	assert.Equal(t, game.EndQuit, got.EndReason)
	assert.Equal(t, 1, got.Moves)
	assert.Equal(t, 2, got.Location.Row)
	assert.Equal(t, 5, got.Location.Col)
	assert.NotEqual(t, "XX", got.Rows[2][5])
}

func TestMoveResponse(t *testing.T) {
	_, ts := newTestServer(t)
	snap := createGame(t, ts)

	resp := postJSON(t, ts.URL+"/api/games/"+snap.ID+"/moves", MoveRequest{Token: "W"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	move := decode[MoveResponse](t, resp)

	assert.False(t, move.Result.Quit)
	assert.False(t, move.Result.Ended)
	assert.Equal(t, 9, move.Result.MovesLeft)
	assert.Equal(t, 3, move.Result.Location.Row)
	assert.Equal(t, 4, move.Result.Location.Col)
	assert.Equal(t, move.Result.Card, move.Snapshot.Current)
	assert.Equal(t, move.Result.Card, move.Snapshot.Rows[3][4])
}

func TestGetEvents(t *testing.T) {
	_, ts := newTestServer(t)
	snap := createGame(t, ts)
	movesURL := ts.URL + "/api/games/" + snap.ID + "/moves"

	postJSON(t, movesURL, MoveRequest{Token: "x"})
	postJSON(t, movesURL, MoveRequest{Token: "n"})
	postJSON(t, movesURL, MoveRequest{Token: "quit"})

	resp, err := http.Get(ts.URL + "/api/games/" + snap.ID + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var evs []struct {
		Name    string          `json:"name"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&evs))

	names := make([]string, len(evs))
	for i, e := range evs {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"game-started", "move-rejected", "player-moved", "game-ended"}, names)

	var ended game.GameEnded
	require.NoError(t, json.Unmarshal(evs[3].Payload, &ended))
	assert.Equal(t, snap.ID, ended.GameID)
	assert.Equal(t, game.EndQuit, ended.Reason)
	assert.Equal(t, 1, ended.Moves)
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/games", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

type wsMessage struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, cmd any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(cmd))
}

func receive(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_Commands(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, map[string]any{"name": "create-game", "rules": game.Rules{MaxMoves: 1}})
	msg := receive(t, conn)
	require.Equal(t, handlers.ReplySnapshot, msg.Name)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(msg.Payload, &snap))
	assert.Equal(t, 1, snap.MaxMoves)

	send(t, conn, map[string]any{"name": "submit-move", "gameId": snap.ID, "token": "sw"})
	msg = receive(t, conn)
	assert.Equal(t, "move-rejected", msg.Name)
	msg = receive(t, conn)
	require.Equal(t, handlers.ReplyError, msg.Name)
	var reply handlers.ErrorReply
	require.NoError(t, json.Unmarshal(msg.Payload, &reply))
	assert.Equal(t, "submit-move", reply.Command)

	send(t, conn, map[string]any{"name": "submit-move", "gameId": snap.ID, "token": "n"})
	assert.Equal(t, "player-moved", receive(t, conn).Name)
	assert.Equal(t, "game-ended", receive(t, conn).Name)
	msg = receive(t, conn)
	require.Equal(t, handlers.ReplySnapshot, msg.Name)
	require.NoError(t, json.Unmarshal(msg.Payload, &snap))
	assert.Equal(t, game.PhaseEnded, snap.Phase)
	assert.Equal(t, game.EndMovesExhausted, snap.EndReason)

	send(t, conn, map[string]any{"name": "deal-cards"})
	msg = receive(t, conn)
	require.Equal(t, handlers.ReplyError, msg.Name)
	require.NoError(t, json.Unmarshal(msg.Payload, &reply))
	assert.Contains(t, reply.Message, handlers.ErrUnknownCommand.Error())
}

func TestWebSocket_FollowsRESTMoves(t *testing.T) {
	_, ts := newTestServer(t)
	snap := createGame(t, ts)
	conn := dial(t, ts)

	send(t, conn, map[string]any{"name": "get-game", "gameId": snap.ID})
	assert.Equal(t, handlers.ReplySnapshot, receive(t, conn).Name)

	resp := postJSON(t, ts.URL+"/api/games/"+snap.ID+"/moves", MoveRequest{Token: "n"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg := receive(t, conn)
	require.Equal(t, "player-moved", msg.Name)
	var moved game.PlayerMoved
	require.NoError(t, json.Unmarshal(msg.Payload, &moved))
	assert.Equal(t, snap.ID, moved.GameID)
	assert.Equal(t, 1, moved.Move)
	assert.Equal(t, "N", moved.Direction)
}

func TestEnvelope(t *testing.T) {
	data, err := serverevents.Envelope("snapshot", map[string]int{"moves": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"snapshot","payload":{"moves":3}}`, string(data))
}
