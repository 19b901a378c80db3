package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botornot-chat/botornot/internal/model"
	"github.com/botornot-chat/botornot/internal/testutil"
)

type stubEvents struct {
	mu        sync.Mutex
	verifyErr error
	left      []model.PlayerID
	recorded  []string
	nameByID  map[model.PlayerID]string
}

func (e *stubEvents) VerifySeat(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error {
	return e.verifyErr
}

func (e *stubEvents) RecordMessage(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, text string) (model.ChatMessage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recorded = append(e.recorded, text)
	name := e.nameByID[playerID]
	return model.ChatMessage{
		SpeakerID: playerID,
		Speaker:   name,
		Kind:      model.KindHuman,
		Text:      text,
		SentAt:    time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (e *stubEvents) HandleGroupLeft(ctx context.Context, playerID model.PlayerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.left = append(e.left, playerID)
}

func (e *stubEvents) leftPlayers() []model.PlayerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.PlayerID(nil), e.left...)
}

func newTestServer(t *testing.T, events Events) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	hub.Bind(events)

	router := mux.NewRouter()
	router.HandleFunc("/ws/rooms/{id}", hub.Serve())
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, roomID, playerID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/rooms/" + roomID + "?player_id=" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) outboundMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg outboundMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestChatRoundTrip(t *testing.T) {
	events := &stubEvents{nameByID: map[model.PlayerID]string{100: "harry"}}
	_, server := newTestServer(t, events)

	conn := dial(t, server, "100", "100")

	presence := readMessage(t, conn)
	assert.Equal(t, "presence", presence.Type)
	assert.Equal(t, 1, presence.Online)

	require.NoError(t, conn.WriteJSON(map[string]string{"text": "hello?"}))

	msg := readMessage(t, conn)
	assert.Equal(t, "message", msg.Type)
	assert.Equal(t, model.RoomID(100), msg.RoomID)
	assert.Equal(t, model.PlayerID(100), msg.SpeakerID)
	assert.Equal(t, "harry", msg.Speaker)
	assert.Equal(t, "hello?", msg.Text)
}

func TestBroadcastReachesAllRoomClients(t *testing.T) {
	events := &stubEvents{}
	hub, server := newTestServer(t, events)

	connA := dial(t, server, "100", "100")
	connB := dial(t, server, "100", "101")
	other := dial(t, server, "200", "102")

	// Drain presence events; connA sees B's arrival too
	readMessage(t, connA)
	readMessage(t, connA)
	readMessage(t, connB)
	readMessage(t, other)

	hub.Broadcast(100, model.ChatMessage{
		SpeakerID: 0, Speaker: "System", Kind: model.KindBot, Text: "ollie joined the group.",
	})

	for _, conn := range []*websocket.Conn{connA, connB} {
		msg := readMessage(t, conn)
		assert.Equal(t, "message", msg.Type)
		assert.Equal(t, "ollie joined the group.", msg.Text)
	}

	// The other room hears nothing
	require.NoError(t, other.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestBroadcastToRoomWithoutConnections(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	hub.Bind(&stubEvents{})

	// Must not create a hub or block
	hub.Broadcast(999, model.ChatMessage{Text: "anyone?"})
	assert.Equal(t, 0, hub.Online(999))
}

func TestDisconnectRemovesPlayer(t *testing.T) {
	events := &stubEvents{}
	hub, server := newTestServer(t, events)

	conn := dial(t, server, "100", "100")
	readMessage(t, conn)
	require.Equal(t, 1, hub.Online(100))

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.Online(100) == 0
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		left := events.leftPlayers()
		return len(left) == 1 && left[0] == model.PlayerID(100)
	}, time.Second, 5*time.Millisecond)
}

func TestRoomHubRetiredAfterLastDisconnect(t *testing.T) {
	events := &stubEvents{}
	hub, server := newTestServer(t, events)

	conn := dial(t, server, "100", "100")
	readMessage(t, conn)
	require.Equal(t, 1, hub.Online(100))

	require.NoError(t, conn.Close())

	// The sub-hub and its run goroutine go away with the last client
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.rooms) == 0
	}, time.Second, 5*time.Millisecond)

	// Broadcasting into the drained room is a no-op, not a deadlock
	hub.Broadcast(100, model.ChatMessage{Speaker: "System", Text: "quiet room"})

	// A later connection lands in a fresh sub-hub
	conn2 := dial(t, server, "100", "101")
	presence := readMessage(t, conn2)
	assert.Equal(t, "presence", presence.Type)
	assert.Equal(t, 1, presence.Online)
}

func TestSeatVerificationRejectsConnection(t *testing.T) {
	events := &stubEvents{verifyErr: model.ErrNotInRoom}
	_, server := newTestServer(t, events)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/rooms/100?player_id=100"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestMalformedInboundIgnored(t *testing.T) {
	events := &stubEvents{nameByID: map[model.PlayerID]string{100: "harry"}}
	_, server := newTestServer(t, events)

	conn := dial(t, server, "100", "100")
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(map[string]string{"text": ""}))
	require.NoError(t, conn.WriteJSON(map[string]string{"text": "real one"}))

	msg := readMessage(t, conn)
	assert.Equal(t, "real one", msg.Text)

	events.mu.Lock()
	defer events.mu.Unlock()
	assert.Equal(t, []string{"real one"}, events.recorded)
}

func TestOnlineCountsPerRoom(t *testing.T) {
	events := &stubEvents{}
	hub, server := newTestServer(t, events)

	dial(t, server, "100", "100")
	dial(t, server, "100", "101")
	dial(t, server, "200", "102")

	require.Eventually(t, func() bool {
		return hub.Online(100) == 2 && hub.Online(200) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.Online(300))
}
