package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type receivedPacket struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func startTestServer(t *testing.T, settings Settings) (*httptest.Server, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	room := NewRoom(settings, NewWordDeck([]string{"apple"}, nil), clock)
	ctx, cancel := context.WithCancel(context.Background())
	go room.GameLoop(ctx)

	handler := NewGameHandler(room, 100, 100, 1<<20)
	router := gin.New()
	router.GET("/ws", handler.JoinGameHandler)
	router.GET("/status", handler.StatusHandler)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		cancel()
		<-room.Done()
		server.Close()
	})
	return server, clock
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips packets until one of the given type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, packetType string) json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", packetType)
		packet := receivedPacket{}
		require.NoError(t, json.Unmarshal(data, &packet))
		if packet.Type == packetType {
			return packet.Value
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, packetType string, value any) {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	data, err := json.Marshal(ClientPacket{Type: packetType, Value: raw})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func getStatus(t *testing.T, server *httptest.Server) RoomStatus {
	t.Helper()
	res, err := http.Get(server.URL + "/status")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	status := RoomStatus{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&status))
	return status
}

func TestJoinGameHandler_FullRound(t *testing.T) {
	t.Parallel()
	server, clock := startTestServer(t, testSettings())

	naruto := dial(t, server)
	assert.JSONEq(t, `true`, string(readUntil(t, naruto, PacketDrawerStatusChange)))
	assert.Equal(t, "PRACTICE_MODE", getStatus(t, server).Phase)

	sasuke := dial(t, server)
	assert.JSONEq(t, `"`+roundStartMessage+`"`, string(readUntil(t, sasuke, PacketDrawerInfoUpdate)))
	assert.JSONEq(t, `"`+roundStartMessage+`"`, string(readUntil(t, naruto, PacketDrawerInfoUpdate)))

	clock.last().fire()
	assert.JSONEq(t, `"You are the drawer. The word is \"apple\"."`, string(readUntil(t, naruto, PacketDrawerInfoUpdate)))
	assert.JSONEq(t, `"Player 1 is drawing."`, string(readUntil(t, sasuke, PacketDrawerInfoUpdate)))

	stroke := testStroke(5, 10, 10, 11, 12)
	send(t, naruto, PacketNewLineData, stroke)
	expected, err := json.Marshal(stroke)
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(readUntil(t, sasuke, PacketNewLineData)))

	send(t, sasuke, PacketChatMessage, "Apple")
	assert.JSONEq(t, `"green"`, string(readUntil(t, naruto, PacketBackgroundColorUpdate)))
	assert.JSONEq(t, `"green"`, string(readUntil(t, sasuke, PacketBackgroundColorUpdate)))
	assert.JSONEq(t, `"`+roundStartMessage+`"`, string(readUntil(t, naruto, PacketDrawerInfoUpdate)))

	require.NoError(t, sasuke.Close())
	assert.JSONEq(t, `"`+practiceInfoMessage+`"`, string(readUntil(t, naruto, PacketDrawerInfoUpdate)))
	status := getStatus(t, server)
	assert.Equal(t, "PRACTICE_MODE", status.Phase)
	assert.Equal(t, []string{"Player 1"}, status.Players)
}

func TestJoinGameHandler_LongStrokeReachesGuessers(t *testing.T) {
	t.Parallel()
	server, clock := startTestServer(t, testSettings())

	naruto := dial(t, server)
	readUntil(t, naruto, PacketDrawerStatusChange)
	sasuke := dial(t, server)
	readUntil(t, sasuke, PacketDrawerInfoUpdate)

	clock.last().fire()
	readUntil(t, naruto, PacketDrawerInfoUpdate)
	readUntil(t, sasuke, PacketDrawerInfoUpdate)

	xy := make([]float64, 0, 2*1500)
	for i := range 1500 {
		xy = append(xy, float64(i)+0.123456789, float64(i)*0.5+0.987654321)
	}
	stroke := testStroke(5, xy...)
	data, err := json.Marshal(stroke)
	require.NoError(t, err)
	require.Greater(t, len(data), 64*1024)

	send(t, naruto, PacketNewLineData, stroke)
	assert.JSONEq(t, string(data), string(readUntil(t, sasuke, PacketNewLineData)))

	status := getStatus(t, server)
	assert.Equal(t, "ROUND_IN_PROGRESS", status.Phase)
	assert.Len(t, status.Players, 2)
}

func TestJoinGameHandler_RoomFull(t *testing.T) {
	t.Parallel()
	settings := testSettings()
	settings.MaxPlayers = 1
	server, _ := startTestServer(t, settings)

	naruto := dial(t, server)
	readUntil(t, naruto, PacketDrawerStatusChange)

	sasuke := dial(t, server)
	sasuke.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := sasuke.ReadMessage()
	closeErr := &websocket.CloseError{}
	require.True(t, errors.As(err, &closeErr), "expected a close frame, got %v", err)
	assert.Equal(t, ErrRoomFull.Error(), closeErr.Text)
	assert.Equal(t, []string{"Player 1"}, getStatus(t, server).Players)
}

func TestStatusHandler_RoomStopped(t *testing.T) {
	t.Parallel()
	room := NewRoom(testSettings(), NewWordDeck([]string{"apple"}, nil), &fakeClock{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	room.GameLoop(ctx)

	handler := NewGameHandler(room, 1, 1, 1<<20)
	router := gin.New()
	router.GET("/status", handler.StatusHandler)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.Contains(t, res.Body.String(), "room-unavailable")
}

func TestJoinGameHandler_NotAWebsocket(t *testing.T) {
	t.Parallel()
	room := NewRoom(testSettings(), NewWordDeck([]string{"apple"}, nil), &fakeClock{})
	handler := NewGameHandler(room, 1, 1, 1<<20)
	router := gin.New()
	router.GET("/ws", handler.JoinGameHandler)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}
