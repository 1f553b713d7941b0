package game

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readTimeout  = time.Minute
	writeTimeout = 10 * time.Second
)

// websocketConnection serializes writes because ReadPump may close the
// socket while WritePump is writing.
type websocketConnection struct {
	socket    *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewWebsocketConnection caps inbound frames at readLimit bytes. gorilla fails
// the connection on a larger frame, so the limit has to fit the longest stroke.
func NewWebsocketConnection(conn *websocket.Conn, readLimit int64) *websocketConnection {
	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	return &websocketConnection{socket: conn}
}

func (wc *websocketConnection) Write(data []byte) error {
	wc.writeMu.Lock()
	defer wc.writeMu.Unlock()
	wc.socket.SetWriteDeadline(time.Now().Add(writeTimeout))
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	wc.writeMu.Lock()
	defer wc.writeMu.Unlock()
	wc.socket.SetWriteDeadline(time.Now().Add(writeTimeout))
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	if err == nil {
		wc.socket.SetReadDeadline(time.Now().Add(readTimeout))
	}
	return p, err
}

func (wc *websocketConnection) Close(reason string) {
	wc.closeOnce.Do(func() {
		wc.writeMu.Lock()
		defer wc.writeMu.Unlock()
		wc.socket.SetWriteDeadline(time.Now().Add(writeTimeout))
		wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
		wc.socket.Close()
	})
}
