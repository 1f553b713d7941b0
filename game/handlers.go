package game

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	joinTimeout   = 5 * time.Second
	statusTimeout = 2 * time.Second
)

type GameHandler struct {
	room         *Room
	upgrader     websocket.Upgrader
	messageRate  rate.Limit
	messageBurst int
	readLimit    int64
}

// NewGameHandler expects origins to be checked by middleware before the upgrade.
func NewGameHandler(room *Room, messageRate float64, messageBurst, maxFrameBytes int) *GameHandler {
	return &GameHandler{
		room: room,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		messageRate:  rate.Limit(messageRate),
		messageBurst: messageBurst,
		readLimit:    int64(maxFrameBytes),
	}
}

func (h *GameHandler) JoinGameHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		slog.Warn("WS upgrade failed", "ip", ctx.ClientIP(), "error", err)
		return
	}

	socket := NewWebsocketConnection(conn, h.readLimit)
	player := NewPlayer(h.messageRate, h.messageBurst)
	player.SetRoom(h.room)

	joinCtx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()

	if err := h.room.Join(joinCtx, player); err != nil {
		slog.Info("Join refused", "ip", ctx.ClientIP(), "error", err)
		if !errors.Is(err, ErrRoomFull) && !errors.Is(err, ErrRoomClosed) {
			// the room may have registered the player before the timeout hit
			h.room.RemoveMe(player)
		}
		player.CancelAndRelease()
		socket.Close(err.Error())
		return
	}

	go player.WritePump(socket)
	go player.ReadPump(socket)
}

func (h *GameHandler) StatusHandler(ctx *gin.Context) {
	statusCtx, cancel := context.WithTimeout(ctx.Request.Context(), statusTimeout)
	defer cancel()

	status, err := h.room.Status(statusCtx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "room-unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, status)
}
