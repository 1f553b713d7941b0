package game

import (
	"log/slog"
	"time"
)

// ReadPump forwards inbound frames to the room until the connection fails or
// the player is released, then asks the room to remove the player.
func (p *player) ReadPump(socket WebsocketConnection) {
	defer func() {
		p.cancelCtx()
		socket.Close("")
		p.leaveRoom()
	}()

	for {
		data, err := socket.Read()
		if err != nil {
			slog.Debug("Read loop stopped", "player", p.id, "error", err)
			return
		}

		if !p.rateLimiter.Allow() {
			continue
		}

		packet, ok := decodeClientPacket(data)
		if !ok {
			continue
		}

		select {
		case p.roomChan <- ClientPacketEnvelope{packet: packet, from: p}:
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *player) leaveRoom() {
	if p.removeMe == nil {
		return
	}
	select {
	case p.removeMe <- p:
	case <-p.roomDone:
	}
}

func (p *player) WritePump(socket WebsocketConnection) {
	pingTicker := time.NewTicker(p.pingInterval)
	defer func() {
		pingTicker.Stop()
		p.cancelCtx()
		socket.Close("")
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case data := <-p.outbox:
			if err := socket.Write(data); err != nil {
				slog.Debug("Write failed", "player", p.id, "error", err)
				return
			}
		case <-pingTicker.C:
			if err := socket.Ping(); err != nil {
				slog.Debug("Ping failed", "player", p.id, "error", err)
				return
			}
		}
	}
}
