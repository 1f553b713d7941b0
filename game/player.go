package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	playerOutboxSize    = 256
	defaultPingInterval = 30 * time.Second
)

type player struct {
	id           string
	rateLimiter  *rate.Limiter
	outbox       chan []byte
	pingInterval time.Duration
	ctx          context.Context
	cancelCtx    context.CancelFunc

	roomChan chan<- ClientPacketEnvelope
	removeMe chan<- Player
	roomDone <-chan struct{}
}

func NewPlayer(messageRate rate.Limit, burst int) *player {
	ctx, cancel := context.WithCancel(context.Background())
	return &player{
		id:           uuid.NewString(),
		rateLimiter:  rate.NewLimiter(messageRate, burst),
		outbox:       make(chan []byte, playerOutboxSize),
		pingInterval: defaultPingInterval,
		ctx:          ctx,
		cancelCtx:    cancel,
	}
}

func (p *player) SetRoom(r *Room) {
	p.roomChan = r.inbox
	p.removeMe = r.removeMe
	p.roomDone = r.done
}

func (p *player) ID() string {
	return p.id
}

// Send never blocks: the room must not stall on one slow connection.
func (p *player) Send(data []byte) error {
	select {
	case <-p.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case p.outbox <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (p *player) CancelAndRelease() {
	p.cancelCtx()
}
