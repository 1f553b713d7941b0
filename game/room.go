package game

import (
	"context"
	"math"
	"time"
)

type RoomPhase int

const (
	PHASE_NO_PLAYERS RoomPhase = iota
	PHASE_PRACTICE
	PHASE_INTERMISSION
	PHASE_IN_PROGRESS
)

func (p RoomPhase) String() string {
	switch p {
	case PHASE_NO_PLAYERS:
		return "NO_PLAYERS"
	case PHASE_PRACTICE:
		return "PRACTICE_MODE"
	case PHASE_INTERMISSION:
		return "ROUND_INTERMISSION"
	case PHASE_IN_PROGRESS:
		return "ROUND_IN_PROGRESS"
	}
	return "UNKNOWN"
}

const (
	roundStartMessage    = "A new round will start shortly."
	practiceInfoMessage  = "Waiting for other players to join..."
	drawerLeftMessage    = "The drawer has left. Starting a new round."
	defaultStrokeStyle   = "#000000"
	countdownInterval    = time.Second
	roomInboxSize        = 1024
	roomRemovalQueueSize = 64
)

type Settings struct {
	RoundDuration        time.Duration
	IntermissionDuration time.Duration
	MaxBrushWidth        float64
	BrushCap             string
	ChatMaxLength        int
	NameMaxLength        int
	// MaxPlayers of 0 means no limit.
	MaxPlayers int
	// StrictInvariants panics on impossible states instead of ignoring them.
	StrictInvariants bool
}

type roomJoinRequest struct {
	player  Player
	errChan chan error
}

type RoomStatus struct {
	Phase    string   `json:"phase"`
	Players  []string `json:"players"`
	Drawer   string   `json:"drawer,omitempty"`
	TimeLeft any      `json:"timeLeft,omitempty"`
}

// Room is the single game session. All state below is owned by the
// goroutine running GameLoop; other goroutines talk to it through channels.
type Room struct {
	settings   Settings
	brushRules BrushRules
	clock      Clock
	words      WordSelector

	out      *outbox
	history  *History
	registry *Registry

	phase           RoomPhase
	drawer          Player
	currentWord     string
	timeLeft        int
	wordGuessed     bool
	previousDrawers map[Player]struct{}
	lateJoiners     map[Player]struct{}
	intermission    Timer
	countdown       Timer

	inbox      chan ClientPacketEnvelope
	removeMe   chan Player
	joinReqs   chan roomJoinRequest
	statusReqs chan chan RoomStatus
	done       chan struct{}
}

func NewRoom(settings Settings, words WordSelector, clock Clock) *Room {
	out := &outbox{}
	history := NewHistory()
	return &Room{
		settings: settings,
		brushRules: BrushRules{
			MinWidth: 1,
			MaxWidth: settings.MaxBrushWidth,
			Cap:      settings.BrushCap,
		},
		clock:           clock,
		words:           words,
		out:             out,
		history:         history,
		registry:        NewRegistry(settings.NameMaxLength, history, out),
		phase:           PHASE_NO_PLAYERS,
		previousDrawers: map[Player]struct{}{},
		lateJoiners:     map[Player]struct{}{},
		inbox:           make(chan ClientPacketEnvelope, roomInboxSize),
		removeMe:        make(chan Player, roomRemovalQueueSize),
		joinReqs:        make(chan roomJoinRequest),
		statusReqs:      make(chan chan RoomStatus),
		done:            make(chan struct{}),
	}
}

// Join blocks until the room has registered p or refused it.
func (r *Room) Join(ctx context.Context, p Player) error {
	req := roomJoinRequest{player: p, errChan: make(chan error, 1)}
	select {
	case r.joinReqs <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRoomClosed
	}

	select {
	case err := <-req.errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) Status(ctx context.Context) (RoomStatus, error) {
	respChan := make(chan RoomStatus, 1)
	select {
	case r.statusReqs <- respChan:
	case <-ctx.Done():
		return RoomStatus{}, ctx.Err()
	case <-r.done:
		return RoomStatus{}, ErrRoomClosed
	}

	select {
	case status := <-respChan:
		return status, nil
	case <-ctx.Done():
		return RoomStatus{}, ctx.Err()
	}
}

// Done is closed once GameLoop has returned.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) inputValues() InputValues {
	return InputValues{
		BrushStyle: BrushStyle{
			LineWidth:    max(1, math.Floor(r.settings.MaxBrushWidth/3)),
			LineCap:      r.settings.BrushCap,
			StrokeStyle:  defaultStrokeStyle,
			MaxBrushSize: r.settings.MaxBrushWidth,
		},
		ChatMessageMaxLength: r.settings.ChatMaxLength,
		PlayerNameMaxLength:  r.settings.NameMaxLength,
	}
}

// RemoveMe queues p for removal. It never blocks once the room has stopped.
func (r *Room) RemoveMe(p Player) {
	select {
	case r.removeMe <- p:
	case <-r.done:
	}
}
