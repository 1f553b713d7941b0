package game

import "time"

type WebsocketConnection interface {
	Close(reason string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Player is the room's handle on one connected participant.
type Player interface {
	ID() string
	Send(data []byte) error
	CancelAndRelease()
}

type WordSelector interface {
	// Next returns a word that is not previous and has not been handed out
	// since the last reset.
	Next(previous string) string
	Reset()
}

type Timer interface {
	C() <-chan time.Time
	Stop()
}

type Clock interface {
	NewTimer(d time.Duration) Timer
	NewTicker(d time.Duration) Timer
}
