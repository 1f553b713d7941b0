package game

import "errors"

var (
	ErrRoomFull         = errors.New("room-full")
	ErrRoomClosed       = errors.New("room-closed")
	ErrPlayerNotFound   = errors.New("player-not-found")
	ErrSendBufferFull   = errors.New("send-buffer-full")
	ErrConnectionClosed = errors.New("connection-closed")
)

var (
	ErrNameEmpty    = errors.New("name-empty")
	ErrNameTooLong  = errors.New("name-too-long")
	ErrNameReserved = errors.New("name-reserved")
	ErrNameTaken    = errors.New("name-taken")
)

var nameChangeMessages = map[error]string{
	ErrNameEmpty:    "Your name cannot be empty.",
	ErrNameTooLong:  "That name is too long.",
	ErrNameReserved: "That name is reserved. Please choose another name.",
	ErrNameTaken:    "That name is unavailable. Please choose another name.",
}
