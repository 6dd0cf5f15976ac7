package game

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrInvalidTransition = errors.New("operation not valid in current phase")
	ErrInvalidActor      = errors.New("actor unknown or not alive")
	ErrInvalidTarget     = errors.New("target is not a member of the room")
	ErrDuplicateName     = errors.New("name already taken in this room")
	ErrRoomFull          = errors.New("room is full")
)
