package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNameTaken      = errors.New("player name already taken")
	ErrEmptyName      = errors.New("player name is empty")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrNotInRoom    = errors.New("player is not in room")

	// Vote errors
	ErrInvalidStar = errors.New("star rating must be between 1 and 5")

	// Configuration errors (fatal at startup)
	ErrEmptyCredentialPool = errors.New("credential pool is empty")
	ErrNamePoolExhausted   = errors.New("no unused bot name available")
)
