package app

import "errors"

var (
	ErrNotRegistered = errors.New("connection not registered")
	ErrAlreadyJoined = errors.New("connection already in a room")
	ErrNotJoined     = errors.New("connection not in a room")
	ErrInvalidRoom   = errors.New("invalid room id")
)
