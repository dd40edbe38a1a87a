package chrono

import "errors"

var (
	ErrModeLocked       = errors.New("mode cannot change while players are on the table")
	ErrUnknownMode      = errors.New("unknown game mode")
	ErrUnknownDirection = errors.New("unknown race direction")
)
