package liveview

import "errors"

var (
	ErrUnknownView    = errors.New("unknown live view")
	ErrNotStarted     = errors.New("coordinator not started")
	ErrUnknownProduct = errors.New("order references an unknown product")
	ErrInvalidEvent   = errors.New("invalid event payload")
)
