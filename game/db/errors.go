package db

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrNotEnoughGold  = errors.New("not enough gold")
	ErrUnknownDialect = errors.New("unknown database dialect")
)
