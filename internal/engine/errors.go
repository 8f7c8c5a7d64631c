package engine

import "errors"

var (
	ErrInvalidRange         = errors.New("invalid range")
	ErrConfirmationRequired = errors.New("large range requires confirmation")
	ErrWheelExhausted       = errors.New("all numbers have been used")
	ErrPoolExhausted        = errors.New("all items have been used")
	ErrInvalidJSON          = errors.New("invalid json")
	ErrInvalidFormat        = errors.New("invalid format, expected an array of strings")
	ErrInvalidPicker        = errors.New("invalid picker")
	ErrUnknownCommand       = errors.New("unknown command")
)
