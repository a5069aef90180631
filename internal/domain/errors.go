package domain

import "errors"

var (
	ErrInvalidReading = errors.New("invalid reading")
	ErrDeviceNotFound = errors.New("device not found")
	ErrEventNotFound  = errors.New("shake event not found")
)
