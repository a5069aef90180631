package repository

import "errors"

var (
	ErrRedisConnection  = errors.New("redis connection error")
	ErrInvalidEventData = errors.New("invalid shake event data")
)
