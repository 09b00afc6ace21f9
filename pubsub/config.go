// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"errors"
	"time"
)

var ErrInvalidPongWait = errors.New("pong wait must exceed write wait")

type Config struct {
	ReadBufferSize     int           `json:"readBufferSize" env:"READ_BUFFER_SIZE"`
	WriteBufferSize    int           `json:"writeBufferSize" env:"WRITE_BUFFER_SIZE"`
	MaxPendingMessages int           `json:"maxPendingMessages" env:"MAX_PENDING_MESSAGES"`
	MaxReadMessageSize int64         `json:"maxReadMessageSize" env:"MAX_READ_MESSAGE_SIZE"`
	WriteWait          time.Duration `json:"writeWait" env:"WRITE_WAIT"`
	PongWait           time.Duration `json:"pongWait" env:"PONG_WAIT"`
}

func NewDefaultConfig() Config {
	return Config{
		ReadBufferSize:     1024,
		WriteBufferSize:    4096,
		MaxPendingMessages: 1024,
		MaxReadMessageSize: 512,
		WriteWait:          10 * time.Second,
		PongWait:           60 * time.Second,
	}
}

func (c Config) Verify() error {
	if c.PongWait <= c.WriteWait {
		return ErrInvalidPongWait
	}
	return nil
}

// pingPeriod must be less than PongWait.
func (c Config) pingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}
