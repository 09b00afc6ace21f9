// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ava-labs/custodyvm/event"
)

// EventStream receives events as the node commits them.
type EventStream struct {
	conn *websocket.Conn

	closeOnce sync.Once
	closeErr  error
}

// NewEventStream connects to the event stream of the node at [uri]. Only
// events committed after the connection is established are delivered.
func NewEventStream(ctx context.Context, uri string) (*EventStream, error) {
	uri = strings.TrimSuffix(uri, "/")
	switch {
	case strings.HasPrefix(uri, "https://"):
		uri = "wss://" + strings.TrimPrefix(uri, "https://")
	case strings.HasPrefix(uri, "http://"):
		uri = "ws://" + strings.TrimPrefix(uri, "http://")
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, uri+StreamEndpoint, nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		_ = resp.Body.Close()
	}
	return &EventStream{conn: conn}, nil
}

// Listen blocks until the next event arrives.
func (s *EventStream) Listen() (*event.Entry, error) {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	entry := new(event.Entry)
	if err := json.Unmarshal(msg, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *EventStream) Close() error {
	s.closeOnce.Do(func() {
		_ = s.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
