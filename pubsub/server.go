// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var _ http.Handler = (*Server)(nil)

// Server pushes published messages to every connected websocket peer.
//
// Peers only listen. Anything they send is read and discarded so that
// control frames are processed.
type Server struct {
	log      logging.Logger
	config   Config
	upgrader websocket.Upgrader

	lock   sync.Mutex
	closed bool
	conns  set.Set[*Connection]
}

func New(log logging.Logger, config Config) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP upgrades the request and starts the pumps for the new peer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	closed := s.closed
	s.lock.Unlock()
	if closed {
		http.Error(w, "stream closed", http.StatusServiceUnavailable)
		return
	}

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := newConnection(s, wsConn)

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		_ = wsConn.Close()
		return
	}
	s.conns.Add(conn)
	go conn.writePump()
	go conn.readPump()
}

func (s *Server) connections() []*Connection {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.conns.List()
}

// Publish queues [msg] on every connection. Slow peers drop messages
// rather than block the publisher.
func (s *Server) Publish(msg []byte) {
	for _, conn := range s.connections() {
		if !conn.Send(msg) {
			s.log.Verbo("dropping message to slow connection")
		}
	}
}

// Len returns the number of connected peers.
func (s *Server) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.conns.Len()
}

// Close stops accepting peers and closes every connection.
func (s *Server) Close() {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()

	for _, conn := range s.connections() {
		conn.deactivate()
	}
}

func (s *Server) removeConnection(conn *Connection) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.conns.Remove(conn)
}
