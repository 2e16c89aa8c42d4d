/*
Package session contains the core logic for presentation rooms.

This file defines the broadcast router: delivery of one event to one
connection or to every member of a room. Delivery is best-effort — a stale
or slow target is dropped and at most logged, never an error.
*/
package session

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"slidecast/internal/pkg/logx"
)

// Conn is the transport half the router needs: a best-effort byte sink
// plus a way to force the connection closed. The websocket Client
// implements it; tests substitute recorders.
type Conn interface {
	// Send queues the message for delivery. It reports false when the
	// message was dropped (queue full or connection closed).
	Send(message []byte) bool

	// Close tears the underlying connection down.
	Close()
}

// Router tracks open connections and fans events out to them.
type Router struct {
	// mu protects concurrent access to the conns map.
	mu sync.RWMutex

	conns map[string]Conn

	logger zerolog.Logger
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{
		conns:  make(map[string]Conn),
		logger: logx.Logger().With().Str("component", "Router").Logger(),
	}
}

// Register makes connID reachable for delivery.
func (rt *Router) Register(connID string, conn Conn) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.conns[connID] = conn
}

// Unregister removes connID. Unknown ids are a no-op.
func (rt *Router) Unregister(connID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	delete(rt.conns, connID)
}

// SendTo delivers one event to one connection if it is still open and
// silently drops it otherwise.
func (rt *Router) SendTo(connID string, event Outbound) {
	payload, err := json.Marshal(event)
	if err != nil {
		rt.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Error marshaling event.")
		return
	}

	rt.deliver(connID, payload, event.Type)
}

// SendToMembers delivers one event to every listed connection, at most once
// each. Order across members is unspecified.
func (rt *Router) SendToMembers(memberIDs []string, event Outbound) {
	payload, err := json.Marshal(event)
	if err != nil {
		rt.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Error marshaling event.")
		return
	}

	for _, connID := range memberIDs {
		rt.deliver(connID, payload, event.Type)
	}
}

// CloseConn forces the connection closed if it is still registered.
func (rt *Router) CloseConn(connID string) {
	rt.mu.RLock()
	conn, ok := rt.conns[connID]
	rt.mu.RUnlock()

	if ok {
		conn.Close()
	}
}

func (rt *Router) deliver(connID string, payload []byte, eventType EventType) {
	rt.mu.RLock()
	conn, ok := rt.conns[connID]
	rt.mu.RUnlock()

	if !ok {
		return
	}

	if !conn.Send(payload) {
		rt.logger.Warn().
			Str("conn_id", connID).
			Str("event_type", string(eventType)).
			Msg("Event dropped, connection queue full or closed.")
	}
}
