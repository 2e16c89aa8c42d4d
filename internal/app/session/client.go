/*
Package session contains the core logic for presentation rooms.

This file defines the Client struct, representing one active websocket
connection. It runs the read and write pumps, feeds inbound events to the
Manager, and implements the Conn sink the Router delivers through.
*/
package session

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"slidecast/internal/pkg/logx"
)

const (
	// timeout for a single write to the websocket connection.
	writeWait = 10 * time.Second

	// maximum time the server waits for a Pong from the client.
	pongWait = 60 * time.Second

	// frequency of server Ping messages.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size of a client message in bytes.
	maxMessageSize = 4096

	// capacity of the per-client outbound queue.
	sendQueueSize = 64
)

// Client is one active websocket connection and its outbound queue.
type Client struct {
	// id is the connection identifier minted at upgrade time.
	id string

	// manager receives the connection's inbound events and lifecycle.
	manager *Manager

	// conn is the underlying websocket connection.
	conn *websocket.Conn

	// send queues messages waiting to be written to the connection.
	send chan []byte

	// closeOnce guards the send channel against double close; forced
	// disconnects can race the read pump's own cleanup.
	closeOnce sync.Once

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(manager *Manager, wsConn *websocket.Conn, connID string) *Client {
	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Logger()

	return &Client{
		id:      connID,
		manager: manager,
		conn:    wsConn,
		send:    make(chan []byte, sendQueueSize),
		logger:  clientLogger,
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Send implements Conn. It queues a message without blocking and reports
// false when the queue is full or already closed.
func (c *Client) Send(message []byte) (ok bool) {
	defer func() {
		// Send on a closed channel panics; a connection torn down between
		// the router's lookup and this write is a dropped message, not a
		// crash.
		if r := recover(); r != nil {
			ok = false
		}
	}()

	select {
	case c.send <- message:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping message.")
		return false
	}
}

// Close implements Conn. Closing the send channel makes the write pump
// flush pending messages, send a close frame, and drop the connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump reads messages from the websocket until the connection drops,
// handing each one to the Manager. It performs connection cleanup on exit.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.manager.HandleEvent(c.id, messageBytes)
	}
}

// cleanupOnDisconnect finalizes the connection when the read pump exits.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.manager.Disconnect(c.id)
	c.Close()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes queued messages to the websocket and keeps the
// heartbeat alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one queued message, or the close frame when the
// send channel has been closed. Returns false when the pump should stop.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends the heartbeat ping. Returns false when the pump
// should stop.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
