/*
Package handler provides the HTTP handlers and routing setup for the
SlideCast server.

This file contains the websocket entry point: rate limiting, the upgrade
itself, and the start of the client's pump goroutines.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"slidecast/internal/app/session"
	"slidecast/internal/pkg/errs"
	"slidecast/internal/pkg/limiter"
	"slidecast/internal/pkg/logx"
	"slidecast/internal/pkg/randx"
	"slidecast/internal/pkg/resp"
)

// HandleWebSocket creates the HandlerFunc that upgrades connections and
// hands them to the session manager. Room interaction happens over the
// socket itself via createRoom/joinRoom events, so the URL carries nothing.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := randx.ConnectionID()
		client := session.NewClient(deps.Manager, conn, connID)

		go client.WritePump()

		deps.Manager.Connect(connID, client)

		logx.Info("WebSocket connection established", "conn_id", connID)

		client.ReadPump()
	}
}
