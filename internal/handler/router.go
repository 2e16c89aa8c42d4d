/*
Package handler provides the HTTP handlers and routing setup for the
SlideCast server.

This file defines the main Router, applying middleware (logging, CORS,
per-IP rate limiting) before delegating to the upload and websocket
handlers, and serving the static client plus uploaded PDFs.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"slidecast/internal/pkg/limiter"
	"slidecast/internal/pkg/logx"
	"slidecast/internal/pkg/resp"
)

const (
	UploadRate   = 0.2
	UploadBurst  = 3
	ConnectRate  = 0.5
	ConnectBurst = 5
)

// Router sets up the chi routing table: middleware, CORS, the health and
// upload endpoints, the websocket entry point, and static serving.
func Router(deps *AppDeps) http.Handler {
	uploadLimiter := limiter.NewIPRateLimiter(rate.Limit(UploadRate), UploadBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "SlideCast Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Post("/upload", uploadLimiter.Middleware(HandleUpload(deps)).ServeHTTP)

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	// Uploaded PDFs are only on local disk with the disk backend; the s3
	// backend serves them from the bucket's own URL space.
	if deps.Config.StorageBackend == "disk" {
		uploadsDir := http.Dir(deps.Config.UploadDir)
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsDir)))
	}

	r.Handle("/*", http.FileServer(http.Dir(deps.Config.PublicDir)))

	return r
}
