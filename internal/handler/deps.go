package handler

import (
	"slidecast/internal/app/session"
	"slidecast/internal/app/storage"
	"slidecast/internal/configs"
)

// AppDeps bundles the collaborators the HTTP layer needs.
type AppDeps struct {
	Manager *session.Manager
	Config  *configs.AppConfig
	Storage storage.Service
}
