package app

import (
	"github.com/gorilla/mux"

	"webhook-consumer/internal/handlers"
	"webhook-consumer/internal/server"
)

// RunServer builds the HTTP server with all handlers configured
func (app *App) RunServer() *server.Server {
	h := handlers.New(
		app.Config,
		app.Secrets,
		app.Status,
		app.Verifier,
		app.Dispatcher,
		app.Subscriptions,
		app.Logger,
	)

	router := mux.NewRouter()
	SetupRoutes(router, h, app.Auth.RequireAuth)

	return server.New(router, app.Config.Port, "", "")
}
