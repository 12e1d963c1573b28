// Command print_routes prints the route table of the API server without
// connecting to any database.
package main

import (
	"log/slog"
	"os"

	"github.com/vikasavnish/carecoord/internal/api"
	"github.com/vikasavnish/carecoord/internal/config"
	"github.com/vikasavnish/carecoord/internal/logging"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Services are only constructed, never called, so no database is needed
	router := api.SetupRouter(api.Deps{
		Hub:    websocket.NewHub(logging.Discard()),
		Logger: logging.Discard(),
	}, cfg)

	if err := api.PrintRoutes(os.Stdout, router); err != nil {
		slog.Error("Failed to walk routes", "error", err)
		os.Exit(1)
	}
}
