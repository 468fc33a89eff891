package main

import (
	"os"

	"webhook-consumer/internal/app"
)

// @title Webhook Consumer API
// @version 1.0
// @description Receives signed webhook deliveries, verifies their HMAC signatures, and routes them to typed event handlers. Exposes a management API for the subscription lifecycle.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
