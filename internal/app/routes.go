package app

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"webhook-consumer/internal/handlers"
	"webhook-consumer/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers, authMiddleware func(http.Handler) http.Handler) {
	// Add logging middleware to all routes
	router.Use(middleware.LoggingMiddleware)

	// Webhook delivery routes (authenticated by signature, not by token)
	router.HandleFunc("/webhooks/{consumer}/transactions", h.HandleDelivery).Methods("POST")
	router.HandleFunc("/webhooks/{consumer}/domain", h.HandleDelivery).Methods("POST")
	router.HandleFunc("/webhooks/{consumer}/receive", h.HandleDelivery).Methods("POST")
	router.HandleFunc("/webhooks/{consumer}/order-completed", h.HandleDelivery).Methods("POST")

	// Health check (no auth required)
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	// Swagger UI (no auth required)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Management endpoints - require authentication
	protected := router.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/subscriptions", h.HandleSubscribe).Methods("POST")
	protected.HandleFunc("/subscriptions/resync", h.HandleResync).Methods("GET")
	protected.HandleFunc("/subscriptions/{endpointId}", h.HandleUnsubscribe).Methods("DELETE")
	protected.HandleFunc("/consumers/{name}/status", h.HandleConsumerStatus).Methods("POST")
}
