package handlers

import (
	"encoding/json"
	"net/http"

	"webhook-consumer/internal/common/errors"
	"webhook-consumer/internal/common/logging"
	"webhook-consumer/internal/config"
	"webhook-consumer/internal/events"
	"webhook-consumer/internal/secrets"
	"webhook-consumer/internal/signature"
	"webhook-consumer/internal/status"
	"webhook-consumer/internal/subscriptions"
)

type Handlers struct {
	config        *config.Config
	secrets       secrets.Store
	status        status.Store
	verifier      *signature.Verifier
	dispatcher    *events.Dispatcher
	subscriptions *subscriptions.Manager
	logger        logging.Logger
}

func New(cfg *config.Config, secretStore secrets.Store, statusStore status.Store,
	verifier *signature.Verifier, dispatcher *events.Dispatcher,
	manager *subscriptions.Manager, logger logging.Logger) *Handlers {

	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Handlers{
		config:        cfg,
		secrets:       secretStore,
		status:        statusStore,
		verifier:      verifier,
		dispatcher:    dispatcher,
		subscriptions: manager,
		logger:        logger.WithFields(logging.Field{Key: "component", Value: "handlers"}),
	}
}

// APIResponse is the uniform business-outcome envelope
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SubscribeRequest is the management request to register a callback
type SubscribeRequest struct {
	ConsumerID   string   `json:"consumerId"`
	CallbackPath string   `json:"callbackPath"`
	EventKinds   []string `json:"eventKinds"`
}

// SubscribeResponse reports a registration outcome
type SubscribeResponse struct {
	Success    bool   `json:"success"`
	EndpointID string `json:"endpointId,omitempty"`
	WebhookURL string `json:"webhookUrl,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ConsumerStatusRequest toggles delivery acceptance for a consumer
type ConsumerStatusRequest struct {
	Active bool `json:"active"`
}

func (h *Handlers) sendJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// sendAccepted writes the 200 business-success envelope
func (h *Handlers) sendAccepted(w http.ResponseWriter, message string) {
	h.sendJSON(w, http.StatusOK, APIResponse{Success: true, Message: message})
}

// sendRejected writes the 400 business-failure envelope used for every
// verification, parse, and configuration failure on the delivery path
func (h *Handlers) sendRejected(w http.ResponseWriter, message string) {
	h.sendJSON(w, http.StatusBadRequest, APIResponse{Success: false, Message: message})
}

// rejectDelivery logs a refused delivery and answers with its message.
// Configuration and authentication refusals are expected operational events
// and log at warn; anything else is a fault and logs as an error.
func (h *Handlers) rejectDelivery(w http.ResponseWriter, log logging.Logger, err *errors.AppError, fields ...logging.Field) {
	switch err.Type {
	case errors.ErrTypeConfig, errors.ErrTypeAuth:
		log.Warn("Delivery rejected: "+err.Message, fields...)
	default:
		log.Error("Delivery rejected: "+err.Message, err, fields...)
	}
	h.sendRejected(w, err.Message)
}

// statusCodeFor maps management-path error types onto HTTP status codes
func statusCodeFor(err error) int {
	switch errors.GetType(err) {
	case errors.ErrTypeValidation:
		return http.StatusBadRequest
	case errors.ErrTypeNotFound:
		return http.StatusNotFound
	case errors.ErrTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
