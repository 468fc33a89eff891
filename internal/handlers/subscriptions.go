package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"webhook-consumer/internal/common/logging"
)

// HandleSubscribe registers a callback URL with the producer
// @Summary Create a subscription
// @Description Registers a callback URL with the producer and stores the issued signing secret
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Subscription request"
// @Success 200 {object} SubscribeResponse
// @Failure 400 {object} SubscribeResponse
// @Failure 502 {object} SubscribeResponse
// @Router /subscriptions [post]
func (h *Handlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendJSON(w, http.StatusBadRequest, SubscribeResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	result, err := h.subscriptions.Subscribe(r.Context(), req.ConsumerID, req.CallbackPath, req.EventKinds)
	if err != nil {
		h.logger.Error("Subscribe failed", err,
			logging.Field{Key: "consumer", Value: req.ConsumerID},
			logging.Field{Key: "path", Value: req.CallbackPath},
		)
		h.sendJSON(w, statusCodeFor(err), SubscribeResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	h.sendJSON(w, http.StatusOK, SubscribeResponse{
		Success:    true,
		EndpointID: result.EndpointID,
		WebhookURL: result.WebhookURL,
	})
}

// HandleUnsubscribe deregisters an endpoint and revokes its secret
// @Summary Delete a subscription
// @Description Deregisters the endpoint with the producer and revokes its signing secret
// @Tags subscriptions
// @Produce json
// @Param endpointId path string true "Producer-assigned endpoint id"
// @Success 200 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /subscriptions/{endpointId} [delete]
func (h *Handlers) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	endpointID := mux.Vars(r)["endpointId"]

	if err := h.subscriptions.Unsubscribe(r.Context(), endpointID); err != nil {
		h.logger.Error("Unsubscribe failed", err, logging.Field{Key: "endpoint_id", Value: endpointID})
		h.sendJSON(w, statusCodeFor(err), APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	h.sendJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "subscription removed",
	})
}

// HandleResync repopulates the secret store from the producer
// @Summary Resync signing secrets
// @Description Restores all signing secrets from the producer's endpoint listing
// @Tags subscriptions
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /subscriptions/resync [get]
func (h *Handlers) HandleResync(w http.ResponseWriter, r *http.Request) {
	report, err := h.subscriptions.Resync(r.Context())
	if err != nil {
		h.logger.Error("Resync failed", err, logging.Field{Key: "restored", Value: report.Restored})
		h.sendJSON(w, statusCodeFor(err), APIResponse{
			Success: false,
			Message: fmt.Sprintf("resync failed after restoring %d endpoints: %s", report.Restored, err.Error()),
		})
		return
	}

	h.sendJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: fmt.Sprintf("restored secrets for %d endpoints", report.Restored),
	})
}
