package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"webhook-consumer/internal/common/logging"
)

// HandleConsumerStatus enables or disables delivery for a consumer
// @Summary Set consumer status
// @Description Marks a consumer active or inactive. Deliveries for an inactive consumer are rejected before signature verification.
// @Tags consumers
// @Accept json
// @Produce json
// @Param name path string true "Consumer name"
// @Param request body ConsumerStatusRequest true "Desired status"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /consumers/{name}/status [post]
func (h *Handlers) HandleConsumerStatus(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req ConsumerStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendJSON(w, http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if err := h.status.SetActive(r.Context(), name, req.Active); err != nil {
		h.logger.Error("Failed to update consumer status", err, logging.Field{Key: "consumer", Value: name})
		h.sendJSON(w, statusCodeFor(err), APIResponse{
			Success: false,
			Message: "failed to update consumer status",
		})
		return
	}

	state := "inactive"
	if req.Active {
		state = "active"
	}
	h.logger.Info("Consumer status updated",
		logging.Field{Key: "consumer", Value: name},
		logging.Field{Key: "state", Value: state},
	)
	h.sendJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "consumer " + name + " is now " + state,
	})
}
