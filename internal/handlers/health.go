package handlers

import (
	"net/http"

	"webhook-consumer/internal/common/logging"
)

type healthResponse struct {
	Status  string `json:"status"`
	Secrets string `json:"secrets"`
}

// HealthCheck reports process liveness and secret store reachability
// @Summary Health check
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Secrets: "ok"}
	code := http.StatusOK

	if err := h.secrets.Health(r.Context()); err != nil {
		h.logger.Warn("Secret store health check failed", logging.Err(err))
		resp.Status = "degraded"
		resp.Secrets = "unreachable"
		code = http.StatusServiceUnavailable
	}

	h.sendJSON(w, code, resp)
}
