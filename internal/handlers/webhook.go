package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"webhook-consumer/internal/common/errors"
	"webhook-consumer/internal/common/logging"
	"webhook-consumer/internal/signature"
)

// HandleDelivery processes an inbound webhook delivery.
//
// The steps are strictly sequential and none may be skipped or reordered:
// consumer status gate, secret lookup, signature verification, dispatch.
// The raw body is read exactly once and the same bytes feed both the
// signature check and the payload decode.
//
// @Summary Process incoming webhook delivery
// @Description Authenticates a producer delivery against the stored signing secret and routes it to its typed handler
// @Tags webhooks
// @Accept json
// @Produce json
// @Param consumer path string true "Consumer name"
// @Param x-signature-id header string true "Message id"
// @Param x-signature-timestamp header string true "Delivery timestamp (unix seconds)"
// @Param x-signature-v1 header string true "Space-separated signature tokens"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /webhooks/{consumer}/transactions [post]
// @Router /webhooks/{consumer}/domain [post]
// @Router /webhooks/{consumer}/receive [post]
// @Router /webhooks/{consumer}/order-completed [post]
func (h *Handlers) HandleDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	consumer := mux.Vars(r)["consumer"]
	log := h.logger.WithContext(ctx)

	// Gate before any verification work is spent
	active, err := h.status.IsActive(ctx, consumer)
	if err != nil {
		log.Error("Consumer status check failed", err, logging.Field{Key: "consumer", Value: consumer})
		h.sendRejected(w, "consumer status unavailable")
		return
	}
	if !active {
		log.Warn("Delivery rejected: consumer disabled", logging.Field{Key: "consumer", Value: consumer})
		h.sendRejected(w, "consumer is disabled")
		return
	}

	body, err := signature.PreserveRequestBody(r)
	if err != nil {
		h.sendRejected(w, "failed to read request body")
		return
	}

	// The endpoint identity is the full callback URL the producer signs for
	endpoint := h.config.PublicBaseURL + r.URL.Path

	secret, err := h.secrets.Get(ctx, endpoint)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeNotFound) && h.config.StaticSecret != "" {
			secret = h.config.StaticSecret
		} else if errors.IsType(err, errors.ErrTypeNotFound) {
			h.rejectDelivery(w, log, errors.ConfigError("no signing secret configured for endpoint"),
				logging.Field{Key: "endpoint", Value: endpoint},
			)
			return
		} else {
			h.rejectDelivery(w, log, errors.InternalError("secret store unavailable", err),
				logging.Field{Key: "endpoint", Value: endpoint},
			)
			return
		}
	}

	if err := h.verifier.VerifyRequest(r, body, secret); err != nil {
		h.rejectDelivery(w, log, errors.AuthError("signature verification failed"),
			logging.Field{Key: "consumer", Value: consumer},
			logging.Field{Key: "endpoint", Value: endpoint},
			logging.Field{Key: "reason", Value: err.Error()},
		)
		return
	}

	if err := h.dispatcher.Dispatch(ctx, body); err != nil {
		if errors.IsType(err, errors.ErrTypeValidation) {
			h.sendRejected(w, err.Error())
			return
		}
		// Handler faults are contained here; the pipeline stays available
		log.Error("Event processing failed", err, logging.Field{Key: "consumer", Value: consumer})
		h.sendRejected(w, "event processing error")
		return
	}

	h.sendAccepted(w, "")
}
