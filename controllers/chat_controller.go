package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"partschat/metrics"
	"partschat/models"
)

// ChatHandler processes POST /api/chat. Whatever goes wrong inside, the
// response body stays assistant-shaped so the UI can always render it.
func (c *Controller) ChatHandler(w http.ResponseWriter, r *http.Request) {
	metrics.ChatRequestsTotal.Inc()
	requestID := uuid.NewString()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("request_id", requestID).Interface("panic", rec).Msg("Chat handler panicked")
			writeJSON(w, http.StatusInternalServerError, models.ChatReply{
				Role:    "assistant",
				Content: "I'm sorry, I encountered an error. Please try again.",
			})
		}
	}()

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON format"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Message is required"})
		return
	}

	log.Info().Str("request_id", requestID).Str("message", req.Message).Msg("Processing chat query")

	reply := c.composer.Compose(r.Context(), req.Message, req.Context)

	log.Info().Str("request_id", requestID).Str("type", reply.Type).Msg("Chat reply composed")
	writeJSON(w, http.StatusOK, reply)
}
