package controllers

import (
	"net/http"

	"partschat/models"
)

// rateLimited rejects requests beyond the configured chat rate with 429. The
// limiter is global; the chat endpoint fronts a paid LLM API and a burst of
// traffic should degrade loudly here rather than at the upstream.
func (c *Controller) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.chatLimiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, models.ErrorResponse{Error: "Too many requests, please slow down"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
