package controllers

import (
	"net/http"
	"time"
)

// HealthHandler serves GET /health for load balancers and uptime checks.
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	searchMode := "keyword"
	if c.search.VectorEnabled() {
		searchMode = "vector"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"service":     "partschat",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"products":    len(c.catalog.Products()),
		"search_mode": searchMode,
		"llm_enabled": c.composer.LLMEnabled(),
	})
}
