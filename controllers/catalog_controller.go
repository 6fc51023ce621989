package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"partschat/models"
)

// ProductsHandler serves GET /api/products. An exact part-number match always
// comes first, ahead of substring matches.
func (c *Controller) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")

	writeJSON(w, http.StatusOK, c.catalog.SearchProducts(query, category))
}

// CompatibilityHandler serves GET /api/compatibility. An unknown model is a
// structured not-found response, not an error status.
func (c *Controller) CompatibilityHandler(w http.ResponseWriter, r *http.Request) {
	modelNumber := r.URL.Query().Get("modelNumber")
	if modelNumber == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Model number is required"})
		return
	}

	bundle, ok := c.catalog.CompatibilityBundle(modelNumber)
	if !ok {
		writeJSON(w, http.StatusOK, models.CompatibilityResult{
			Compatible: false,
			Message:    fmt.Sprintf("No compatibility data found for model %s", modelNumber),
		})
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// InstallationHandler serves GET /api/installation/{partNumber}.
func (c *Controller) InstallationHandler(w http.ResponseWriter, r *http.Request) {
	partNumber := mux.Vars(r)["partNumber"]

	guide, ok := c.catalog.GuideFor(partNumber)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Installation guide not found"})
		return
	}

	writeJSON(w, http.StatusOK, guide)
}

// TroubleshootingHandler serves GET /api/troubleshooting, keyword-mapping the
// issue description to a guide.
func (c *Controller) TroubleshootingHandler(w http.ResponseWriter, r *http.Request) {
	issue := r.URL.Query().Get("issue")
	if issue == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Issue description is required"})
		return
	}

	guide, ok := c.catalog.TroubleshootingFor(issue)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "I can help with troubleshooting. Please describe the specific issue you're experiencing.",
		})
		return
	}

	writeJSON(w, http.StatusOK, guide)
}
