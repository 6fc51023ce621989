package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"partschat/models"
)

// SemanticSearchHandler serves GET /api/semantic-search.
func (c *Controller) SemanticSearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Query is required"})
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	results := c.search.Search(r.Context(), query, limit)
	if results == nil {
		results = []models.SearchResult{}
	}

	writeJSON(w, http.StatusOK, models.SearchResponse{
		Query:   query,
		Results: results,
		Total:   len(results),
	})
}

// EnhancedProductsHandler serves GET /api/products/enhanced: the product
// listing ranked by relevance to the query, each item carrying its score.
// Without a query it degenerates to the full catalog at full relevance.
func (c *Controller) EnhancedProductsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")

	var products []models.EnhancedProduct
	if query == "" {
		for _, p := range c.catalog.Products() {
			products = append(products, models.EnhancedProduct{Product: p, RelevanceScore: 1})
		}
	} else {
		products = c.search.RelevantProducts(r.Context(), query, len(c.catalog.Products()))
	}

	filtered := make([]models.EnhancedProduct, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		filtered = append(filtered, p)
	}

	writeJSON(w, http.StatusOK, filtered)
}
