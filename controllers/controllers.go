package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"partschat/config"
	"partschat/services"
)

// Controller wires the HTTP surface to the services. All state it touches is
// either read-only (the catalog) or internally synchronized, so handlers are
// safe under concurrent requests.
type Controller struct {
	composer    *services.ResponseComposer
	catalog     *services.CatalogStore
	search      *services.SearchService
	chatLimiter *rate.Limiter
}

func NewController(composer *services.ResponseComposer, catalog *services.CatalogStore, search *services.SearchService, chatCfg config.ChatConfig) *Controller {
	limit := rate.Limit(chatCfg.RatePerSecond)
	if chatCfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	burst := chatCfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Controller{
		composer:    composer,
		catalog:     catalog,
		search:      search,
		chatLimiter: rate.NewLimiter(limit, burst),
	}
}

// RegisterRoutes configures all endpoints on the router.
func (c *Controller) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/chat", c.rateLimited(http.HandlerFunc(c.ChatHandler))).Methods("POST")
	api.HandleFunc("/products", c.ProductsHandler).Methods("GET")
	api.HandleFunc("/products/enhanced", c.EnhancedProductsHandler).Methods("GET")
	api.HandleFunc("/compatibility", c.CompatibilityHandler).Methods("GET")
	api.HandleFunc("/installation/{partNumber}", c.InstallationHandler).Methods("GET")
	api.HandleFunc("/troubleshooting", c.TroubleshootingHandler).Methods("GET")
	api.HandleFunc("/semantic-search", c.SemanticSearchHandler).Methods("GET")

	r.HandleFunc("/health", c.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
