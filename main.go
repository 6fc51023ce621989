package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"partschat/config"
	"partschat/controllers"
	"partschat/services"
)

// Server owns the router and the wired service graph.
type Server struct {
	router  *mux.Router
	port    string
	discord *services.DiscordBridge
}

func NewServer(cfg *config.Config) (*Server, error) {
	catalog, err := services.LoadDefaultCatalog()
	if err != nil {
		return nil, err
	}
	if orphans := catalog.Validate(); orphans > 0 {
		log.Warn().Int("orphans", orphans).Msg("catalog references part numbers without product records")
	}

	search := services.NewSearchService(catalog, cfg.Embedding)
	fallback := services.NewFallbackResponder(catalog)
	gateway := services.NewLLMGateway(cfg.DeepSeek, search, fallback)
	extractor := services.NewQueryExtractor(catalog)
	composer := services.NewResponseComposer(catalog, extractor, gateway)

	ctrl := controllers.NewController(composer, catalog, search, cfg.Chat)

	router := mux.NewRouter()
	ctrl.RegisterRoutes(router)

	return &Server{
		router:  router,
		port:    cfg.Port,
		discord: services.NewDiscordBridge(cfg.Discord, composer),
	}, nil
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(s.router)

	if s.discord.Enabled() {
		if err := s.discord.Start(); err != nil {
			log.Error().Err(err).Msg("discord bridge failed to start")
		} else {
			defer s.discord.Stop()
		}
	}

	port := s.port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	log.Info().Str("port", port).Msg("server starting")
	return http.ListenAndServe(port, handler)
}

func main() {
	// A missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
