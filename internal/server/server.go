package server

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/api"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/classifier"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/config"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/importer"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/progress"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/store"
)

// Server HTTP server
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer wires the store, classifier, pipeline and API together
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}

	sqliteStore, err := store.New(filepath.Join(dataDir, "tenders.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	broadcaster := progress.NewBroadcaster(progress.DefaultTTL)
	pipeline := importer.NewPipeline(sqliteStore, classifier.New(cfg.Classifier), broadcaster)
	apiHandler := api.NewHandler(sqliteStore, pipeline, broadcaster, filepath.Join(dataDir, "uploads"))

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    apiHandler,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes sets up middleware and routes
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Run starts the server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the store
func (s *Server) Close() error {
	return s.store.Close()
}

// Router exposes the engine (used in tests)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// GetStore exposes the store (used in tests)
func (s *Server) GetStore() *store.Store {
	return s.store
}
