package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/emilythestrangee/whispr/backend/internal/config"
	"github.com/emilythestrangee/whispr/backend/internal/database"
	"github.com/emilythestrangee/whispr/backend/internal/feed"
	"github.com/emilythestrangee/whispr/backend/internal/handlers"
	"github.com/emilythestrangee/whispr/backend/internal/logging"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server. Construction fails fast if
// the remote table store settings are missing.
func NewServer(cfg *config.Config) (*http.Server, error) {
	db, err := database.New()
	if err != nil {
		return nil, err
	}

	clock := clockwork.NewRealClock()
	ctrl := feed.NewController(db, clock, logging.Logger)

	newServer := &Server{
		db:      db,
		handler: handlers.NewHandler(ctrl, clock),
	}

	router := newServer.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", s.healthHandler)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/confessions", s.handler.Confession.GetConfessions)
		api.POST("/confessions", s.handler.Confession.CreateConfession)
		api.POST("/confessions/:id/vote", s.handler.Confession.VoteConfession)
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	stats := s.db.Health(c.Request.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}
