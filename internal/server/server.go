// file: internal/server/server.go
// version: 2.2.0
// guid: 8b9c0d1e-2f3a-4b5c-6d7e-8f9a0b1c2d3e

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdfalk/ebook-library/internal/config"
	"github.com/jdfalk/ebook-library/internal/database"
	"github.com/jdfalk/ebook-library/internal/ingest"
	"github.com/jdfalk/ebook-library/internal/metrics"
	"github.com/jdfalk/ebook-library/internal/reader"
	"github.com/jdfalk/ebook-library/internal/search"
	"github.com/jdfalk/ebook-library/internal/server/middleware"
	"github.com/jdfalk/ebook-library/internal/storage"
)

// Deps bundles the collaborators the HTTP layer serves.
type Deps struct {
	Store  database.Store
	Ingest *ingest.Service
	Files  *storage.FileStore
	Reader *reader.Service
	Index  *search.Index
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	deps       Deps
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance
func NewServer(deps Deps) *Server {
	router := gin.New()

	// Set up middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.MaxRequestBodySize(1<<20, int64(config.AppConfig.MaxUploadSizeMB)<<20))
	router.Use(middleware.BasicAuth())

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router: router,
		deps:   deps,
	}

	server.setupRoutes()

	return server
}

// Router exposes the gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           cfg.Addr,
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Refresh the library gauge periodically while running.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if count, err := s.deps.Store.CountBooks(); err == nil {
					metrics.SetBooks(count)
				}
			case <-quit:
				return
			}
		}
	}()

	<-quit

	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	uploadLimiter := middleware.NewIPRateLimiter(config.AppConfig.UploadRatePerMin, 5)

	api := s.router.Group("/api/v1")
	{
		api.POST("/books", uploadLimiter.Middleware(), s.uploadBook)
		api.GET("/books", s.listBooks)
		api.GET("/books/export", s.exportBooks)
		api.GET("/books/:id", s.getBook)
		api.DELETE("/books/:id", s.deleteBook)
		api.GET("/books/:id/cover", s.getBookCover)
		api.GET("/books/:id/download", s.downloadBook)
		api.GET("/books/:id/read", s.readBook)
		api.GET("/books/:id/chapters", s.listChapters)
		api.GET("/books/:id/chapters/:index", s.getChapter)

		api.GET("/search", s.searchBooks)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	// Tolerate database errors; report them instead of failing health.
	status := "healthy"
	bookCount := 0
	if count, err := s.deps.Store.CountBooks(); err == nil {
		bookCount = count
	} else {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"books":  bookCount,
		"time":   time.Now().Unix(),
	})
}
