// Package api serves the engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"dailyquest/internal/engine"
	"dailyquest/internal/identity"
)

type Server struct {
	svc      *engine.Service
	verifier identity.Verifier
	log      *log.Logger

	// known holds user ids whose profile was registered by this process.
	known sync.Map
}

func NewServer(svc *engine.Service, verifier identity.Verifier, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{svc: svc, verifier: verifier, log: logger}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(s.AuthMiddleware())
	{
		api.GET("/tasks", s.listTasks)
		api.POST("/tasks", s.createTask)
		api.PATCH("/tasks/:id", s.updateTask)
		api.DELETE("/tasks/:id", s.deleteTask)
		api.POST("/tasks/:id/complete", s.completeTask)
		api.POST("/tasks/:id/undo", s.undoTask)
		api.POST("/tasks/:id/toggle", s.toggleTask)
		api.POST("/tasks/:id/pin", s.pinTask)

		api.GET("/stats", s.stats)
		api.POST("/session/start", s.startSession)
		api.POST("/session/unlock", s.unlock)

		api.GET("/rewards", s.listRewards)
		api.POST("/rewards/:id/redeem", s.redeemReward)

		api.GET("/calendar", s.calendar)
		api.GET("/leaderboard", s.leaderboard)
		api.GET("/achievements", s.achievements)
		api.GET("/blueprints", s.listBlueprints)
		api.POST("/blueprints/:code/accept", s.acceptBlueprint)
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Printf("[INFO] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Printf("[INFO] shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
