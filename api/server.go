package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"plottwist/config"
	"plottwist/domain/interfaces"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server wraps the gin engine and HTTP listener
type Server struct {
	engine *gin.Engine
	srv    *http.Server
}

// NewServer builds the router with all routes registered
func NewServer(handler *Handler, profileRepo interfaces.ProfileRepository, cfg *config.Config) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.POST("/auth/register", handler.Register)

		authed := api.Group("")
		authed.Use(RequireAuth(profileRepo))
		{
			authed.GET("/auth/me", handler.Me)

			authed.GET("/predictions", handler.ListMarkets)
			authed.POST("/predictions", handler.CreateMarket)
			authed.GET("/predictions/:id", handler.GetMarket)
			authed.POST("/predictions/:id/bet", handler.PlaceBet)
			authed.POST("/predictions/:id/resolve", handler.ResolveMarket)
			authed.POST("/predictions/:id/cancel", handler.CancelMarket)
			authed.POST("/predictions/:id/dispute", handler.DisputeMarket)

			authed.GET("/challenges", handler.ListChallenges)
			authed.POST("/challenges", handler.CreateChallenge)
			authed.POST("/challenges/:id/accept", handler.AcceptChallenge)
			authed.POST("/challenges/:id/decline", handler.DeclineChallenge)

			authed.POST("/users/daily-bonus", handler.ClaimDailyBonus)
			authed.GET("/users/leaderboard", handler.Leaderboard)

			authed.GET("/clans", handler.ListClans)
			authed.POST("/clans", handler.CreateClan)
			authed.POST("/clans/:id/join", handler.JoinClan)
		}
	}

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Engine exposes the router, mainly for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving HTTP requests and blocks until the listener stops
func (s *Server) Start() error {
	log.WithField("addr", s.srv.Addr).Info("Starting HTTP server")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}
