package api

import (
	"context"
	"fmt"

	"plottwist/config"
	"plottwist/domain/interfaces"
)

// Handler carries the dependencies shared by all route handlers. Services
// are constructed per request against the repositories of a single unit of
// work, so every operation is transactional end to end.
type Handler struct {
	uowFactory  interfaces.UnitOfWorkFactory
	profileRepo interfaces.ProfileRepository
	leaderboard interfaces.LeaderboardService
	cfg         *config.Config
}

// NewHandler creates a new route handler set
func NewHandler(uowFactory interfaces.UnitOfWorkFactory, profileRepo interfaces.ProfileRepository, leaderboard interfaces.LeaderboardService, cfg *config.Config) *Handler {
	return &Handler{
		uowFactory:  uowFactory,
		profileRepo: profileRepo,
		leaderboard: leaderboard,
		cfg:         cfg,
	}
}

// runInTx executes fn inside a unit of work, committing on success and
// rolling back on any error
func (h *Handler) runInTx(ctx context.Context, fn func(uow interfaces.UnitOfWork) error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}
