package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/events"

	log "github.com/sirupsen/logrus"
)

type disputeService struct {
	profileRepo    interfaces.ProfileRepository
	marketRepo     interfaces.MarketRepository
	betRepo        interfaces.BetRepository
	disputeRepo    interfaces.DisputeRepository
	eventPublisher interfaces.EventPublisher
	disputeWindow  time.Duration
}

// NewDisputeService creates a new dispute service
func NewDisputeService(
	profileRepo interfaces.ProfileRepository,
	marketRepo interfaces.MarketRepository,
	betRepo interfaces.BetRepository,
	disputeRepo interfaces.DisputeRepository,
	eventPublisher interfaces.EventPublisher,
	disputeWindow time.Duration,
) interfaces.DisputeService {
	return &disputeService{
		profileRepo:    profileRepo,
		marketRepo:     marketRepo,
		betRepo:        betRepo,
		disputeRepo:    disputeRepo,
		eventPublisher: eventPublisher,
		disputeWindow:  disputeWindow,
	}
}

// OpenDispute records a vote against the resolution of an unofficial market.
// Only profiles with a stake in the market may dispute it. Payouts already
// made are never reversed; the dispute marks the market for manual follow-up.
func (s *disputeService) OpenDispute(ctx context.Context, marketID, profileID int64, vote entities.Position, reason string) (*entities.Dispute, error) {
	if !vote.IsValid() {
		return nil, apperrors.NewValidationError("unknown vote %q", vote)
	}
	reason = strings.TrimSpace(reason)

	market, err := s.marketRepo.GetByID(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if market == nil {
		return nil, apperrors.ErrNotFound
	}
	if market.Mode == entities.MarketModeOfficial {
		return nil, apperrors.NewValidationError("official markets cannot be disputed")
	}
	if !market.IsResolved() {
		return nil, apperrors.NewValidationError("only resolved markets can be disputed")
	}
	if !market.InDisputeWindow(time.Now(), s.disputeWindow) {
		return nil, apperrors.ErrDisputeWindowClosed
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}

	staked, err := s.betRepo.SumByMarketAndProfile(ctx, marketID, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to check stake: %w", err)
	}
	if staked == 0 {
		return nil, apperrors.ErrNotAuthorized
	}

	dispute := &entities.Dispute{
		MarketID:  marketID,
		ProfileID: profileID,
		Vote:      vote,
		Reason:    reason,
	}
	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, fmt.Errorf("failed to create dispute: %w", err)
	}

	if !market.Disputed {
		if err := s.marketRepo.SetDisputed(ctx, marketID); err != nil {
			return nil, fmt.Errorf("failed to flag market as disputed: %w", err)
		}
	}

	event := events.DisputeOpenedEvent{
		DisputeID: dispute.ID,
		MarketID:  marketID,
		ProfileID: profileID,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish dispute opened event")
	}

	log.WithFields(log.Fields{
		"disputeID": dispute.ID,
		"marketID":  marketID,
		"profileID": profileID,
		"vote":      vote,
	}).Info("Opened dispute")

	return dispute, nil
}
