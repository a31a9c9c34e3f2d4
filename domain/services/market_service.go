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

type marketService struct {
	profileRepo     interfaces.ProfileRepository
	marketRepo      interfaces.MarketRepository
	betRepo         interfaces.BetRepository
	challengeRepo   interfaces.ChallengeRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewMarketService creates a new market service
func NewMarketService(
	profileRepo interfaces.ProfileRepository,
	marketRepo interfaces.MarketRepository,
	betRepo interfaces.BetRepository,
	challengeRepo interfaces.ChallengeRepository,
	transactionRepo interfaces.TransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.MarketService {
	return &marketService{
		profileRepo:     profileRepo,
		marketRepo:      marketRepo,
		betRepo:         betRepo,
		challengeRepo:   challengeRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

// CreateMarket creates a new active market
func (s *marketService) CreateMarket(ctx context.Context, creatorID int64, title, description string, mode entities.MarketMode, visibility entities.MarketVisibility, deadline time.Time) (*entities.Market, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("market title cannot be empty")
	}
	if mode != entities.MarketModeOfficial && mode != entities.MarketModeUnofficial {
		return nil, apperrors.NewValidationError("unknown market mode %q", mode)
	}
	if visibility != entities.MarketVisibilityPublic && visibility != entities.MarketVisibilityPrivate {
		return nil, apperrors.NewValidationError("unknown market visibility %q", visibility)
	}
	if !deadline.After(time.Now()) {
		return nil, apperrors.NewValidationError("deadline must be in the future")
	}

	creator, err := s.profileRepo.GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, apperrors.ErrNotFound
	}
	if mode == entities.MarketModeOfficial && !creator.IsAdmin {
		return nil, apperrors.ErrNotAuthorized
	}

	market := &entities.Market{
		Title:       title,
		Description: description,
		CreatorID:   creatorID,
		Mode:        mode,
		Visibility:  visibility,
		Status:      entities.MarketStatusActive,
		Deadline:    deadline.UTC(),
	}
	if err := s.marketRepo.Create(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to create market: %w", err)
	}

	s.publishStateChange(market.ID, "", entities.MarketStatusActive)

	log.WithFields(log.Fields{
		"marketID":  market.ID,
		"creatorID": creatorID,
		"mode":      mode,
	}).Info("Created market")

	return market, nil
}

// GetMarketDetail retrieves a market with its bets
func (s *marketService) GetMarketDetail(ctx context.Context, marketID int64) (*entities.MarketDetail, error) {
	detail, err := s.marketRepo.GetDetailByID(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market detail: %w", err)
	}
	if detail == nil {
		return nil, apperrors.ErrNotFound
	}
	return detail, nil
}

// ListMarkets returns markets filtered by status
func (s *marketService) ListMarkets(ctx context.Context, status *entities.MarketStatus, limit int) ([]*entities.Market, error) {
	markets, err := s.marketRepo.List(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	return markets, nil
}

// CancelMarket voids an active market. Every bet is refunded in full and
// every pending or accepted challenge is unwound, so all escrowed coins
// return to their owners.
func (s *marketService) CancelMarket(ctx context.Context, marketID, cancellerID int64) (*entities.Market, error) {
	market, err := s.marketRepo.GetByID(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if market == nil {
		return nil, apperrors.ErrNotFound
	}
	if market.IsTerminal() {
		return nil, apperrors.ErrAlreadyResolved
	}

	canceller, err := s.profileRepo.GetByID(ctx, cancellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get canceller: %w", err)
	}
	if canceller == nil {
		return nil, apperrors.ErrNotFound
	}
	if !market.CanBeCancelledBy(canceller) {
		return nil, apperrors.ErrNotAuthorized
	}

	ledger := NewLedgerService(s.profileRepo, s.transactionRepo, s.eventPublisher)

	bets, err := s.betRepo.GetByMarket(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}
	for _, bet := range bets {
		relatedID := bet.ID
		relatedType := entities.RelatedTypeBet
		if _, err := ledger.Credit(ctx, bet.ProfileID, bet.Amount, entities.TransactionTypeBetRefund, &relatedID, &relatedType); err != nil {
			return nil, fmt.Errorf("failed to refund bet %d: %w", bet.ID, err)
		}
	}

	challenges, err := s.challengeRepo.GetByMarket(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenges: %w", err)
	}
	now := time.Now()
	for _, challenge := range challenges {
		if err := s.refundChallenge(ctx, ledger, challenge, now); err != nil {
			return nil, err
		}
	}

	market.Cancel(now)
	if err := s.marketRepo.Update(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to update market: %w", err)
	}

	s.publishStateChange(market.ID, entities.MarketStatusActive, entities.MarketStatusCancelled)

	log.WithFields(log.Fields{
		"marketID":    marketID,
		"cancellerID": cancellerID,
		"betsRefunded": len(bets),
	}).Info("Cancelled market")

	return market, nil
}

// refundChallenge returns escrowed stakes for a pending or accepted
// challenge and marks it declined.
func (s *marketService) refundChallenge(ctx context.Context, ledger *ledgerService, challenge *entities.Challenge, now time.Time) error {
	if !challenge.IsPending() && !challenge.IsAccepted() {
		return nil
	}

	relatedID := challenge.ID
	relatedType := entities.RelatedTypeChallenge
	if _, err := ledger.Credit(ctx, challenge.ChallengerID, challenge.Amount, entities.TransactionTypeChallengeRefund, &relatedID, &relatedType); err != nil {
		return fmt.Errorf("failed to refund challenger for challenge %d: %w", challenge.ID, err)
	}
	if challenge.IsAccepted() {
		if _, err := ledger.Credit(ctx, challenge.ChallengedID, challenge.Amount, entities.TransactionTypeChallengeRefund, &relatedID, &relatedType); err != nil {
			return fmt.Errorf("failed to refund challenged party for challenge %d: %w", challenge.ID, err)
		}
	}

	oldStatus := challenge.Status
	challenge.Decline(now)
	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return fmt.Errorf("failed to update challenge %d: %w", challenge.ID, err)
	}

	event := events.ChallengeStateChangeEvent{
		ChallengeID: challenge.ID,
		MarketID:    challenge.MarketID,
		OldState:    string(oldStatus),
		NewState:    string(challenge.Status),
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish challenge state change event")
	}
	return nil
}

func (s *marketService) publishStateChange(marketID int64, oldStatus, newStatus entities.MarketStatus) {
	event := events.MarketStateChangeEvent{
		MarketID: marketID,
		OldState: string(oldStatus),
		NewState: string(newStatus),
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish market state change event")
	}
}
