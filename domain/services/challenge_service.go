package services

import (
	"context"
	"fmt"
	"time"

	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/events"

	log "github.com/sirupsen/logrus"
)

type challengeService struct {
	profileRepo     interfaces.ProfileRepository
	marketRepo      interfaces.MarketRepository
	challengeRepo   interfaces.ChallengeRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewChallengeService creates a new challenge service
func NewChallengeService(
	profileRepo interfaces.ProfileRepository,
	marketRepo interfaces.MarketRepository,
	challengeRepo interfaces.ChallengeRepository,
	transactionRepo interfaces.TransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.ChallengeService {
	return &challengeService{
		profileRepo:     profileRepo,
		marketRepo:      marketRepo,
		challengeRepo:   challengeRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

// CreateChallenge proposes a head-to-head side wager on an active market.
// The challenger's stake moves into escrow immediately; the challenged
// party stakes nothing until they accept.
func (s *challengeService) CreateChallenge(ctx context.Context, marketID, challengerID, challengedID int64, position entities.Position, amount int64) (*entities.Challenge, error) {
	if challengerID == challengedID {
		return nil, apperrors.NewValidationError("cannot challenge yourself")
	}
	if !position.IsValid() {
		return nil, apperrors.NewValidationError("unknown position %q", position)
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("challenge amount must be positive, got %d", amount)
	}

	market, err := s.marketRepo.GetByID(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if market == nil {
		return nil, apperrors.ErrNotFound
	}
	if !market.CanAcceptBets(time.Now()) {
		if market.IsTerminal() {
			return nil, apperrors.ErrAlreadyResolved
		}
		return nil, apperrors.ErrMarketExpired
	}

	challenger, err := s.profileRepo.GetByID(ctx, challengerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenger: %w", err)
	}
	if challenger == nil {
		return nil, apperrors.ErrNotFound
	}
	if !challenger.CanAfford(amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	challenged, err := s.profileRepo.GetByID(ctx, challengedID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenged party: %w", err)
	}
	if challenged == nil {
		return nil, apperrors.ErrNotFound
	}

	challenge := &entities.Challenge{
		MarketID:     marketID,
		ChallengerID: challengerID,
		ChallengedID: challengedID,
		Position:     position,
		Amount:       amount,
		Status:       entities.ChallengeStatusPending,
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	ledger := NewLedgerService(s.profileRepo, s.transactionRepo, s.eventPublisher)
	relatedID := challenge.ID
	relatedType := entities.RelatedTypeChallenge
	if _, err := ledger.Debit(ctx, challengerID, amount, entities.TransactionTypeChallengeSent, &relatedID, &relatedType); err != nil {
		return nil, err
	}

	s.publishStateChange(challenge, "")

	log.WithFields(log.Fields{
		"challengeID":  challenge.ID,
		"marketID":     marketID,
		"challengerID": challengerID,
		"challengedID": challengedID,
		"amount":       amount,
	}).Info("Created challenge")

	return challenge, nil
}

// AcceptChallenge escrows the challenged party's matching stake
func (s *challengeService) AcceptChallenge(ctx context.Context, challengeID, responderID int64) (*entities.Challenge, error) {
	challenge, err := s.getForResponse(ctx, challengeID, responderID)
	if err != nil {
		return nil, err
	}

	market, err := s.marketRepo.GetByID(ctx, challenge.MarketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if market == nil {
		return nil, apperrors.ErrNotFound
	}
	if !market.CanAcceptBets(time.Now()) {
		if market.IsTerminal() {
			return nil, apperrors.ErrAlreadyResolved
		}
		return nil, apperrors.ErrMarketExpired
	}

	responder, err := s.profileRepo.GetByID(ctx, responderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responder: %w", err)
	}
	if !responder.CanAfford(challenge.Amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	ledger := NewLedgerService(s.profileRepo, s.transactionRepo, s.eventPublisher)
	relatedID := challenge.ID
	relatedType := entities.RelatedTypeChallenge
	if _, err := ledger.Debit(ctx, responderID, challenge.Amount, entities.TransactionTypeChallengeAccepted, &relatedID, &relatedType); err != nil {
		return nil, err
	}

	oldStatus := challenge.Status
	challenge.Accept(time.Now())
	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	s.publishStateChange(challenge, oldStatus)

	log.WithFields(log.Fields{
		"challengeID": challengeID,
		"responderID": responderID,
	}).Info("Accepted challenge")

	return challenge, nil
}

// DeclineChallenge refunds the challenger's escrowed stake
func (s *challengeService) DeclineChallenge(ctx context.Context, challengeID, responderID int64) (*entities.Challenge, error) {
	challenge, err := s.getForResponse(ctx, challengeID, responderID)
	if err != nil {
		return nil, err
	}

	ledger := NewLedgerService(s.profileRepo, s.transactionRepo, s.eventPublisher)
	relatedID := challenge.ID
	relatedType := entities.RelatedTypeChallenge
	if _, err := ledger.Credit(ctx, challenge.ChallengerID, challenge.Amount, entities.TransactionTypeChallengeRefund, &relatedID, &relatedType); err != nil {
		return nil, err
	}

	oldStatus := challenge.Status
	challenge.Decline(time.Now())
	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	s.publishStateChange(challenge, oldStatus)

	log.WithFields(log.Fields{
		"challengeID": challengeID,
		"responderID": responderID,
	}).Info("Declined challenge")

	return challenge, nil
}

// ListChallenges returns challenges involving a profile
func (s *challengeService) ListChallenges(ctx context.Context, profileID int64, limit int) ([]*entities.Challenge, error) {
	challenges, err := s.challengeRepo.GetByProfile(ctx, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

// getForResponse loads a pending challenge and verifies the responder is
// the challenged party
func (s *challengeService) getForResponse(ctx context.Context, challengeID, responderID int64) (*entities.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, apperrors.ErrNotFound
	}
	if challenge.ChallengedID != responderID {
		return nil, apperrors.ErrNotAuthorized
	}
	if !challenge.IsPending() {
		return nil, apperrors.ErrAlreadyResponded
	}
	return challenge, nil
}

func (s *challengeService) publishStateChange(challenge *entities.Challenge, oldStatus entities.ChallengeStatus) {
	event := events.ChallengeStateChangeEvent{
		ChallengeID: challenge.ID,
		MarketID:    challenge.MarketID,
		OldState:    string(oldStatus),
		NewState:    string(challenge.Status),
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish challenge state change event")
	}
}
