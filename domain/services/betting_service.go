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

// XP granted to a clan per 10 coins a member stakes
const clanXPStakeDivisor = 10

type bettingService struct {
	profileRepo     interfaces.ProfileRepository
	marketRepo      interfaces.MarketRepository
	betRepo         interfaces.BetRepository
	transactionRepo interfaces.TransactionRepository
	clanRepo        interfaces.ClanRepository
	eventPublisher  interfaces.EventPublisher
	creatorBetLimit int64
}

// NewBettingService creates a new betting service
func NewBettingService(
	profileRepo interfaces.ProfileRepository,
	marketRepo interfaces.MarketRepository,
	betRepo interfaces.BetRepository,
	transactionRepo interfaces.TransactionRepository,
	clanRepo interfaces.ClanRepository,
	eventPublisher interfaces.EventPublisher,
	creatorBetLimit int64,
) interfaces.BettingService {
	return &bettingService{
		profileRepo:     profileRepo,
		marketRepo:      marketRepo,
		betRepo:         betRepo,
		transactionRepo: transactionRepo,
		clanRepo:        clanRepo,
		eventPublisher:  eventPublisher,
		creatorBetLimit: creatorBetLimit,
	}
}

// PlaceBet stakes coins on one side of an active market. The debit, the bet
// row and the pool increment all happen inside the caller's transaction, so
// a failure at any step leaves no partial state behind.
func (s *bettingService) PlaceBet(ctx context.Context, marketID, profileID int64, position entities.Position, amount int64) (*entities.Bet, error) {
	if !position.IsValid() {
		return nil, apperrors.NewValidationError("unknown position %q", position)
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("bet amount must be positive, got %d", amount)
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

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}
	if !profile.CanAfford(amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	// Creators may bet on their own markets only below the stake cap
	if market.CreatorID == profileID {
		staked, err := s.betRepo.SumByMarketAndProfile(ctx, marketID, profileID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum creator stakes: %w", err)
		}
		if staked+amount > s.creatorBetLimit {
			return nil, &apperrors.CreatorBetLimitError{Max: s.creatorBetLimit, Current: staked}
		}
	}

	bet := &entities.Bet{
		MarketID:  marketID,
		ProfileID: profileID,
		Position:  position,
		Amount:    amount,
	}
	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	ledger := NewLedgerService(s.profileRepo, s.transactionRepo, s.eventPublisher)
	relatedID := bet.ID
	relatedType := entities.RelatedTypeBet
	tx, err := ledger.Debit(ctx, profileID, amount, entities.TransactionTypeBetPlaced, &relatedID, &relatedType)
	if err != nil {
		return nil, err
	}
	bet.TransactionID = &tx.ID

	if err := s.marketRepo.AddToPool(ctx, marketID, position, amount); err != nil {
		return nil, fmt.Errorf("failed to add to pool: %w", err)
	}

	s.grantClanXP(ctx, profileID, amount/clanXPStakeDivisor)

	event := events.BetPlacedEvent{
		BetID:     bet.ID,
		MarketID:  marketID,
		ProfileID: profileID,
		Position:  position,
		Amount:    amount,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish bet placed event")
	}

	log.WithFields(log.Fields{
		"betID":     bet.ID,
		"marketID":  marketID,
		"profileID": profileID,
		"position":  position,
		"amount":    amount,
	}).Info("Placed bet")

	return bet, nil
}

// grantClanXP awards XP to the bettor's clan if they belong to one. XP is a
// side effect of wagering and never blocks the bet itself.
func (s *bettingService) grantClanXP(ctx context.Context, profileID int64, xp int64) {
	if xp <= 0 {
		return
	}
	clan, err := s.clanRepo.GetByProfile(ctx, profileID)
	if err != nil {
		log.WithError(err).Warn("Failed to look up clan for XP grant")
		return
	}
	if clan == nil {
		return
	}
	if err := s.clanRepo.AddXP(ctx, clan.ID, xp); err != nil {
		log.WithError(err).Warn("Failed to grant clan XP")
	}
}
