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

// Reputation deltas applied at settlement
const (
	reputationWinDelta  = 10
	reputationLossDelta = -5
)

// XP granted to a winner's clan per won bet
const clanXPWinBonus = 25

type settlementService struct {
	profileRepo     interfaces.ProfileRepository
	marketRepo      interfaces.MarketRepository
	betRepo         interfaces.BetRepository
	challengeRepo   interfaces.ChallengeRepository
	transactionRepo interfaces.TransactionRepository
	clanRepo        interfaces.ClanRepository
	eventPublisher  interfaces.EventPublisher
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	profileRepo interfaces.ProfileRepository,
	marketRepo interfaces.MarketRepository,
	betRepo interfaces.BetRepository,
	challengeRepo interfaces.ChallengeRepository,
	transactionRepo interfaces.TransactionRepository,
	clanRepo interfaces.ClanRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementService {
	return &settlementService{
		profileRepo:     profileRepo,
		marketRepo:      marketRepo,
		betRepo:         betRepo,
		challengeRepo:   challengeRepo,
		transactionRepo: transactionRepo,
		clanRepo:        clanRepo,
		eventPublisher:  eventPublisher,
	}
}

// Resolve settles a market to an outcome. Winning bets split the total pool
// proportionally to their share of the winning side, rounded down; the
// fractional remainder is not redistributed. If nobody bet on the winning
// side, no payouts occur and the whole pool stays unallocated. Accepted
// challenges pay the full pot to the winning party and pending ones are
// declined with a refund.
func (s *settlementService) Resolve(ctx context.Context, marketID, resolverID int64, outcome entities.Position) (*entities.SettlementResult, error) {
	if !outcome.IsValid() {
		return nil, apperrors.NewValidationError("unknown outcome %q", outcome)
	}

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

	resolver, err := s.profileRepo.GetByID(ctx, resolverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver: %w", err)
	}
	if resolver == nil {
		return nil, apperrors.ErrNotFound
	}
	if !market.CanBeResolvedBy(resolver) {
		return nil, apperrors.ErrNotAuthorized
	}

	bets, err := s.betRepo.GetByMarket(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}

	ledger := NewLedgerService(s.profileRepo, s.transactionRepo, s.eventPublisher)
	now := time.Now()

	result := &entities.SettlementResult{
		Market:  market,
		Outcome: outcome,
		Payouts: make(map[int64]int64),
	}

	winningPool := market.PoolFor(outcome)
	totalPool := market.TotalPool()

	// With an empty winning side every bet is a loser and nothing is paid;
	// the pool stays unallocated like rounding dust
	for _, bet := range bets {
		if !bet.IsWinner(outcome) {
			if err := s.profileRepo.AdjustReputation(ctx, bet.ProfileID, reputationLossDelta); err != nil {
				return nil, fmt.Errorf("failed to adjust reputation: %w", err)
			}
			continue
		}

		payout := bet.Payout(winningPool, totalPool)
		if payout > 0 {
			relatedID := bet.ID
			relatedType := entities.RelatedTypeBet
			if _, err := ledger.Credit(ctx, bet.ProfileID, payout, entities.TransactionTypeBetWon, &relatedID, &relatedType); err != nil {
				return nil, fmt.Errorf("failed to pay out bet %d: %w", bet.ID, err)
			}
		}
		if err := s.profileRepo.AdjustReputation(ctx, bet.ProfileID, reputationWinDelta); err != nil {
			return nil, fmt.Errorf("failed to adjust reputation: %w", err)
		}
		s.grantWinnerClanXP(ctx, bet.ProfileID)

		result.Winners++
		result.TotalPaid += payout
		result.Payouts[bet.ProfileID] += payout
	}

	if err := s.settleChallenges(ctx, ledger, marketID, outcome, now); err != nil {
		return nil, err
	}

	market.Resolve(outcome, now)
	if err := s.marketRepo.Update(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to update market: %w", err)
	}

	event := events.MarketStateChangeEvent{
		MarketID: marketID,
		OldState: string(entities.MarketStatusActive),
		NewState: string(market.Status),
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish market state change event")
	}

	log.WithFields(log.Fields{
		"marketID":   marketID,
		"resolverID": resolverID,
		"outcome":    outcome,
		"winners":    result.Winners,
		"totalPaid":  result.TotalPaid,
		"totalPool":  totalPool,
	}).Info("Resolved market")

	return result, nil
}

// settleChallenges pays out accepted challenges and unwinds pending ones.
// A pending challenge can no longer be answered once the market is settled,
// so the challenger's escrowed stake goes back to them.
func (s *settlementService) settleChallenges(ctx context.Context, ledger *ledgerService, marketID int64, outcome entities.Position, now time.Time) error {
	challenges, err := s.challengeRepo.GetByMarket(ctx, marketID)
	if err != nil {
		return fmt.Errorf("failed to get challenges: %w", err)
	}

	for _, challenge := range challenges {
		relatedID := challenge.ID
		relatedType := entities.RelatedTypeChallenge
		oldStatus := challenge.Status

		switch {
		case challenge.IsAccepted():
			winnerID := challenge.WinnerForOutcome(outcome)
			if _, err := ledger.Credit(ctx, winnerID, challenge.Pot(), entities.TransactionTypeChallengeWon, &relatedID, &relatedType); err != nil {
				return fmt.Errorf("failed to pay out challenge %d: %w", challenge.ID, err)
			}
			challenge.Resolve(winnerID, now)
		case challenge.IsPending():
			if _, err := ledger.Credit(ctx, challenge.ChallengerID, challenge.Amount, entities.TransactionTypeChallengeRefund, &relatedID, &relatedType); err != nil {
				return fmt.Errorf("failed to refund challenge %d: %w", challenge.ID, err)
			}
			challenge.Decline(now)
		default:
			continue
		}

		if err := s.challengeRepo.Update(ctx, challenge); err != nil {
			return fmt.Errorf("failed to update challenge %d: %w", challenge.ID, err)
		}

		event := events.ChallengeStateChangeEvent{
			ChallengeID: challenge.ID,
			MarketID:    marketID,
			OldState:    string(oldStatus),
			NewState:    string(challenge.Status),
		}
		if err := s.eventPublisher.Publish(event); err != nil {
			log.WithError(err).Error("Failed to publish challenge state change event")
		}
	}

	return nil
}

func (s *settlementService) grantWinnerClanXP(ctx context.Context, profileID int64) {
	clan, err := s.clanRepo.GetByProfile(ctx, profileID)
	if err != nil {
		log.WithError(err).Warn("Failed to look up clan for XP grant")
		return
	}
	if clan == nil {
		return
	}
	if err := s.clanRepo.AddXP(ctx, clan.ID, clanXPWinBonus); err != nil {
		log.WithError(err).Warn("Failed to grant clan XP")
	}
}
