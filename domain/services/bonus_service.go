package services

import (
	"context"
	"fmt"
	"time"

	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type bonusService struct {
	profileRepo     interfaces.ProfileRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
	dailyBonus      int64
}

// NewBonusService creates a new bonus service
func NewBonusService(profileRepo interfaces.ProfileRepository, transactionRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher, dailyBonus int64) interfaces.BonusService {
	return &bonusService{
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
		dailyBonus:      dailyBonus,
	}
}

// ClaimDaily credits the daily bonus. A claim is allowed only when at least
// 24 hours have passed since the previous one.
func (s *bonusService) ClaimDaily(ctx context.Context, profileID int64) (*entities.Transaction, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}

	now := time.Now()
	if !profile.CanClaimDailyBonus(now) {
		return nil, apperrors.ErrBonusAlreadyClaimed
	}

	ledger := NewLedgerService(s.profileRepo, s.transactionRepo, s.eventPublisher)
	tx, err := ledger.Credit(ctx, profileID, s.dailyBonus, entities.TransactionTypeDailyBonus, nil, nil)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.SetLastDailyBonus(ctx, profileID, now); err != nil {
		return nil, fmt.Errorf("failed to record bonus claim: %w", err)
	}

	log.WithFields(log.Fields{
		"profileID": profileID,
		"amount":    s.dailyBonus,
	}).Info("Claimed daily bonus")

	return tx, nil
}
