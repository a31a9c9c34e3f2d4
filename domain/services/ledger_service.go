package services

import (
	"context"
	"errors"
	"fmt"

	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/events"

	log "github.com/sirupsen/logrus"
)

// ledgerService is the single entry point for all balance changes. Every
// credit or debit atomically adjusts the profile balance, records an
// immutable ledger entry, and emits a balance change event.
type ledgerService struct {
	profileRepo     interfaces.ProfileRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(profileRepo interfaces.ProfileRepository, transactionRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher) *ledgerService {
	return &ledgerService{
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

// Credit adds coins to a profile and records the ledger entry
func (s *ledgerService) Credit(ctx context.Context, profileID int64, amount int64, txType entities.TransactionType, relatedID *int64, relatedType *string) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("credit amount must be positive, got %d", amount)
	}
	return s.apply(ctx, profileID, amount, txType, relatedID, relatedType)
}

// Debit removes coins from a profile and records the ledger entry. Returns
// ErrInsufficientFunds when the profile cannot cover the amount, leaving
// the balance untouched.
func (s *ledgerService) Debit(ctx context.Context, profileID int64, amount int64, txType entities.TransactionType, relatedID *int64, relatedType *string) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("debit amount must be positive, got %d", amount)
	}
	return s.apply(ctx, profileID, -amount, txType, relatedID, relatedType)
}

func (s *ledgerService) apply(ctx context.Context, profileID int64, delta int64, txType entities.TransactionType, relatedID *int64, relatedType *string) (*entities.Transaction, error) {
	newBalance, err := s.profileRepo.AdjustBalance(ctx, profileID, delta)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			return nil, apperrors.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to adjust balance: %w", err)
	}

	tx := &entities.Transaction{
		ProfileID:     profileID,
		Type:          txType,
		Amount:        delta,
		BalanceBefore: newBalance - delta,
		BalanceAfter:  newBalance,
		RelatedID:     relatedID,
		RelatedType:   relatedType,
	}
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger entry: %w", err)
	}
	if err := s.transactionRepo.Record(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	event := events.BalanceChangeEvent{
		ProfileID:       profileID,
		OldBalance:      tx.BalanceBefore,
		NewBalance:      tx.BalanceAfter,
		TransactionType: txType,
		ChangeAmount:    delta,
	}
	log.WithFields(log.Fields{
		"profileID":       event.ProfileID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return tx, nil
}
