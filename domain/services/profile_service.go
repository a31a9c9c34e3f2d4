package services

import (
	"context"
	"fmt"
	"strings"

	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type profileService struct {
	profileRepo     interfaces.ProfileRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
	signupBonus     int64
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo interfaces.ProfileRepository, transactionRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher, signupBonus int64) interfaces.ProfileService {
	return &profileService{
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
		signupBonus:     signupBonus,
	}
}

// Register creates a new profile and credits the signup bonus. The bonus is
// granted through the ledger so the transaction history fully accounts for
// the balance from the first coin.
func (s *profileService) Register(ctx context.Context, handle, country string) (*entities.Profile, error) {
	handle = strings.TrimSpace(handle)
	if len(handle) < 3 || len(handle) > 32 {
		return nil, apperrors.NewValidationError("handle must be between 3 and 32 characters")
	}

	existing, err := s.profileRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to check handle: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("handle %q is already taken", handle)
	}

	profile := &entities.Profile{
		Handle:   handle,
		Country:  country,
		APIToken: uuid.New().String(),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	ledger := NewLedgerService(s.profileRepo, s.transactionRepo, s.eventPublisher)
	tx, err := ledger.Credit(ctx, profile.ID, s.signupBonus, entities.TransactionTypeSignupBonus, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to credit signup bonus: %w", err)
	}
	profile.Coins = tx.BalanceAfter

	event := events.ProfileCreatedEvent{
		ProfileID:      profile.ID,
		Handle:         profile.Handle,
		InitialBalance: profile.Coins,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish profile created event")
	}

	log.WithFields(log.Fields{
		"profileID": profile.ID,
		"handle":    profile.Handle,
	}).Info("Registered new profile")

	return profile, nil
}

// GetByID retrieves a profile by ID
func (s *profileService) GetByID(ctx context.Context, id int64) (*entities.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}
