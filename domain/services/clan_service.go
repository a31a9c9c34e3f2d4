package services

import (
	"context"
	"fmt"
	"strings"

	"plottwist/domain/apperrors"
	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type clanService struct {
	profileRepo interfaces.ProfileRepository
	clanRepo    interfaces.ClanRepository
}

// NewClanService creates a new clan service
func NewClanService(profileRepo interfaces.ProfileRepository, clanRepo interfaces.ClanRepository) interfaces.ClanService {
	return &clanService{
		profileRepo: profileRepo,
		clanRepo:    clanRepo,
	}
}

// CreateClan creates a clan with the creator as first member. A profile can
// belong to at most one clan.
func (s *clanService) CreateClan(ctx context.Context, creatorID int64, name, tag string) (*entities.Clan, error) {
	name = strings.TrimSpace(name)
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if len(name) < 3 || len(name) > 48 {
		return nil, apperrors.NewValidationError("clan name must be between 3 and 48 characters")
	}
	if len(tag) < 2 || len(tag) > 5 {
		return nil, apperrors.NewValidationError("clan tag must be between 2 and 5 characters")
	}

	creator, err := s.profileRepo.GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, apperrors.ErrNotFound
	}

	existing, err := s.clanRepo.GetByProfile(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check clan membership: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("profile already belongs to clan %q", existing.Name)
	}

	clan := &entities.Clan{
		Name:      name,
		Tag:       tag,
		CreatorID: creatorID,
	}
	if err := s.clanRepo.Create(ctx, clan); err != nil {
		return nil, fmt.Errorf("failed to create clan: %w", err)
	}
	if err := s.clanRepo.AddMember(ctx, clan.ID, creatorID); err != nil {
		return nil, fmt.Errorf("failed to add creator to clan: %w", err)
	}

	log.WithFields(log.Fields{
		"clanID":    clan.ID,
		"creatorID": creatorID,
		"name":      name,
	}).Info("Created clan")

	return clan, nil
}

// JoinClan adds a profile to an existing clan
func (s *clanService) JoinClan(ctx context.Context, clanID, profileID int64) error {
	clan, err := s.clanRepo.GetByID(ctx, clanID)
	if err != nil {
		return fmt.Errorf("failed to get clan: %w", err)
	}
	if clan == nil {
		return apperrors.ErrNotFound
	}

	existing, err := s.clanRepo.GetByProfile(ctx, profileID)
	if err != nil {
		return fmt.Errorf("failed to check clan membership: %w", err)
	}
	if existing != nil {
		return apperrors.NewValidationError("profile already belongs to clan %q", existing.Name)
	}

	if err := s.clanRepo.AddMember(ctx, clanID, profileID); err != nil {
		return fmt.Errorf("failed to join clan: %w", err)
	}

	log.WithFields(log.Fields{
		"clanID":    clanID,
		"profileID": profileID,
	}).Info("Joined clan")

	return nil
}

// ListClans returns clans ordered by XP
func (s *clanService) ListClans(ctx context.Context, limit int) ([]*entities.Clan, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	clans, err := s.clanRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list clans: %w", err)
	}
	return clans, nil
}
