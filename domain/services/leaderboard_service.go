package services

import (
	"context"
	"fmt"

	"plottwist/domain/entities"
	"plottwist/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const defaultLeaderboardLimit = 10

type leaderboardService struct {
	profileRepo interfaces.ProfileRepository
	cache       interfaces.LeaderboardCache
}

// NewLeaderboardService creates a new leaderboard service. The cache may be
// nil, in which case every call hits the database.
func NewLeaderboardService(profileRepo interfaces.ProfileRepository, cache interfaces.LeaderboardCache) interfaces.LeaderboardService {
	return &leaderboardService{
		profileRepo: profileRepo,
		cache:       cache,
	}
}

// GetLeaderboard returns the top profiles by coin balance. Results are
// served from the cache when fresh; cache failures fall through to the
// database rather than failing the request.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]*entities.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLeaderboardLimit
	}

	if s.cache != nil {
		profiles, ok, err := s.cache.Get(ctx, limit)
		if err != nil {
			log.WithError(err).Warn("Leaderboard cache read failed")
		} else if ok {
			return profiles, nil
		}
	}

	profiles, err := s.profileRepo.GetTopByCoins(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, limit, profiles); err != nil {
			log.WithError(err).Warn("Leaderboard cache write failed")
		}
	}

	return profiles, nil
}
