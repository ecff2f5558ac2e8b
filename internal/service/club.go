package service

import (
	"context"
	"fmt"
	"sort"

	"brawlstars-tracker/internal/api"
	"brawlstars-tracker/internal/constants"
	"brawlstars-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type ClubService struct {
	brawl  BrawlAPI
	logger zerolog.Logger
}

func NewClubService(brawl BrawlAPI, logger zerolog.Logger) *ClubService {
	return &ClubService{brawl: brawl, logger: logger}
}

func (s *ClubService) GetClub(ctx context.Context, tag string) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	tag = api.CanonicalTag(tag)
	s.logger.Info().Str("tag", tag).Msg("getting club")

	club, err := s.brawl.GetClub(ctx, tag)
	if err != nil {
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch club")
		return nil, fmt.Errorf("failed to fetch club: %w", err)
	}

	return &domain.Club{
		Tag:              api.CanonicalTag(club.Tag),
		Name:             club.Name,
		Description:      club.Description,
		Type:             club.Type,
		Trophies:         club.Trophies,
		RequiredTrophies: club.RequiredTrophies,
		Members:          mapMembers(club.Members),
	}, nil
}

func (s *ClubService) GetMembers(ctx context.Context, tag string) ([]domain.ClubMember, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	tag = api.CanonicalTag(tag)
	s.logger.Debug().Str("tag", tag).Msg("getting club members")

	members, err := s.brawl.GetClubMembers(ctx, tag)
	if err != nil {
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch club members")
		return nil, fmt.Errorf("failed to fetch club members: %w", err)
	}

	return mapMembers(members.Items), nil
}

// mapMembers sorts by trophies descending, the order the member table shows.
func mapMembers(members []api.ClubMember) []domain.ClubMember {
	result := make([]domain.ClubMember, len(members))
	for i, m := range members {
		result[i] = domain.ClubMember{
			Tag:      m.Tag,
			Name:     m.Name,
			Role:     m.Role,
			Trophies: m.Trophies,
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Trophies > result[j].Trophies
	})
	return result
}
