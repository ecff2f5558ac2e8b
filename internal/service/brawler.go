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

type BrawlerService struct {
	brawl  BrawlAPI
	logger zerolog.Logger
}

func NewBrawlerService(brawl BrawlAPI, logger zerolog.Logger) *BrawlerService {
	return &BrawlerService{brawl: brawl, logger: logger}
}

// List returns the brawler catalog sorted alphabetically.
func (s *BrawlerService) List(ctx context.Context) ([]api.BrawlerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	list, err := s.brawl.GetBrawlers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch brawler catalog")
		return nil, fmt.Errorf("failed to fetch brawler catalog: %w", err)
	}

	items := list.Items
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *BrawlerService) Get(ctx context.Context, id int) (*api.BrawlerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	info, err := s.brawl.GetBrawler(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("brawler_id", id).Msg("failed to fetch brawler")
		return nil, fmt.Errorf("failed to fetch brawler %d: %w", id, err)
	}
	return info, nil
}

// Rankings returns the global top players for one brawler.
func (s *BrawlerService) Rankings(ctx context.Context, id int) ([]domain.RankingEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	list, err := s.brawl.GetBrawlerRankings(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("brawler_id", id).Msg("failed to fetch brawler rankings")
		return nil, fmt.Errorf("failed to fetch rankings for brawler %d: %w", id, err)
	}

	items := list.Items
	if len(items) > constants.RankingLimit {
		items = items[:constants.RankingLimit]
	}

	entries := make([]domain.RankingEntry, len(items))
	for i, p := range items {
		entries[i] = domain.RankingEntry{
			Rank:     i + 1,
			Name:     p.Name,
			Trophies: p.Trophies,
			Club:     p.Club.Name,
		}
	}
	return entries, nil
}
