package service

import (
	"context"
	"fmt"
	"time"

	"brawlstars-tracker/internal/api"
	"brawlstars-tracker/internal/battle"
	"brawlstars-tracker/internal/config"
	"brawlstars-tracker/internal/constants"
	"brawlstars-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// BrawlAPI is the slice of the upstream client the services consume; tests
// substitute a stub.
type BrawlAPI interface {
	GetPlayer(ctx context.Context, tag string) (*api.Player, error)
	GetBattleLog(ctx context.Context, tag string) (*api.BattleLog, error)
	GetClub(ctx context.Context, tag string) (*api.Club, error)
	GetClubMembers(ctx context.Context, tag string) (*api.ClubMemberList, error)
	GetBrawlers(ctx context.Context) (*api.BrawlerList, error)
	GetBrawler(ctx context.Context, id int) (*api.BrawlerInfo, error)
	GetBrawlerRankings(ctx context.Context, id int) (*api.RankingList, error)
}

type PlayerStore interface {
	Upsert(ctx context.Context, player *domain.Player) error
	GetByTag(ctx context.Context, tag string) (*domain.Player, error)
	ShouldRefresh(ctx context.Context, tag string, ttl time.Duration) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Player, error)
}

type PlayerService struct {
	brawl  BrawlAPI
	repo   PlayerStore
	proc   *battle.Processor
	ttl    time.Duration
	logger zerolog.Logger
}

func NewPlayerService(cfg *config.Config, brawl BrawlAPI, repo PlayerStore, proc *battle.Processor, logger zerolog.Logger) *PlayerService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = constants.PlayerRefreshTTL
	}
	return &PlayerService{brawl: brawl, repo: repo, proc: proc, ttl: ttl, logger: logger}
}

// GetPlayer returns the profile for a tag, served from the cache while it is
// fresh and refetched from the API otherwise.
func (s *PlayerService) GetPlayer(ctx context.Context, tag string, refresh bool) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	tag = api.CanonicalTag(tag)
	s.logger.Info().Str("tag", tag).Bool("refresh", refresh).Msg("getting player")

	shouldRefresh, err := s.repo.ShouldRefresh(ctx, tag, s.ttl)
	if err != nil {
		return nil, err
	}
	if refresh {
		s.logger.Debug().Str("tag", tag).Msg("manual refresh requested")
		shouldRefresh = true
	}

	if !shouldRefresh {
		player, err := s.repo.GetByTag(ctx, tag)
		if err == nil {
			s.logger.Info().Str("tag", tag).Msg("returning cached player")
			return player, nil
		}
		s.logger.Debug().Err(err).Str("tag", tag).Msg("cache miss, fetching from API")
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	apiPlayer, err := s.brawl.GetPlayer(apiCtx, tag)
	if err != nil {
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch player")
		return nil, fmt.Errorf("failed to fetch player: %w", err)
	}

	player := mapPlayer(apiPlayer)

	if player.ClubTag != "" {
		club, err := s.brawl.GetClub(apiCtx, player.ClubTag)
		if err != nil {
			s.logger.Warn().Err(err).Str("club_tag", player.ClubTag).Msg("failed to fetch club trophies")
		} else {
			player.ClubTrophies = club.Trophies
		}
	}

	if err := s.repo.Upsert(ctx, player); err != nil {
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to upsert player")
		return nil, fmt.Errorf("failed to upsert player: %w", err)
	}

	s.logger.Info().Str("tag", tag).Msg("player fetched successfully")
	return player, nil
}

// GetBrawlerDetails returns the formatted per-brawler table for a player.
func (s *PlayerService) GetBrawlerDetails(ctx context.Context, tag string, refresh bool) ([]domain.BrawlerDetail, error) {
	player, err := s.GetPlayer(ctx, tag, refresh)
	if err != nil {
		return nil, err
	}
	return s.proc.BrawlerDetails(player.Brawlers), nil
}

// SearchSuggestions lists previously seen players matching a name or tag
// fragment.
func (s *PlayerService) SearchSuggestions(ctx context.Context, query string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().Str("query", query).Msg("searching players")

	players, err := s.repo.Search(ctx, query, constants.SearchSuggestionLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to search players")
		return nil, err
	}

	s.logger.Info().Int("count", len(players)).Str("query", query).Msg("search completed")
	return players, nil
}

func mapPlayer(p *api.Player) *domain.Player {
	player := &domain.Player{
		Tag:             api.CanonicalTag(p.Tag),
		Name:            p.Name,
		Trophies:        p.Trophies,
		HighestTrophies: p.HighestTrophies,
		ExpLevel:        p.ExpLevel,
		TeamVictories:   p.TeamVictories,
		SoloVictories:   p.SoloVictories,
		DuoVictories:    p.DuoVictories,
		ClubTag:         p.Club.Tag,
		ClubName:        p.Club.Name,
	}
	player.Brawlers = make([]domain.Brawler, len(p.Brawlers))
	for i, b := range p.Brawlers {
		player.Brawlers[i] = domain.Brawler{
			ID:              b.ID,
			Name:            b.Name,
			Power:           b.Power,
			Rank:            b.Rank,
			Trophies:        b.Trophies,
			HighestTrophies: b.HighestTrophies,
			Gears:           itemNames(b.Gears),
			StarPowers:      itemNames(b.StarPowers),
			Gadgets:         itemNames(b.Gadgets),
		}
	}
	return player
}

func itemNames(items []api.NamedItem) []string {
	if len(items) == 0 {
		return nil
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}
