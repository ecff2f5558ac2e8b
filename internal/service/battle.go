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

type BattleStore interface {
	ReplaceForPlayer(ctx context.Context, tag string, battles []domain.NormalizedBattle) error
	GetByTag(ctx context.Context, tag string) ([]domain.NormalizedBattle, error)
}

type BattleService struct {
	brawl   BrawlAPI
	battles BattleStore
	players PlayerStore
	proc    *battle.Processor
	ttl     time.Duration
	logger  zerolog.Logger
}

func NewBattleService(cfg *config.Config, brawl BrawlAPI, battles BattleStore, players PlayerStore, proc *battle.Processor, logger zerolog.Logger) *BattleService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = constants.BattleRefreshTTL
	}
	return &BattleService{brawl: brawl, battles: battles, players: players, proc: proc, ttl: ttl, logger: logger}
}

// GetBattleLog returns the normalized battle table plus its derived stats for
// a player, cached alongside the player row with its own TTL.
func (s *BattleService) GetBattleLog(ctx context.Context, tag string, refresh bool) (*domain.BattleLogView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	tag = api.CanonicalTag(tag)

	shouldRefresh, err := s.players.ShouldRefresh(ctx, tag, s.ttl)
	if err != nil {
		return nil, err
	}
	if refresh {
		s.logger.Debug().Str("tag", tag).Msg("manual refresh requested")
		shouldRefresh = true
	}

	if !shouldRefresh {
		rows, err := s.battles.GetByTag(ctx, tag)
		if err == nil && len(rows) > 0 {
			s.logger.Info().Str("tag", tag).Int("count", len(rows)).Msg("returning cached battle log")
			return s.buildView(rows), nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("tag", tag).Msg("failed to read cached battles")
		}
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	log, err := s.brawl.GetBattleLog(apiCtx, tag)
	if err != nil {
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch battle log")
		return nil, fmt.Errorf("failed to fetch battle log: %w", err)
	}

	rows, _ := s.proc.Normalize(log, tag)

	if err := s.battles.ReplaceForPlayer(ctx, tag, rows); err != nil {
		// Cache write failure is not fatal; the view is already computed.
		s.logger.Warn().Err(err).Str("tag", tag).Msg("failed to cache battle log")
	}

	s.logger.Info().Str("tag", tag).Int("count", len(rows)).Msg("battle log fetched successfully")
	return s.buildView(rows), nil
}

func (s *BattleService) buildView(rows []domain.NormalizedBattle) *domain.BattleLogView {
	starCount := 0
	for _, row := range rows {
		if row.StarPlayer {
			starCount++
		}
	}
	return &domain.BattleLogView{
		Battles:           rows,
		Stats:             s.proc.Aggregate(rows),
		StarPlayerCount:   starCount,
		TrophyProgression: s.proc.CumulativeTrophies(rows),
	}
}
