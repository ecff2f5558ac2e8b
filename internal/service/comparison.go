package service

import (
	"context"
	"errors"
	"fmt"

	"brawlstars-tracker/internal/battle"
	"brawlstars-tracker/internal/constants"
	"brawlstars-tracker/internal/domain"
	"brawlstars-tracker/internal/llm"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ComparisonService struct {
	players  *PlayerService
	battles  *BattleService
	proc     *battle.Processor
	analyzer llm.Analyzer
	logger   zerolog.Logger
}

func NewComparisonService(players *PlayerService, battles *BattleService, proc *battle.Processor, analyzer llm.Analyzer, logger zerolog.Logger) *ComparisonService {
	return &ComparisonService{players: players, battles: battles, proc: proc, analyzer: analyzer, logger: logger}
}

// Compare loads both players in parallel and attaches the AI summary. A
// failing or unconfigured analyzer degrades to a comparison without analysis
// rather than an error.
func (s *ComparisonService) Compare(ctx context.Context, tag1, tag2 string) (*domain.Comparison, error) {
	g, gCtx := errgroup.WithContext(ctx)
	var overview1, overview2 *domain.PlayerOverview

	g.Go(func() error {
		var err error
		overview1, err = s.overview(gCtx, tag1)
		return err
	})
	g.Go(func() error {
		var err error
		overview2, err = s.overview(gCtx, tag2)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison := &domain.Comparison{Player1: *overview1, Player2: *overview2}

	analysisCtx, cancel := context.WithTimeout(ctx, constants.AnalysisTimeout)
	defer cancel()

	analysis, err := s.analyzer.ComparePlayers(analysisCtx, *overview1, *overview2)
	switch {
	case errors.Is(err, llm.ErrUnavailable):
		s.logger.Debug().Msg("AI analysis disabled, returning comparison without summary")
	case err != nil:
		s.logger.Error().Err(err).Msg("AI analysis failed")
	default:
		comparison.Analysis = analysis
	}

	return comparison, nil
}

func (s *ComparisonService) overview(ctx context.Context, tag string) (*domain.PlayerOverview, error) {
	player, err := s.players.GetPlayer(ctx, tag, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", tag, err)
	}

	view, err := s.battles.GetBattleLog(ctx, tag, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load battle log for %s: %w", tag, err)
	}

	return &domain.PlayerOverview{
		Player:          *player,
		BrawlerSummary:  s.proc.BrawlerSummary(player.Brawlers),
		HighestBrawler:  s.proc.HighestTrophyBrawler(player.Brawlers),
		BattleStats:     view.Stats,
		StarPlayerCount: view.StarPlayerCount,
	}, nil
}
