package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brawlstars-tracker/internal/constants"
	"brawlstars-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type BattleRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewBattleRepository(sqlDB *sql.DB, logger zerolog.Logger) *BattleRepository {
	return &BattleRepository{db: sqlDB, logger: logger}
}

// ReplaceForPlayer swaps the cached battle rows for a player in one
// transaction. The battle log has no stable per-entry id upstream, so rows are
// keyed by nanoid and ordered by position.
func (r *BattleRepository) ReplaceForPlayer(ctx context.Context, tag string, battles []domain.NormalizedBattle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM battles WHERE player_tag = ?`, tag); err != nil {
		return fmt.Errorf("failed to clear battles for %s: %w", tag, err)
	}

	now := time.Now()
	for i := 0; i < len(battles); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(battles) {
			end = len(battles)
		}

		for pos, b := range battles[i:end] {
			id, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate battle id: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO battles (
					id, player_tag, position, battle_time, brawler, power, trophies,
					mode, map, type, result, duration, trophy_change, trophy_delta,
					rank, star_player, created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, tag, i+pos, b.Time, b.Brawler, b.Power, b.Trophies,
				b.Mode, b.Map, b.Type, b.Result, b.Duration, b.TrophyChange, b.TrophyDelta,
				b.Rank, b.StarPlayer, now, now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert battle for %s: %w", tag, err)
			}
		}
	}

	return tx.Commit()
}

func (r *BattleRepository) GetByTag(ctx context.Context, tag string) ([]domain.NormalizedBattle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT battle_time, brawler, power, trophies, mode, map, type,
		       result, duration, trophy_change, trophy_delta, rank, star_player
		FROM battles WHERE player_tag = ? ORDER BY position`, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	battles := []domain.NormalizedBattle{}
	for rows.Next() {
		var b domain.NormalizedBattle
		if err := rows.Scan(
			&b.Time, &b.Brawler, &b.Power, &b.Trophies, &b.Mode, &b.Map, &b.Type,
			&b.Result, &b.Duration, &b.TrophyChange, &b.TrophyDelta, &b.Rank, &b.StarPlayer,
		); err != nil {
			return nil, err
		}
		battles = append(battles, b)
	}
	return battles, rows.Err()
}
