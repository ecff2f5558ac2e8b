package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brawlstars-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: sqlDB, logger: logger}
}

func (r *PlayerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	payload, err := json.Marshal(player.Brawlers)
	if err != nil {
		return fmt.Errorf("failed to marshal brawlers: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO players (
			tag, name, trophies, highest_trophies, exp_level,
			team_victories, solo_victories, duo_victories,
			club_tag, club_name, club_trophies, payload, last_fetch_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tag) DO UPDATE SET
			name = excluded.name,
			trophies = excluded.trophies,
			highest_trophies = excluded.highest_trophies,
			exp_level = excluded.exp_level,
			team_victories = excluded.team_victories,
			solo_victories = excluded.solo_victories,
			duo_victories = excluded.duo_victories,
			club_tag = excluded.club_tag,
			club_name = excluded.club_name,
			club_trophies = excluded.club_trophies,
			payload = excluded.payload,
			last_fetch_at = excluded.last_fetch_at,
			updated_at = excluded.updated_at`,
		player.Tag, player.Name, player.Trophies, player.HighestTrophies, player.ExpLevel,
		player.TeamVictories, player.SoloVictories, player.DuoVictories,
		player.ClubTag, player.ClubName, player.ClubTrophies, string(payload), now, now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("tag", player.Tag).Msg("failed to upsert player")
		return fmt.Errorf("failed to upsert player %s: %w", player.Tag, err)
	}
	return nil
}

func (r *PlayerRepository) GetByTag(ctx context.Context, tag string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT tag, name, trophies, highest_trophies, exp_level,
		       team_victories, solo_victories, duo_victories,
		       club_tag, club_name, club_trophies, payload, last_fetch_at, created_at, updated_at
		FROM players WHERE tag = ?`, tag)

	var player domain.Player
	var payload string
	err := row.Scan(
		&player.Tag, &player.Name, &player.Trophies, &player.HighestTrophies, &player.ExpLevel,
		&player.TeamVictories, &player.SoloVictories, &player.DuoVictories,
		&player.ClubTag, &player.ClubName, &player.ClubTrophies, &payload,
		&player.LastFetchAt, &player.CreatedAt, &player.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(payload), &player.Brawlers); err != nil {
		r.logger.Warn().Err(err).Str("tag", tag).Msg("corrupt brawler payload, ignoring")
		player.Brawlers = nil
	}
	return &player, nil
}

func (r *PlayerRepository) ShouldRefresh(ctx context.Context, tag string, ttl time.Duration) (bool, error) {
	var lastFetchAt time.Time
	err := r.db.QueryRowContext(ctx, `SELECT last_fetch_at FROM players WHERE tag = ?`, tag).Scan(&lastFetchAt)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("tag", tag).Msg("player not found, should refresh")
		return true, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("tag", tag).Msg("failed to get player")
		return false, err
	}

	timeSince := time.Since(lastFetchAt)
	shouldRefresh := timeSince > ttl
	r.logger.Debug().
		Str("tag", tag).
		Time("last_fetch_at", lastFetchAt).
		Dur("time_since", timeSince).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("checking if player should refresh")

	return shouldRefresh, nil
}

func (r *PlayerRepository) Search(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT tag, name, trophies, club_name FROM players
		WHERE name LIKE ? OR tag LIKE ?
		ORDER BY trophies DESC LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.Tag, &p.Name, &p.Trophies, &p.ClubName); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
