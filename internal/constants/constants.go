package constants

import "time"

const (
	PlayerRefreshTTL = 5 * time.Minute
	BattleRefreshTTL = 5 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	AnalysisTimeout    = 45 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// BattleLogLimit caps how many battle-log entries are normalized per player.
	BattleLogLimit = 20

	// RankingLimit is the number of leaderboard rows returned per brawler.
	RankingLimit = 10

	SearchSuggestionLimit = 10
)
