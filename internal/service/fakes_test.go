package service_test

import (
	"context"
	"errors"
	"time"

	"brawlstars-tracker/internal/api"
	"brawlstars-tracker/internal/domain"
	"brawlstars-tracker/internal/service"
)

type fakeBrawlAPI struct {
	player   *api.Player
	log      *api.BattleLog
	club     *api.Club
	members  *api.ClubMemberList
	brawlers *api.BrawlerList
	brawler  *api.BrawlerInfo
	rankings *api.RankingList
	err      error

	playerCalls int
	logCalls    int
	clubCalls   int
}

var _ service.BrawlAPI = (*fakeBrawlAPI)(nil)

func (f *fakeBrawlAPI) GetPlayer(ctx context.Context, tag string) (*api.Player, error) {
	f.playerCalls++
	return f.player, f.err
}

func (f *fakeBrawlAPI) GetBattleLog(ctx context.Context, tag string) (*api.BattleLog, error) {
	f.logCalls++
	return f.log, f.err
}

func (f *fakeBrawlAPI) GetClub(ctx context.Context, tag string) (*api.Club, error) {
	f.clubCalls++
	return f.club, f.err
}

func (f *fakeBrawlAPI) GetClubMembers(ctx context.Context, tag string) (*api.ClubMemberList, error) {
	return f.members, f.err
}

func (f *fakeBrawlAPI) GetBrawlers(ctx context.Context) (*api.BrawlerList, error) {
	return f.brawlers, f.err
}

func (f *fakeBrawlAPI) GetBrawler(ctx context.Context, id int) (*api.BrawlerInfo, error) {
	return f.brawler, f.err
}

func (f *fakeBrawlAPI) GetBrawlerRankings(ctx context.Context, id int) (*api.RankingList, error) {
	return f.rankings, f.err
}

type fakePlayerStore struct {
	players map[string]*domain.Player
	stale   bool
	upserts int
}

var _ service.PlayerStore = (*fakePlayerStore)(nil)

func newFakePlayerStore() *fakePlayerStore {
	return &fakePlayerStore{players: make(map[string]*domain.Player)}
}

func (f *fakePlayerStore) Upsert(ctx context.Context, player *domain.Player) error {
	f.upserts++
	f.players[player.Tag] = player
	return nil
}

func (f *fakePlayerStore) GetByTag(ctx context.Context, tag string) (*domain.Player, error) {
	p, ok := f.players[tag]
	if !ok {
		return nil, errors.New("player not found")
	}
	return p, nil
}

func (f *fakePlayerStore) ShouldRefresh(ctx context.Context, tag string, ttl time.Duration) (bool, error) {
	return f.stale, nil
}

func (f *fakePlayerStore) Search(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	var out []domain.Player
	for _, p := range f.players {
		out = append(out, *p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeBattleStore struct {
	rows       map[string][]domain.NormalizedBattle
	replaceErr error
	replaces   int
}

var _ service.BattleStore = (*fakeBattleStore)(nil)

func newFakeBattleStore() *fakeBattleStore {
	return &fakeBattleStore{rows: make(map[string][]domain.NormalizedBattle)}
}

func (f *fakeBattleStore) ReplaceForPlayer(ctx context.Context, tag string, battles []domain.NormalizedBattle) error {
	f.replaces++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.rows[tag] = battles
	return nil
}

func (f *fakeBattleStore) GetByTag(ctx context.Context, tag string) ([]domain.NormalizedBattle, error) {
	return f.rows[tag], nil
}

type fakeAnalyzer struct {
	analysis string
	err      error
	calls    int
}

func (f *fakeAnalyzer) ComparePlayers(ctx context.Context, p1, p2 domain.PlayerOverview) (string, error) {
	f.calls++
	return f.analysis, f.err
}
