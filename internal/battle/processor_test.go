package battle_test

import (
	"fmt"
	"io"
	"testing"

	"brawlstars-tracker/internal/api"
	"brawlstars-tracker/internal/battle"
	"brawlstars-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor(t *testing.T, opts battle.Options) *battle.Processor {
	t.Helper()
	return battle.NewProcessor(opts, zerolog.New(io.Discard))
}

func teamRecord(subjectTag, result string, trophyChange int) api.BattleRecord {
	return api.BattleRecord{
		BattleTime: "20240101T120000.000Z",
		Event:      api.Event{Mode: "gemGrab", Map: "Hard Rock Mine"},
		Battle: api.Battle{
			Mode:         "gemGrab",
			Type:         "ranked",
			Result:       result,
			Duration:     120,
			TrophyChange: trophyChange,
			Teams: [][]api.BattlePlayer{
				{
					{Tag: subjectTag, Name: "Subject", Brawler: &api.BattleBrawler{Name: "SHELLY", Power: 9, Trophies: 512}},
					{Tag: "#MATE1", Brawler: &api.BattleBrawler{Name: "COLT", Power: 7, Trophies: 480}},
				},
				{
					{Tag: "#FOE1", Brawler: &api.BattleBrawler{Name: "BULL", Power: 10, Trophies: 530}},
				},
			},
		},
	}
}

func TestNormalizeCapsAtTwenty(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	log := &api.BattleLog{}
	for i := 0; i < 25; i++ {
		log.Items = append(log.Items, teamRecord("#SUBJECT", "victory", 8))
	}

	battles, _ := p.Normalize(log, "#SUBJECT")
	assert.Len(t, battles, 20)
}

func TestNormalizeTeamRoster(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	battles, stars := p.Normalize(&api.BattleLog{
		Items: []api.BattleRecord{teamRecord("#ABC123", "victory", 8)},
	}, "ABC123")

	require.Len(t, battles, 1)
	row := battles[0]
	assert.Equal(t, "Shelly", row.Brawler)
	assert.Equal(t, 9, row.Power)
	assert.Equal(t, 512, row.Trophies)
	assert.Equal(t, "Gemgrab", row.Mode)
	assert.Equal(t, "Hard Rock Mine", row.Map)
	assert.Equal(t, "Ranked", row.Type)
	assert.Equal(t, "Victory", row.Result)
	assert.Equal(t, "120s", row.Duration)
	assert.Equal(t, "+8", row.TrophyChange)
	assert.Equal(t, "", row.Rank)
	assert.Equal(t, "01.01.2024 12:00", row.Time)
	assert.False(t, row.StarPlayer)
	assert.Equal(t, 0, stars)
}

func TestNormalizeMissingSubject(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	battles, _ := p.Normalize(&api.BattleLog{
		Items: []api.BattleRecord{teamRecord("#SOMEONE", "defeat", -5)},
	}, "#NOTHERE")

	require.Len(t, battles, 1, "record without the subject is still included")
	assert.Equal(t, "Unknown", battles[0].Brawler)
	assert.Equal(t, 0, battles[0].Power)
	assert.Equal(t, 0, battles[0].Trophies)
	assert.Equal(t, "Defeat", battles[0].Result)
	assert.Equal(t, "-5", battles[0].TrophyChange)
}

func TestNormalizeDuels(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	record := api.BattleRecord{
		BattleTime: "20240315T183000.000Z",
		Event:      api.Event{Mode: "duels", Map: "Shooting Star"},
		Battle: api.Battle{
			Mode: "duels",
			Type: "ranked",
			Players: []api.BattlePlayer{
				{
					Tag: "#SUBJECT",
					Brawlers: []api.BattleBrawler{
						{Name: "CROW", Power: 9, Trophies: 600},
						{Name: "LEON", Power: 10, Trophies: 580},
					},
				},
				{
					Tag:      "#OPPONENT",
					Brawlers: []api.BattleBrawler{{Name: "SPIKE", Power: 11, Trophies: 700}},
				},
			},
		},
	}

	battles, _ := p.Normalize(&api.BattleLog{Items: []api.BattleRecord{record}}, "#SUBJECT")

	require.Len(t, battles, 1)
	assert.Equal(t, "Crow → Leon", battles[0].Brawler)
	assert.Equal(t, 19, battles[0].Power)
	assert.Equal(t, 1180, battles[0].Trophies)
}

func TestNormalizeStarPlayerCount(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	withStar := teamRecord("#SUBJECT", "victory", 8)
	withStar.Battle.StarPlayer = &api.BattlePlayer{Tag: "#SUBJECT"}
	otherStar := teamRecord("#SUBJECT", "defeat", -4)
	otherStar.Battle.StarPlayer = &api.BattlePlayer{Tag: "#FOE1"}

	battles, stars := p.Normalize(&api.BattleLog{
		Items: []api.BattleRecord{withStar, otherStar, teamRecord("#SUBJECT", "draw", 0)},
	}, "SUBJECT")

	require.Len(t, battles, 3)
	assert.Equal(t, 1, stars)
	assert.True(t, battles[0].StarPlayer)
	assert.False(t, battles[1].StarPlayer)
}

func TestNormalizeNoStarPlayerAcrossFullLog(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	log := &api.BattleLog{}
	for i := 0; i < 20; i++ {
		record := teamRecord("#SUBJECT", "victory", 8)
		record.Battle.StarPlayer = &api.BattlePlayer{Tag: fmt.Sprintf("#OTHER%d", i)}
		log.Items = append(log.Items, record)
	}

	_, stars := p.Normalize(log, "#SUBJECT")
	assert.Equal(t, 0, stars)
}

func TestNormalizeResultMapping(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	cases := []struct {
		raw  string
		want string
	}{
		{"victory", "Victory"},
		{"VICTORY", "Victory"},
		{"Defeat", "Defeat"},
		{"draw", "Draw"},
		{"", "No Result"},
		{"unexpected", "No Result"},
	}
	for _, tc := range cases {
		battles, _ := p.Normalize(&api.BattleLog{
			Items: []api.BattleRecord{teamRecord("#SUBJECT", tc.raw, 0)},
		}, "#SUBJECT")
		require.Len(t, battles, 1)
		assert.Equal(t, tc.want, battles[0].Result, "raw result %q", tc.raw)
	}
}

func TestNormalizeInvalidTimestamp(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	record := teamRecord("#SUBJECT", "victory", 8)
	record.BattleTime = "not-a-timestamp"

	battles, _ := p.Normalize(&api.BattleLog{Items: []api.BattleRecord{record}}, "#SUBJECT")
	require.Len(t, battles, 1)
	assert.Equal(t, "Unknown", battles[0].Time)
}

func TestNormalizeRankLabel(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	record := teamRecord("#SUBJECT", "", 6)
	record.Battle.Mode = "soloShowdown"
	record.Battle.Rank = 3

	battles, _ := p.Normalize(&api.BattleLog{Items: []api.BattleRecord{record}}, "#SUBJECT")
	require.Len(t, battles, 1)
	assert.Equal(t, "#3", battles[0].Rank)
}

func TestFormatTrophyChange(t *testing.T) {
	assert.Equal(t, "+42", battle.FormatTrophyChange(42))
	assert.Equal(t, "-15", battle.FormatTrophyChange(-15))
	assert.Equal(t, "0", battle.FormatTrophyChange(0))
}

func TestAggregateEmpty(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	stats := p.Aggregate(nil)
	assert.Equal(t, domain.BattleStats{TotalGames: 0, Victories: 0, WinRate: 0}, stats)
}

func TestAggregateWinRate(t *testing.T) {
	p := newProcessor(t, battle.Options{WinRule: battle.WinRuleDisplay})

	stats := p.Aggregate([]domain.NormalizedBattle{
		{Result: "Victory"},
		{Result: "Victory"},
		{Result: "Defeat"},
	})
	assert.Equal(t, 3, stats.TotalGames)
	assert.Equal(t, 2, stats.Victories)
	assert.InDelta(t, 66.7, stats.WinRate, 0.05)
}

func TestAggregateRawShowdownRule(t *testing.T) {
	p := newProcessor(t, battle.Options{WinRule: battle.WinRuleRaw})

	cases := []struct {
		name string
		row  domain.NormalizedBattle
		won  bool
	}{
		{"solo rank 4 wins", domain.NormalizedBattle{Mode: "Soloshowdown", Rank: "#4", Result: "No Result"}, true},
		{"solo rank 5 loses", domain.NormalizedBattle{Mode: "Soloshowdown", Rank: "#5", Result: "No Result"}, false},
		{"duo rank 2 wins", domain.NormalizedBattle{Mode: "Duoshowdown", Rank: "#2", Result: "No Result"}, true},
		{"duo rank 3 loses", domain.NormalizedBattle{Mode: "Duoshowdown", Rank: "#3", Result: "No Result"}, false},
		{"other mode goes by label", domain.NormalizedBattle{Mode: "Gemgrab", Result: "Victory"}, true},
		{"showdown without rank goes by label", domain.NormalizedBattle{Mode: "Soloshowdown", Result: "Victory"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stats := p.Aggregate([]domain.NormalizedBattle{tc.row})
			want := 0
			if tc.won {
				want = 1
			}
			assert.Equal(t, want, stats.Victories)
		})
	}
}

func TestGermanLabels(t *testing.T) {
	p := newProcessor(t, battle.Options{Labels: battle.GermanLabels(), WinRule: battle.WinRuleDisplay})

	battles, _ := p.Normalize(&api.BattleLog{
		Items: []api.BattleRecord{teamRecord("#SUBJECT", "victory", 8)},
	}, "#SUBJECT")
	require.Len(t, battles, 1)
	assert.Equal(t, "Sieg", battles[0].Result)

	stats := p.Aggregate(battles)
	assert.Equal(t, 1, stats.Victories)
}

func TestBrawlerSummary(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	brawlers := []domain.Brawler{
		{Name: "SHELLY", Power: 9, Trophies: 500, Gears: []string{"Speed"}, StarPowers: []string{"Shell Shock"}, Gadgets: []string{"Fast Forward"}},
		{Name: "COLT", Power: 11, Trophies: 700, Gears: []string{"Damage", "Speed"}},
		{Name: "BULL", Power: 11, Trophies: 650, StarPowers: []string{"Berserker", "Tough Guy"}},
		{Name: "POCO", Power: 5, Trophies: 150},
	}

	summary := p.BrawlerSummary(brawlers)
	assert.Equal(t, 4, summary.TotalBrawlers)
	assert.Equal(t, 3, summary.PowerNineOrAbove)
	assert.Equal(t, 2, summary.PowerEleven)
	assert.Equal(t, 3, summary.TotalGears)
	assert.Equal(t, 3, summary.TotalStarPowers)
	assert.Equal(t, 1, summary.TotalGadgets)
	assert.InDelta(t, 500.0, summary.AverageTrophies, 0.001)
}

func TestBrawlerSummaryEmpty(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	assert.Equal(t, domain.BrawlerSummary{}, p.BrawlerSummary(nil))
}

func TestHighestTrophyBrawler(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	highest := p.HighestTrophyBrawler([]domain.Brawler{
		{Name: "SHELLY", Trophies: 500},
		{Name: "COLT", Trophies: 700},
		{Name: "BULL", Trophies: 700},
	})
	assert.Equal(t, domain.HighestBrawler{Name: "Colt", Trophies: 700}, highest, "first maximum wins ties")

	assert.Equal(t, domain.HighestBrawler{}, p.HighestTrophyBrawler(nil))
}

func TestBrawlerDetails(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	details := p.BrawlerDetails([]domain.Brawler{
		{Name: "SHELLY", Power: 9, Trophies: 500, Gears: []string{"Speed", "Damage"}},
		{Name: "COLT", Power: 11, Trophies: 700},
	})

	require.Len(t, details, 2)
	assert.Equal(t, "Colt", details[0].Name, "sorted by trophies descending")
	assert.Equal(t, "-", details[0].Gears)
	assert.Equal(t, "Speed, Damage", details[1].Gears)
	assert.Equal(t, "-", details[1].StarPowers)
}

func TestCumulativeTrophies(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	points := p.CumulativeTrophies([]domain.NormalizedBattle{
		{TrophyDelta: 8},
		{TrophyDelta: -4},
		{TrophyDelta: 0},
	})

	require.Len(t, points, 3)
	assert.Equal(t, domain.TrophyPoint{Game: 1, Cumulative: 8}, points[0])
	assert.Equal(t, domain.TrophyPoint{Game: 2, Cumulative: 4}, points[1])
	assert.Equal(t, domain.TrophyPoint{Game: 3, Cumulative: 4}, points[2])
}

func TestNormalizeNilLog(t *testing.T) {
	p := newProcessor(t, battle.Options{})

	battles, stars := p.Normalize(nil, "#SUBJECT")
	assert.Nil(t, battles)
	assert.Equal(t, 0, stars)
}
