package domain

import (
	"time"
)

type Player struct {
	Tag             string    `json:"tag"`
	Name            string    `json:"name"`
	Trophies        int       `json:"trophies"`
	HighestTrophies int       `json:"highestTrophies"`
	ExpLevel        int       `json:"expLevel"`
	TeamVictories   int       `json:"3vs3Victories"`
	SoloVictories   int       `json:"soloVictories"`
	DuoVictories    int       `json:"duoVictories"`
	ClubTag         string    `json:"clubTag,omitempty"`
	ClubName        string    `json:"clubName,omitempty"`
	ClubTrophies    int       `json:"clubTrophies,omitempty"`
	Brawlers        []Brawler `json:"brawlers,omitempty"`
	LastFetchAt     time.Time `json:"-"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

type Brawler struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Power           int      `json:"power"`
	Rank            int      `json:"rank"`
	Trophies        int      `json:"trophies"`
	HighestTrophies int      `json:"highestTrophies"`
	Gears           []string `json:"gears"`
	StarPowers      []string `json:"starPowers"`
	Gadgets         []string `json:"gadgets"`
}

// NormalizedBattle is one row of the per-match table the dashboard renders.
// Display fields are already formatted; TrophyDelta keeps the raw signed value
// for the progression chart and is not serialized.
type NormalizedBattle struct {
	Time         string `json:"time"`
	Brawler      string `json:"brawler"`
	Power        int    `json:"power"`
	Trophies     int    `json:"trophies"`
	Mode         string `json:"mode"`
	Map          string `json:"map"`
	Type         string `json:"type"`
	Result       string `json:"result"`
	Duration     string `json:"duration"`
	TrophyChange string `json:"trophyChange"`
	Rank         string `json:"rank"`
	StarPlayer   bool   `json:"starPlayer"`
	TrophyDelta  int    `json:"-"`
}

type BattleStats struct {
	TotalGames int     `json:"totalGames"`
	Victories  int     `json:"victories"`
	WinRate    float64 `json:"winRate"`
}

type BrawlerSummary struct {
	TotalBrawlers    int     `json:"totalBrawlers"`
	PowerNineOrAbove int     `json:"powerNineOrAbove"`
	PowerEleven      int     `json:"powerEleven"`
	TotalGears       int     `json:"totalGears"`
	TotalStarPowers  int     `json:"totalStarPowers"`
	TotalGadgets     int     `json:"totalGadgets"`
	AverageTrophies  float64 `json:"averageTrophies"`
}

type HighestBrawler struct {
	Name     string `json:"name"`
	Trophies int    `json:"trophies"`
}

// BrawlerDetail is a formatted row of the per-brawler table.
type BrawlerDetail struct {
	Name            string `json:"name"`
	Power           int    `json:"power"`
	Rank            int    `json:"rank"`
	Trophies        int    `json:"trophies"`
	HighestTrophies int    `json:"highestTrophies"`
	Gears           string `json:"gears"`
	StarPowers      string `json:"starPowers"`
	Gadgets         string `json:"gadgets"`
}

// TrophyPoint is one sample of the cumulative trophy-change series.
type TrophyPoint struct {
	Game       int `json:"game"`
	Cumulative int `json:"cumulative"`
}

type BattleLogView struct {
	Battles           []NormalizedBattle `json:"battles"`
	Stats             BattleStats        `json:"stats"`
	StarPlayerCount   int                `json:"starPlayerCount"`
	TrophyProgression []TrophyPoint      `json:"trophyProgression"`
}

type Club struct {
	Tag              string       `json:"tag"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Type             string       `json:"type"`
	Trophies         int          `json:"trophies"`
	RequiredTrophies int          `json:"requiredTrophies"`
	Members          []ClubMember `json:"members"`
}

type ClubMember struct {
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Trophies int    `json:"trophies"`
}

// PlayerOverview bundles everything the comparison page shows for one player.
type PlayerOverview struct {
	Player          Player         `json:"player"`
	BrawlerSummary  BrawlerSummary `json:"brawlerSummary"`
	HighestBrawler  HighestBrawler `json:"highestBrawler"`
	BattleStats     BattleStats    `json:"battleStats"`
	StarPlayerCount int            `json:"starPlayerCount"`
}

type Comparison struct {
	Player1  PlayerOverview `json:"player1"`
	Player2  PlayerOverview `json:"player2"`
	Analysis string         `json:"analysis,omitempty"`
}

type RankingEntry struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Trophies int    `json:"trophies"`
	Club     string `json:"club"`
}
