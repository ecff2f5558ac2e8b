package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"brawlstars-tracker/internal/config"

	"github.com/valyala/fasthttp"
)

const baseURL = "https://api.brawlstars.com/v1"

// StatusError is returned when the upstream API answers with a non-200 code,
// so callers can map 404s and 429s instead of treating everything as internal.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.Code)
}

type BrawlClient struct {
	apiKey string
	client *fasthttp.Client
}

func NewBrawlClient(cfg *config.Config) *BrawlClient {
	return &BrawlClient{
		apiKey: cfg.BrawlAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// CleanTag normalizes a player or club tag for use in a URL path: a missing
// leading '#' is added, the tag is uppercased, spaces are dropped and the '#'
// is percent-encoded.
func CleanTag(tag string) string {
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	tag = strings.ToUpper(tag)
	tag = strings.ReplaceAll(tag, " ", "")
	return strings.ReplaceAll(tag, "#", "%23")
}

/// CanonicalTag is the storage form of a tag: uppercase with a single leading
// '#'. The API client and the repositories must agree on it so cache lookups
// hit regardless of how the caller spelled the tag.
func CanonicalTag(tag string) string {
	tag = strings.ReplaceAll(strings.ToUpper(tag), " ", "")
	return "#" + strings.TrimPrefix(tag, "#")
}

func (c *BrawlClient) GetPlayer(ctx context.Context, tag string) (*Player, error) {
	url := fmt.Sprintf("%s/players/%s", baseURL, CleanTag(tag))
	return doRequest[Player](ctx, c, url)
}

func (c *BrawlClient) GetBattleLog(ctx context.Context, tag string) (*BattleLog, error) {
	url := fmt.Sprintf("%s/players/%s/battlelog", baseURL, CleanTag(tag))
	return doRequest[BattleLog](ctx, c, url)
}

func (c *BrawlClient) GetClub(ctx context.Context, tag string) (*Club, error) {
	url := fmt.Sprintf("%s/clubs/%s", baseURL, CleanTag(tag))
	return doRequest[Club](ctx, c, url)
}

func (c *BrawlClient) GetClubMembers(ctx context.Context, tag string) (*ClubMemberList, error) {
	url := fmt.Sprintf("%s/clubs/%s/members", baseURL, CleanTag(tag))
	return doRequest[ClubMemberList](ctx, c, url)
}

func (c *BrawlClient) GetBrawlers(ctx context.Context) (*BrawlerList, error) {
	url := fmt.Sprintf("%s/brawlers", baseURL)
	return doRequest[BrawlerList](ctx, c, url)
}

func (c *BrawlClient) GetBrawler(ctx context.Context, id int) (*BrawlerInfo, error) {
	url := fmt.Sprintf("%s/brawlers/%d", baseURL, id)
	return doRequest[BrawlerInfo](ctx, c, url)
}

func (c *BrawlClient) GetBrawlerRankings(ctx context.Context, id int) (*RankingList, error) {
	url := fmt.Sprintf("%s/rankings/global/brawlers/%d", baseURL, id)
	return doRequest[RankingList](ctx, c, url)
}

func doRequest[T any](ctx context.Context, client *BrawlClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+client.apiKey)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode()}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type Player struct {
	Tag             string        `json:"tag"`
	Name            string        `json:"name"`
	Trophies        int           `json:"trophies"`
	HighestTrophies int           `json:"highestTrophies"`
	ExpLevel        int           `json:"expLevel"`
	TeamVictories   int           `json:"3vs3Victories"`
	SoloVictories   int           `json:"soloVictories"`
	DuoVictories    int           `json:"duoVictories"`
	Club            PlayerClub    `json:"club"`
	Brawlers        []BrawlerStat `json:"brawlers"`
}

type PlayerClub struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

type BrawlerStat struct {
	ID              int         `json:"id"`
	Name            string      `json:"name"`
	Power           int         `json:"power"`
	Rank            int         `json:"rank"`
	Trophies        int         `json:"trophies"`
	HighestTrophies int         `json:"highestTrophies"`
	Gears           []NamedItem `json:"gears"`
	StarPowers      []NamedItem `json:"starPowers"`
	Gadgets         []NamedItem `json:"gadgets"`
}

type NamedItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type BattleLog struct {
	Items []BattleRecord `json:"items"`
}

type BattleRecord struct {
	BattleTime string `json:"battleTime"`
	Event      Event  `json:"event"`
	Battle     Battle `json:"battle"`
}

type Event struct {
	ID   int    `json:"id"`
	Mode string `json:"mode"`
	Map  string `json:"map"`
}

type Battle struct {
	Mode         string           `json:"mode"`
	Type         string           `json:"type"`
	Result       string           `json:"result"`
	Duration     int              `json:"duration"`
	Rank         int              `json:"rank"`
	TrophyChange int              `json:"trophyChange"`
	StarPlayer   *BattlePlayer    `json:"starPlayer"`
	Teams        [][]BattlePlayer `json:"teams"`
	Players      []BattlePlayer   `json:"players"`
}

type BattlePlayer struct {
	Tag     string         `json:"tag"`
	Name    string         `json:"name"`
	Brawler *BattleBrawler `json:"brawler"`
	// Brawlers is only populated in duels, where one player runs several
	// brawlers in sequence.
	Brawlers []BattleBrawler `json:"brawlers"`
}

type BattleBrawler struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Power    int    `json:"power"`
	Trophies int    `json:"trophies"`
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

type ClubMemberList struct {
	Items []ClubMember `json:"items"`
}

type BrawlerList struct {
	Items []BrawlerInfo `json:"items"`
}

type BrawlerInfo struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	StarPowers []NamedItem `json:"starPowers"`
	Gadgets    []NamedItem `json:"gadgets"`
}

type RankingList struct {
	Items []RankingPlayer `json:"items"`
}

type RankingPlayer struct {
	Tag      string      `json:"tag"`
	Name     string      `json:"name"`
	Trophies int         `json:"trophies"`
	Rank     int         `json:"rank"`
	Club     RankingClub `json:"club"`
}

type RankingClub struct {
	Name string `json:"name"`
}
