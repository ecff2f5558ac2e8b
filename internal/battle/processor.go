// Package battle turns raw battle-log records from the Brawl Stars API into
// the normalized rows and aggregate counters the dashboard renders.
package battle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"brawlstars-tracker/internal/api"
	"brawlstars-tracker/internal/config"
	"brawlstars-tracker/internal/constants"
	"brawlstars-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// WinRule selects which victory vocabulary Aggregate trusts. The raw battle
// log and the pre-mapped display rows disagree for showdown modes, so the
// rule is configuration rather than a hard-coded choice.
type WinRule int

const (
	// WinRuleRaw applies the game's own rules: solo showdown counts rank 1-4
	// as a win, duo showdown rank 1-2, every other mode goes by the result
	// label.
	WinRuleRaw WinRule = iota

	// WinRuleDisplay counts a row as won only when its Result field equals
	// the localized victory label exactly.
	WinRuleDisplay
)

const battleTimeLayout = "20060102T150405.000Z0700"

type Options struct {
	Labels  Labels
	WinRule WinRule
}

func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{Labels: LabelsForLocale(cfg.Locale)}
	if cfg.WinRule == "display" {
		opts.WinRule = WinRuleDisplay
	}
	return opts
}

type Processor struct {
	labels  Labels
	winRule WinRule
	logger  zerolog.Logger
}

func NewProcessor(opts Options, logger zerolog.Logger) *Processor {
	if opts.Labels == (Labels{}) {
		opts.Labels = EnglishLabels()
	}
	return &Processor{labels: opts.Labels, winRule: opts.WinRule, logger: logger}
}

// Normalize maps at most the first 20 battle-log entries into display rows
// and counts how often the subject was star player. A record that cannot be
// normalized is logged and skipped; the rest of the batch is unaffected.
// Output order matches input order (most recent first).
func (p *Processor) Normalize(log *api.BattleLog, subjectTag string) ([]domain.NormalizedBattle, int) {
	if log == nil {
		return nil, 0
	}

	items := log.Items
	if len(items) > constants.BattleLogLimit {
		items = items[:constants.BattleLogLimit]
	}

	subject := strings.TrimPrefix(subjectTag, "#")
	battles := make([]domain.NormalizedBattle, 0, len(items))
	starCount := 0

	for i, record := range items {
		row, err := p.normalizeRecord(record, subject)
		if err != nil {
			p.logger.Warn().Err(err).Int("index", i).Str("tag", subjectTag).Msg("skipping malformed battle record")
			continue
		}
		if row.StarPlayer {
			starCount++
		}
		battles = append(battles, row)
	}

	return battles, starCount
}

func (p *Processor) normalizeRecord(record api.BattleRecord, subject string) (row domain.NormalizedBattle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("battle record: %v", r)
		}
	}()

	name, power, trophies := p.locateSubject(record.Battle, subject)

	row = domain.NormalizedBattle{
		Time:         p.formatBattleTime(record.BattleTime),
		Brawler:      name,
		Power:        power,
		Trophies:     trophies,
		Mode:         titleCase(record.Battle.Mode),
		Map:          record.Event.Map,
		Type:         titleCase(record.Battle.Type),
		Result:       p.mapResult(record.Battle.Result),
		Duration:     fmt.Sprintf("%ds", record.Battle.Duration),
		TrophyChange: FormatTrophyChange(record.Battle.TrophyChange),
		TrophyDelta:  record.Battle.TrophyChange,
		StarPlayer:   isStarPlayer(record.Battle, subject),
	}
	if row.Map == "" {
		row.Map = p.labels.Unknown
	}
	if record.Battle.Rank > 0 {
		row.Rank = fmt.Sprintf("#%d", record.Battle.Rank)
	}
	return row, nil
}

// locateSubject finds the subject's brawler data in a battle. Duels list the
// subject once with the whole brawler sequence, so name becomes the played
// path and power/trophies the sum. All other modes carry a single brawler per
// participant, either inside a team roster or in the flat player list.
func (p *Processor) locateSubject(b api.Battle, subject string) (name string, power, trophies int) {
	if strings.EqualFold(b.Mode, "duels") {
		for _, player := range b.Players {
			if strings.TrimPrefix(player.Tag, "#") != subject || len(player.Brawlers) == 0 {
				continue
			}
			names := make([]string, len(player.Brawlers))
			for i, brawler := range player.Brawlers {
				names[i] = titleCase(brawler.Name)
				power += brawler.Power
				trophies += brawler.Trophies
			}
			return strings.Join(names, " → "), power, trophies
		}
		return p.labels.Unknown, 0, 0
	}

	for _, team := range b.Teams {
		for _, player := range team {
			if strings.TrimPrefix(player.Tag, "#") == subject && player.Brawler != nil {
				return titleCase(player.Brawler.Name), player.Brawler.Power, player.Brawler.Trophies
			}
		}
	}
	for _, player := range b.Players {
		if strings.TrimPrefix(player.Tag, "#") == subject && player.Brawler != nil {
			return titleCase(player.Brawler.Name), player.Brawler.Power, player.Brawler.Trophies
		}
	}
	return p.labels.Unknown, 0, 0
}

func isStarPlayer(b api.Battle, subject string) bool {
	return b.StarPlayer != nil && strings.TrimPrefix(b.StarPlayer.Tag, "#") == subject
}

func (p *Processor) mapResult(result string) string {
	switch strings.ToLower(result) {
	case "victory":
		return p.labels.Victory
	case "defeat":
		return p.labels.Defeat
	case "draw":
		return p.labels.Draw
	default:
		return p.labels.NoResult
	}
}

func (p *Processor) formatBattleTime(battleTime string) string {
	t, err := time.Parse(battleTimeLayout, battleTime)
	if err != nil {
		return p.labels.Unknown
	}
	return t.Format("02.01.2006 15:04")
}

// FormatTrophyChange renders a signed trophy delta; positive values carry an
// explicit '+', zero and negative values print as-is.
func FormatTrophyChange(change int) string {
	if change > 0 {
		return "+" + strconv.Itoa(change)
	}
	return strconv.Itoa(change)
}

// Aggregate derives the summary counters from a normalized battle sequence.
// It never fails; an empty input yields an all-zero result.
func (p *Processor) Aggregate(battles []domain.NormalizedBattle) domain.BattleStats {
	stats := domain.BattleStats{TotalGames: len(battles)}
	for _, b := range battles {
		if p.isVictory(b) {
			stats.Victories++
		}
	}
	if stats.TotalGames > 0 {
		stats.WinRate = float64(stats.Victories) / float64(stats.TotalGames) * 100
	}
	return stats
}

func (p *Processor) isVictory(b domain.NormalizedBattle) bool {
	if p.winRule == WinRuleDisplay {
		return b.Result == p.labels.Victory
	}

	mode := strings.ToLower(b.Mode)
	if rank, ok := parseRank(b.Rank); ok {
		switch mode {
		case "soloshowdown":
			return rank <= 4
		case "duoshowdown":
			return rank <= 2
		}
	}
	return strings.EqualFold(b.Result, p.labels.Victory)
}

func parseRank(label string) (int, bool) {
	rank, err := strconv.Atoi(strings.TrimPrefix(label, "#"))
	if err != nil || rank <= 0 {
		return 0, false
	}
	return rank, true
}

// BrawlerSummary aggregates a player's brawler roster. Power 11 brawlers are
// a subset of the power >= 9 count. Missing equipment lists contribute zero.
func (p *Processor) BrawlerSummary(brawlers []domain.Brawler) domain.BrawlerSummary {
	var summary domain.BrawlerSummary
	if len(brawlers) == 0 {
		return summary
	}

	totalTrophies := 0
	summary.TotalBrawlers = len(brawlers)
	for _, b := range brawlers {
		if b.Power >= 9 {
			summary.PowerNineOrAbove++
		}
		if b.Power == 11 {
			summary.PowerEleven++
		}
		summary.TotalGears += len(b.Gears)
		summary.TotalStarPowers += len(b.StarPowers)
		summary.TotalGadgets += len(b.Gadgets)
		totalTrophies += b.Trophies
	}
	summary.AverageTrophies = float64(totalTrophies) / float64(summary.TotalBrawlers)
	return summary
}

// HighestTrophyBrawler returns the first brawler holding the trophy maximum,
// or an empty result for a player with no brawlers.
func (p *Processor) HighestTrophyBrawler(brawlers []domain.Brawler) domain.HighestBrawler {
	var highest domain.HighestBrawler
	for _, b := range brawlers {
		if highest.Name == "" || b.Trophies > highest.Trophies {
			highest = domain.HighestBrawler{Name: titleCase(b.Name), Trophies: b.Trophies}
		}
	}
	return highest
}

// BrawlerDetails formats the per-brawler table, sorted by trophies descending.
// Ties keep roster order.
func (p *Processor) BrawlerDetails(brawlers []domain.Brawler) []domain.BrawlerDetail {
	if len(brawlers) == 0 {
		return []domain.BrawlerDetail{}
	}

	details := make([]domain.BrawlerDetail, len(brawlers))
	for i, b := range brawlers {
		details[i] = domain.BrawlerDetail{
			Name:            titleCase(b.Name),
			Power:           b.Power,
			Rank:            b.Rank,
			Trophies:        b.Trophies,
			HighestTrophies: b.HighestTrophies,
			Gears:           joinNames(b.Gears),
			StarPowers:      joinNames(b.StarPowers),
			Gadgets:         joinNames(b.Gadgets),
		}
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Trophies > details[j].Trophies
	})
	return details
}

// CumulativeTrophies builds the running trophy-change series for the
// progression chart, one sample per normalized row.
func (p *Processor) CumulativeTrophies(battles []domain.NormalizedBattle) []domain.TrophyPoint {
	points := make([]domain.TrophyPoint, len(battles))
	cumulative := 0
	for i, b := range battles {
		cumulative += b.TrophyDelta
		points[i] = domain.TrophyPoint{Game: i + 1, Cumulative: cumulative}
	}
	return points
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// titleCase upper-cases the first letter of every space-separated word and
// lower-cases the rest, matching how the dashboard prints the API's
// all-caps brawler names.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
