// Package server exposes the tracker as a JSON REST API for the browser
// dashboard.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"brawlstars-tracker/internal/service"

	"github.com/rs/zerolog"
)

var errBadRequest = errors.New("invalid input")

type Server struct {
	players  *service.PlayerService
	battles  *service.BattleService
	clubs    *service.ClubService
	brawlers *service.BrawlerService
	compare  *service.ComparisonService
	logger   zerolog.Logger
}

func New(
	players *service.PlayerService,
	battles *service.BattleService,
	clubs *service.ClubService,
	brawlers *service.BrawlerService,
	compare *service.ComparisonService,
	logger zerolog.Logger,
) *Server {
	return &Server{
		players:  players,
		battles:  battles,
		clubs:    clubs,
		brawlers: brawlers,
		compare:  compare,
		logger:   logger,
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /api/v1/players/search", s.searchPlayers)
	mux.HandleFunc("GET /api/v1/players/{tag}", s.getPlayer)
	mux.HandleFunc("GET /api/v1/players/{tag}/battlelog", s.getBattleLog)
	mux.HandleFunc("GET /api/v1/players/{tag}/brawlers", s.getBrawlerDetails)
	mux.HandleFunc("GET /api/v1/clubs/{tag}", s.getClub)
	mux.HandleFunc("GET /api/v1/clubs/{tag}/members", s.getClubMembers)
	mux.HandleFunc("GET /api/v1/brawlers", s.listBrawlers)
	mux.HandleFunc("GET /api/v1/brawlers/{id}", s.getBrawler)
	mux.HandleFunc("GET /api/v1/brawlers/{id}/rankings", s.getBrawlerRankings)
	mux.HandleFunc("GET /api/v1/compare", s.comparePlayers)
	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.GetPlayer(r.Context(), r.PathValue("tag"), refreshParam(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) getBattleLog(w http.ResponseWriter, r *http.Request) {
	view, err := s.battles.GetBattleLog(r.Context(), r.PathValue("tag"), refreshParam(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) getBrawlerDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.players.GetBrawlerDetails(r.Context(), r.PathValue("tag"), refreshParam(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) searchPlayers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, s.logger, fmt.Errorf("%w: missing query parameter q", errBadRequest))
		return
	}
	players, err := s.players.SearchSuggestions(r.Context(), query)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) getClub(w http.ResponseWriter, r *http.Request) {
	club, err := s.clubs.GetClub(r.Context(), r.PathValue("tag"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

func (s *Server) getClubMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.clubs.GetMembers(r.Context(), r.PathValue("tag"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) listBrawlers(w http.ResponseWriter, r *http.Request) {
	brawlers, err := s.brawlers.List(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, brawlers)
}

func (s *Server) getBrawler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: brawler id must be numeric", errBadRequest))
		return
	}
	info, err := s.brawlers.Get(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) getBrawlerRankings(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: brawler id must be numeric", errBadRequest))
		return
	}
	rankings, err := s.brawlers.Rankings(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rankings)
}

func (s *Server) comparePlayers(w http.ResponseWriter, r *http.Request) {
	tag1 := r.URL.Query().Get("player1")
	tag2 := r.URL.Query().Get("player2")
	if tag1 == "" || tag2 == "" {
		writeError(w, s.logger, fmt.Errorf("%w: player1 and player2 are required", errBadRequest))
		return
	}
	comparison, err := s.compare.Compare(r.Context(), tag1, tag2)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func refreshParam(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "true"
}
