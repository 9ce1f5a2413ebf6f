package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/tournament-scoreboard/models"
	"github.com/Dosada05/tournament-scoreboard/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

type recordResultRequest struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

type setPlayersRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type updateStatusRequest struct {
	Status models.MatchStatus `json:"status"`
}

func competitionParam(r *http.Request) models.Competition {
	return models.Competition(chi.URLParam(r, "competition"))
}

func (h *BracketHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	c := competitionParam(r)

	var (
		matches []*models.MatchNode
		err     error
	)
	if round := r.URL.Query().Get("round"); round != "" {
		matches, err = h.bracketService.ListMatchesByRound(r.Context(), c, models.Round(round))
	} else {
		matches, err = h.bracketService.ListMatches(r.Context(), c)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "matches loaded", matches)
}

func (h *BracketHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.bracketService.GetMatch(r.Context(), competitionParam(r), chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "match loaded", m)
}

func (h *BracketHandler) SeedBracket(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.bracketService.SeedBracket(r.Context(), competitionParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "bracket seeded", nodes)
}

func (h *BracketHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var input recordResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	s1, err := requireInt("score1", input.Score1)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	s2, err := requireInt("score2", input.Score2)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.bracketService.RecordResult(r.Context(), competitionParam(r), chi.URLParam(r, "matchID"), s1, s2)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "result recorded", out)
}

func (h *BracketHandler) ResetMatch(w http.ResponseWriter, r *http.Request) {
	out, err := h.bracketService.ResetMatch(r.Context(), competitionParam(r), chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "match reset", out)
}

func (h *BracketHandler) SetPlayers(w http.ResponseWriter, r *http.Request) {
	var input setPlayersRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	m, err := h.bracketService.SetInitialPlayers(r.Context(), competitionParam(r), chi.URLParam(r, "matchID"), input.Player1, input.Player2)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "players set", m)
}

func (h *BracketHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input updateStatusRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	m, err := h.bracketService.UpdateMatchStatus(r.Context(), competitionParam(r), chi.URLParam(r, "matchID"), input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "status updated", m)
}
