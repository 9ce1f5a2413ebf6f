package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/tournament-scoreboard/services"
)

type SurvivalHandler struct {
	survivalService services.SurvivalService
}

func NewSurvivalHandler(ss services.SurvivalService) *SurvivalHandler {
	return &SurvivalHandler{survivalService: ss}
}

type resetSurvivalRequest struct {
	Name string `json:"name"`
}

type scoreRequest struct {
	Score *int `json:"score"`
}

func (h *SurvivalHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.survivalService.Get(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "survival tournament loaded", t)
}

// Reset принимает пустое тело: тогда используется имя по умолчанию.
func (h *SurvivalHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var input resetSurvivalRequest
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}
	t, err := h.survivalService.Reset(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "survival tournament reset", t)
}

func (h *SurvivalHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var input playerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	t, err := h.survivalService.AddPlayer(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "player added", t)
}

func (h *SurvivalHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	t, err := h.survivalService.RemovePlayer(r.Context(), chi.URLParam(r, "player"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "player removed", t)
}

func (h *SurvivalHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil || round <= 0 {
		badRequestResponse(w, r, fmt.Errorf("invalid round number %q", chi.URLParam(r, "round")))
		return
	}
	var input scoreRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	score, err := requireInt("score", input.Score)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.survivalService.SetScore(r.Context(), round, chi.URLParam(r, "player"), score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "score updated", t)
}

func (h *SurvivalHandler) EndRound(w http.ResponseWriter, r *http.Request) {
	res, err := h.survivalService.EndRound(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	msg := "round completed"
	if res.Outcome.Final {
		msg = "tournament finished"
	}
	ok(w, r, http.StatusOK, msg, res)
}
