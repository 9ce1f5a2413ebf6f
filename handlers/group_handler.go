package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/tournament-scoreboard/services"
)

type GroupHandler struct {
	groupService services.GroupService
}

func NewGroupHandler(gs services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: gs}
}

type playerRequest struct {
	Name string `json:"name"`
}

type groupMatchRequest struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	ScoreA  *int   `json:"score_a"`
	ScoreB  *int   `json:"score_b"`
}

type swapRequest struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.ListGroups(r.Context(), competitionParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "groups loaded", groups)
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.groupService.GetGroup(r.Context(), competitionParam(r), chi.URLParam(r, "group"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "group loaded", g)
}

func (h *GroupHandler) Standings(w http.ResponseWriter, r *http.Request) {
	st, err := h.groupService.Standings(r.Context(), competitionParam(r), chi.URLParam(r, "group"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "standings loaded", st)
}

func (h *GroupHandler) Fixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.groupService.Fixtures(r.Context(), competitionParam(r), chi.URLParam(r, "group"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "fixtures loaded", fixtures)
}

func (h *GroupHandler) InitializeGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.InitializeGroups(r.Context(), competitionParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "groups initialized", groups)
}

func (h *GroupHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var input playerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	g, err := h.groupService.AddPlayer(r.Context(), competitionParam(r), chi.URLParam(r, "group"), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "player added", g)
}

func (h *GroupHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	g, err := h.groupService.RemovePlayer(r.Context(), competitionParam(r), chi.URLParam(r, "group"), chi.URLParam(r, "player"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "player removed", g)
}

func (h *GroupHandler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	var input groupMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	scoreA, err := requireInt("score_a", input.ScoreA)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	scoreB, err := requireInt("score_b", input.ScoreB)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	st, err := h.groupService.RecordMatch(r.Context(), competitionParam(r), chi.URLParam(r, "group"), services.GroupMatchInput{
		PlayerA: input.PlayerA,
		PlayerB: input.PlayerB,
		ScoreA:  scoreA,
		ScoreB:  scoreB,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "group match recorded", st)
}

func (h *GroupHandler) SwapPlayers(w http.ResponseWriter, r *http.Request) {
	var input swapRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	g, err := h.groupService.SwapPlayers(r.Context(), competitionParam(r), chi.URLParam(r, "group"), input.PlayerA, input.PlayerB)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "players swapped", g)
}

func (h *GroupHandler) AdvanceToKnockout(w http.ResponseWriter, r *http.Request) {
	draw, err := h.groupService.AdvanceToKnockout(r.Context(), competitionParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "knockout stage seeded", draw)
}
