package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-scoreboard/services"
)

type OverviewHandler struct {
	overviewService services.OverviewService
	exportService   services.ExportService
}

func NewOverviewHandler(ovs services.OverviewService, es services.ExportService) *OverviewHandler {
	return &OverviewHandler{overviewService: ovs, exportService: es}
}

func (h *OverviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	ov, err := h.overviewService.Get(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "overview loaded", ov)
}

// DownloadStandings отдаёт xlsx напрямую, без конверта.
func (h *OverviewHandler) DownloadStandings(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportService.StandingsWorkbook(r.Context(), competitionParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.Header().Set("Content-Type", services.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

func (h *OverviewHandler) PublishStandings(w http.ResponseWriter, r *http.Request) {
	out, err := h.exportService.PublishStandings(r.Context(), competitionParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "standings published", out)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	ok(w, r, http.StatusOK, "ok", map[string]string{"status": "up"})
}
