package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/summary", h.summary)
	r.Get("/dashboard/goal-progress", h.goalProgress)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	var unitID *int64
	if v := r.URL.Query().Get("unitId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid unitId")
			return
		}
		unitID = &id
	}
	data, err := h.Repo.Summary(r.Context(), unitID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":             month,
		"monthSales":        data.MonthSales,
		"todaySales":        data.TodaySales,
		"openTransfers":     data.OpenTransfers,
		"pendingRenditions": data.PendingRenditions,
		"pendingBonuses":    data.PendingBonuses,
	})
}

func (h DashboardHandler) goalProgress(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	items, err := h.Repo.GoalProgress(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, map[string]any{
			"businessUnitId": p.BusinessUnitID,
			"unitName":       p.UnitName,
			"targetAmount":   p.TargetAmount,
			"actualAmount":   p.ActualAmount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
