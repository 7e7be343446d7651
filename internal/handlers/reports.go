package handlers

import (
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

func (h *PlannerHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.CourseReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *PlannerHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Dashboard(r.Context(), h.now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleSchedule lists classes for ?day=0..6 (Sunday first), today when omitted.
func (h *PlannerHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	day := int(h.now().Weekday())
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid day"))
			return
		}
		day = parsed
	}

	sessions, err := h.service.Schedule(r.Context(), day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"day":     day,
		"classes": sessions,
	})
}

func (h *PlannerHandler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.service.WeekSchedule(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	days := make([]map[string]interface{}, 0, len(week))
	for day, sessions := range week {
		days = append(days, map[string]interface{}{
			"day":     day,
			"name":    models.DayName(day),
			"classes": sessions,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"days": days})
}
