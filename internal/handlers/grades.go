package handlers

import (
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

func (h *PlannerHandler) HandleListGrades(w http.ResponseWriter, r *http.Request) {
	var courseID int64
	if raw := r.URL.Query().Get("course"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid course"))
			return
		}
		courseID = id
	}

	grades, err := h.service.Grades(r.Context(), courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"grades": grades})
}

func (h *PlannerHandler) HandleGetGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g, err := h.service.Grade(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *PlannerHandler) HandleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var g models.Grade
	if !decodeBody(w, r, &g) {
		return
	}
	g.ID = 0
	if err := h.service.SaveGrade(r.Context(), &g); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *PlannerHandler) HandleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var g models.Grade
	if !decodeBody(w, r, &g) {
		return
	}
	g.ID = id
	if err := h.service.SaveGrade(r.Context(), &g); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *PlannerHandler) HandleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteGrade(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
