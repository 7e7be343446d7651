package handlers

import (
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/studyplan/internal/models"
	"github.com/shrimpsizemoose/studyplan/internal/planner"
)

// assignmentQuery reads q, status, course, priority and sort from the query string.
func assignmentQuery(r *http.Request) (planner.Filter, planner.SortKey, bool) {
	q := r.URL.Query()
	filter := planner.Filter{
		Query:    q.Get("q"),
		Status:   planner.Status(q.Get("status")),
		Priority: models.Priority(q.Get("priority")),
	}

	switch filter.Status {
	case "", planner.StatusAll, planner.StatusPending, planner.StatusCompleted:
	default:
		return filter, "", false
	}

	if course := q.Get("course"); course != "" && course != "all" {
		id, err := strconv.ParseInt(course, 10, 64)
		if err != nil {
			return filter, "", false
		}
		filter.CourseID = id
	}

	sortBy := planner.SortKey(q.Get("sort"))
	switch sortBy {
	case "", planner.SortByDueDate, planner.SortByTitle, planner.SortByPriority, planner.SortByCourse:
	default:
		return filter, "", false
	}
	return filter, sortBy, true
}

func (h *PlannerHandler) HandleListAssignments(w http.ResponseWriter, r *http.Request) {
	filter, sortBy, ok := assignmentQuery(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid query"))
		return
	}
	assignments, err := h.service.Assignments(r.Context(), filter, sortBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}

func (h *PlannerHandler) HandleGetAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.service.Assignment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *PlannerHandler) HandleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var a models.Assignment
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = 0
	if err := h.service.SaveAssignment(r.Context(), &a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *PlannerHandler) HandleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var a models.Assignment
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = id
	if err := h.service.SaveAssignment(r.Context(), &a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *PlannerHandler) HandleToggleAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.service.ToggleAssignment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *PlannerHandler) HandleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteAssignment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
