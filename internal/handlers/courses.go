package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

func (h *PlannerHandler) HandleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.Courses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"courses": courses})
}

func (h *PlannerHandler) HandleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	course, err := h.service.Course(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *PlannerHandler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var course models.Course
	if !decodeBody(w, r, &course) {
		return
	}
	course.ID = 0
	if err := h.service.SaveCourse(r.Context(), &course); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (h *PlannerHandler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var course models.Course
	if !decodeBody(w, r, &course) {
		return
	}
	course.ID = id
	if err := h.service.SaveCourse(r.Context(), &course); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *PlannerHandler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCourse(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlannerHandler) HandleCourseGrades(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	grades, err := h.service.Grades(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"grades": grades})
}

func (h *PlannerHandler) HandleCourseSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	summary, err := h.service.CourseSummary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
