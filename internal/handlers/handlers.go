package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/app"
	"github.com/shrimpsizemoose/studyplan/internal/metrics"
	"github.com/shrimpsizemoose/studyplan/internal/store"
)

const apiPrefix = "/api/v1"

type PlannerHandler struct {
	service *app.Service
	now     func() time.Time
}

func NewPlannerHandler(service *app.Service) *PlannerHandler {
	return &PlannerHandler{
		service: service,
		now:     time.Now,
	}
}

// Register mounts every planner route on mux behind auth and request timing.
func (h *PlannerHandler) Register(mux *http.ServeMux) {
	routes := map[string]http.HandlerFunc{
		"GET /courses":              h.HandleListCourses,
		"POST /courses":             h.HandleCreateCourse,
		"GET /courses/{id}":         h.HandleGetCourse,
		"PUT /courses/{id}":         h.HandleUpdateCourse,
		"DELETE /courses/{id}":      h.HandleDeleteCourse,
		"GET /courses/{id}/grades":  h.HandleCourseGrades,
		"GET /courses/{id}/summary": h.HandleCourseSummary,

		"GET /assignments":              h.HandleListAssignments,
		"POST /assignments":             h.HandleCreateAssignment,
		"GET /assignments/{id}":         h.HandleGetAssignment,
		"PUT /assignments/{id}":         h.HandleUpdateAssignment,
		"DELETE /assignments/{id}":      h.HandleDeleteAssignment,
		"POST /assignments/{id}/toggle": h.HandleToggleAssignment,

		"GET /grades":         h.HandleListGrades,
		"POST /grades":        h.HandleCreateGrade,
		"GET /grades/{id}":    h.HandleGetGrade,
		"PUT /grades/{id}":    h.HandleUpdateGrade,
		"DELETE /grades/{id}": h.HandleDeleteGrade,

		"GET /report":        h.HandleReport,
		"GET /dashboard":     h.HandleDashboard,
		"GET /schedule":      h.HandleSchedule,
		"GET /schedule/week": h.HandleWeek,
	}

	for pattern, handler := range routes {
		method, path, _ := strings.Cut(pattern, " ")
		route := method + " " + apiPrefix + path
		mux.Handle(route, h.instrument(apiPrefix+path, h.requireAuth(handler)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument records request duration labelled by route pattern, not raw path.
func (h *PlannerHandler) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.APIRequestDuration.WithLabelValues(
			route,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	})
}

func (h *PlannerHandler) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.service.Auth.Authenticate(r)
		if err != nil {
			logger.Error.Printf("Auth failed: %v", err)
			writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
			return
		}
		if user != "" {
			logger.Debug.Printf("%s %s by %s", r.Method, r.URL.Path, user)
		}
		next(w, r)
	})
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps service errors onto status codes. Store failure details stay in the log.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, app.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, app.ErrFetchFailed):
		logger.Error.Printf("Store failure: %v", err)
		writeJSON(w, http.StatusBadGateway, errorBody("fetch failed"))
	default:
		logger.Error.Printf("Unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		logger.Error.Printf("Failed to extract id from path: %s", r.URL.Path)
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Debug.Printf("Invalid request body for %s: %v", r.URL.Path, err)
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return false
	}
	return true
}
