package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"riskmap_service/internal/core"
	"riskmap_service/internal/domain/model"
	"riskmap_service/internal/domain/repository"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	maxDaysFuture   = 3650
	defaultAlertCap = 50
)

type Handler struct {
	service *core.RiskService
}

func NewHandler(service *core.RiskService) *Handler {
	return &Handler{service: service}
}

// Routes registers every endpoint on a new router.
// Method checks live in the handler wrapper rather than in mux matchers:
// a later route that misses on path would otherwise turn a 405 into a 404.
func (h *Handler) Routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", allow(http.MethodGet, h.Health))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/projects", allow(http.MethodGet, h.ListProjects))
	api.HandleFunc("/projects/{project_id}", allow(http.MethodGet, h.GetProject))
	api.HandleFunc("/projects/{project_id}/prediction", allow(http.MethodGet, h.Prediction))
	api.HandleFunc("/projects/{project_id}/timeline", allow(http.MethodGet, h.Timeline))
	api.HandleFunc("/projects/{project_id}/work-zone", allow(http.MethodGet, h.WorkZone))
	api.HandleFunc("/risk-map", allow(http.MethodGet, h.RiskMap))
	api.HandleFunc("/alerts", allow(http.MethodGet, h.ListAlerts))
	api.HandleFunc("/alerts/publish", allow(http.MethodPost, h.PublishAlerts))
	return router
}

func allow(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

type ProjectsResponse struct {
	Projects []model.Project `json:"projects"`
}

type RiskMapResponse struct {
	DaysFuture int                  `json:"days_future"`
	Projects   []model.RiskMapEntry `json:"projects"`
}

type AlertsResponse struct {
	Alerts []model.Alert `json:"alerts"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectsResponse{Projects: projects})
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetProject(r.Context(), mux.Vars(r)["project_id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) Prediction(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 0, 0, maxDaysFuture)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prediction, err := h.service.Predict(r.Context(), mux.Vars(r)["project_id"], days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	maxDays, err := intParam(r, "max_days", core.DefaultTimelineDays, 0, maxDaysFuture)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	step, err := intParam(r, "step", core.DefaultTimelineStep, 1, maxDaysFuture)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	timeline, err := h.service.Timeline(r.Context(), mux.Vars(r)["project_id"], maxDays, step)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}

func (h *Handler) WorkZone(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 0, 0, maxDaysFuture)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	zone, err := h.service.WorkZone(r.Context(), mux.Vars(r)["project_id"], days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zone)
}

func (h *Handler) RiskMap(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 0, 0, maxDaysFuture)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var bounds *model.Bounds
	if bbox := r.URL.Query().Get("bbox"); bbox != "" {
		b, err := repository.ParseBBox(bbox)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid bbox: %v", err), http.StatusBadRequest)
			return
		}
		bounds = &b
	}

	entries, err := h.service.RiskMap(r.Context(), bounds, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RiskMapResponse{DaysFuture: days, Projects: entries})
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	filter, err := alertFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	alerts, err := h.service.Alerts(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AlertsResponse{Alerts: alerts})
}

func (h *Handler) PublishAlerts(w http.ResponseWriter, r *http.Request) {
	filter, err := alertFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	alerts, err := h.service.PublishAlerts(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Published %d alerts", len(alerts))
	writeJSON(w, http.StatusAccepted, AlertsResponse{Alerts: alerts})
}

func alertFilter(r *http.Request) (core.AlertFilter, error) {
	limit, err := intParam(r, "limit", defaultAlertCap, 1, 1000)
	if err != nil {
		return core.AlertFilter{}, err
	}
	severity := r.URL.Query().Get("severity")
	if severity != "" && severity != "warning" && severity != "critical" {
		return core.AlertFilter{}, fmt.Errorf("severity must be warning or critical")
	}
	return core.AlertFilter{
		ProjectID: r.URL.Query().Get("project_id"),
		Severity:  severity,
		Limit:     limit,
	}, nil
}

// intParam reads an optional integer query parameter bounded to [lo, hi].
func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrNoGeometry), errors.Is(err, core.ErrTooFewVertices):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Printf("Error handling request: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
