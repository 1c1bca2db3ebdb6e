package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/teamsignal/burnout-engine/internal/classifier"
	"github.com/teamsignal/burnout-engine/internal/engine"
	"github.com/teamsignal/burnout-engine/internal/export"
	"github.com/teamsignal/burnout-engine/internal/models"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// Dataset view handlers

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	ds, snap, err := s.engine.Snapshot()
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	var view []models.EmployeeMetrics
	if !s.cache.Get(r.Context(), snap.ID, "employees", &view) {
		view = employeeMetrics(ds)
		s.cache.Set(r.Context(), snap.ID, "employees", view)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"employees": view,
		"total":     len(view),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, snap, err := s.engine.Snapshot()
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	var view models.WorkforceSummary
	if !s.cache.Get(r.Context(), snap.ID, "summary", &view) {
		view = workforceSummary(ds, snap)
		s.cache.Set(r.Context(), snap.ID, "summary", view)
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	ds, snap, err := s.engine.Snapshot()
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	var view []models.DepartmentRollup
	if !s.cache.Get(r.Context(), snap.ID, "departments", &view) {
		view = departmentRollups(ds)
		s.cache.Set(r.Context(), snap.ID, "departments", view)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"departments": view,
		"total":       len(view),
	})
}

// Engine handlers

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Refresh(r.Context())
	if err != nil {
		slog.Error("failed to refresh dataset", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to refresh dataset")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	info, err := s.engine.Model()
	if err != nil {
		if errors.Is(err, classifier.ErrNotTrained) {
			respondError(w, http.StatusNotFound, "not_trained", "no trained model available")
			return
		}
		slog.Error("failed to get model info", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get model info")
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, snap, err := s.engine.Snapshot()
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	blob, err := export.Workbook(ds)
	if err != nil {
		slog.Error("failed to build dataset workbook", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to build dataset workbook")
		return
	}

	filename := fmt.Sprintf("workforce_dataset_%s.xlsx", snap.GeneratedAt.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob)))

	if _, err := w.Write(blob); err != nil {
		slog.Error("failed to write dataset workbook", "error", err)
	}
}

// respondSnapshotError maps snapshot read failures onto the envelope
func respondSnapshotError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrNoSnapshot) {
		respondError(w, http.StatusServiceUnavailable, "no_snapshot", "dataset not generated yet")
		return
	}
	slog.Error("failed to read snapshot", "error", err)
	respondError(w, http.StatusInternalServerError, "internal_error", "failed to read snapshot")
}
