package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Alias1177/astrokit/internal/app"
	"github.com/Alias1177/astrokit/internal/history"
	"github.com/Alias1177/astrokit/internal/scoring"
	"github.com/Alias1177/astrokit/models"
)

// maxBodyBytes bounds prediction request bodies
const maxBodyBytes = 1 << 20

// PredictRequest is the body of POST /api/predict: the observation plus the mission
type PredictRequest struct {
	models.PredictionInput
	Model string `json:"model"`
}

// PredictResponse is the answer of POST /api/predict
type PredictResponse struct {
	Record models.PredictionRecord `json:"record"`
	Source scoring.Source          `json:"source"`
}

// HistoryResponse is the answer of GET /api/history
type HistoryResponse struct {
	Records []models.PredictionRecord `json:"records"`
	Summary history.Summary           `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.Catalog())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	mission, err := models.ParseMission(req.Model)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, source, err := s.app.Predict(r.Context(), req.PredictionInput, mission)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, app.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{Record: record, Source: source})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Records: records, Summary: history.Summarize(records)})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.app.Store.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := history.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	records, ok := s.view(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", history.ExportFilename(format, s.now())))
	if err := history.Write(w, format, records); err != nil {
		s.logger.Error().Err(err).Str("format", string(format)).Msg("Export failed")
	}
}

// view applies the status and sort query parameters to the stored history
func (s *Server) view(w http.ResponseWriter, r *http.Request) ([]models.PredictionRecord, bool) {
	q := r.URL.Query()
	filter, err := history.ParseStatusFilter(q.Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	order, err := history.ParseSortOrder(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return history.View(s.app.Store.List(r.Context()), filter, order), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
