package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brandintel/app"
	"brandintel/internal/errors"
)

func (a *App) handleListSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.collection.ListAvailableSources())
}

func (a *App) handleGetStudy(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "strategyID")

	study, err := a.repo.GetStudy(r.Context(), strategyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, study)
}

func (a *App) handleCollect(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "strategyID")

	var req app.CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("invalid request body"))
		return
	}
	req.StrategyID = strategyID
	if req.BrandName == "" {
		writeError(w, errors.InvalidInput("brand_name is required"))
		return
	}

	summary, err := a.collection.RunCollection(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *App) handleSetContext(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "strategyID")

	var req struct {
		ManualNotes     string `json:"manual_notes"`
		InternalContext string `json:"internal_context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("invalid request body"))
		return
	}

	if err := a.repo.SetManualContext(r.Context(), strategyID, req.ManualNotes, req.InternalContext); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	strategyID := chi.URLParam(r, "strategyID")

	synthesis, err := a.synthesis.Synthesize(r.Context(), strategyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, synthesis)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeConsolidation:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
