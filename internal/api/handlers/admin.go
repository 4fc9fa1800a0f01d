package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"go.uber.org/zap"
)

type recomputeEngine interface {
	Recompute(ctx context.Context) ([]domain.Computation, error)
}

type backupService interface {
	Export(ctx context.Context) (*domain.Backup, error)
	Import(ctx context.Context, b *domain.Backup) error
}

// AdminHandler serves maintenance operations on the whole knowledge base.
type AdminHandler struct {
	engine recomputeEngine
	backup backupService
	logger *zap.Logger
}

func NewAdminHandler(engine recomputeEngine, backup backupService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{engine: engine, backup: backup, logger: logger}
}

type computeResponse struct {
	Count        int                  `json:"count"`
	Duration     string               `json:"duration"`
	Computations []domain.Computation `json:"computations"`
}

// Compute runs a recompute synchronously, regardless of the configured
// recompute mode, and returns every derived computation.
func (h *AdminHandler) Compute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	computations, err := h.engine.Recompute(r.Context())
	if err != nil {
		h.logger.Error("manual recompute failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to recompute")
		return
	}

	if computations == nil {
		computations = []domain.Computation{}
	}
	writeJSON(w, http.StatusOK, computeResponse{
		Count:        len(computations),
		Duration:     time.Since(start).String(),
		Computations: computations,
	})
}

func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := h.backup.Export(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to export")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="spaceoverview-backup.json"`)
	writeJSON(w, http.StatusOK, b)
}

func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var b domain.Backup
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.backup.Import(r.Context(), &b); err != nil {
		writeServiceError(w, h.logger, err, "failed to import")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"spaces":     len(b.Spaces),
		"properties": len(b.Properties),
		"links":      len(b.Links),
		"theorems":   len(b.Theorems),
	})
}
