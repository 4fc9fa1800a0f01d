package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type spaceService interface {
	Create(ctx context.Context, sp *domain.Space) error
	Update(ctx context.Context, sp *domain.Space) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Space, error)
	List(ctx context.Context) ([]domain.Space, error)
	LinkedProperties(ctx context.Context, spaceID uuid.UUID) ([]service.LinkedProperty, error)
	UnlinkedProperties(ctx context.Context, spaceID uuid.UUID) ([]domain.Property, error)
}

type SpaceHandler struct {
	svc    spaceService
	logger *zap.Logger
}

func NewSpaceHandler(svc spaceService, logger *zap.Logger) *SpaceHandler {
	return &SpaceHandler{svc: svc, logger: logger}
}

type spaceRequest struct {
	Symbol      string `json:"symbol" validate:"required,max=128"`
	Norm        string `json:"norm" validate:"required,max=128"`
	Description string `json:"description" validate:"required,max=1024"`
	Field       string `json:"field" validate:"required,oneof=REAL COMPLEX REAL_OR_COMPLEX"`
}

func (req spaceRequest) toDomain() *domain.Space {
	return &domain.Space{
		Symbol:      req.Symbol,
		Norm:        req.Norm,
		Description: req.Description,
		Field:       domain.Field(req.Field),
	}
}

func (h *SpaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req spaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sp := req.toDomain()
	if err := h.svc.Create(r.Context(), sp); err != nil {
		writeServiceError(w, h.logger, err, "failed to create space")
		return
	}

	writeJSON(w, http.StatusCreated, sp)
}

func (h *SpaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "space")
	if !ok {
		return
	}

	sp, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get space")
		return
	}

	writeJSON(w, http.StatusOK, sp)
}

func (h *SpaceHandler) List(w http.ResponseWriter, r *http.Request) {
	spaces, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list spaces")
		return
	}
	if spaces == nil {
		spaces = []domain.Space{}
	}

	writeJSON(w, http.StatusOK, spaces)
}

func (h *SpaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "space")
	if !ok {
		return
	}

	var req spaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sp := req.toDomain()
	sp.ID = id
	if err := h.svc.Update(r.Context(), sp); err != nil {
		writeServiceError(w, h.logger, err, "failed to update space")
		return
	}

	writeJSON(w, http.StatusOK, sp)
}

func (h *SpaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "space")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete space")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Properties lists the properties holding on a space. With ?unlinked=true it
// lists the link candidates instead.
func (h *SpaceHandler) Properties(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "space")
	if !ok {
		return
	}

	unlinked := false
	if v := r.URL.Query().Get("unlinked"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid unlinked parameter")
			return
		}
		unlinked = b
	}

	if unlinked {
		properties, err := h.svc.UnlinkedProperties(r.Context(), id)
		if err != nil {
			writeServiceError(w, h.logger, err, "failed to list properties")
			return
		}
		if properties == nil {
			properties = []domain.Property{}
		}
		writeJSON(w, http.StatusOK, properties)
		return
	}

	linked, err := h.svc.LinkedProperties(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list properties")
		return
	}
	if linked == nil {
		linked = []service.LinkedProperty{}
	}
	writeJSON(w, http.StatusOK, linked)
}
