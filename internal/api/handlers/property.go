package handlers

import (
	"context"
	"net/http"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type propertyService interface {
	Create(ctx context.Context, p *domain.Property) error
	Update(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	List(ctx context.Context) ([]domain.Property, error)
	LinkedSpaces(ctx context.Context, propertyID uuid.UUID) ([]service.LinkedSpace, error)
}

type PropertyHandler struct {
	svc    propertyService
	logger *zap.Logger
}

func NewPropertyHandler(svc propertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, logger: logger}
}

type propertyRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description" validate:"required,max=1024"`
	Field       string `json:"field" validate:"required,oneof=REAL COMPLEX REAL_OR_COMPLEX"`
}

func (req propertyRequest) toDomain() *domain.Property {
	return &domain.Property{
		Name:        req.Name,
		Description: req.Description,
		Field:       domain.Field(req.Field),
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p := req.toDomain()
	if err := h.svc.Create(r.Context(), p); err != nil {
		writeServiceError(w, h.logger, err, "failed to create property")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "property")
	if !ok {
		return
	}

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get property")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	properties, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list properties")
		return
	}
	if properties == nil {
		properties = []domain.Property{}
	}

	writeJSON(w, http.StatusOK, properties)
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "property")
	if !ok {
		return
	}

	var req propertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p := req.toDomain()
	p.ID = id
	if err := h.svc.Update(r.Context(), p); err != nil {
		writeServiceError(w, h.logger, err, "failed to update property")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "property")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete property")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PropertyHandler) Spaces(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "property")
	if !ok {
		return
	}

	spaces, err := h.svc.LinkedSpaces(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list spaces")
		return
	}
	if spaces == nil {
		spaces = []service.LinkedSpace{}
	}

	writeJSON(w, http.StatusOK, spaces)
}
