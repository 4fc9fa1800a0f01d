package handlers

import (
	"context"
	"net/http"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type linkService interface {
	Upsert(ctx context.Context, l *domain.Link) error
	Delete(ctx context.Context, spaceID, propertyID uuid.UUID) error
	Detail(ctx context.Context, spaceID, propertyID uuid.UUID) (*service.LinkDetail, error)
}

// LinkHandler serves /v1/spaces/{id}/properties/{propertyId}.
type LinkHandler struct {
	svc    linkService
	logger *zap.Logger
}

func NewLinkHandler(svc linkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{svc: svc, logger: logger}
}

type linkRequest struct {
	Field       string  `json:"field" validate:"required,oneof=REAL NOT_REAL COMPLEX NOT_COMPLEX REAL_AND_COMPLEX REAL_AND_NOT_COMPLEX NOT_REAL_AND_COMPLEX NOT_REAL_AND_NOT_COMPLEX"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

func (h *LinkHandler) ids(w http.ResponseWriter, r *http.Request) (spaceID, propertyID uuid.UUID, ok bool) {
	if spaceID, ok = urlID(w, r, "id", "space"); !ok {
		return
	}
	propertyID, ok = urlID(w, r, "propertyId", "property")
	return
}

func (h *LinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	spaceID, propertyID, ok := h.ids(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.Detail(r.Context(), spaceID, propertyID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get link")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *LinkHandler) Put(w http.ResponseWriter, r *http.Request) {
	spaceID, propertyID, ok := h.ids(w, r)
	if !ok {
		return
	}

	var req linkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	l := &domain.Link{
		SpaceID:     spaceID,
		PropertyID:  propertyID,
		Field:       domain.FieldLink(req.Field),
		Description: req.Description,
	}
	if err := h.svc.Upsert(r.Context(), l); err != nil {
		writeServiceError(w, h.logger, err, "failed to save link")
		return
	}

	writeJSON(w, http.StatusOK, l)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	spaceID, propertyID, ok := h.ids(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), spaceID, propertyID); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete link")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
