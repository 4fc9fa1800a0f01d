package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/Wilmersdorf/spaceoverview/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies. Backups go through the same limit.
const maxBodyBytes = 16 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeValidation(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// decodeAndValidate reads a JSON body into v and checks its validate tags.
// It writes the error response itself and reports whether the caller may
// continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = validationMessage(fe)
		}
		writeValidation(w, fields)
		return false
	}
	return true
}

// fieldPath drops the root struct name from the namespace, e.g.
// "theoremRequest.conditions[0].field" becomes "conditions[0].field".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please enter a %s.", fe.Field())
	case "max":
		return fmt.Sprintf("Please use at most %s for %s.", fe.Param(), fe.Field())
	case "min":
		return fmt.Sprintf("Please use at least %s for %s.", fe.Param(), fe.Field())
	case "oneof":
		return service.ErrFieldNotAllowed.Error()
	case "uuid":
		return fmt.Sprintf("%s must be a UUID.", fe.Field())
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}

func urlID(w http.ResponseWriter, r *http.Request, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps service errors to HTTP responses. Unknown errors are
// logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(w, verr.Fields)
	case errors.Is(err, service.ErrSpaceNotFound),
		errors.Is(err, service.ErrPropertyNotFound),
		errors.Is(err, service.ErrLinkNotFound),
		errors.Is(err, service.ErrTheoremNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSpaceConflict),
		errors.Is(err, service.ErrPropertyConflict),
		errors.Is(err, service.ErrTheoremConflict),
		errors.Is(err, service.ErrSpaceHasLinks),
		errors.Is(err, service.ErrPropertyInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrRecomputeFailed):
		logger.Error("change saved but recompute failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "change saved, but recomputing derived facts failed")
	default:
		logger.Error(fallback, zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
