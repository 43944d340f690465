package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxJSONBody = 1 << 20

var validate = newValidator()

// newValidator отдает в ошибках имена полей из json-тегов
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RespondWithJSON отправляет успешный JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// WriteJSONError отправляет ошибку в формате {"error": "..."}
func WriteJSONError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func writeValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
}

// writeDomainError переводит ошибки ядра в HTTP-статусы
func writeDomainError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	if verr, ok := domain.IsValidationError(err); ok {
		writeValidationError(w, verr)
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrAlreadyInDeal):
		WriteJSONError(w, http.StatusConflict, "Need or offer is already part of a deal.")
	case errors.Is(err, domain.ErrInUse):
		WriteJSONError(w, http.StatusBadRequest, "Entity is referenced by other records and cannot be deleted.")
	case errors.Is(err, domain.ErrIncompatibleDeal):
		WriteJSONError(w, http.StatusBadRequest, "Need and offer are not compatible.")
	case errors.Is(err, domain.ErrInvalidReference):
		WriteJSONError(w, http.StatusBadRequest, "Referenced entity does not exist.")
	default:
		logger.Error("Unhandled error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON читает тело и проверяет теги validate
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := decoder.Decode(dst); err != nil {
		verr := domain.NewValidationError()
		verr.Add("body", fmt.Sprintf("invalid JSON: %v", err))
		return verr
	}
	return validateStruct(dst)
}

func validateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := domain.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), validationMessage(fe))
	}
	return verr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "ensure this field has no more than " + fe.Param() + " characters"
	}
	return "invalid value (" + fe.Tag() + ")"
}

// pathID разбирает {id} из маршрута
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		verr := domain.NewValidationError()
		verr.Add("id", "must be a positive integer")
		return 0, verr
	}
	return id, nil
}

// queryID читает необязательный числовой фильтр
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add(name, "must be an integer")
		return nil, verr
	}
	return &id, nil
}

func handlerLogger(r *http.Request, name string) port.LoggerPort {
	return contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": name})
}
