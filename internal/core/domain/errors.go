package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInUse - на сущность ссылаются другие записи, удалять нельзя
	ErrInUse = errors.New("entity is in use")
	// ErrAlreadyInDeal - потребность или предложение уже участвует в сделке
	ErrAlreadyInDeal    = errors.New("already part of a deal")
	ErrIncompatibleDeal = errors.New("need and offer are not compatible")
	// ErrInvalidReference - ссылка на несуществующего клиента, риэлтора или объект
	ErrInvalidReference = errors.New("invalid reference")
)

// ValidationError собирает нарушения по полям
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add запоминает первое нарушение для поля
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// OrNil возвращает nil, если нарушений нет
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidationError проверяет цепочку ошибок и достает ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
