package rest

import (
	"net/http"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port/usecases_port"
)

// ActHandler - /api/acts
type ActHandler struct {
	crud usecases_port.EntityUseCasePort[domain.Act, domain.NoFilter]
}

func NewActHandler(crud usecases_port.EntityUseCasePort[domain.Act, domain.NoFilter]) *ActHandler {
	return &ActHandler{crud: crud}
}

func (h *ActHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListActs")
	acts, err := h.crud.List(r.Context(), domain.NoFilter{})
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, mapSlice(acts, newActResponse))
}

func (h *ActHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetAct")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	act, err := h.crud.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newActResponse(act))
}

func (h *ActHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "CreateAct")
	var req ActRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	act := req.toDomain(0)
	if err := h.crud.Create(r.Context(), act); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, newActResponse(act))
}

func (h *ActHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateAct")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	var req ActRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	act := req.toDomain(id)
	if err := h.crud.Update(r.Context(), act); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newActResponse(act))
}

func (h *ActHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteAct")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	if err := h.crud.Delete(r.Context(), id); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
