package rest

import (
	"net/http"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
	"realty-service/internal/core/port/usecases_port"
)

// ClientHandler - /api/clients
type ClientHandler struct {
	crud   usecases_port.EntityUseCasePort[domain.Client, domain.NoFilter]
	search usecases_port.SearchClientsUseCasePort
}

func NewClientHandler(crud usecases_port.EntityUseCasePort[domain.Client, domain.NoFilter], search usecases_port.SearchClientsUseCasePort) *ClientHandler {
	return &ClientHandler{crud: crud, search: search}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListClients")
	clients, err := h.crud.List(r.Context(), domain.NoFilter{})
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, mapSlice(clients, newClientResponse))
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetClient")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	client, err := h.crud.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newClientResponse(client))
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "CreateClient")
	var req ClientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	client := &domain.Client{}
	req.applyTo(client)
	if err := h.crud.Create(r.Context(), client); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	logger.Info("Client created", port.Fields{"client_id": client.ID})
	RespondWithJSON(w, http.StatusCreated, newClientResponse(client))
}

// Update применяет только переданные поля
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateClient")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	var req ClientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	client, err := h.crud.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	req.applyTo(client)
	if err := h.crud.Update(r.Context(), client); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newClientResponse(client))
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteClient")
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

func (h *ClientHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "SearchClients")
	clients, err := h.search.Execute(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, mapSlice(clients, newClientResponse))
}

// RealtorHandler - /api/realtors
type RealtorHandler struct {
	crud   usecases_port.EntityUseCasePort[domain.Realtor, domain.NoFilter]
	search usecases_port.SearchRealtorsUseCasePort
}

func NewRealtorHandler(crud usecases_port.EntityUseCasePort[domain.Realtor, domain.NoFilter], search usecases_port.SearchRealtorsUseCasePort) *RealtorHandler {
	return &RealtorHandler{crud: crud, search: search}
}

func (h *RealtorHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListRealtors")
	realtors, err := h.crud.List(r.Context(), domain.NoFilter{})
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, mapSlice(realtors, newRealtorResponse))
}

func (h *RealtorHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetRealtor")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	realtor, err := h.crud.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newRealtorResponse(realtor))
}

func (h *RealtorHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "CreateRealtor")
	var req RealtorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	realtor := &domain.Realtor{}
	req.applyTo(realtor)
	if err := h.crud.Create(r.Context(), realtor); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	logger.Info("Realtor created", port.Fields{"realtor_id": realtor.ID})
	RespondWithJSON(w, http.StatusCreated, newRealtorResponse(realtor))
}

func (h *RealtorHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateRealtor")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	var req RealtorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	realtor, err := h.crud.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	req.applyTo(realtor)
	if err := h.crud.Update(r.Context(), realtor); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newRealtorResponse(realtor))
}

func (h *RealtorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteRealtor")
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

func (h *RealtorHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "SearchRealtors")
	realtors, err := h.search.Execute(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, mapSlice(realtors, newRealtorResponse))
}
