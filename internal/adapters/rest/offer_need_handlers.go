package rest

import (
	"net/http"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
	"realty-service/internal/core/port/usecases_port"
)

const dealsPath = "/api/deals/"

// OfferHandler - /api/offers
type OfferHandler struct {
	crud     usecases_port.EntityUseCasePort[domain.Offer, domain.OfferFilter]
	matching usecases_port.FindMatchingNeedsUseCasePort
	baseURL  string
}

func NewOfferHandler(crud usecases_port.EntityUseCasePort[domain.Offer, domain.OfferFilter], matching usecases_port.FindMatchingNeedsUseCasePort, baseURL string) *OfferHandler {
	return &OfferHandler{crud: crud, matching: matching, baseURL: baseURL}
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListOffers")
	var filter domain.OfferFilter
	var err error
	if filter.ClientID, err = queryID(r, "client"); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	if filter.RealtorID, err = queryID(r, "realtor"); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	offers, err := h.crud.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	links := linksFor(r, h.baseURL)
	RespondWithJSON(w, http.StatusOK, mapSlice(offers, func(o *domain.Offer) OfferResponse {
		return newOfferResponse(o, links)
	}))
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetOffer")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	offer, err := h.crud.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newOfferResponse(offer, linksFor(r, h.baseURL)))
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.store(w, r, 0, "CreateOffer")
}

func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateOffer")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.store(w, r, id, "UpdateOffer")
}

func (h *OfferHandler) store(w http.ResponseWriter, r *http.Request, id int64, name string) {
	logger := handlerLogger(r, name)
	var req OfferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	offer := req.toDomain(id)

	var err error
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
		err = h.crud.Create(r.Context(), offer)
	} else {
		err = h.crud.Update(r.Context(), offer)
	}
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	// ответ со вложенными клиентом, риэлтором и объектом
	saved, err := h.crud.Get(r.Context(), offer.ID)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	logger.Info("Offer saved", port.Fields{"offer_id": saved.ID})
	RespondWithJSON(w, status, newOfferResponse(saved, linksFor(r, h.baseURL)))
}

func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteOffer")
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

func (h *OfferHandler) MatchingNeeds(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "MatchingNeeds")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	needs, err := h.matching.Execute(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, MatchingNeedsResponse{
		Needs:              mapSlice(needs, newNeedResponse),
		CreateDealEndpoint: linksFor(r, h.baseURL).absolute(dealsPath),
	})
}

// NeedHandler - /api/needs
type NeedHandler struct {
	crud     usecases_port.EntityUseCasePort[domain.Need, domain.NeedFilter]
	matching usecases_port.FindMatchingOffersUseCasePort
	baseURL  string
}

func NewNeedHandler(crud usecases_port.EntityUseCasePort[domain.Need, domain.NeedFilter], matching usecases_port.FindMatchingOffersUseCasePort, baseURL string) *NeedHandler {
	return &NeedHandler{crud: crud, matching: matching, baseURL: baseURL}
}

func (h *NeedHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListNeeds")
	var filter domain.NeedFilter
	var err error
	if filter.ClientID, err = queryID(r, "client"); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	if filter.RealtorID, err = queryID(r, "realtor"); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	needs, err := h.crud.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, mapSlice(needs, newNeedResponse))
}

func (h *NeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetNeed")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	need, err := h.crud.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newNeedResponse(need))
}

func (h *NeedHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.store(w, r, 0, "CreateNeed")
}

func (h *NeedHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateNeed")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.store(w, r, id, "UpdateNeed")
}

func (h *NeedHandler) store(w http.ResponseWriter, r *http.Request, id int64, name string) {
	logger := handlerLogger(r, name)
	var req NeedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	need, err := req.toDomain(id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
		err = h.crud.Create(r.Context(), need)
	} else {
		err = h.crud.Update(r.Context(), need)
	}
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	saved, err := h.crud.Get(r.Context(), need.ID)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	logger.Info("Need saved", port.Fields{"need_id": saved.ID})
	RespondWithJSON(w, status, newNeedResponse(saved))
}

func (h *NeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteNeed")
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

func (h *NeedHandler) MatchingOffers(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "MatchingOffers")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	offers, err := h.matching.Execute(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	links := linksFor(r, h.baseURL)
	RespondWithJSON(w, http.StatusOK, MatchingOffersResponse{
		Offers: mapSlice(offers, func(o *domain.Offer) OfferResponse {
			return newOfferResponse(o, links)
		}),
		CreateDealEndpoint: links.absolute(dealsPath),
	})
}
