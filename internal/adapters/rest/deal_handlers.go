package rest

import (
	"fmt"
	"net/http"
	"time"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
	"realty-service/internal/core/port/usecases_port"
)

// DealHandler - /api/deals
type DealHandler struct {
	list        usecases_port.ListDealsUseCasePort
	get         usecases_port.GetDealUseCasePort
	create      usecases_port.CreateDealUseCasePort
	update      usecases_port.UpdateDealUseCasePort
	remove      usecases_port.DeleteDealUseCasePort
	search      usecases_port.SearchDealsUseCasePort
	commissions usecases_port.GetDealCommissionsUseCasePort
	report      usecases_port.BuildDealsReportUseCasePort
	baseURL     string
}

// DealUseCases - набор use case'ов для DealHandler
type DealUseCases struct {
	List        usecases_port.ListDealsUseCasePort
	Get         usecases_port.GetDealUseCasePort
	Create      usecases_port.CreateDealUseCasePort
	Update      usecases_port.UpdateDealUseCasePort
	Delete      usecases_port.DeleteDealUseCasePort
	Search      usecases_port.SearchDealsUseCasePort
	Commissions usecases_port.GetDealCommissionsUseCasePort
	Report      usecases_port.BuildDealsReportUseCasePort
}

func NewDealHandler(uc DealUseCases, baseURL string) *DealHandler {
	return &DealHandler{
		list:        uc.List,
		get:         uc.Get,
		create:      uc.Create,
		update:      uc.Update,
		remove:      uc.Delete,
		search:      uc.Search,
		commissions: uc.Commissions,
		report:      uc.Report,
		baseURL:     baseURL,
	}
}

func (h *DealHandler) respondList(w http.ResponseWriter, r *http.Request, deals []domain.Deal) {
	links := linksFor(r, h.baseURL)
	RespondWithJSON(w, http.StatusOK, mapSlice(deals, func(d *domain.Deal) DealResponse {
		return newDealResponse(d, links)
	}))
}

func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListDeals")
	deals, err := h.list.Execute(r.Context())
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.respondList(w, r, deals)
}

func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetDeal")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	deal, err := h.get.Execute(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newDealResponse(deal, linksFor(r, h.baseURL)))
}

func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "CreateDeal")
	var req DealRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	deal, err := h.create.Execute(r.Context(), req.Need, req.Offer)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	logger.Info("Deal created", port.Fields{"deal_id": deal.ID})
	RespondWithJSON(w, http.StatusCreated, newDealResponse(deal, linksFor(r, h.baseURL)))
}

func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateDeal")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	var req DealRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	deal, err := h.update.Execute(r.Context(), id, req.Need, req.Offer)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newDealResponse(deal, linksFor(r, h.baseURL)))
}

func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteDeal")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	if err := h.remove.Execute(r.Context(), id); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DealHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "SearchDeals")
	deals, err := h.search.Execute(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.respondList(w, r, deals)
}

func (h *DealHandler) Commissions(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DealCommissions")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	breakdown, err := h.commissions.Execute(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newCommissionsResponse(breakdown))
}

// Report отдает xlsx. После начала записи тела статус уже не поменять, поэтому ошибка только логируется.
func (h *DealHandler) Report(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DealsReport")

	filename := fmt.Sprintf("deals-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", h.report.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	rw := &trackingWriter{ResponseWriter: w}
	if err := h.report.Execute(r.Context(), rw); err != nil {
		if rw.written {
			logger.Error("Report streaming failed", err, nil)
			return
		}
		w.Header().Del("Content-Disposition")
		writeDomainError(w, logger, err)
	}
}

// trackingWriter запоминает, начата ли запись тела
type trackingWriter struct {
	http.ResponseWriter
	written bool
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	t.written = true
	return t.ResponseWriter.Write(p)
}
