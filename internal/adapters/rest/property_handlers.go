package rest

import (
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
	"realty-service/internal/core/port/usecases_port"
)

const maxMultipartMemory = 12 << 20

// PropertyHandler - /api/properties
type PropertyHandler struct {
	crud          usecases_port.EntityUseCasePort[domain.Property, domain.PropertyFilter]
	save          usecases_port.SavePropertyUseCasePort
	remove        usecases_port.DeletePropertyUseCasePort
	searchAddress usecases_port.SearchPropertiesByAddressUseCasePort
	searchRegion  usecases_port.SearchPropertiesInRegionUseCasePort
	baseURL       string
}

func NewPropertyHandler(
	crud usecases_port.EntityUseCasePort[domain.Property, domain.PropertyFilter],
	save usecases_port.SavePropertyUseCasePort,
	remove usecases_port.DeletePropertyUseCasePort,
	searchAddress usecases_port.SearchPropertiesByAddressUseCasePort,
	searchRegion usecases_port.SearchPropertiesInRegionUseCasePort,
	baseURL string,
) *PropertyHandler {
	return &PropertyHandler{
		crud:          crud,
		save:          save,
		remove:        remove,
		searchAddress: searchAddress,
		searchRegion:  searchRegion,
		baseURL:       baseURL,
	}
}

func (h *PropertyHandler) respondList(w http.ResponseWriter, r *http.Request, items []domain.Property) {
	links := linksFor(r, h.baseURL)
	RespondWithJSON(w, http.StatusOK, mapSlice(items, func(p *domain.Property) PropertyResponse {
		return newPropertyResponse(p, links)
	}))
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListProperties")
	q := r.URL.Query()
	filter := domain.PropertyFilter{
		City:   strings.TrimSpace(q.Get("city")),
		Street: strings.TrimSpace(q.Get("street")),
	}
	if raw := q.Get("property_type"); raw != "" {
		pt, err := parseType(raw)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		filter.Type = &pt
	}
	items, err := h.crud.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.respondList(w, r, items)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetProperty")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	p, err := h.crud.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newPropertyResponse(p, linksFor(r, h.baseURL)))
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.store(w, r, 0, "CreateProperty", http.StatusCreated)
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateProperty")
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.store(w, r, id, "UpdateProperty", http.StatusOK)
}

func (h *PropertyHandler) store(w http.ResponseWriter, r *http.Request, id int64, name string, status int) {
	logger := handlerLogger(r, name)

	req, upload, err := readPropertyRequest(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	if upload != nil {
		if closer, ok := upload.Content.(io.Closer); ok {
			defer closer.Close()
		}
	}
	property, err := req.toDomain(id)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	if err := h.save.Execute(r.Context(), property, upload); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	logger.Info("Property saved", port.Fields{"property_id": property.ID, "with_image": upload != nil})
	RespondWithJSON(w, status, newPropertyResponse(property, linksFor(r, h.baseURL)))
}

// readPropertyRequest принимает application/json или multipart/form-data с файлом image
func readPropertyRequest(r *http.Request) (*PropertyRequest, *port.Upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req PropertyRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		verr := domain.NewValidationError()
		verr.Add("body", fmt.Sprintf("invalid multipart form: %v", err))
		return nil, nil, verr
	}

	form := formReader{r: r, verr: domain.NewValidationError()}
	req := &PropertyRequest{
		PropertyType:    r.FormValue("property_type"),
		City:            r.FormValue("city"),
		Street:          r.FormValue("street"),
		HouseNumber:     r.FormValue("house_number"),
		ApartmentNumber: r.FormValue("apartment_number"),
		Latitude:        form.float("latitude"),
		Longitude:       form.float("longitude"),
		Area:            form.float("area"),
		Floor:           form.int("floor"),
		Rooms:           form.int("rooms"),
		Floors:          form.int("floors"),
	}
	if err := form.verr.OrNil(); err != nil {
		return nil, nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, nil, err
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return req, nil, nil
	}
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add("image", err.Error())
		return nil, nil, verr
	}
	return req, &port.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, nil
}

type formReader struct {
	r    *http.Request
	verr *domain.ValidationError
}

func (f formReader) float(name string) *float64 {
	raw := strings.TrimSpace(f.r.FormValue(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		f.verr.Add(name, "a valid number is required")
		return nil
	}
	return &v
}

func (f formReader) int(name string) *int {
	raw := strings.TrimSpace(f.r.FormValue(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		f.verr.Add(name, "a valid integer is required")
		return nil
	}
	return &v
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteProperty")
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

func (h *PropertyHandler) SearchByAddress(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "SearchPropertiesByAddress")
	items, err := h.searchAddress.Execute(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.respondList(w, r, items)
}

func (h *PropertyHandler) SearchInRegion(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "SearchPropertiesInRegion")
	vertices, err := parseVertices(r)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	items, err := h.searchRegion.Execute(r.Context(), vertices)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	h.respondList(w, r, items)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parseVertices собирает вершины из coordinates, coordinates[] или polygon, каждая "lat,lon"
func parseVertices(r *http.Request) ([]domain.Point, error) {
	q := r.URL.Query()
	var raw []string
	for _, key := range []string{"coordinates", "coordinates[]", "polygon"} {
		raw = append(raw, q[key]...)
	}

	verr := domain.NewValidationError()
	if len(raw) == 0 {
		verr.Add("coordinates", "this parameter is required")
		return nil, verr
	}

	points := make([]domain.Point, 0, len(raw))
	for _, item := range raw {
		parts := strings.Split(item, ",")
		if len(parts) != 2 {
			verr.Add("coordinates", fmt.Sprintf("expected \"lat,lon\", got %q", item))
			return nil, verr
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat != nil || errLon != nil || !finite(lat) || !finite(lon) {
			verr.Add("coordinates", fmt.Sprintf("invalid coordinate %q", item))
			return nil, verr
		}
		points = append(points, domain.Point{Lat: lat, Lon: lon})
	}
	return points, nil
}
