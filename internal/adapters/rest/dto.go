package rest

import (
	"time"

	"realty-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ErrorResponse - стандартная структура для ответа с ошибкой
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ClientRequest - поля необязательны: PUT обновляет только переданные
type ClientRequest struct {
	LastName   *string `json:"last_name" validate:"omitempty,max=50"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=50"`
	Patronymic *string `json:"patronymic" validate:"omitempty,max=50"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

func (req *ClientRequest) applyTo(c *domain.Client) {
	setString(&c.LastName, req.LastName)
	setString(&c.FirstName, req.FirstName)
	setString(&c.Patronymic, req.Patronymic)
	setString(&c.Phone, req.Phone)
	setString(&c.Email, req.Email)
}

type ClientResponse struct {
	ID         int64  `json:"id"`
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	Patronymic string `json:"patronymic"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
}

func newClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		Patronymic: c.Patronymic,
		Phone:      c.Phone,
		Email:      c.Email,
		FullName:   c.FullName(),
	}
}

// RealtorRequest: commission_share принимается числом или строкой
type RealtorRequest struct {
	LastName        *string          `json:"last_name" validate:"omitempty,max=50"`
	FirstName       *string          `json:"first_name" validate:"omitempty,max=50"`
	Patronymic      *string          `json:"patronymic" validate:"omitempty,max=50"`
	CommissionShare *decimal.Decimal `json:"commission_share"`
}

func (req *RealtorRequest) applyTo(r *domain.Realtor) {
	setString(&r.LastName, req.LastName)
	setString(&r.FirstName, req.FirstName)
	setString(&r.Patronymic, req.Patronymic)
	if req.CommissionShare != nil {
		share := *req.CommissionShare
		r.CommissionShare = &share
	}
}

type RealtorResponse struct {
	ID              int64   `json:"id"`
	LastName        string  `json:"last_name"`
	FirstName       string  `json:"first_name"`
	Patronymic      string  `json:"patronymic"`
	CommissionShare *string `json:"commission_share"`
	FullName        string  `json:"full_name"`
}

func newRealtorResponse(r *domain.Realtor) RealtorResponse {
	resp := RealtorResponse{
		ID:         r.ID,
		LastName:   r.LastName,
		FirstName:  r.FirstName,
		Patronymic: r.Patronymic,
		FullName:   r.FullName(),
	}
	if r.CommissionShare != nil {
		s := r.CommissionShare.StringFixed(2)
		resp.CommissionShare = &s
	}
	return resp
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// PropertyRequest - JSON-вариант; multipart разбирается в ту же структуру
type PropertyRequest struct {
	PropertyType    string   `json:"property_type" validate:"required"`
	City            string   `json:"city"`
	Street          string   `json:"street"`
	HouseNumber     string   `json:"house_number"`
	ApartmentNumber string   `json:"apartment_number"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Area            *float64 `json:"area" validate:"omitempty,gt=0"`
	Floor           *int     `json:"floor"`
	Rooms           *int     `json:"rooms" validate:"omitempty,gt=0"`
	Floors          *int     `json:"floors" validate:"omitempty,gt=0"`
}

func parseType(raw string) (domain.PropertyType, error) {
	pt, err := domain.ParsePropertyType(raw)
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add("property_type", err.Error())
		return "", verr
	}
	return pt, nil
}

func (req *PropertyRequest) toDomain(id int64) (*domain.Property, error) {
	pt, err := parseType(req.PropertyType)
	if err != nil {
		return nil, err
	}
	return &domain.Property{
		ID:              id,
		Type:            pt,
		City:            req.City,
		Street:          req.Street,
		HouseNumber:     req.HouseNumber,
		ApartmentNumber: req.ApartmentNumber,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Area:            req.Area,
		Floor:           req.Floor,
		Rooms:           req.Rooms,
		Floors:          req.Floors,
	}, nil
}

type PropertyResponse struct {
	ID              int64               `json:"id"`
	PropertyType    domain.PropertyType `json:"property_type"`
	City            string              `json:"city"`
	Street          string              `json:"street"`
	HouseNumber     string              `json:"house_number"`
	ApartmentNumber string              `json:"apartment_number"`
	Latitude        *float64            `json:"latitude"`
	Longitude       *float64            `json:"longitude"`
	Area            *float64            `json:"area"`
	Floor           *int                `json:"floor"`
	Rooms           *int                `json:"rooms"`
	Floors          *int                `json:"floors"`
	Address         string              `json:"address"`
	Image           *string             `json:"image"`
}

func newPropertyResponse(p *domain.Property, links urls) PropertyResponse {
	resp := PropertyResponse{
		ID:              p.ID,
		PropertyType:    p.Type,
		City:            p.City,
		Street:          p.Street,
		HouseNumber:     p.HouseNumber,
		ApartmentNumber: p.ApartmentNumber,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		Area:            p.Area,
		Floor:           p.Floor,
		Rooms:           p.Rooms,
		Floors:          p.Floors,
		Address:         p.Address(),
	}
	if p.Image != "" {
		image := links.absolute(p.Image)
		resp.Image = &image
	}
	return resp
}

type OfferRequest struct {
	Client   int64 `json:"client" validate:"required,gt=0"`
	Realtor  int64 `json:"realtor" validate:"required,gt=0"`
	Property int64 `json:"property" validate:"required,gt=0"`
	Price    int64 `json:"price" validate:"required,gt=0"`
}

func (req *OfferRequest) toDomain(id int64) *domain.Offer {
	return &domain.Offer{
		ID:         id,
		ClientID:   req.Client,
		RealtorID:  req.Realtor,
		PropertyID: req.Property,
		Price:      req.Price,
	}
}

type OfferResponse struct {
	ID       int64             `json:"id"`
	Price    int64             `json:"price"`
	Client   *ClientResponse   `json:"client"`
	Realtor  *RealtorResponse  `json:"realtor"`
	Property *PropertyResponse `json:"property"`
}

func newOfferResponse(o *domain.Offer, links urls) OfferResponse {
	resp := OfferResponse{ID: o.ID, Price: o.Price}
	if o.Client != nil {
		c := newClientResponse(o.Client)
		resp.Client = &c
	}
	if o.Realtor != nil {
		r := newRealtorResponse(o.Realtor)
		resp.Realtor = &r
	}
	if o.Property != nil {
		p := newPropertyResponse(o.Property, links)
		resp.Property = &p
	}
	return resp
}

type NeedRequest struct {
	Client          int64    `json:"client" validate:"required,gt=0"`
	Realtor         int64    `json:"realtor" validate:"required,gt=0"`
	PropertyType    string   `json:"property_type" validate:"required"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	Street          string   `json:"street"`
	HouseNumber     string   `json:"house_number"`
	ApartmentNumber string   `json:"apartment_number"`
	MinPrice        int64    `json:"min_price" validate:"required,gt=0"`
	MaxPrice        int64    `json:"max_price" validate:"required,gt=0"`
	MinArea         *float64 `json:"min_area"`
	MaxArea         *float64 `json:"max_area"`
	MinRooms        *int     `json:"min_rooms"`
	MaxRooms        *int     `json:"max_rooms"`
	MinFloor        *int     `json:"min_floor"`
	MaxFloor        *int     `json:"max_floor"`
	MinFloors       *int     `json:"min_floors"`
	MaxFloors       *int     `json:"max_floors"`
	MinLandArea     *float64 `json:"min_land_area"`
	MaxLandArea     *float64 `json:"max_land_area"`
}

func (req *NeedRequest) toDomain(id int64) (*domain.Need, error) {
	pt, err := parseType(req.PropertyType)
	if err != nil {
		return nil, err
	}
	return &domain.Need{
		ID:              id,
		ClientID:        req.Client,
		RealtorID:       req.Realtor,
		Type:            pt,
		City:            req.City,
		Street:          req.Street,
		HouseNumber:     req.HouseNumber,
		ApartmentNumber: req.ApartmentNumber,
		Address:         req.Address,
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		Area:            domain.Range[float64]{Min: req.MinArea, Max: req.MaxArea},
		Rooms:           domain.Range[int]{Min: req.MinRooms, Max: req.MaxRooms},
		Floor:           domain.Range[int]{Min: req.MinFloor, Max: req.MaxFloor},
		Floors:          domain.Range[int]{Min: req.MinFloors, Max: req.MaxFloors},
		LandArea:        domain.Range[float64]{Min: req.MinLandArea, Max: req.MaxLandArea},
	}, nil
}

type NeedResponse struct {
	ID              int64               `json:"id"`
	PropertyType    domain.PropertyType `json:"property_type"`
	Address         string              `json:"address"`
	City            string              `json:"city"`
	Street          string              `json:"street"`
	HouseNumber     string              `json:"house_number"`
	ApartmentNumber string              `json:"apartment_number"`
	MinPrice        int64               `json:"min_price"`
	MaxPrice        int64               `json:"max_price"`
	MinArea         *float64            `json:"min_area"`
	MaxArea         *float64            `json:"max_area"`
	MinRooms        *int                `json:"min_rooms"`
	MaxRooms        *int                `json:"max_rooms"`
	MinFloor        *int                `json:"min_floor"`
	MaxFloor        *int                `json:"max_floor"`
	MinFloors       *int                `json:"min_floors"`
	MaxFloors       *int                `json:"max_floors"`
	MinLandArea     *float64            `json:"min_land_area"`
	MaxLandArea     *float64            `json:"max_land_area"`
	Client          *ClientResponse     `json:"client"`
	Realtor         *RealtorResponse    `json:"realtor"`
}

func newNeedResponse(n *domain.Need) NeedResponse {
	resp := NeedResponse{
		ID:              n.ID,
		PropertyType:    n.Type,
		Address:         n.Address,
		City:            n.City,
		Street:          n.Street,
		HouseNumber:     n.HouseNumber,
		ApartmentNumber: n.ApartmentNumber,
		MinPrice:        n.MinPrice,
		MaxPrice:        n.MaxPrice,
		MinArea:         n.Area.Min,
		MaxArea:         n.Area.Max,
		MinRooms:        n.Rooms.Min,
		MaxRooms:        n.Rooms.Max,
		MinFloor:        n.Floor.Min,
		MaxFloor:        n.Floor.Max,
		MinFloors:       n.Floors.Min,
		MaxFloors:       n.Floors.Max,
		MinLandArea:     n.LandArea.Min,
		MaxLandArea:     n.LandArea.Max,
	}
	if n.Client != nil {
		c := newClientResponse(n.Client)
		resp.Client = &c
	}
	if n.Realtor != nil {
		r := newRealtorResponse(n.Realtor)
		resp.Realtor = &r
	}
	return resp
}

type DealRequest struct {
	Need  int64 `json:"need" validate:"required,gt=0"`
	Offer int64 `json:"offer" validate:"required,gt=0"`
}

type DealResponse struct {
	ID        int64          `json:"id"`
	Need      *NeedResponse  `json:"need"`
	Offer     *OfferResponse `json:"offer"`
	CreatedAt time.Time      `json:"created_at"`
}

func newDealResponse(d *domain.Deal, links urls) DealResponse {
	resp := DealResponse{ID: d.ID, CreatedAt: d.CreatedAt}
	if d.Need != nil {
		n := newNeedResponse(d.Need)
		resp.Need = &n
	}
	if d.Offer != nil {
		o := newOfferResponse(d.Offer, links)
		resp.Offer = &o
	}
	return resp
}

type CommissionsResponse struct {
	SellerCommission     string `json:"seller_commission"`
	BuyerCommission      string `json:"buyer_commission"`
	SellerRealtorPayment string `json:"seller_realtor_payment"`
	CompanyPaymentSeller string `json:"company_payment_seller"`
	BuyerRealtorPayment  string `json:"buyer_realtor_payment"`
	CompanyPaymentBuyer  string `json:"company_payment_buyer"`
}

func newCommissionsResponse(c domain.CommissionBreakdown) CommissionsResponse {
	return CommissionsResponse{
		SellerCommission:     c.SellerCommission.StringFixed(2),
		BuyerCommission:      c.BuyerCommission.StringFixed(2),
		SellerRealtorPayment: c.SellerRealtorPayment.StringFixed(2),
		CompanyPaymentSeller: c.CompanyPaymentSeller.StringFixed(2),
		BuyerRealtorPayment:  c.BuyerRealtorPayment.StringFixed(2),
		CompanyPaymentBuyer:  c.CompanyPaymentBuyer.StringFixed(2),
	}
}

type ActRequest struct {
	DateTime *time.Time `json:"date_time" validate:"required"`
	Duration int        `json:"duration" validate:"required,gt=0"`
	ActType  string     `json:"act_type" validate:"required"`
	Comment  string     `json:"comment"`
}

func (req *ActRequest) toDomain(id int64) *domain.Act {
	return &domain.Act{
		ID:       id,
		DateTime: *req.DateTime,
		Duration: req.Duration,
		Type:     domain.ActType(req.ActType),
		Comment:  req.Comment,
	}
}

type ActResponse struct {
	ID       int64     `json:"id"`
	DateTime time.Time `json:"date_time"`
	Duration int       `json:"duration"`
	ActType  string    `json:"act_type"`
	Comment  string    `json:"comment"`
}

func newActResponse(a *domain.Act) ActResponse {
	return ActResponse{
		ID:       a.ID,
		DateTime: a.DateTime,
		Duration: a.Duration,
		ActType:  string(a.Type),
		Comment:  a.Comment,
	}
}

// MatchingOffersResponse - ответ подбора для потребности
type MatchingOffersResponse struct {
	Offers             []OfferResponse `json:"offers"`
	CreateDealEndpoint string          `json:"create_deal_endpoint"`
}

// MatchingNeedsResponse - ответ подбора для предложения
type MatchingNeedsResponse struct {
	Needs              []NeedResponse `json:"needs"`
	CreateDealEndpoint string         `json:"create_deal_endpoint"`
}

func mapSlice[T any, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
