package domain

import "strings"

// Need - потребность покупателя с допустимыми диапазонами
type Need struct {
	ID              int64
	ClientID        int64
	RealtorID       int64
	Type            PropertyType
	City            string
	Street          string
	HouseNumber     string
	ApartmentNumber string
	Address         string
	MinPrice        int64
	MaxPrice        int64

	Area     Range[float64] // квартира, дом
	Rooms    Range[int]     // квартира, дом
	Floor    Range[int]     // квартира
	Floors   Range[int]     // дом
	LandArea Range[float64] // земля

	Client  *Client
	Realtor *Realtor
}

// PriceRange - ценовой диапазон в общем виде
func (n *Need) PriceRange() Range[int64] {
	return Range[int64]{Min: &n.MinPrice, Max: &n.MaxPrice}
}

// Normalize собирает адрес из частей и обнуляет диапазоны чужого типа
func (n *Need) Normalize() {
	n.City = strings.TrimSpace(n.City)
	n.Street = strings.TrimSpace(n.Street)
	n.HouseNumber = strings.TrimSpace(n.HouseNumber)
	n.ApartmentNumber = strings.TrimSpace(n.ApartmentNumber)
	n.Address = strings.TrimSpace(n.Address)
	if n.Address == "" {
		n.Address = joinNonEmpty(", ", n.City, n.Street, n.HouseNumber, n.ApartmentNumber)
	}

	switch n.Type {
	case PropertyTypeApartment:
		n.Floors = Range[int]{}
		n.LandArea = Range[float64]{}
	case PropertyTypeHouse:
		n.Floor = Range[int]{}
		n.LandArea = Range[float64]{}
	case PropertyTypeLand:
		n.Area = Range[float64]{}
		n.Rooms = Range[int]{}
		n.Floor = Range[int]{}
		n.Floors = Range[int]{}
	}
}

func (n *Need) Validate() error {
	verr := NewValidationError()
	if n.ClientID <= 0 {
		verr.Add("client", "this field is required")
	}
	if n.RealtorID <= 0 {
		verr.Add("realtor", "this field is required")
	}
	if !n.Type.IsValid() {
		verr.Add("property_type", "unknown property type")
	}
	if n.Address == "" {
		verr.Add("address", "address or its parts are required")
	}
	checkMaxLen(verr, "address", n.Address, 255)
	if n.MinPrice <= 0 {
		verr.Add("min_price", "must be positive")
	}
	if n.MaxPrice <= 0 {
		verr.Add("max_price", "must be positive")
	}
	if !n.PriceRange().Valid() {
		verr.Add("min_price", "must not exceed max_price")
	}
	checkRange(verr, "area", n.Area)
	checkRange(verr, "rooms", n.Rooms)
	checkRange(verr, "floor", n.Floor)
	checkRange(verr, "floors", n.Floors)
	checkRange(verr, "land_area", n.LandArea)
	return verr.OrNil()
}

func checkRange[T Number](verr *ValidationError, name string, r Range[T]) {
	if !r.Valid() {
		verr.Add("min_"+name, "must not exceed max_"+name)
	}
	// этаж может быть отрицательным (цоколь), остальные величины нет
	if name != "floor" && r.negative() {
		verr.Add("min_"+name, "must not be negative")
	}
}

// NeedFilter - фильтры списка потребностей
type NeedFilter struct {
	ClientID  *int64
	RealtorID *int64
}
