package domain

import "strings"

// Property - объект недвижимости. Набор характеристик зависит от типа.
type Property struct {
	ID              int64
	Type            PropertyType
	City            string
	Street          string
	HouseNumber     string
	ApartmentNumber string
	Latitude        *float64
	Longitude       *float64
	Area            *float64
	Floor           *int
	Rooms           *int
	Floors          *int
	// Image - путь к файлу внутри хранилища, например /media/properties/ab12.jpg
	Image string
}

// Address - "город, улица, дом, квартира" без пустых частей
func (p *Property) Address() string {
	return joinNonEmpty(", ", p.City, p.Street, p.HouseNumber, p.ApartmentNumber)
}

// HasCoordinates - заданы обе координаты
func (p *Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Normalize обнуляет характеристики, не относящиеся к типу
func (p *Property) Normalize() {
	p.City = strings.TrimSpace(p.City)
	p.Street = strings.TrimSpace(p.Street)
	p.HouseNumber = strings.TrimSpace(p.HouseNumber)
	p.ApartmentNumber = strings.TrimSpace(p.ApartmentNumber)

	if !p.Type.HasRooms() {
		p.Rooms = nil
	}
	if !p.Type.HasFloor() {
		p.Floor = nil
	}
	if !p.Type.HasFloors() {
		p.Floors = nil
	}
}

func (p *Property) Validate() error {
	verr := NewValidationError()
	if !p.Type.IsValid() {
		verr.Add("property_type", "unknown property type")
	}
	if p.Latitude != nil && !isFinite(*p.Latitude) {
		verr.Add("latitude", "must be a finite number")
	}
	if p.Longitude != nil && !isFinite(*p.Longitude) {
		verr.Add("longitude", "must be a finite number")
	}
	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		verr.Add("latitude", "must be between -90 and 90")
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		verr.Add("longitude", "must be between -180 and 180")
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		verr.Add("latitude", "latitude and longitude must be set together")
	}
	if p.Area != nil && *p.Area <= 0 {
		verr.Add("area", "must be positive")
	}
	if p.Rooms != nil && *p.Rooms <= 0 {
		verr.Add("rooms", "must be positive")
	}
	if p.Floors != nil && *p.Floors <= 0 {
		verr.Add("floors", "must be positive")
	}
	checkMaxLen(verr, "city", p.City, 100)
	checkMaxLen(verr, "street", p.Street, 100)
	checkMaxLen(verr, "house_number", p.HouseNumber, 10)
	checkMaxLen(verr, "apartment_number", p.ApartmentNumber, 10)
	return verr.OrNil()
}

// AddressParts - части адреса для нечеткого поиска
func (p *Property) AddressParts() (city, street, house, apartment string) {
	return p.City, p.Street, p.HouseNumber, p.ApartmentNumber
}

// PropertyFilter - фильтры списка объектов
type PropertyFilter struct {
	Type   *PropertyType
	City   string
	Street string
}
