package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// PropertyType - тип объекта недвижимости
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeLand      PropertyType = "land"
)

// Подписи, с которыми сравнивает мобильное приложение
var propertyTypeLabels = map[PropertyType]string{
	PropertyTypeApartment: "Квартира",
	PropertyTypeHouse:     "Дом",
	PropertyTypeLand:      "Земля",
}

// AllPropertyTypes в порядке вывода
func AllPropertyTypes() []PropertyType {
	return []PropertyType{PropertyTypeApartment, PropertyTypeHouse, PropertyTypeLand}
}

// ParsePropertyType принимает код или русскую подпись без учета регистра
func ParsePropertyType(raw string) (PropertyType, error) {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(raw))
	for _, t := range AllPropertyTypes() {
		if needle == string(t) || needle == folder.String(propertyTypeLabels[t]) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown property type %q", raw)
}

func (t PropertyType) IsValid() bool {
	_, ok := propertyTypeLabels[t]
	return ok
}

// Label - подпись для клиента
func (t PropertyType) Label() string {
	return propertyTypeLabels[t]
}

func (t PropertyType) MarshalJSON() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("cannot marshal property type %q", string(t))
	}
	return json.Marshal(t.Label())
}

func (t *PropertyType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("property type must be a string: %w", err)
	}
	parsed, err := ParsePropertyType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// HasRooms - у квартир и домов есть комнаты
func (t PropertyType) HasRooms() bool {
	return t == PropertyTypeApartment || t == PropertyTypeHouse
}

// HasFloor - этаж хранится у квартир и домов
func (t PropertyType) HasFloor() bool {
	return t == PropertyTypeApartment || t == PropertyTypeHouse
}

// HasFloors - этажность есть только у дома
func (t PropertyType) HasFloors() bool {
	return t == PropertyTypeHouse
}
