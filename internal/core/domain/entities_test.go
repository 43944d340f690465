package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePropertyType(t *testing.T) {
	for raw, want := range map[string]PropertyType{
		"apartment": PropertyTypeApartment,
		"HOUSE":     PropertyTypeHouse,
		"Квартира":  PropertyTypeApartment,
		"земля":     PropertyTypeLand,
		" Дом ":     PropertyTypeHouse,
	} {
		got, err := ParsePropertyType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParsePropertyType("castle")
	assert.Error(t, err)
}

func TestPropertyTypeJSON(t *testing.T) {
	data, err := json.Marshal(PropertyTypeLand)
	require.NoError(t, err)
	assert.JSONEq(t, `"Земля"`, string(data))

	var pt PropertyType
	require.NoError(t, json.Unmarshal([]byte(`"house"`), &pt))
	assert.Equal(t, PropertyTypeHouse, pt)
	assert.Error(t, json.Unmarshal([]byte(`"villa"`), &pt))
}

func TestClientValidate(t *testing.T) {
	ok := Client{FirstName: "Анна", Phone: "+79991234567"}
	assert.NoError(t, ok.Validate())

	noContacts := Client{FirstName: "Анна"}
	verr, isValidation := IsValidationError(noContacts.Validate())
	require.True(t, isValidation)
	assert.Contains(t, verr.Fields, "phone")

	badPhone := Client{Phone: "12345"}
	assert.Error(t, badPhone.Validate())

	badEmail := Client{Email: "not-an-email"}
	verr, _ = IsValidationError(badEmail.Validate())
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "email")

	assert.Equal(t, "Петрова Анна", (&Client{LastName: "Петрова", FirstName: "Анна"}).FullName())
}

func TestRealtorValidate(t *testing.T) {
	r := realtorWithShare("45.5")
	assert.NoError(t, r.Validate())

	over := realtorWithShare("100.01")
	assert.Error(t, over.Validate())

	missing := Realtor{FirstName: "Иван"}
	verr, ok := IsValidationError(missing.Validate())
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "last_name")
	assert.Contains(t, verr.Fields, "patronymic")

	share := decimal.RequireFromString("12.345")
	rounded := Realtor{CommissionShare: &share}
	rounded.Normalize()
	assert.Equal(t, "12.35", rounded.CommissionShare.StringFixed(2))
}

func TestPropertyNormalize(t *testing.T) {
	land := Property{Type: PropertyTypeLand, Area: Ptr(10.0), Rooms: Ptr(3), Floor: Ptr(2), Floors: Ptr(1)}
	land.Normalize()
	assert.Nil(t, land.Rooms)
	assert.Nil(t, land.Floor)
	assert.Nil(t, land.Floors)
	assert.NotNil(t, land.Area)

	flat := Property{Type: PropertyTypeApartment, Rooms: Ptr(2), Floor: Ptr(5), Floors: Ptr(9)}
	flat.Normalize()
	assert.NotNil(t, flat.Rooms)
	assert.NotNil(t, flat.Floor)
	assert.Nil(t, flat.Floors)
}

func TestPropertyValidateAndAddress(t *testing.T) {
	p := Property{Type: PropertyTypeApartment, City: "Москва", Street: "Тверская", HouseNumber: "7"}
	assert.NoError(t, p.Validate())
	assert.Equal(t, "Москва, Тверская, 7", p.Address())

	p.Latitude = Ptr(95.0)
	p.Longitude = Ptr(37.0)
	verr, ok := IsValidationError(p.Validate())
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "latitude")

	halfCoords := Property{Type: PropertyTypeLand, Longitude: Ptr(30.0)}
	assert.Error(t, halfCoords.Validate())
}

func TestNeedValidate(t *testing.T) {
	n := Need{ClientID: 1, RealtorID: 1, Type: PropertyTypeApartment, City: "Казань", MinPrice: 10, MaxPrice: 20}
	n.Normalize()
	assert.Equal(t, "Казань", n.Address)
	assert.NoError(t, n.Validate())

	n.MinPrice = 30
	verr, ok := IsValidationError(n.Validate())
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "min_price")

	n.MinPrice = 10
	n.Rooms = Range[int]{Min: Ptr(4), Max: Ptr(2)}
	verr, ok = IsValidationError(n.Validate())
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "min_rooms")
}

func TestNeedNormalizeClearsForeignRanges(t *testing.T) {
	n := Need{
		Type:     PropertyTypeLand,
		Address:  "участок 5",
		Area:     Range[float64]{Min: Ptr(10.0)},
		Rooms:    Range[int]{Min: Ptr(1)},
		Floors:   Range[int]{Max: Ptr(3)},
		LandArea: Range[float64]{Min: Ptr(6.0)},
	}
	n.Normalize()

	assert.False(t, n.Area.IsSet())
	assert.False(t, n.Rooms.IsSet())
	assert.False(t, n.Floors.IsSet())
	assert.True(t, n.LandArea.IsSet())
	assert.Equal(t, "участок 5", n.Address)
}

func TestActValidate(t *testing.T) {
	a := Act{DateTime: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), Duration: 30, Type: ActTypeShowing}
	assert.NoError(t, a.Validate())

	bad := Act{Duration: 0, Type: "Обед"}
	verr, ok := IsValidationError(bad.Validate())
	require.True(t, ok)
	assert.Len(t, verr.Fields, 3)
}

func TestValidationErrorMessage(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())

	verr.Add("b", "second")
	verr.Add("a", "first")
	verr.Add("a", "ignored")
	assert.Equal(t, "validation failed: a: first; b: second", verr.Error())
}
