package postgres_adapter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"realty-service/internal/core/domain"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	offerFreeClause = "NOT EXISTS (SELECT 1 FROM deals d WHERE d.offer_id = o.id)"
	needFreeClause  = "NOT EXISTS (SELECT 1 FROM deals d WHERE d.need_id = n.id)"
)

func TestOfferCandidateWhere(t *testing.T) {
	tests := []struct {
		name  string
		need  domain.Need
		where string
		args  []any
	}{
		{
			name: "apartment",
			need: domain.Need{
				Type:     domain.PropertyTypeApartment,
				MinPrice: 100,
				MaxPrice: 200,
				Area:     domain.Range[float64]{Min: domain.Ptr(40.0)},
				Rooms:    domain.Range[int]{Min: domain.Ptr(2), Max: domain.Ptr(3)},
				Floor:    domain.Range[int]{Max: domain.Ptr(9)},

				// для квартиры этажность дома не учитывается
				Floors: domain.Range[int]{Min: domain.Ptr(5)},
			},
			where: "WHERE " + offerFreeClause + " AND p.property_type = $1 AND o.price >= $2 AND o.price <= $3" +
				" AND p.area >= $4 AND p.rooms >= $5 AND p.rooms <= $6 AND p.floor <= $7",
			args: []any{"apartment", int64(100), int64(200), 40.0, 2, 3, 9},
		},
		{
			name: "house",
			need: domain.Need{
				Type:     domain.PropertyTypeHouse,
				MinPrice: 1,
				MaxPrice: 5,
				Floors:   domain.Range[int]{Min: domain.Ptr(2), Max: domain.Ptr(2)},
			},
			where: "WHERE " + offerFreeClause + " AND p.property_type = $1 AND o.price >= $2 AND o.price <= $3" +
				" AND p.floors >= $4 AND p.floors <= $5",
			args: []any{"house", int64(1), int64(5), 2, 2},
		},
		{
			name: "land uses land area against property area",
			need: domain.Need{
				Type:     domain.PropertyTypeLand,
				MinPrice: 10,
				MaxPrice: 20,
				LandArea: domain.Range[float64]{Min: domain.Ptr(6.0), Max: domain.Ptr(15.0)},
			},
			where: "WHERE " + offerFreeClause + " AND p.property_type = $1 AND o.price >= $2 AND o.price <= $3" +
				" AND p.area >= $4 AND p.area <= $5",
			args: []any{"land", int64(10), int64(20), 6.0, 15.0},
		},
		{
			name:  "no ranges",
			need:  domain.Need{Type: domain.PropertyTypeHouse, MinPrice: 1, MaxPrice: 2},
			where: "WHERE " + offerFreeClause + " AND p.property_type = $1 AND o.price >= $2 AND o.price <= $3",
			args:  []any{"house", int64(1), int64(2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := offerCandidateWhere(&tt.need)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestNeedCandidateWhere(t *testing.T) {
	tests := []struct {
		name     string
		property domain.Property
		price    int64
		where    string
		args     []any
	}{
		{
			name:     "apartment with unknown floor",
			property: domain.Property{Type: domain.PropertyTypeApartment, Area: domain.Ptr(55.5), Rooms: domain.Ptr(2)},
			price:    150,
			where: "WHERE " + needFreeClause + " AND n.property_type = $1 AND n.min_price <= $2 AND n.max_price >= $3" +
				" AND (n.min_area IS NULL OR n.min_area <= $4) AND (n.max_area IS NULL OR n.max_area >= $4)" +
				" AND (n.min_rooms IS NULL OR n.min_rooms <= $5) AND (n.max_rooms IS NULL OR n.max_rooms >= $5)" +
				" AND n.min_floor IS NULL AND n.max_floor IS NULL",
			args: []any{"apartment", int64(150), int64(150), 55.5, 2},
		},
		{
			name:     "house without characteristics",
			property: domain.Property{Type: domain.PropertyTypeHouse},
			price:    7,
			where: "WHERE " + needFreeClause + " AND n.property_type = $1 AND n.min_price <= $2 AND n.max_price >= $3" +
				" AND n.min_area IS NULL AND n.max_area IS NULL" +
				" AND n.min_rooms IS NULL AND n.max_rooms IS NULL" +
				" AND n.min_floors IS NULL AND n.max_floors IS NULL",
			args: []any{"house", int64(7), int64(7)},
		},
		{
			name:     "land compares property area with land area bounds",
			property: domain.Property{Type: domain.PropertyTypeLand, Area: domain.Ptr(12.0)},
			price:    30,
			where: "WHERE " + needFreeClause + " AND n.property_type = $1 AND n.min_price <= $2 AND n.max_price >= $3" +
				" AND (n.min_land_area IS NULL OR n.min_land_area <= $4) AND (n.max_land_area IS NULL OR n.max_land_area >= $4)",
			args: []any{"land", int64(30), int64(30), 12.0},
		},
		{
			name:     "land with unknown area",
			property: domain.Property{Type: domain.PropertyTypeLand},
			price:    30,
			where: "WHERE " + needFreeClause + " AND n.property_type = $1 AND n.min_price <= $2 AND n.max_price >= $3" +
				" AND n.min_land_area IS NULL AND n.max_land_area IS NULL",
			args: []any{"land", int64(30), int64(30)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := needCandidateWhere(&tt.property, tt.price)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

// Предварительный SQL-фильтр не должен отсекать пары, которые принимает domain.Matches,
// и не должен пропускать пары, которые Matches отвергает.
func TestCandidateWhereAgreesWithMatches(t *testing.T) {
	faker := gofakeit.New(20260501)
	matched := 0

	for i := 0; i < 2000; i++ {
		need := randomNeed(faker)
		offer := randomOffer(faker, need.Type)
		want := domain.Matches(&need, &offer)
		if want {
			matched++
		}

		where, args := offerCandidateWhere(&need)
		got, err := evalWhere(where, args, offerWhereRow(&offer))
		require.NoError(t, err, where)
		require.Equal(t, want, got, "offers side: need %+v offer %+v property %+v", need, offer, *offer.Property)

		where, args = needCandidateWhere(offer.Property, offer.Price)
		got, err = evalWhere(where, args, needWhereRow(&need))
		require.NoError(t, err, where)
		require.Equal(t, want, got, "needs side: need %+v offer %+v property %+v", need, offer, *offer.Property)
	}
	// выборка должна содержать обе ветки
	assert.Greater(t, matched, 20)
	assert.Less(t, matched, 1980)
}

func randomNeed(f *gofakeit.Faker) domain.Need {
	types := []domain.PropertyType{domain.PropertyTypeApartment, domain.PropertyTypeHouse, domain.PropertyTypeLand}
	minPrice := int64(f.Number(1, 50))
	n := domain.Need{
		Type:     types[f.Number(0, len(types)-1)],
		MinPrice: minPrice,
		MaxPrice: minPrice + int64(f.Number(0, 50)),
		Area:     randomFloatRange(f),
		Rooms:    randomIntRange(f),
		Floor:    randomIntRange(f),
		Floors:   randomIntRange(f),
		LandArea: randomFloatRange(f),
	}
	return n
}

func randomOffer(f *gofakeit.Faker, needType domain.PropertyType) domain.Offer {
	pType := needType
	if f.Number(0, 9) == 0 {
		pType = domain.PropertyTypeHouse
	}
	p := &domain.Property{Type: pType}
	if f.Bool() || f.Bool() {
		p.Area = domain.Ptr(float64(f.Number(1, 10)))
	}
	if f.Bool() || f.Bool() {
		p.Rooms = domain.Ptr(f.Number(1, 10))
	}
	if f.Bool() || f.Bool() {
		p.Floor = domain.Ptr(f.Number(1, 10))
	}
	if f.Bool() || f.Bool() {
		p.Floors = domain.Ptr(f.Number(1, 10))
	}
	return domain.Offer{Price: int64(f.Number(1, 110)), Property: p}
}

func randomFloatRange(f *gofakeit.Faker) domain.Range[float64] {
	var r domain.Range[float64]
	if f.Number(0, 2) == 0 {
		r.Min = domain.Ptr(float64(f.Number(1, 5)))
	}
	if f.Number(0, 2) == 0 {
		r.Max = domain.Ptr(float64(f.Number(5, 10)))
	}
	return r
}

func randomIntRange(f *gofakeit.Faker) domain.Range[int] {
	var r domain.Range[int]
	if f.Number(0, 2) == 0 {
		r.Min = domain.Ptr(f.Number(1, 5))
	}
	if f.Number(0, 2) == 0 {
		r.Max = domain.Ptr(f.Number(5, 10))
	}
	return r
}

// строки в том виде, в каком их видит WHERE: nil - это NULL

func offerWhereRow(o *domain.Offer) map[string]any {
	p := o.Property
	return map[string]any{
		"p.property_type": string(p.Type),
		"o.price":         o.Price,
		"p.area":          deref(p.Area),
		"p.rooms":         deref(p.Rooms),
		"p.floor":         deref(p.Floor),
		"p.floors":        deref(p.Floors),
	}
}

func needWhereRow(n *domain.Need) map[string]any {
	return map[string]any{
		"n.property_type": string(n.Type),
		"n.min_price":     n.MinPrice,
		"n.max_price":     n.MaxPrice,
		"n.min_area":      deref(n.Area.Min),
		"n.max_area":      deref(n.Area.Max),
		"n.min_rooms":     deref(n.Rooms.Min),
		"n.max_rooms":     deref(n.Rooms.Max),
		"n.min_floor":     deref(n.Floor.Min),
		"n.max_floor":     deref(n.Floor.Max),
		"n.min_floors":    deref(n.Floors.Min),
		"n.max_floors":    deref(n.Floors.Max),
		"n.min_land_area": deref(n.LandArea.Min),
		"n.max_land_area": deref(n.LandArea.Max),
	}
}

func deref[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

var (
	cmpCond      = regexp.MustCompile(`^(\S+) (=|>=|<=) \$(\d+)$`)
	nullableCond = regexp.MustCompile(`^\((\S+) IS NULL OR (\S+) (>=|<=) \$(\d+)\)$`)
	isNullCond   = regexp.MustCompile(`^(\S+) IS NULL$`)
)

// evalWhere вычисляет WHERE из построителя над одной строкой. Строка считается
// свободной от сделок, сравнение с NULL не проходит.
func evalWhere(where string, args []any, row map[string]any) (bool, error) {
	for _, cond := range splitTopLevelAnd(strings.TrimPrefix(where, "WHERE ")) {
		var ok bool
		switch {
		case strings.HasPrefix(cond, "NOT EXISTS "):
			ok = true
		case cmpCond.MatchString(cond):
			m := cmpCond.FindStringSubmatch(cond)
			v, err := column(row, m[1])
			if err != nil {
				return false, err
			}
			ok = v != nil && compare(v, m[2], args[argIndex(m[3])])
		case nullableCond.MatchString(cond):
			m := nullableCond.FindStringSubmatch(cond)
			v, err := column(row, m[1])
			if err != nil {
				return false, err
			}
			ok = v == nil || compare(v, m[3], args[argIndex(m[4])])
		case isNullCond.MatchString(cond):
			m := isNullCond.FindStringSubmatch(cond)
			v, err := column(row, m[1])
			if err != nil {
				return false, err
			}
			ok = v == nil
		default:
			return false, fmt.Errorf("unsupported condition %q", cond)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func splitTopLevelAnd(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(s[i:], " AND ") {
			parts = append(parts, s[start:i])
			start = i + len(" AND ")
			i = start - 1
		}
	}
	return append(parts, s[start:])
}

func column(row map[string]any, name string) (any, error) {
	v, ok := row[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %s", name)
	}
	return v, nil
}

func argIndex(s string) int {
	n, _ := strconv.Atoi(s)
	return n - 1
}

func compare(left any, op string, right any) bool {
	if ls, ok := left.(string); ok {
		return op == "=" && ls == right
	}
	l, r := toFloat(left), toFloat(right)
	switch op {
	case "=":
		return l == r
	case ">=":
		return l >= r
	case "<=":
		return l <= r
	}
	return false
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	}
	panic(fmt.Sprintf("unexpected value %T", v))
}
