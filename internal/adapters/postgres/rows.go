package postgres_adapter

import (
	"fmt"

	"realty-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

var (
	clientColumns   = []string{"id", "last_name", "first_name", "patronymic", "phone", "email"}
	realtorColumns  = []string{"id", "last_name", "first_name", "patronymic", "commission_share::text"}
	propertyColumns = []string{"id", "property_type", "city", "street", "house_number", "apartment_number",
		"latitude", "longitude", "area", "floor", "rooms", "floors", "image"}
	offerColumns = []string{"id", "client_id", "realtor_id", "property_id", "price"}
	needColumns  = []string{"id", "client_id", "realtor_id", "property_type", "city", "street", "house_number",
		"apartment_number", "address", "min_price", "max_price", "min_area", "max_area", "min_rooms", "max_rooms",
		"min_floor", "max_floor", "min_floors", "max_floors", "min_land_area", "max_land_area"}
	actColumns = []string{"id", "date_time", "duration", "act_type", "comment", "COALESCE(external_id, '')"}
)

type clientRow struct {
	c domain.Client
}

func (x *clientRow) targets() []any {
	return []any{&x.c.ID, &x.c.LastName, &x.c.FirstName, &x.c.Patronymic, &x.c.Phone, &x.c.Email}
}

// realtorRow читает долю как текст: numeric без потери точности
type realtorRow struct {
	r     domain.Realtor
	share *string
}

func (x *realtorRow) targets() []any {
	return []any{&x.r.ID, &x.r.LastName, &x.r.FirstName, &x.r.Patronymic, &x.share}
}

func (x *realtorRow) toDomain() (domain.Realtor, error) {
	r := x.r
	if x.share != nil {
		d, err := decimal.NewFromString(*x.share)
		if err != nil {
			return domain.Realtor{}, fmt.Errorf("invalid commission_share %q: %w", *x.share, err)
		}
		r.CommissionShare = &d
	}
	return r, nil
}

func shareArg(r *domain.Realtor) *string {
	if r.CommissionShare == nil {
		return nil
	}
	s := r.CommissionShare.StringFixed(2)
	return &s
}

type propertyRow struct {
	p     domain.Property
	ptype string
}

func (x *propertyRow) targets() []any {
	return []any{&x.p.ID, &x.ptype, &x.p.City, &x.p.Street, &x.p.HouseNumber, &x.p.ApartmentNumber,
		&x.p.Latitude, &x.p.Longitude, &x.p.Area, &x.p.Floor, &x.p.Rooms, &x.p.Floors, &x.p.Image}
}

func (x *propertyRow) toDomain() domain.Property {
	p := x.p
	p.Type = domain.PropertyType(x.ptype)
	return p
}

type offerRow struct {
	o domain.Offer
}

func (x *offerRow) targets() []any {
	return []any{&x.o.ID, &x.o.ClientID, &x.o.RealtorID, &x.o.PropertyID, &x.o.Price}
}

type needRow struct {
	n     domain.Need
	ptype string
}

func (x *needRow) targets() []any {
	n := &x.n
	return []any{&n.ID, &n.ClientID, &n.RealtorID, &x.ptype, &n.City, &n.Street, &n.HouseNumber,
		&n.ApartmentNumber, &n.Address, &n.MinPrice, &n.MaxPrice, &n.Area.Min, &n.Area.Max, &n.Rooms.Min, &n.Rooms.Max,
		&n.Floor.Min, &n.Floor.Max, &n.Floors.Min, &n.Floors.Max, &n.LandArea.Min, &n.LandArea.Max}
}

func (x *needRow) toDomain() domain.Need {
	n := x.n
	n.Type = domain.PropertyType(x.ptype)
	return n
}

func needArgs(n *domain.Need) []any {
	return []any{n.ClientID, n.RealtorID, string(n.Type), n.City, n.Street, n.HouseNumber,
		n.ApartmentNumber, n.Address, n.MinPrice, n.MaxPrice, n.Area.Min, n.Area.Max, n.Rooms.Min, n.Rooms.Max,
		n.Floor.Min, n.Floor.Max, n.Floors.Min, n.Floors.Max, n.LandArea.Min, n.LandArea.Max}
}

type actRow struct {
	a     domain.Act
	atype string
}

func (x *actRow) targets() []any {
	return []any{&x.a.ID, &x.a.DateTime, &x.a.Duration, &x.atype, &x.a.Comment, &x.a.ExternalID}
}

func (x *actRow) toDomain() domain.Act {
	a := x.a
	a.Type = domain.ActType(x.atype)
	return a
}

// offerJoinRow - предложение с клиентом, риэлтором и объектом
type offerJoinRow struct {
	offer    offerRow
	client   clientRow
	realtor  realtorRow
	property propertyRow
}

const offerJoinSelect = `SELECT %s, %s, %s, %s
	FROM offers o
	JOIN clients c ON c.id = o.client_id
	JOIN realtors r ON r.id = o.realtor_id
	JOIN properties p ON p.id = o.property_id`

func offerJoinQuery() string {
	return fmt.Sprintf(offerJoinSelect,
		prefixed("o", offerColumns...), prefixed("c", clientColumns...),
		prefixed("r", realtorColumns...), prefixed("p", propertyColumns...))
}

func (x *offerJoinRow) targets() []any {
	t := x.offer.targets()
	t = append(t, x.client.targets()...)
	t = append(t, x.realtor.targets()...)
	return append(t, x.property.targets()...)
}

func (x *offerJoinRow) toDomain() (domain.Offer, error) {
	o := x.offer.o
	client := x.client.c
	realtor, err := x.realtor.toDomain()
	if err != nil {
		return domain.Offer{}, err
	}
	property := x.property.toDomain()
	o.Client, o.Realtor, o.Property = &client, &realtor, &property
	return o, nil
}

func scanOfferJoin(row rowScanner) (domain.Offer, error) {
	var x offerJoinRow
	if err := row.Scan(x.targets()...); err != nil {
		return domain.Offer{}, err
	}
	return x.toDomain()
}

// needJoinRow - потребность с клиентом и риэлтором
type needJoinRow struct {
	need    needRow
	client  clientRow
	realtor realtorRow
}

const needJoinSelect = `SELECT %s, %s, %s
	FROM needs n
	JOIN clients c ON c.id = n.client_id
	JOIN realtors r ON r.id = n.realtor_id`

func needJoinQuery() string {
	return fmt.Sprintf(needJoinSelect,
		prefixed("n", needColumns...), prefixed("c", clientColumns...), prefixed("r", realtorColumns...))
}

func (x *needJoinRow) targets() []any {
	t := x.need.targets()
	t = append(t, x.client.targets()...)
	return append(t, x.realtor.targets()...)
}

func (x *needJoinRow) toDomain() (domain.Need, error) {
	n := x.need.toDomain()
	client := x.client.c
	realtor, err := x.realtor.toDomain()
	if err != nil {
		return domain.Need{}, err
	}
	n.Client, n.Realtor = &client, &realtor
	return n, nil
}

func scanNeedJoin(row rowScanner) (domain.Need, error) {
	var x needJoinRow
	if err := row.Scan(x.targets()...); err != nil {
		return domain.Need{}, err
	}
	return x.toDomain()
}
