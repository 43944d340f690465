package domain

import "fmt"

// Matches решает, подходит ли предложение под потребность.
// Один и тот же предикат используется в обе стороны подбора.
func Matches(need *Need, offer *Offer) bool {
	if need == nil || offer == nil || offer.Property == nil {
		return false
	}
	p := offer.Property
	if p.Type != need.Type {
		return false
	}
	price := offer.Price
	if !need.PriceRange().Contains(&price) {
		return false
	}

	switch need.Type {
	case PropertyTypeApartment:
		return need.Area.Contains(p.Area) &&
			need.Rooms.Contains(p.Rooms) &&
			need.Floor.Contains(p.Floor)
	case PropertyTypeHouse:
		return need.Area.Contains(p.Area) &&
			need.Rooms.Contains(p.Rooms) &&
			need.Floors.Contains(p.Floors)
	case PropertyTypeLand:
		return need.LandArea.Contains(p.Area)
	}
	return false
}

// CheckDealPair - условие существования сделки: пара должна проходить Matches
// и при создании сделки, и после любой правки ее сторон
func CheckDealPair(need *Need, offer *Offer) error {
	if !Matches(need, offer) {
		var needID, offerID int64
		if need != nil {
			needID = need.ID
		}
		if offer != nil {
			offerID = offer.ID
		}
		return fmt.Errorf("need %d and offer %d: %w", needID, offerID, ErrIncompatibleDeal)
	}
	return nil
}
