package postgres_adapter

import (
	"errors"
	"testing"

	"realty-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealPairsQuery(t *testing.T) {
	base := "SELECT d.id, d.need_id, d.offer_id FROM deals d JOIN offers o ON o.id = d.offer_id WHERE "

	assert.Equal(t, base+"d.need_id = $1 ORDER BY d.id FOR UPDATE OF d", dealPairsQuery(dealsOfNeed, true))
	assert.Equal(t, base+"d.offer_id = $1 ORDER BY d.id", dealPairsQuery(dealsOfOffer, false))
	assert.Equal(t, base+"o.property_id = $1 ORDER BY d.id FOR UPDATE OF d", dealPairsQuery(dealsOfProperty, true))
}

// сделка 7: трехкомнатная квартира за 2.5 млн под потребность 2-3 комнаты до 3 млн
func dealSides() (*domain.Need, *domain.Offer) {
	need := &domain.Need{
		ID:       3,
		Type:     domain.PropertyTypeApartment,
		MinPrice: 1_000_000,
		MaxPrice: 3_000_000,
		Rooms:    domain.Range[int]{Min: domain.Ptr(2), Max: domain.Ptr(3)},
	}
	offer := &domain.Offer{
		ID:       5,
		Price:    2_500_000,
		Property: &domain.Property{ID: 9, Type: domain.PropertyTypeApartment, Rooms: domain.Ptr(3)},
	}
	return need, offer
}

func TestCheckDealPairs(t *testing.T) {
	pairs := []dealPair{{dealID: 7, needID: 3, offerID: 5}}

	tests := []struct {
		name    string
		edit    func(n *domain.Need, o *domain.Offer)
		wantErr bool
	}{
		{name: "compatible edit of offer", edit: func(_ *domain.Need, o *domain.Offer) { o.Price = 2_900_000 }},
		{name: "offer price above need maximum", edit: func(_ *domain.Need, o *domain.Offer) { o.Price = 3_500_000 }, wantErr: true},
		{name: "need narrowed below property rooms", edit: func(n *domain.Need, _ *domain.Offer) { n.Rooms.Max = domain.Ptr(2) }, wantErr: true},
		{name: "need switched to house", edit: func(n *domain.Need, _ *domain.Offer) { n.Type = domain.PropertyTypeHouse }, wantErr: true},
		{name: "property rooms cleared", edit: func(_ *domain.Need, o *domain.Offer) { o.Property.Rooms = nil }, wantErr: true},
		{name: "property area set without area bound", edit: func(_ *domain.Need, o *domain.Offer) { o.Property.Area = domain.Ptr(80.0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			need, offer := dealSides()
			tt.edit(need, offer)

			var loaded []dealPair
			err := checkDealPairs(pairs, func(p dealPair) (*domain.Need, *domain.Offer, error) {
				loaded = append(loaded, p)
				return need, offer, nil
			})
			assert.Equal(t, pairs, loaded)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrIncompatibleDeal)
			assert.Contains(t, err.Error(), "deal 7")
		})
	}
}

func TestCheckDealPairs_StopsAtFirstProblem(t *testing.T) {
	loadErr := errors.New("conn closed")
	calls := 0
	err := checkDealPairs([]dealPair{{dealID: 1}, {dealID: 2}}, func(dealPair) (*domain.Need, *domain.Offer, error) {
		calls++
		return nil, nil, loadErr
	})
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, 1, calls)

	assert.NoError(t, checkDealPairs(nil, nil))
}
