package domain

import "time"

// Deal - сделка: одна потребность и одно предложение
type Deal struct {
	ID        int64
	NeedID    int64
	OfferID   int64
	CreatedAt time.Time

	Need  *Need
	Offer *Offer
}

func (d *Deal) Validate() error {
	verr := NewValidationError()
	if d.NeedID <= 0 {
		verr.Add("need", "this field is required")
	}
	if d.OfferID <= 0 {
		verr.Add("offer", "this field is required")
	}
	return verr.OrNil()
}

// DealEventType - тип события об изменении сделки
type DealEventType string

const (
	DealCreated DealEventType = "deal.created"
	DealDeleted DealEventType = "deal.deleted"
)

// DealEvent публикуется после изменения сделки
type DealEvent struct {
	EventID    string
	Type       DealEventType
	DealID     int64
	NeedID     int64
	OfferID    int64
	OccurredAt time.Time
}
