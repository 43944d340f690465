package domain

// Offer - предложение продавца: объект по цене
type Offer struct {
	ID         int64
	ClientID   int64
	RealtorID  int64
	PropertyID int64
	Price      int64

	// заполняются при чтении
	Client   *Client
	Realtor  *Realtor
	Property *Property
}

func (o *Offer) Validate() error {
	verr := NewValidationError()
	if o.ClientID <= 0 {
		verr.Add("client", "this field is required")
	}
	if o.RealtorID <= 0 {
		verr.Add("realtor", "this field is required")
	}
	if o.PropertyID <= 0 {
		verr.Add("property", "this field is required")
	}
	if o.Price <= 0 {
		verr.Add("price", "must be positive")
	}
	return verr.OrNil()
}

// OfferFilter - фильтры списка предложений
type OfferFilter struct {
	ClientID  *int64
	RealtorID *int64
}
