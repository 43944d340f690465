package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Realtor - риэлтор агентства
type Realtor struct {
	ID         int64
	LastName   string
	FirstName  string
	Patronymic string
	// CommissionShare - доля риэлтора от комиссии в процентах, nil - не задана
	CommissionShare *decimal.Decimal
}

func (r *Realtor) FullName() string {
	return joinNonEmpty(" ", r.LastName, r.FirstName, r.Patronymic)
}

func (r *Realtor) NameParts() []string {
	return []string{r.LastName, r.FirstName, r.Patronymic}
}

func (r *Realtor) Normalize() {
	r.LastName = strings.TrimSpace(r.LastName)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.Patronymic = strings.TrimSpace(r.Patronymic)
	if r.CommissionShare != nil {
		rounded := r.CommissionShare.Round(2)
		r.CommissionShare = &rounded
	}
}

func (r *Realtor) Validate() error {
	verr := NewValidationError()
	if r.LastName == "" {
		verr.Add("last_name", "this field is required")
	}
	if r.FirstName == "" {
		verr.Add("first_name", "this field is required")
	}
	if r.Patronymic == "" {
		verr.Add("patronymic", "this field is required")
	}
	checkMaxLen(verr, "last_name", r.LastName, 50)
	checkMaxLen(verr, "first_name", r.FirstName, 50)
	checkMaxLen(verr, "patronymic", r.Patronymic, 50)
	if r.CommissionShare != nil && (r.CommissionShare.IsNegative() || r.CommissionShare.GreaterThan(hundred)) {
		verr.Add("commission_share", "must be between 0 and 100")
	}
	return verr.OrNil()
}
