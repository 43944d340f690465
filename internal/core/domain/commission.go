package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SellerRate - фиксированная часть и процент комиссии продавца для типа объекта
type SellerRate struct {
	Base    decimal.Decimal
	Percent decimal.Decimal
}

// CommissionTariff - тарифы агентства
type CommissionTariff struct {
	Seller       map[PropertyType]SellerRate
	BuyerPercent decimal.Decimal
	DefaultShare decimal.Decimal
}

// DefaultCommissionTariff - действующие тарифы агентства
func DefaultCommissionTariff() CommissionTariff {
	return CommissionTariff{
		Seller: map[PropertyType]SellerRate{
			PropertyTypeApartment: {Base: decimal.NewFromInt(36000), Percent: decimal.NewFromInt(1)},
			PropertyTypeHouse:     {Base: decimal.NewFromInt(30000), Percent: decimal.NewFromInt(1)},
			PropertyTypeLand:      {Base: decimal.NewFromInt(30000), Percent: decimal.NewFromInt(2)},
		},
		BuyerPercent: decimal.NewFromInt(3),
		DefaultShare: decimal.NewFromInt(45),
	}
}

func (t CommissionTariff) Validate() error {
	for _, pt := range AllPropertyTypes() {
		rate, ok := t.Seller[pt]
		if !ok {
			return fmt.Errorf("commission tariff: no seller rate for %s", pt)
		}
		if rate.Base.IsNegative() || rate.Percent.IsNegative() {
			return fmt.Errorf("commission tariff: negative seller rate for %s", pt)
		}
	}
	if t.BuyerPercent.IsNegative() {
		return fmt.Errorf("commission tariff: negative buyer rate")
	}
	if t.DefaultShare.IsNegative() || t.DefaultShare.GreaterThan(hundred) {
		return fmt.Errorf("commission tariff: default share must be within [0,100]")
	}
	return nil
}

// CommissionBreakdown - шесть сумм по сделке
type CommissionBreakdown struct {
	SellerCommission     decimal.Decimal
	BuyerCommission      decimal.Decimal
	SellerRealtorPayment decimal.Decimal
	CompanyPaymentSeller decimal.Decimal
	BuyerRealtorPayment  decimal.Decimal
	CompanyPaymentBuyer  decimal.Decimal
}

// CommissionCalculator считает комиссии по тарифу
type CommissionCalculator struct {
	tariff CommissionTariff
}

func NewCommissionCalculator(tariff CommissionTariff) (*CommissionCalculator, error) {
	if err := tariff.Validate(); err != nil {
		return nil, err
	}
	return &CommissionCalculator{tariff: tariff}, nil
}

// round2 - до копеек, половина вверх
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

func (c *CommissionCalculator) share(r *Realtor) decimal.Decimal {
	if r == nil || r.CommissionShare == nil {
		return c.tariff.DefaultShare
	}
	return *r.CommissionShare
}

// Calculate считает комиссии для цены, типа объекта и долей риэлторов.
// seller - риэлтор предложения, buyer - риэлтор потребности.
func (c *CommissionCalculator) Calculate(price int64, pt PropertyType, seller, buyer *Realtor) (CommissionBreakdown, error) {
	if price <= 0 {
		return CommissionBreakdown{}, fmt.Errorf("commission: price must be positive, got %d", price)
	}
	rate, ok := c.tariff.Seller[pt]
	if !ok {
		return CommissionBreakdown{}, fmt.Errorf("commission: unknown property type %q", pt)
	}

	p := decimal.NewFromInt(price)
	var b CommissionBreakdown
	b.SellerCommission = round2(rate.Base.Add(percentOf(p, rate.Percent)))
	b.BuyerCommission = round2(percentOf(p, c.tariff.BuyerPercent))

	b.SellerRealtorPayment = round2(percentOf(b.SellerCommission, c.share(seller)))
	b.CompanyPaymentSeller = b.SellerCommission.Sub(b.SellerRealtorPayment)

	b.BuyerRealtorPayment = round2(percentOf(b.BuyerCommission, c.share(buyer)))
	b.CompanyPaymentBuyer = b.BuyerCommission.Sub(b.BuyerRealtorPayment)
	return b, nil
}

// CalculateForDeal требует загруженные need.Realtor, offer.Realtor и offer.Property
func (c *CommissionCalculator) CalculateForDeal(d *Deal) (CommissionBreakdown, error) {
	if d == nil || d.Need == nil || d.Offer == nil || d.Offer.Property == nil {
		return CommissionBreakdown{}, fmt.Errorf("commission: deal is not fully loaded")
	}
	return c.Calculate(d.Offer.Price, d.Offer.Property.Type, d.Offer.Realtor, d.Need.Realtor)
}
