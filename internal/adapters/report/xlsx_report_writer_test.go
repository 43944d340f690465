package report

import (
	"bytes"
	"context"
	"testing"

	"realty-service/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleRow(id int64, seller string) domain.DealReportRow {
	return domain.DealReportRow{
		Deal: domain.Deal{
			ID: id,
			Need: &domain.Need{
				Client:  &domain.Client{LastName: "Петрова", FirstName: "Анна"},
				Realtor: &domain.Realtor{LastName: "Смирнов", FirstName: "Олег", Patronymic: "Иванович"},
			},
			Offer: &domain.Offer{
				Price:   2500000,
				Client:  &domain.Client{LastName: "Иванов", FirstName: "Петр"},
				Realtor: &domain.Realtor{LastName: "Кузнецова", FirstName: "Мария", Patronymic: "Сергеевна"},
				Property: &domain.Property{
					Type: domain.PropertyTypeApartment, City: "Москва", Street: "Тверская", HouseNumber: "1",
				},
			},
		},
		Commissions: domain.CommissionBreakdown{
			SellerCommission:     dec(seller),
			BuyerCommission:      dec("75000"),
			SellerRealtorPayment: dec("30500"),
			CompanyPaymentSeller: dec("30500"),
			BuyerRealtorPayment:  dec("33750"),
			CompanyPaymentBuyer:  dec("41250"),
		},
	}
}

func TestXLSXReportWriter(t *testing.T) {
	writer := NewXLSXReportWriter()
	assert.Equal(t, XLSXContentType, writer.ContentType())

	var buf bytes.Buffer
	rows := []domain.DealReportRow{sampleRow(1, "61000"), sampleRow(2, "0.01")}
	require.NoError(t, writer.Write(context.Background(), rows, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, headers[0], header)

	buyer, _ := f.GetCellValue(sheetName, "B2")
	assert.Equal(t, "Петрова Анна", buyer)
	ptype, _ := f.GetCellValue(sheetName, "F2")
	assert.Equal(t, "Квартира", ptype)

	total, _ := f.GetCellValue(sheetName, "A4")
	assert.Equal(t, "Итого", total)

	sellerTotal, err := f.GetCellValue(sheetName, "I4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "61000.01", sellerTotal)
}

func TestXLSXReportWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXReportWriter().Write(context.Background(), nil, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	total, _ := f.GetCellValue(sheetName, "A2")
	assert.Equal(t, "Итого", total)
}
