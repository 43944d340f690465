package report

import (
	"context"
	"fmt"
	"io"

	"realty-service/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetName       = "Сделки"
)

var headers = []string{
	"ID сделки", "Покупатель", "Риэлтор покупателя", "Продавец", "Риэлтор продавца",
	"Тип объекта", "Адрес", "Цена",
	"Комиссия продавца", "Комиссия покупателя",
	"Риэлтору продавца", "Компании (продавец)",
	"Риэлтору покупателя", "Компании (покупатель)",
}

// XLSXReportWriter выгружает комиссии по сделкам в Excel
type XLSXReportWriter struct{}

func NewXLSXReportWriter() *XLSXReportWriter {
	return &XLSXReportWriter{}
}

func (w *XLSXReportWriter) ContentType() string {
	return XLSXContentType
}

func commissionValues(c domain.CommissionBreakdown) []decimal.Decimal {
	return []decimal.Decimal{
		c.SellerCommission, c.BuyerCommission,
		c.SellerRealtorPayment, c.CompanyPaymentSeller,
		c.BuyerRealtorPayment, c.CompanyPaymentBuyer,
	}
}

// rowValues - значения одной строки в порядке headers
func rowValues(r domain.DealReportRow) []interface{} {
	values := []interface{}{r.Deal.ID}

	var buyer, buyerRealtor, seller, sellerRealtor, ptype, address string
	var price int64
	if n := r.Deal.Need; n != nil {
		if n.Client != nil {
			buyer = n.Client.FullName()
		}
		if n.Realtor != nil {
			buyerRealtor = n.Realtor.FullName()
		}
	}
	if o := r.Deal.Offer; o != nil {
		price = o.Price
		if o.Client != nil {
			seller = o.Client.FullName()
		}
		if o.Realtor != nil {
			sellerRealtor = o.Realtor.FullName()
		}
		if o.Property != nil {
			ptype = o.Property.Type.Label()
			address = o.Property.Address()
		}
	}
	values = append(values, buyer, buyerRealtor, seller, sellerRealtor, ptype, address, price)
	for _, v := range commissionValues(r.Commissions) {
		values = append(values, v.InexactFloat64())
	}
	return values
}

func (w *XLSXReportWriter) Write(ctx context.Context, rows []domain.DealReportRow, out io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyFormat := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &moneyFormat})
	if err != nil {
		return fmt.Errorf("failed to create total style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	// итоги считаем в decimal, чтобы не копить ошибку float
	totals := make([]decimal.Decimal, 6)
	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := rowValues(r)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row for deal %d: %w", r.Deal.ID, err)
		}
		for j, v := range commissionValues(r.Commissions) {
			totals[j] = totals[j].Add(v)
		}
	}

	firstMoney, _ := excelize.ColumnNumberToName(len(headers) - 5)
	if len(rows) > 0 {
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("%s2", firstMoney), fmt.Sprintf("%s%d", lastCol, len(rows)+1), moneyStyle); err != nil {
			return err
		}
	}

	totalRow := len(rows) + 2
	if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "Итого"); err != nil {
		return err
	}
	for j, total := range totals {
		cell, _ := excelize.CoordinatesToCellName(len(headers)-5+j, totalRow)
		if err := f.SetCellValue(sheetName, cell, total.Round(2).InexactFloat64()); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("%s%d", lastCol, totalRow), totalStyle); err != nil {
		return err
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 18.0
		if headers[i] == "Адрес" {
			width = 40
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}
