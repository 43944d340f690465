package domain

// DealReportRow - строка отчета о комиссиях
type DealReportRow struct {
	Deal        Deal
	Commissions CommissionBreakdown
}
