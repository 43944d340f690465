package usecase

import (
	"context"
	"fmt"
	"io"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
)

type GetDealCommissionsUseCase struct {
	repo       port.DealRepositoryPort
	calculator *domain.CommissionCalculator
}

func NewGetDealCommissionsUseCase(repo port.DealRepositoryPort, calculator *domain.CommissionCalculator) *GetDealCommissionsUseCase {
	return &GetDealCommissionsUseCase{repo: repo, calculator: calculator}
}

func (uc *GetDealCommissionsUseCase) Execute(ctx context.Context, dealID int64) (domain.CommissionBreakdown, error) {
	deal, err := uc.repo.GetByID(ctx, dealID)
	if err != nil {
		return domain.CommissionBreakdown{}, err
	}
	breakdown, err := uc.calculator.CalculateForDeal(deal)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Commission calculation failed", err, port.Fields{
			"use_case": "GetDealCommissions", "deal_id": dealID,
		})
		return domain.CommissionBreakdown{}, err
	}
	return breakdown, nil
}

// BuildDealsReportUseCase выгружает комиссии по всем сделкам
type BuildDealsReportUseCase struct {
	repo       port.DealRepositoryPort
	calculator *domain.CommissionCalculator
	writer     port.DealReportWriterPort
}

func NewBuildDealsReportUseCase(repo port.DealRepositoryPort, calculator *domain.CommissionCalculator, writer port.DealReportWriterPort) *BuildDealsReportUseCase {
	return &BuildDealsReportUseCase{repo: repo, calculator: calculator, writer: writer}
}

func (uc *BuildDealsReportUseCase) ContentType() string {
	return uc.writer.ContentType()
}

func (uc *BuildDealsReportUseCase) Execute(ctx context.Context, w io.Writer) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "BuildDealsReport"})

	deals, err := uc.repo.List(ctx, domain.NoFilter{})
	if err != nil {
		return err
	}

	rows := make([]domain.DealReportRow, 0, len(deals))
	for i := range deals {
		breakdown, err := uc.calculator.CalculateForDeal(&deals[i])
		if err != nil {
			return fmt.Errorf("deal %d: %w", deals[i].ID, err)
		}
		rows = append(rows, domain.DealReportRow{Deal: deals[i], Commissions: breakdown})
	}

	if err := uc.writer.Write(ctx, rows, w); err != nil {
		ucLogger.Error("Failed to write report", err, nil)
		return err
	}
	ucLogger.Info("Report generated", port.Fields{"deals": len(rows)})
	return nil
}
