package port

import (
	"context"
	"io"

	"realty-service/internal/core/domain"
)

// DealReportWriterPort выгружает отчет о комиссиях
type DealReportWriterPort interface {
	ContentType() string
	Write(ctx context.Context, rows []domain.DealReportRow, w io.Writer) error
}
