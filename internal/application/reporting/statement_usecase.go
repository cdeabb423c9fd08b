package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

// Statement datos del estado de cuenta de un cierre.
type Statement struct {
	Closing     repository.ClosingRow
	Payments    []*entity.ClosingPayment
	Payouts     []repository.PayoutRow
	GeneratedAt time.Time
}

// StatementGenerator puerto de salida: representación PDF del estado de cuenta.
type StatementGenerator interface {
	GenerateStatementPDF(ctx context.Context, s Statement) ([]byte, error)
}

// StatementUseCase genera el estado de cuenta (PDF) de un cierre.
type StatementUseCase struct {
	reports   repository.ReportRepository
	generator StatementGenerator
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(reports repository.ReportRepository, generator StatementGenerator) *StatementUseCase {
	return &StatementUseCase{reports: reports, generator: generator}
}

// DownloadStatement devuelve los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna domain.ErrNotFound si el cierre no existe.
func (uc *StatementUseCase) DownloadStatement(ctx context.Context, closingID string) (pdfBytes []byte, filename string, err error) {
	if !domain.ValidID(closingID) {
		return nil, "", domain.ErrNotFound
	}
	row, err := uc.reports.GetClosing(ctx, closingID)
	if err != nil {
		return nil, "", fmt.Errorf("statement: obtener cierre: %w", err)
	}
	if row == nil {
		return nil, "", domain.ErrNotFound
	}
	payments, err := uc.reports.ListPayments(ctx, closingID)
	if err != nil {
		return nil, "", fmt.Errorf("statement: obtener abonos: %w", err)
	}
	payouts, err := uc.reports.ListPayoutsByClosings(ctx, []string{closingID})
	if err != nil {
		return nil, "", fmt.Errorf("statement: obtener liquidaciones: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateStatementPDF(ctx, Statement{
		Closing:     *row,
		Payments:    payments,
		Payouts:     payouts,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("statement: generar PDF: %w", err)
	}
	code := row.DeviceCode
	if code == "" {
		code = row.Closing.DeviceID
	}
	return pdfBytes, fmt.Sprintf("statement-%s-%s.pdf", code, closingID[:8]), nil
}
