// Package reporting expone las consultas de solo lectura: listados de cierres y liquidaciones,
// detalle de un cierre, SMDs de un cliente y su estado de cuenta en PDF.
// Ninguna ruta de escritura pasa por aquí.
package reporting

import (
	"context"
	"strings"

	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

// ReportingUseCase consultas paginadas y detalle.
type ReportingUseCase struct {
	reports   repository.ReportRepository
	customers repository.CustomerRepository
}

// NewReportingUseCase construye el caso de uso con repos atados al pool.
func NewReportingUseCase(reports repository.ReportRepository, customers repository.CustomerRepository) *ReportingUseCase {
	return &ReportingUseCase{reports: reports, customers: customers}
}

// ListClosings listado de cierres con filtros. Sin resultados devuelve data vacía y meta.total = 0.
func (uc *ReportingUseCase) ListClosings(ctx context.Context, req dto.ListClosingsRequest) (*dto.ListResponse[dto.ClosingResponse], error) {
	req.DefaultPage()
	f := repository.ClosingFilter{
		DeviceID:   strings.TrimSpace(req.SMDID),
		CustomerID: strings.TrimSpace(req.CustomerID),
		MarketerID: strings.TrimSpace(req.MarketerID),
		Search:     strings.TrimSpace(req.Search),
		Limit:      req.Limit,
		Offset:     req.Offset(),
	}
	if err := validIDFilters(f.DeviceID, f.CustomerID, f.MarketerID); err != nil {
		return nil, err
	}
	if s := strings.TrimSpace(req.Status); s != "" {
		st, err := entity.ParseClosingStatus(s)
		if err != nil {
			return nil, domain.Invalid("%s", err.Error())
		}
		f.Status = st
	}

	rows, total, err := uc.reports.ListClosings(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClosingResponse, 0, len(rows))
	for _, r := range rows {
		data = append(data, toClosingResponse(r))
	}
	return &dto.ListResponse[dto.ClosingResponse]{
		Message: "SMD closings fetched successfully",
		Meta:    dto.NewPageMeta(total, req.PageRequest),
		Data:    data,
	}, nil
}

// GetClosing detalle de un cierre con sus abonos y liquidaciones.
func (uc *ReportingUseCase) GetClosing(ctx context.Context, id string) (*dto.ClosingDetailResponse, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	row, err := uc.reports.GetClosing(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	payments, err := uc.reports.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	payouts, err := uc.reports.ListPayoutsByClosings(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	out := &dto.ClosingDetailResponse{
		ClosingResponse: toClosingResponse(*row),
		Payments:        make([]dto.ClosingPaymentResponse, 0, len(payments)),
		Payouts:         make([]dto.PayoutResponse, 0, len(payouts)),
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	for _, p := range payouts {
		out.Payouts = append(out.Payouts, toPayoutResponse(p))
	}
	return out, nil
}

// ListPayouts listado de liquidaciones con filtros, mes más reciente primero.
func (uc *ReportingUseCase) ListPayouts(ctx context.Context, req dto.ListPayoutsRequest) (*dto.ListResponse[dto.PayoutResponse], error) {
	req.DefaultPage()
	f := repository.PayoutFilter{
		ClosingID:  strings.TrimSpace(req.SMDClosingID),
		CustomerID: strings.TrimSpace(req.CustomerID),
		DeviceID:   strings.TrimSpace(req.SMDID),
		Limit:      req.Limit,
		Offset:     req.Offset(),
	}
	if err := validIDFilters(f.ClosingID, f.CustomerID, f.DeviceID); err != nil {
		return nil, err
	}
	if s := strings.TrimSpace(req.Status); s != "" {
		st, err := entity.ParsePayoutStatus(s)
		if err != nil {
			return nil, domain.Invalid("%s", err.Error())
		}
		f.Status = st
	}
	if s := strings.TrimSpace(req.PayoutMonth); s != "" {
		m, err := entity.ParsePayoutMonth(s)
		if err != nil {
			return nil, domain.Invalid("%s", err.Error())
		}
		f.Month = &m
	}

	rows, total, err := uc.reports.ListPayouts(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PayoutResponse, 0, len(rows))
	for _, r := range rows {
		data = append(data, toPayoutResponse(r))
	}
	return &dto.ListResponse[dto.PayoutResponse]{
		Message: "Monthly payouts fetched successfully",
		Meta:    dto.NewPageMeta(total, req.PageRequest),
		Data:    data,
	}, nil
}

// CustomerSMDs cierres del cliente (paginados) con el historial de liquidaciones de cada uno.
func (uc *ReportingUseCase) CustomerSMDs(ctx context.Context, customerID string, req dto.CustomerSMDsRequest) (*dto.ListResponse[dto.CustomerSMDResponse], error) {
	if !domain.ValidID(customerID) {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	req.DefaultPage()
	f := repository.ClosingFilter{
		CustomerID: customerID,
		Search:     strings.TrimSpace(req.Search),
		Limit:      req.Limit,
		Offset:     req.Offset(),
	}
	if s := strings.TrimSpace(req.Status); s != "" {
		st, err := entity.ParseClosingStatus(s)
		if err != nil {
			return nil, domain.Invalid("%s", err.Error())
		}
		f.Status = st
	}
	rows, total, err := uc.reports.ListClosings(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Closing.ID)
	}
	payouts, err := uc.reports.ListPayoutsByClosings(ctx, ids)
	if err != nil {
		return nil, err
	}
	byClosing := make(map[string][]dto.PayoutResponse, len(rows))
	for _, p := range payouts {
		byClosing[p.Payout.ClosingID] = append(byClosing[p.Payout.ClosingID], toPayoutResponse(p))
	}

	data := make([]dto.CustomerSMDResponse, 0, len(rows))
	for _, r := range rows {
		history := byClosing[r.Closing.ID]
		if history == nil {
			history = []dto.PayoutResponse{}
		}
		data = append(data, dto.CustomerSMDResponse{ClosingResponse: toClosingResponse(r), Payouts: history})
	}
	return &dto.ListResponse[dto.CustomerSMDResponse]{
		Message: "Customer SMDs fetched successfully",
		Meta:    dto.NewPageMeta(total, req.PageRequest),
		Data:    data,
	}, nil
}

func validIDFilters(ids ...string) error {
	for _, id := range ids {
		if id != "" && !domain.ValidID(id) {
			return domain.Invalid("filter %q is not a valid id", id)
		}
	}
	return nil
}
