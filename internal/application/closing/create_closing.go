package closing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
	"github.com/jhoicas/smd-api/internal/domain/share"
	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
)

// CreateClosingUseCase registra uno o varios cierres de un cliente en una sola transacción.
type CreateClosingUseCase struct {
	tx      TxRunner
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewCreateClosingUseCase construye el caso de uso.
func NewCreateClosingUseCase(tx TxRunner, log *logger.Logger, m *metrics.Metrics) *CreateClosingUseCase {
	return &CreateClosingUseCase{tx: tx, log: log.Named("closing"), metrics: m}
}

// Execute valida el request y crea los cierres. Todo o nada: si una línea falla no se persiste ninguna.
//
// Cada SMD se bloquea (FOR UPDATE) antes de sumar su participación activa, de modo que dos
// cierres concurrentes sobre el mismo SMD se serializan y nunca superan el 100%. Los SMDs se
// bloquean en orden ascendente de id para que dos lotes solapados no se bloqueen mutuamente.
func (uc *CreateClosingUseCase) Execute(ctx context.Context, actor entity.Actor, req dto.CreateClosingRequest) (*dto.CreateClosingResponse, error) {
	if !actor.CanManageClosings() {
		return nil, domain.ErrForbidden
	}
	items, err := validateCreate(req)
	if err != nil {
		return nil, err
	}
	customerID := strings.TrimSpace(req.CustomerID)
	marketerID := strings.TrimSpace(req.MarketerID)

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return items[order[a]].SMDID < items[order[b]].SMDID })

	ids := make([]string, len(items))
	err = uc.tx.RunClosing(ctx, func(
		devices repository.DeviceRepository,
		customers repository.CustomerRepository,
		marketers repository.MarketerRepository,
		closings repository.ClosingRepository,
		_ repository.ClosingPaymentRepository,
	) error {
		customer, err := customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("%w: customer %s", domain.ErrNotFound, customerID)
		}
		if !customer.Eligible() {
			return domain.ErrIneligible
		}

		var marketerRef *string
		if marketerID != "" {
			m, err := marketers.GetByID(ctx, marketerID)
			if err != nil {
				return err
			}
			if m == nil || !m.Active() {
				return domain.ErrInvalidMarketer
			}
			marketerRef = &marketerID
		}

		now := time.Now().UTC()
		for _, i := range order {
			item := items[i]
			device, err := devices.GetForUpdate(ctx, item.SMDID)
			if err != nil {
				return err
			}
			if device == nil || !device.Available() {
				return fmt.Errorf("%w: smd %s", domain.ErrNotFound, item.SMDID)
			}

			existing, err := closings.FindActiveByDeviceAndCustomer(ctx, item.SMDID, customerID)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return fmt.Errorf("%w: smd %s", domain.ErrAlreadyContracted, item.SMDID)
			}

			current, err := closings.SumActiveShare(ctx, item.SMDID)
			if err != nil {
				return err
			}
			if err := share.Check(item.SMDID, current, item.SharePercentage); err != nil {
				return err
			}

			c := &entity.Closing{
				ID:              uuid.New().String(),
				DeviceID:        item.SMDID,
				CustomerID:      customerID,
				MarketerID:      marketerRef,
				SellPrice:       item.SellPrice,
				MonthlyRent:     item.MonthlyRent,
				SharePercentage: item.SharePercentage,
				TotalAmountDue:  item.SellPrice,
				AmountPaid:      decimal.Zero,
				Status:          entity.ClosingStatusActive,
				Notes:           strings.TrimSpace(req.Notes),
				ClosedBy:        actor.UserID,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := closings.Create(ctx, c); err != nil {
				return err
			}
			ids[i] = c.ID
		}
		return nil
	})
	if err != nil {
		uc.rejected(customerID, err)
		return nil, err
	}

	uc.metrics.ClosingsCreated.Add(float64(len(ids)))
	uc.log.Info().
		Str("customer_id", customerID).
		Str("actor", actor.UserID).
		Strs("smd_closing_ids", ids).
		Msg("cierres registrados")
	return &dto.CreateClosingResponse{SMDClosingIDs: ids}, nil
}

// rejected registra el motivo de rechazo en logs y métricas.
func (uc *CreateClosingUseCase) rejected(customerID string, err error) {
	reason := rejectionReason(err)
	if reason == "" {
		uc.log.Error().Err(err).Str("customer_id", customerID).Msg("crear cierres")
		return
	}
	uc.metrics.ClosingRejections.WithLabelValues(reason).Inc()
	ev := uc.log.Warn().Str("customer_id", customerID).Str("reason", reason)
	var exceeded *domain.ShareExceededError
	if errors.As(err, &exceeded) {
		ev = ev.Str("smd_id", exceeded.DeviceID).Str("remaining", exceeded.Remaining.String())
	}
	ev.Msg("cierre rechazado")
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrShareExceeded):
		return "share_exceeded"
	case errors.Is(err, domain.ErrIneligible):
		return "ineligible"
	case errors.Is(err, domain.ErrInvalidMarketer):
		return "invalid_marketer"
	case errors.Is(err, domain.ErrAlreadyContracted):
		return "already_contracted"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return ""
}

// validateCreate normaliza el request y valida cada línea antes de abrir la transacción.
func validateCreate(req dto.CreateClosingRequest) ([]dto.ClosingItemRequest, error) {
	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return nil, domain.Invalid("customer_id is required")
	}
	if !domain.ValidID(customerID) {
		return nil, domain.Invalid("customer_id is not a valid id")
	}
	if m := strings.TrimSpace(req.MarketerID); m != "" && !domain.ValidID(m) {
		return nil, domain.Invalid("marketer_id is not a valid id")
	}

	items, err := req.Items()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(items))
	out := make([]dto.ClosingItemRequest, len(items))
	for i, item := range items {
		item.SMDID = strings.TrimSpace(item.SMDID)
		switch {
		case item.SMDID == "":
			return nil, domain.Invalid("smds[%d].smd_id is required", i)
		case !domain.ValidID(item.SMDID):
			return nil, domain.Invalid("smds[%d].smd_id is not a valid id", i)
		case seen[item.SMDID]:
			return nil, domain.Invalid("smd %s appears more than once", item.SMDID)
		case !domain.ValidAmount(item.SellPrice):
			return nil, domain.Invalid("smds[%d].sell_price must be greater than 0, below %s, with at most 2 decimals", i, domain.MaxAmount)
		case !domain.ValidAmount(item.MonthlyRent):
			return nil, domain.Invalid("smds[%d].monthly_rent must be greater than 0, below %s, with at most 2 decimals", i, domain.MaxAmount)
		case !share.ValidRequested(item.SharePercentage):
			return nil, domain.Invalid("smds[%d].share_percentage must be in (0, 100] with at most 2 decimals", i)
		}
		seen[item.SMDID] = true
		out[i] = item
	}
	return out, nil
}
