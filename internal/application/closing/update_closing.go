package closing

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
	"github.com/jhoicas/smd-api/pkg/logger"
)

// UpdateClosingUseCase modifica parcialmente un cierre activo (renta, referidor, notas, estado).
type UpdateClosingUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewUpdateClosingUseCase construye el caso de uso.
func NewUpdateClosingUseCase(tx TxRunner, log *logger.Logger) *UpdateClosingUseCase {
	return &UpdateClosingUseCase{tx: tx, log: log.Named("closing")}
}

// Execute bloquea la fila del cierre, valida el patch contra su estado actual y lo aplica.
// Pasar a closed o cancelled libera su participación para nuevos cierres sobre el SMD.
func (uc *UpdateClosingUseCase) Execute(ctx context.Context, actor entity.Actor, closingID string, req dto.UpdateClosingRequest) error {
	if !actor.CanManageClosings() {
		return domain.ErrForbidden
	}
	if !domain.ValidID(closingID) {
		return domain.ErrNotFound
	}
	patch, err := buildPatch(req)
	if err != nil {
		return err
	}

	err = uc.tx.RunClosing(ctx, func(
		_ repository.DeviceRepository,
		_ repository.CustomerRepository,
		marketers repository.MarketerRepository,
		closings repository.ClosingRepository,
		_ repository.ClosingPaymentRepository,
	) error {
		c, err := closings.GetForUpdate(ctx, closingID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if c.Status != entity.ClosingStatusActive {
			return domain.ErrClosingNotActive
		}
		if patch.MarketerID != nil && *patch.MarketerID != "" {
			m, err := marketers.GetByID(ctx, *patch.MarketerID)
			if err != nil {
				return err
			}
			if m == nil || !m.Active() {
				return domain.ErrInvalidMarketer
			}
		}
		return closings.Update(ctx, closingID, patch)
	})
	if err != nil {
		return err
	}

	ev := uc.log.Info().Str("smd_closing_id", closingID).Str("actor", actor.UserID)
	if patch.Status != nil {
		ev = ev.Str("status", string(*patch.Status))
	}
	ev.Msg("cierre actualizado")
	return nil
}

// buildPatch valida el request y lo traduce a cambios de persistencia.
func buildPatch(req dto.UpdateClosingRequest) (repository.ClosingPatch, error) {
	var patch repository.ClosingPatch
	if req.MonthlyRent != nil {
		if !domain.ValidAmount(*req.MonthlyRent) {
			return patch, domain.Invalid("monthly_rent must be greater than 0, below %s, with at most 2 decimals", domain.MaxAmount)
		}
		patch.MonthlyRent = req.MonthlyRent
	}
	if req.MarketerID != nil {
		m := strings.TrimSpace(*req.MarketerID)
		if m != "" && !domain.ValidID(m) {
			return patch, domain.Invalid("marketer_id is not a valid id")
		}
		patch.MarketerID = &m
	}
	if req.Notes != nil {
		n := strings.TrimSpace(*req.Notes)
		patch.Notes = &n
	}
	if req.Status != nil {
		st, err := entity.ParseClosingStatus(strings.TrimSpace(*req.Status))
		if err != nil {
			return patch, domain.Invalid("%s", err.Error())
		}
		if !entity.ClosingStatusActive.CanTransitionTo(st) {
			return patch, domain.Invalid("status can only change to closed or cancelled")
		}
		now := time.Now().UTC()
		patch.Status = &st
		patch.ClosedAt = &now
	}
	if patch.Empty() {
		return patch, domain.Invalid("no fields to update")
	}
	return patch, nil
}
