package closing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
)

// RecordPaymentUseCase registra un abono contra el total adeudado de un cierre.
type RecordPaymentUseCase struct {
	tx      TxRunner
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewRecordPaymentUseCase construye el caso de uso.
func NewRecordPaymentUseCase(tx TxRunner, log *logger.Logger, m *metrics.Metrics) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{tx: tx, log: log.Named("payment"), metrics: m}
}

// Execute incrementa amount_paid en el motor y guarda el abono en la misma transacción.
// El saldo pendiente no se guarda: se deriva al leer.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, actor entity.Actor, closingID string, req dto.RecordPaymentRequest) error {
	if !actor.CanManageClosings() {
		return domain.ErrForbidden
	}
	if !domain.ValidID(closingID) {
		return domain.ErrNotFound
	}
	if !domain.ValidAmount(req.Amount) {
		return domain.Invalid("amount must be greater than 0, below %s, with at most 2 decimals", domain.MaxAmount)
	}
	method, err := entity.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if err != nil {
		return domain.Invalid("%s", err.Error())
	}

	payment := &entity.ClosingPayment{
		ID:          uuid.New().String(),
		ClosingID:   closingID,
		Amount:      req.Amount,
		Method:      method,
		ReferenceNo: strings.TrimSpace(req.ReferenceNo),
		Notes:       strings.TrimSpace(req.Notes),
		RecordedBy:  actor.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	err = uc.tx.RunClosing(ctx, func(
		_ repository.DeviceRepository,
		_ repository.CustomerRepository,
		_ repository.MarketerRepository,
		closings repository.ClosingRepository,
		payments repository.ClosingPaymentRepository,
	) error {
		updated, err := closings.AddPayment(ctx, closingID, req.Amount)
		if err != nil {
			return err
		}
		if !updated {
			c, err := closings.GetByID(ctx, closingID)
			if err != nil {
				return err
			}
			if c == nil {
				return domain.ErrNotFound
			}
			return domain.ErrClosingNotActive
		}
		return payments.Create(ctx, payment)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("smd_closing_id", closingID).Msg("abono rechazado")
		return err
	}

	uc.metrics.PaymentsRecorded.Inc()
	uc.log.Info().
		Str("smd_closing_id", closingID).
		Str("amount", req.Amount.String()).
		Str("actor", actor.UserID).
		Msg("abono registrado")
	return nil
}
