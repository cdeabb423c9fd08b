package payout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
)

// notifyTimeout límite del envío del aviso en segundo plano.
const notifyTimeout = 30 * time.Second

// RecordPayoutUseCase registra la liquidación de renta de un mes para un cierre activo.
type RecordPayoutUseCase struct {
	tx       TxRunner
	notifier Notifier
	log      *logger.Logger
	metrics  *metrics.Metrics
	// async false en tests: el aviso se envía antes de volver.
	async   bool
	pending sync.WaitGroup
}

// NewRecordPayoutUseCase construye el caso de uso. notifier nil equivale a NopNotifier.
func NewRecordPayoutUseCase(tx TxRunner, notifier Notifier, log *logger.Logger, m *metrics.Metrics) *RecordPayoutUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &RecordPayoutUseCase{tx: tx, notifier: notifier, log: log.Named("payout"), metrics: m, async: true}
}

// WithSyncNotify envía el aviso en la misma goroutine (tests y herramientas).
func (uc *RecordPayoutUseCase) WithSyncNotify() *RecordPayoutUseCase {
	uc.async = false
	return uc
}

type payoutTarget struct {
	closingID  string
	deviceID   string
	customerID string
}

// Execute resuelve el cierre, verifica al cliente e inserta la liquidación en una transacción.
// Un segundo registro del mismo mes devuelve domain.ErrDuplicatePayout.
func (uc *RecordPayoutUseCase) Execute(ctx context.Context, actor entity.Actor, req dto.CreatePayoutRequest) (*dto.CreatePayoutResponse, error) {
	if !actor.CanManageClosings() {
		return nil, domain.ErrForbidden
	}
	target, month, err := validatePayout(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &entity.RentPayout{
		ID:        uuid.New().String(),
		Month:     month,
		Amount:    req.Amount,
		Status:    entity.PayoutStatusPaid,
		PaidBy:    actor.UserID,
		PaidAt:    now,
		CreatedAt: now,
	}
	var notice Notice

	err = uc.tx.RunPayout(ctx, func(
		closings repository.ClosingRepository,
		customers repository.CustomerRepository,
		payouts repository.PayoutRepository,
	) error {
		c, err := resolveClosing(ctx, closings, target)
		if err != nil {
			return err
		}
		customer, err := customers.GetByID(ctx, c.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || !customer.Eligible() {
			return domain.ErrIneligible
		}

		p.ClosingID = c.ID
		if err := payouts.Create(ctx, p); err != nil {
			return err
		}
		notice = Notice{
			PayoutID:      p.ID,
			ClosingID:     c.ID,
			DeviceID:      c.DeviceID,
			CustomerName:  customer.FullName,
			CustomerEmail: customer.Email,
			Month:         month,
			Amount:        p.Amount,
			PaidAt:        p.PaidAt,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePayout) {
			uc.metrics.PayoutConflicts.Inc()
			uc.log.Warn().Str("smd_closing_id", p.ClosingID).Str("payout_month", month.String()).Msg("liquidación duplicada")
		}
		return nil, err
	}

	uc.metrics.PayoutsRecorded.Inc()
	uc.log.Info().
		Str("payout_id", p.ID).
		Str("smd_closing_id", p.ClosingID).
		Str("payout_month", month.String()).
		Str("actor", actor.UserID).
		Msg("liquidación registrada")

	if uc.async {
		uc.pending.Add(1)
		go func() {
			defer uc.pending.Done()
			uc.notify(notice)
		}()
	} else {
		uc.notify(notice)
	}

	return &dto.CreatePayoutResponse{PayoutID: p.ID, SMDClosingID: p.ClosingID, PayoutMonth: month.String()}, nil
}

// Wait espera los avisos en curso o hasta que ctx termine. Se llama durante el apagado.
func (uc *RecordPayoutUseCase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *RecordPayoutUseCase) notify(n Notice) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := uc.notifier.PayoutRecorded(ctx, n); err != nil {
		uc.metrics.NotificationErrors.Inc()
		uc.log.Warn().Err(err).Str("payout_id", n.PayoutID).Msg("aviso de liquidación no enviado")
	}
}

// resolveClosing obtiene el cierre activo por id o por el par (SMD, cliente).
// En ambos casos la fila queda bloqueada y el estado se lee después del lock.
func resolveClosing(ctx context.Context, closings repository.ClosingRepository, t payoutTarget) (*entity.Closing, error) {
	id := t.closingID
	if id == "" {
		list, err := closings.FindActiveByDeviceAndCustomer(ctx, t.deviceID, t.customerID)
		if err != nil {
			return nil, err
		}
		switch len(list) {
		case 0:
			return nil, fmt.Errorf("%w: no active closing for this SMD and customer", domain.ErrNotFound)
		case 1:
			id = list[0].ID
		default:
			return nil, domain.ErrAmbiguousContract
		}
	}
	c, err := closings.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Status != entity.ClosingStatusActive {
		return nil, fmt.Errorf("%w: no active closing %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func validatePayout(req dto.CreatePayoutRequest) (payoutTarget, entity.PayoutMonth, error) {
	t := payoutTarget{
		closingID:  strings.TrimSpace(req.SMDClosingID),
		deviceID:   strings.TrimSpace(req.SMDID),
		customerID: strings.TrimSpace(req.CustomerID),
	}
	byPair := t.deviceID != "" || t.customerID != ""
	switch {
	case t.closingID != "" && byPair:
		return t, entity.PayoutMonth{}, domain.Invalid("send either smd_closing_id or smd_id with customer_id, not both")
	case t.closingID != "":
		if !domain.ValidID(t.closingID) {
			return t, entity.PayoutMonth{}, domain.Invalid("smd_closing_id is not a valid id")
		}
	case t.deviceID == "" || t.customerID == "":
		return t, entity.PayoutMonth{}, domain.Invalid("smd_closing_id or both smd_id and customer_id are required")
	case !domain.ValidID(t.deviceID) || !domain.ValidID(t.customerID):
		return t, entity.PayoutMonth{}, domain.Invalid("smd_id and customer_id must be valid ids")
	}

	if strings.TrimSpace(req.PayoutMonth) == "" {
		return t, entity.PayoutMonth{}, domain.Invalid("payout_month is required")
	}
	month, err := entity.ParsePayoutMonth(req.PayoutMonth)
	if err != nil {
		return t, entity.PayoutMonth{}, domain.Invalid("%s", err.Error())
	}
	if !domain.ValidAmount(req.Amount) {
		return t, entity.PayoutMonth{}, domain.Invalid("amount must be greater than 0, below %s, with at most 2 decimals", domain.MaxAmount)
	}
	return t, month, nil
}
