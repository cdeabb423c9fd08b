package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

// txRepos acceso al estado dentro de una transacción (el lock ya está tomado).
type txRepos struct {
	st *state
}

type (
	deviceRepo   struct{ *txRepos }
	customerRepo struct{ *txRepos }
	marketerRepo struct{ *txRepos }
	closingRepo  struct{ *txRepos }
	paymentRepo  struct{ *txRepos }
	payoutRepo   struct{ *txRepos }
)

var (
	_ repository.DeviceRepository         = deviceRepo{}
	_ repository.CustomerRepository       = customerRepo{}
	_ repository.MarketerRepository       = marketerRepo{}
	_ repository.ClosingRepository        = closingRepo{}
	_ repository.ClosingPaymentRepository = paymentRepo{}
	_ repository.PayoutRepository         = payoutRepo{}
)

func (r deviceRepo) GetByID(_ context.Context, id string) (*entity.Device, error) {
	d, ok := r.st.devices[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// GetForUpdate igual que GetByID: la transacción ya tiene acceso exclusivo.
func (r deviceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Device, error) {
	return r.GetByID(ctx, id)
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r marketerRepo) GetByID(_ context.Context, id string) (*entity.Marketer, error) {
	m, ok := r.st.marketers[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r closingRepo) Create(_ context.Context, c *entity.Closing) error {
	if _, ok := r.st.closings[c.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.st.devices[c.DeviceID]; !ok {
		return fmt.Errorf("%w: smd %s", domain.ErrNotFound, c.DeviceID)
	}
	if _, ok := r.st.customers[c.CustomerID]; !ok {
		return fmt.Errorf("%w: customer %s", domain.ErrNotFound, c.CustomerID)
	}
	r.st.closings[c.ID] = *c
	return nil
}

func (r closingRepo) GetByID(_ context.Context, id string) (*entity.Closing, error) {
	c, ok := r.st.closings[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r closingRepo) GetForUpdate(ctx context.Context, id string) (*entity.Closing, error) {
	return r.GetByID(ctx, id)
}

func (r closingRepo) SumActiveShare(_ context.Context, deviceID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range r.st.closings {
		if c.DeviceID == deviceID && c.Status == entity.ClosingStatusActive {
			sum = sum.Add(c.SharePercentage)
		}
	}
	return sum, nil
}

func (r closingRepo) FindActiveByDeviceAndCustomer(_ context.Context, deviceID, customerID string) ([]*entity.Closing, error) {
	var out []*entity.Closing
	for _, c := range r.st.closings {
		if c.DeviceID == deviceID && c.CustomerID == customerID && c.Status == entity.ClosingStatusActive {
			c := c
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r closingRepo) AddPayment(_ context.Context, id string, amount decimal.Decimal) (bool, error) {
	c, ok := r.st.closings[id]
	if !ok || c.Status != entity.ClosingStatusActive {
		return false, nil
	}
	paid := c.AmountPaid.Add(amount)
	if !paid.LessThan(domain.MaxAmount) {
		return false, domain.Invalid("amount_paid would exceed %s", domain.MaxAmount)
	}
	c.AmountPaid = paid
	c.UpdatedAt = time.Now().UTC()
	r.st.closings[id] = c
	return true, nil
}

func (r closingRepo) Update(_ context.Context, id string, patch repository.ClosingPatch) error {
	if patch.Empty() {
		return nil
	}
	c, ok := r.st.closings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if patch.MonthlyRent != nil {
		c.MonthlyRent = *patch.MonthlyRent
	}
	if patch.MarketerID != nil {
		if *patch.MarketerID == "" {
			c.MarketerID = nil
		} else {
			if _, ok := r.st.marketers[*patch.MarketerID]; !ok {
				return domain.ErrInvalidMarketer
			}
			m := *patch.MarketerID
			c.MarketerID = &m
		}
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.ClosedAt != nil {
		t := *patch.ClosedAt
		c.ClosedAt = &t
	}
	c.UpdatedAt = time.Now().UTC()
	r.st.closings[id] = c
	return nil
}

func (r paymentRepo) Create(_ context.Context, p *entity.ClosingPayment) error {
	if _, ok := r.st.closings[p.ClosingID]; !ok {
		return domain.ErrNotFound
	}
	r.st.payments = append(r.st.payments, *p)
	return nil
}

func (r payoutRepo) Create(_ context.Context, p *entity.RentPayout) error {
	if _, ok := r.st.closings[p.ClosingID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.st.payouts {
		if existing.ClosingID == p.ClosingID && existing.Month == p.Month {
			return domain.ErrDuplicatePayout
		}
	}
	r.st.payouts = append(r.st.payouts, *p)
	return nil
}
