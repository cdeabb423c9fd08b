package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

var (
	_ repository.ReportRepository   = (*Reports)(nil)
	_ repository.CustomerRepository = (*Reports)(nil)
)

// Reports lecturas fuera de transacción. También sirve de CustomerRepository para reporting.
type Reports struct {
	s *Store
}

// Reports devuelve el repositorio de solo lectura sobre el store.
func (s *Store) Reports() *Reports {
	return &Reports{s: s}
}

func (r *Reports) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return customerRepo{&txRepos{st: r.s.st}}.GetByID(ctx, id)
}

func (r *Reports) ListClosings(_ context.Context, f repository.ClosingFilter) ([]repository.ClosingRow, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := r.s.st

	search := strings.ToLower(f.Search)
	var rows []repository.ClosingRow
	for _, c := range st.closings {
		switch {
		case f.DeviceID != "" && c.DeviceID != f.DeviceID,
			f.CustomerID != "" && c.CustomerID != f.CustomerID,
			f.MarketerID != "" && (c.MarketerID == nil || *c.MarketerID != f.MarketerID),
			f.Status != "" && c.Status != f.Status:
			continue
		}
		row := st.closingRow(c)
		if search != "" && !containsFold(search, row.DeviceCode, row.CustomerName, row.MarketerName) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Closing, rows[j].Closing
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return page(rows, f.Limit, f.Offset), len(rows), nil
}

func (r *Reports) GetClosing(_ context.Context, id string) (*repository.ClosingRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.closings[id]
	if !ok {
		return nil, nil
	}
	row := r.s.st.closingRow(c)
	return &row, nil
}

func (r *Reports) ListPayments(_ context.Context, closingID string) ([]*entity.ClosingPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ClosingPayment
	for _, p := range r.s.st.payments {
		if p.ClosingID == closingID {
			p := p
			out = append(out, &p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Reports) ListPayouts(_ context.Context, f repository.PayoutFilter) ([]repository.PayoutRow, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := r.s.st

	var rows []repository.PayoutRow
	for _, p := range st.payouts {
		row := st.payoutRow(p)
		switch {
		case f.Status != "" && p.Status != f.Status,
			f.ClosingID != "" && p.ClosingID != f.ClosingID,
			f.CustomerID != "" && row.CustomerID != f.CustomerID,
			f.DeviceID != "" && row.DeviceID != f.DeviceID,
			f.Month != nil && p.Month != *f.Month:
			continue
		}
		rows = append(rows, row)
	}
	sortPayouts(rows)
	return page(rows, f.Limit, f.Offset), len(rows), nil
}

func (r *Reports) ListPayoutsByClosings(_ context.Context, closingIDs []string) ([]repository.PayoutRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]bool, len(closingIDs))
	for _, id := range closingIDs {
		want[id] = true
	}
	var rows []repository.PayoutRow
	for _, p := range r.s.st.payouts {
		if want[p.ClosingID] {
			rows = append(rows, r.s.st.payoutRow(p))
		}
	}
	sortPayouts(rows)
	return rows, nil
}

func (st *state) closingRow(c entity.Closing) repository.ClosingRow {
	d := st.devices[c.DeviceID]
	cu := st.customers[c.CustomerID]
	row := repository.ClosingRow{
		Closing:       c,
		DeviceCode:    d.Code,
		DeviceTitle:   d.Title,
		DeviceCity:    d.City,
		DeviceArea:    d.Area,
		CustomerName:  cu.FullName,
		CustomerEmail: cu.Email,
		ContactNumber: cu.ContactNumber,
		ClosedByName:  st.users[c.ClosedBy],
	}
	if c.MarketerID != nil {
		m := st.marketers[*c.MarketerID]
		row.MarketerName = m.FullName
		row.MarketerEmail = m.Email
	}
	return row
}

func (st *state) payoutRow(p entity.RentPayout) repository.PayoutRow {
	c := st.closings[p.ClosingID]
	d := st.devices[c.DeviceID]
	cu := st.customers[c.CustomerID]
	return repository.PayoutRow{
		Payout:        p,
		CustomerID:    c.CustomerID,
		CustomerName:  cu.FullName,
		CustomerEmail: cu.Email,
		DeviceID:      c.DeviceID,
		DeviceCode:    d.Code,
		DeviceTitle:   d.Title,
		PaidByName:    st.users[p.PaidBy],
	}
}

func sortPayouts(rows []repository.PayoutRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Payout, rows[j].Payout
		if !a.Month.Date().Equal(b.Month.Date()) {
			return a.Month.Date().After(b.Month.Date())
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func page[T any](rows []T, limit, offset int) []T {
	if offset < 0 || offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
