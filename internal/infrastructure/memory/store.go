// Package memory implementa los puertos de persistencia en memoria.
// Sirve para tests y demos sin PostgreSQL; las transacciones se serializan con un mutex
// y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/payout"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

var (
	_ closing.TxRunner = (*Store)(nil)
	_ payout.TxRunner  = (*Store)(nil)
)

// Store datos en memoria. El valor cero no es usable: usar NewStore.
type Store struct {
	mu sync.Mutex
	st *state
}

type state struct {
	users     map[string]string // id -> nombre
	devices   map[string]entity.Device
	customers map[string]entity.Customer
	marketers map[string]entity.Marketer
	closings  map[string]entity.Closing
	payouts   []entity.RentPayout
	payments  []entity.ClosingPayment
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: &state{
		users:     make(map[string]string),
		devices:   make(map[string]entity.Device),
		customers: make(map[string]entity.Customer),
		marketers: make(map[string]entity.Marketer),
		closings:  make(map[string]entity.Closing),
	}}
}

func (s *state) clone() *state {
	return &state{
		users:     maps.Clone(s.users),
		devices:   maps.Clone(s.devices),
		customers: maps.Clone(s.customers),
		marketers: maps.Clone(s.marketers),
		closings:  maps.Clone(s.closings),
		payouts:   append([]entity.RentPayout(nil), s.payouts...),
		payments:  append([]entity.ClosingPayment(nil), s.payments...),
	}
}

// AddUser registra un nombre de usuario (closed_by, paid_by).
func (s *Store) AddUser(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[id] = name
}

// AddDevice registra un SMD.
func (s *Store) AddDevice(d entity.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.devices[d.ID] = d
}

// AddCustomer registra un cliente.
func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.customers[c.ID] = c
}

// AddMarketer registra un referidor.
func (s *Store) AddMarketer(m entity.Marketer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.marketers[m.ID] = m
}

// Closing copia del cierre guardado; false si no existe.
func (s *Store) Closing(id string) (entity.Closing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.closings[id]
	return c, ok
}

// Counts número de cierres, abonos y liquidaciones guardados.
func (s *Store) Counts() (closings, payments, payouts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.closings), len(s.st.payments), len(s.st.payouts)
}

// run ejecuta fn con el lock tomado; si fn falla se restaura el estado previo.
func (s *Store) run(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(s.st); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// RunClosing implementa closing.TxRunner.
func (s *Store) RunClosing(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	customers repository.CustomerRepository,
	marketers repository.MarketerRepository,
	closings repository.ClosingRepository,
	payments repository.ClosingPaymentRepository,
) error) error {
	return s.run(ctx, func(st *state) error {
		r := &txRepos{st: st}
		return fn(deviceRepo{r}, customerRepo{r}, marketerRepo{r}, closingRepo{r}, paymentRepo{r})
	})
}

// RunPayout implementa payout.TxRunner.
func (s *Store) RunPayout(ctx context.Context, fn func(
	closings repository.ClosingRepository,
	customers repository.CustomerRepository,
	payouts repository.PayoutRepository,
) error) error {
	return s.run(ctx, func(st *state) error {
		r := &txRepos{st: st}
		return fn(closingRepo{r}, customerRepo{r}, payoutRepo{r})
	})
}
