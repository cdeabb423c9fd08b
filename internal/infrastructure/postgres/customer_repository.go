package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.MarketerRepository = (*MarketerRepo)(nil)
)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene el cliente con nombre, email y estado de su cuenta de usuario.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `
		SELECT c.customer_id, c.user_id, u.full_name, u.email,
		       COALESCE(c.contact_number, ''), COALESCE(c.cnic, ''), COALESCE(c.city, ''), COALESCE(c.address, ''),
		       c.status, u.status, COALESCE(c.created_by::text, ''), c.created_at, c.updated_at
		FROM customers c
		JOIN users u ON u.user_id = c.user_id
		WHERE c.customer_id = $1`
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.FullName, &c.Email,
		&c.ContactNumber, &c.CNIC, &c.City, &c.Address,
		&c.Status, &c.UserStatus, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// MarketerRepo implementación de MarketerRepository.
type MarketerRepo struct {
	q Querier
}

// NewMarketerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMarketerRepository(q Querier) *MarketerRepo {
	return &MarketerRepo{q: q}
}

// GetByID obtiene el referidor junto con el estado de su cuenta de usuario.
func (r *MarketerRepo) GetByID(ctx context.Context, id string) (*entity.Marketer, error) {
	query := `
		SELECT m.marketer_id, m.user_id, u.full_name, u.email, m.status, u.status
		FROM marketers m
		JOIN users u ON u.user_id = m.user_id
		WHERE m.marketer_id = $1`
	var m entity.Marketer
	err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.UserID, &m.FullName, &m.Email, &m.Status, &m.UserStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get marketer: %w", err)
	}
	return &m, nil
}
