package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/smd-api/internal/domain/entity"
)

// SeedUser registra un usuario con id nuevo y lo devuelve.
func (s *Store) SeedUser(name string) string {
	id := uuid.New().String()
	s.AddUser(id, name)
	return id
}

// SeedDevice registra un SMD activo con el código dado.
func (s *Store) SeedDevice(code string) string {
	now := time.Now().UTC()
	d := entity.Device{
		ID:            uuid.New().String(),
		Code:          code,
		Title:         "SMD " + code,
		City:          "Lahore",
		Area:          "Gulberg",
		PurchasePrice: decimal.NewFromInt(400000),
		SellPrice:     decimal.NewFromInt(500000),
		MonthlyPayout: decimal.NewFromInt(20000),
		IsActive:      true,
		Status:        entity.DeviceStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.AddDevice(d)
	return d.ID
}

// SeedCustomer registra un cliente elegible (perfil y usuario activos).
func (s *Store) SeedCustomer(name, email string) string {
	now := time.Now().UTC()
	userID := s.SeedUser(name)
	c := entity.Customer{
		ID:         uuid.New().String(),
		UserID:     userID,
		FullName:   name,
		Email:      email,
		Status:     entity.CustomerStatusActive,
		UserStatus: entity.UserStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.AddCustomer(c)
	return c.ID
}

// SeedMarketer registra un referidor activo.
func (s *Store) SeedMarketer(name string) string {
	m := entity.Marketer{
		ID:         uuid.New().String(),
		UserID:     s.SeedUser(name),
		FullName:   name,
		Status:     entity.MarketerStatusActive,
		UserStatus: entity.UserStatusActive,
	}
	s.AddMarketer(m)
	return m.ID
}
