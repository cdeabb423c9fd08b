package entity

import "time"

// CustomerStatus estado del perfil de cliente.
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusSuspended CustomerStatus = "suspended"
	CustomerStatusDeleted   CustomerStatus = "deleted"
)

// Customer persona que puede tener participación en SMDs. Nombre y email viven en users.
type Customer struct {
	ID            string
	UserID        string
	FullName      string
	Email         string
	ContactNumber string
	CNIC          string
	City          string
	Address       string
	Status        CustomerStatus
	UserStatus    UserStatus
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Eligible: tanto la cuenta de usuario como el perfil deben estar activos.
func (c *Customer) Eligible() bool {
	return c.Status == CustomerStatusActive && c.UserStatus == UserStatusActive
}
