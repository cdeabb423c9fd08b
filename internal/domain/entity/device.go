package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeviceStatus ciclo de vida de un SMD.
type DeviceStatus string

const (
	DeviceStatusActive  DeviceStatus = "active"
	DeviceStatusRemoved DeviceStatus = "removed"
)

// Device representa un SMD arrendable (tabla smds). Lo administra el CRUD de dispositivos.
type Device struct {
	ID            string
	Code          string
	Title         string
	City          string
	Area          string
	Address       string
	PurchasePrice decimal.Decimal
	SellPrice     decimal.Decimal
	MonthlyPayout decimal.Decimal
	IsActive      bool
	Status        DeviceStatus
	OwnerUserID   string
	AddedBy       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Available indica si el SMD puede recibir nuevos cierres (no dado de baja).
func (d *Device) Available() bool {
	return d.IsActive && d.Status == DeviceStatusActive
}
