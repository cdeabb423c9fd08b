package entity

// MarketerStatus estado del referidor.
type MarketerStatus string

const (
	MarketerStatusActive   MarketerStatus = "active"
	MarketerStatusInactive MarketerStatus = "inactive"
)

// Marketer referidor opcional de un cierre.
type Marketer struct {
	ID         string
	UserID     string
	FullName   string
	Email      string
	Status     MarketerStatus
	UserStatus UserStatus
}

// Active indica si puede asociarse a un cierre nuevo.
func (m *Marketer) Active() bool {
	return m.Status == MarketerStatusActive && m.UserStatus == UserStatusActive
}
