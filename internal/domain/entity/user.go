package entity

// Roles válidos en el token del actor.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleUser     = "user"
	RoleCustomer = "customer"
)

// UserStatus estado de la cuenta de usuario (tabla users).
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// Actor identidad autenticada que ejecuta una operación (la produce el servicio de auth).
type Actor struct {
	UserID string
	Role   string
}

// CanManageClosings informa si el rol puede crear cierres, pagos y liquidaciones.
func (a Actor) CanManageClosings() bool {
	return a.UserID != "" && (a.Role == RoleAdmin || a.Role == RoleStaff)
}
