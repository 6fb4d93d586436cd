package models

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTalent Role = "talent"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTalent
}

type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
