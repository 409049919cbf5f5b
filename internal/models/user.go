package models

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTechnical Role = "technical"
	RoleClient    Role = "client"
	RoleVendor    Role = "vendor"
	RoleFinance   Role = "finance"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleTechnical, RoleClient, RoleVendor, RoleFinance:
		return true
	default:
		return false
	}
}

type User struct {
	Id        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	Role      Role      `db:"role" json:"role"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"fullName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
