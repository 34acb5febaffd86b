package models

type Role string

const (
	RoleAcademy Role = "ACADEMY"
	RoleStudent Role = "STUDENT"
)

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PassHash []byte `json:"pass_hash"`
	Role     Role   `json:"role"`
}

type ctxKey string

const UserContextKey ctxKey = "user"
