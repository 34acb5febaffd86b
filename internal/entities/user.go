package entities

type User struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	PassHash []byte `db:"pass_hash"`
	Role     string `db:"role"`
}
