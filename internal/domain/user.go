package domain

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is a staff account. Shoppers never log in.
type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
