package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	BaseSimple
	Username     string
	PasswordHash string
	Role         UserRole
}
