package models

// User represents a row of the users table.
type User struct {
	UserID string `db:"user_id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
	AuditFields
}
