package domain

// User is the recipient side of threshold notifications.
type User struct {
	UserID string `json:"userID"` // Primary Key (UUID)
	Name   string `json:"name"`
	Email  string `json:"email"`
	AuditFields
}
