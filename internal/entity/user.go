package entity

import "time"

// User is one account record.
type User struct {
	UserID       *string    `json:"user_id"`
	Active       *bool      `json:"active"`
	Role         *string    `json:"role"`
	SignUpSource *string    `json:"sign_up_source"`
	CreatedDate  *time.Time `json:"created_date"`
	LastLogin    *time.Time `json:"last_login"`
}

func (u User) Values() []any {
	return []any{
		deref(u.UserID),
		deref(u.Active),
		deref(u.Role),
		deref(u.SignUpSource),
		deref(u.CreatedDate),
		deref(u.LastLogin),
	}
}
