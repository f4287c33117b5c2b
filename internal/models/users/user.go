package models

type User struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at,omitempty"`
}
