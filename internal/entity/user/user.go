package user

import (
	"time"
)

type Role string

const (
	DailyEarner Role = "DailyEarner"
	Admin       Role = "Admin"
)

type Record struct {
	ID           int64
	TelegramID   *int64
	Name         string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Profession   string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}
