package api

import (
	"time"

	"github.com/shopspring/decimal"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/user"
)

type registerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Profession  string `json:"profession"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Profession  string `json:"profession"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type earningRequest struct {
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	SourceID      *int64          `json:"sourceId"`
	EarningType   string          `json:"earningType"`
	PaymentMethod string          `json:"paymentMethod"`
}

type expenseRequest struct {
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"paymentMethod"`
}

type sourceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type userResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Profession  string     `json:"profession,omitempty"`
	Role        user.Role  `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func newUserResponse(u user.Record) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Profession:  u.Profession,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

type earningResponse struct {
	ID            int64                `json:"id"`
	Date          string               `json:"date"`
	Amount        decimal.Decimal      `json:"amount"`
	SourceID      *int64               `json:"sourceId,omitempty"`
	SourceName    string               `json:"sourceName"`
	EarningType   record.EarningType   `json:"earningType"`
	PaymentMethod record.PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func newEarningResponse(e record.Earning) earningResponse {
	return earningResponse{
		ID:            e.ID,
		Date:          e.Date.Format(dateLayout),
		Amount:        e.Amount,
		SourceID:      e.SourceID,
		SourceName:    e.Source(),
		EarningType:   e.Type,
		PaymentMethod: e.PaymentMethod,
		CreatedAt:     e.CreatedAt,
	}
}

type expenseResponse struct {
	ID            int64                `json:"id"`
	Date          string               `json:"date"`
	Amount        decimal.Decimal      `json:"amount"`
	Category      record.Category      `json:"category"`
	PaymentMethod record.PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func newExpenseResponse(e record.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		Date:          e.Date.Format(dateLayout),
		Amount:        e.Amount,
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		CreatedAt:     e.CreatedAt,
	}
}

type sourceResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func mapSlice[T, R any](items []T, convert func(T) R) []R {
	res := make([]R, 0, len(items))
	for _, item := range items {
		res = append(res, convert(item))
	}
	return res
}
