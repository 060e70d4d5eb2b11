package summary

import (
	"time"

	"github.com/shopspring/decimal"
)

type Overview struct {
	TotalEarnings         decimal.Decimal            `json:"totalEarnings"`
	TotalExpenses         decimal.Decimal            `json:"totalExpenses"`
	NetIncome             decimal.Decimal            `json:"netIncome"`
	AverageEarningsPerDay decimal.Decimal            `json:"averageEarningsPerDay"`
	AverageExpensesPerDay decimal.Decimal            `json:"averageExpensesPerDay"`
	EarningsBySource      map[string]decimal.Decimal `json:"earningsBySource"`
	ExpensesByCategory    map[string]decimal.Decimal `json:"expensesByCategory"`
	WeeklyTrends          []TrendPoint               `json:"weeklyTrends"`
	MonthlyTrends         []TrendPoint               `json:"monthlyTrends"`
}

type Daily struct {
	Date          time.Time       `json:"date"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	EarningsCount int             `json:"earningsCount"`
	ExpensesCount int             `json:"expensesCount"`
}

// TrendPoint is one week or month of aggregated amounts. Date is the first day of the period.
type TrendPoint struct {
	Date      time.Time       `json:"date"`
	Earnings  decimal.Decimal `json:"earnings"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetIncome decimal.Decimal `json:"netIncome"`
}
