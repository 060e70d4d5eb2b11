package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// OtherSource is the source name earnings without a source are reported under.
const OtherSource = "Other"

type Earning struct {
	ID            int64
	UserID        int64
	Date          time.Time
	Amount        decimal.Decimal
	SourceID      *int64
	SourceName    string
	Type          EarningType
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

// Source returns the source name, falling back to OtherSource.
func (e *Earning) Source() string {
	if e.SourceName != "" {
		return e.SourceName
	}
	return OtherSource
}

type Expense struct {
	ID            int64
	UserID        int64
	Date          time.Time
	Amount        decimal.Decimal
	Category      Category
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

type Source struct {
	ID          int64
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// Day truncates t to its calendar day. The wall-clock date is kept as is,
// the location is dropped.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
