// Package models defines the domain entities for the finance tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the display currency for new users.
const DefaultCurrency = "INR"

// Field length limits.
const (
	MaxExpenseDescriptionLength = 200
	MaxIncomeDescriptionLength  = 500
	MaxIncomeSourceLength       = 100
	MaxGoalNameLength           = 100
	MaxGoalDescriptionLength    = 500
	MinPasswordLength           = 6
)

// SupportedCurrencies lists all supported currency codes with their symbols.
// Currency is a display preference only; amounts are never converted.
var SupportedCurrencies = map[string]string{
	"INR": "₹",
	"SGD": "S$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"MYR": "RM",
	"THB": "฿",
	"IDR": "Rp",
	"PHP": "₱",
	"VND": "₫",
	"KRW": "₩",
	"AUD": "A$",
	"NZD": "NZ$",
	"HKD": "HK$",
	"TWD": "NT$",
}

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	CurrencyPreference string    `json:"currencyPreference"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Expense is a single outgoing payment.
type Expense struct {
	ID                 int64           `json:"id"`
	UserID             int64           `json:"userId"`
	Amount             decimal.Decimal `json:"amount"`
	Category           Category        `json:"category"`
	Description        string          `json:"description"`
	Date               time.Time       `json:"date"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringFrequency *Frequency      `json:"recurringFrequency"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Income is a single incoming payment. Source is free text.
type Income struct {
	ID                 int64           `json:"id"`
	UserID             int64           `json:"userId"`
	Amount             decimal.Decimal `json:"amount"`
	Source             string          `json:"source"`
	Description        string          `json:"description"`
	Date               time.Time       `json:"date"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringFrequency *Frequency      `json:"recurringFrequency"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Budget caps spending for one category over one explicit period.
type Budget struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Category  Category        `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Goal is a savings target.
type Goal struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	SavedAmount  decimal.Decimal `json:"savedAmount"`
	TargetDate   time.Time       `json:"targetDate"`
	Description  string          `json:"description"`
	IsCompleted  bool            `json:"isCompleted"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Progress returns saved/target as a percentage capped at 100.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return pct
}
