package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Category is the closed set of spending categories shared by expenses and
// budgets.
type Category string

// Categories.
const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryUtilities     Category = "Utilities"
	CategoryRent          Category = "Rent"
	CategoryEntertainment Category = "Entertainment"
	CategoryGroceries     Category = "Groceries"
	CategoryShopping      Category = "Shopping"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategorySalary        Category = "Salary"
	CategoryBills         Category = "Bills"
	CategoryTravel        Category = "Travel"
	CategoryOthers        Category = "Others"

	// CategoryAll is the budget-only sentinel for an overall budget.
	CategoryAll Category = "All Categories"
)

var spendingCategories = []Category{
	CategoryFood, CategoryTransport, CategoryUtilities, CategoryRent,
	CategoryEntertainment, CategoryGroceries, CategoryShopping, CategoryHealthcare,
	CategoryEducation, CategorySalary, CategoryBills, CategoryTravel,
}

// ExpenseCategories returns the categories an expense may use.
func ExpenseCategories() []Category {
	return append(slices.Clone(spendingCategories), CategoryOthers)
}

// BudgetCategories returns the categories a budget may use.
func BudgetCategories() []Category {
	return append(slices.Clone(spendingCategories), CategoryAll)
}

// ValidForExpense reports whether c may be set on an expense.
func (c Category) ValidForExpense() bool {
	return slices.Contains(ExpenseCategories(), c)
}

// ValidForBudget reports whether c may be set on a budget.
func (c Category) ValidForBudget() bool {
	return slices.Contains(BudgetCategories(), c)
}

// IsAll reports whether c is the "All Categories" sentinel.
func (c Category) IsAll() bool {
	return c == CategoryAll
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches s case-insensitively against every known category,
// including the sentinel.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range BudgetCategories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	if strings.EqualFold(string(CategoryOthers), s) {
		return CategoryOthers, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Frequency is how often a recurring record repeats.
type Frequency string

// Frequencies.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// UnmarshalJSON normalizes case so "Monthly" and "monthly" are the same.
func (f *Frequency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Frequency(strings.ToLower(strings.TrimSpace(s)))
	return nil
}
