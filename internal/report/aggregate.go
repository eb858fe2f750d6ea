package report

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

// FlowKind selects the record kind of a flow report.
type FlowKind string

// Flow kinds.
const (
	FlowExpense FlowKind = "expense"
	FlowIncome  FlowKind = "income"
)

// FilterAll labels an unfiltered report.
const FilterAll = "All"

// Overview statuses.
const (
	StatusSurplus = "Surplus"
	StatusDeficit = "Deficit"
)

// FlowReport is a total and label breakdown of one record kind. Labels with
// no records are absent from Breakdown.
type FlowReport struct {
	Kind      FlowKind
	Period    Range
	Filter    string
	Total     decimal.Decimal
	Breakdown map[string]decimal.Decimal
	Expenses  []models.Expense
	Incomes   []models.Income
}

// MarshalJSON names fields after the record kind.
func (r FlowReport) MarshalJSON() ([]byte, error) {
	if r.Kind == FlowIncome {
		return json.Marshal(struct {
			Period          Range                      `json:"period"`
			FilterSource    string                     `json:"filterSource"`
			TotalIncome     decimal.Decimal            `json:"totalIncome"`
			IncomeBySource  map[string]decimal.Decimal `json:"incomeBySource"`
			DetailedIncomes []models.Income            `json:"detailedIncomes"`
		}{r.Period, r.Filter, r.Total, r.Breakdown, r.Incomes})
	}
	return json.Marshal(struct {
		Period             Range                      `json:"period"`
		FilterCategory     string                     `json:"filterCategory"`
		TotalExpenses      decimal.Decimal            `json:"totalExpenses"`
		ExpensesByCategory map[string]decimal.Decimal `json:"expensesByCategory"`
		DetailedExpenses   []models.Expense           `json:"detailedExpenses"`
	}{r.Period, r.Filter, r.Total, r.Breakdown, r.Expenses})
}

// BudgetLine is one budget reconciled against its spend.
type BudgetLine struct {
	BudgetID        int64           `json:"id"`
	Category        models.Category `json:"category"`
	BudgetedAmount  decimal.Decimal `json:"budgetedAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	IsExceeded      bool            `json:"isExceeded"`
	BudgetPeriod    Range           `json:"budgetPeriod"`
}

// BudgetReport is the budget adherence report.
type BudgetReport struct {
	Period           Range           `json:"period"`
	FilterCategory   string          `json:"filterCategory"`
	TotalBudgeted    decimal.Decimal `json:"totalBudgeted"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	OverallRemaining decimal.Decimal `json:"overallRemaining"`
	BudgetSummary    []BudgetLine    `json:"budgetSummary"`
}

// BudgetStatus is the budget dashboard summary.
type BudgetStatus struct {
	Period          Range           `json:"period"`
	TotalBudgeted   decimal.Decimal `json:"totalBudgeted"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	RemainingBudget decimal.Decimal `json:"remainingBudget"`
	BudgetDetails   []BudgetLine    `json:"budgetDetails"`
	BudgetsCount    int             `json:"budgetsCount"`
}

// Overview compares income with expenses.
type Overview struct {
	Period        Range           `json:"period"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetSavings    decimal.Decimal `json:"netSavings"`
	Status        string          `json:"status"`
}

// StatusFor is Surplus for a non-negative net and Deficit otherwise.
func StatusFor(net decimal.Decimal) string {
	if net.IsNegative() {
		return StatusDeficit
	}
	return StatusSurplus
}

// Aggregate sums amounts overall and per label.
func Aggregate[T any](records []T, amount func(T) decimal.Decimal, label func(T) string) (decimal.Decimal, map[string]decimal.Decimal) {
	total := decimal.Zero
	byLabel := make(map[string]decimal.Decimal)
	for _, r := range records {
		a := amount(r)
		total = total.Add(a)
		key := label(r)
		if existing, ok := byLabel[key]; ok {
			byLabel[key] = existing.Add(a)
		} else {
			byLabel[key] = a
		}
	}
	return total, byLabel
}

// SpentWithin sums expenses of b's category dated inside b's own period.
func SpentWithin(b models.Budget, expenses []models.Expense) decimal.Decimal {
	window := Range{Start: b.StartDate, End: b.EndDate}
	spent := decimal.Zero
	for _, x := range expenses {
		if x.Category == b.Category && window.Contains(x.Date) {
			spent = spent.Add(x.Amount)
		}
	}
	return spent
}

// Reconcile computes one line per budget and the totals across them. Each
// budget is attributed independently, so two overlapping budgets of the same
// category both count a shared expense toward totalSpent.
func Reconcile(budgets []models.Budget, expenses []models.Expense) (lines []BudgetLine, totalBudgeted, totalSpent decimal.Decimal) {
	lines = make([]BudgetLine, 0, len(budgets))
	totalBudgeted, totalSpent = decimal.Zero, decimal.Zero

	for _, b := range budgets {
		spent := SpentWithin(b, expenses)
		lines = append(lines, BudgetLine{
			BudgetID:        b.ID,
			Category:        b.Category,
			BudgetedAmount:  b.Amount,
			SpentAmount:     spent,
			RemainingAmount: b.Amount.Sub(spent),
			IsExceeded:      spent.GreaterThan(b.Amount),
			BudgetPeriod:    Range{Start: b.StartDate, End: b.EndDate},
		})
		totalBudgeted = totalBudgeted.Add(b.Amount)
		totalSpent = totalSpent.Add(spent)
	}
	return lines, totalBudgeted, totalSpent
}
