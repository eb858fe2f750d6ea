package report

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/repository"
	"github.com/abhishek991-rag/PFM-Backend/internal/telemetry"
)

// ExpenseStore lists expenses.
type ExpenseStore interface {
	FindMany(ctx context.Context, f repository.ExpenseFilter) ([]models.Expense, error)
}

// IncomeStore lists incomes.
type IncomeStore interface {
	FindMany(ctx context.Context, f repository.IncomeFilter) ([]models.Income, error)
}

// BudgetStore lists budgets.
type BudgetStore interface {
	FindMany(ctx context.Context, f repository.BudgetFilter) ([]models.Budget, error)
}

// Engine builds reports for one owner at a time. It holds no state between
// calls.
type Engine struct {
	expenses ExpenseStore
	incomes  IncomeStore
	budgets  BudgetStore
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
}

// NewEngine creates an Engine. metrics may be nil.
func NewEngine(expenses ExpenseStore, incomes IncomeStore, budgets BudgetStore, metrics *telemetry.Metrics) *Engine {
	return &Engine{
		expenses: expenses,
		incomes:  incomes,
		budgets:  budgets,
		metrics:  metrics,
		tracer:   otel.Tracer(telemetry.ScopeName + "/report"),
	}
}

func (e *Engine) span(ctx context.Context, name string, rng Range) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "report."+name, trace.WithAttributes(
		attribute.String("range.start", rng.Start.Format(timeLayout)),
		attribute.String("range.end", rng.End.Format(timeLayout)),
	))
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// BuildFlowReport totals an owner's expenses by category or incomes by source
// over rng. An empty label means no filter; for expenses the "All
// Categories" sentinel also means no filter.
func (e *Engine) BuildFlowReport(ctx context.Context, userID int64, rng Range, kind FlowKind, label string) (*FlowReport, error) {
	ctx, span := e.span(ctx, "BuildFlowReport", rng)
	defer span.End()
	span.SetAttributes(attribute.String("kind", string(kind)))

	rep := &FlowReport{Kind: kind, Period: rng, Filter: FilterAll}

	switch kind {
	case FlowExpense:
		category, err := parseCategoryFilter(label)
		if err != nil {
			return nil, fail(span, err)
		}
		if category != "" {
			rep.Filter = category.String()
		}
		expenses, err := e.expenses.FindMany(ctx, repository.ExpenseFilter{
			UserID: userID, From: rng.Start, To: rng.End, Category: category, OldestFirst: true,
		})
		if err != nil {
			return nil, fail(span, err)
		}
		rep.Expenses = expenses
		rep.Total, rep.Breakdown = Aggregate(expenses,
			func(x models.Expense) decimal.Decimal { return x.Amount },
			func(x models.Expense) string { return x.Category.String() })

	case FlowIncome:
		source := strings.TrimSpace(label)
		if source != "" {
			rep.Filter = source
		}
		incomes, err := e.incomes.FindMany(ctx, repository.IncomeFilter{
			UserID: userID, From: rng.Start, To: rng.End, Source: source, OldestFirst: true,
		})
		if err != nil {
			return nil, fail(span, err)
		}
		rep.Incomes = incomes
		rep.Total, rep.Breakdown = Aggregate(incomes,
			func(x models.Income) decimal.Decimal { return x.Amount },
			func(x models.Income) string { return x.Source })

	default:
		return nil, fail(span, models.NewValidationError("kind", "unknown report kind %q", kind))
	}

	e.metrics.ReportGenerated(ctx, string(kind))
	return rep, nil
}

// selectBudgets fetches budgets overlapping rng and the expenses of the same
// range, both narrowed to category unless it is empty.
func (e *Engine) selectBudgets(ctx context.Context, userID int64, rng Range, category models.Category) ([]models.Budget, []models.Expense, error) {
	budgets, err := e.budgets.FindMany(ctx, repository.BudgetFilter{
		UserID:      userID,
		Category:    category,
		OverlapFrom: rng.Start,
		OverlapTo:   rng.End,
		ByCategory:  true,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(budgets) == 0 {
		return budgets, nil, nil
	}

	expenses, err := e.expenses.FindMany(ctx, repository.ExpenseFilter{
		UserID: userID, From: rng.Start, To: rng.End, Category: category,
	})
	if err != nil {
		return nil, nil, err
	}
	return budgets, expenses, nil
}

// BuildBudgetReport reconciles every budget overlapping rng against the
// expenses dated inside that budget's own period. No matching budgets yields
// a zero report, not an error.
func (e *Engine) BuildBudgetReport(ctx context.Context, userID int64, rng Range, label string) (*BudgetReport, error) {
	ctx, span := e.span(ctx, "BuildBudgetReport", rng)
	defer span.End()

	category, err := parseCategoryFilter(label)
	if err != nil {
		return nil, fail(span, err)
	}

	budgets, expenses, err := e.selectBudgets(ctx, userID, rng, category)
	if err != nil {
		return nil, fail(span, err)
	}

	rep := &BudgetReport{Period: rng, FilterCategory: FilterAll, BudgetSummary: []BudgetLine{}}
	if category != "" {
		rep.FilterCategory = category.String()
	}
	rep.BudgetSummary, rep.TotalBudgeted, rep.TotalSpent = Reconcile(budgets, expenses)
	rep.OverallRemaining = rep.TotalBudgeted.Sub(rep.TotalSpent)

	e.metrics.ReportGenerated(ctx, "budget-adherence")
	return rep, nil
}

// BuildBudgetStatus is the budget dashboard view: per-budget lines as in
// BuildBudgetReport, but TotalSpent is every expense fetched for rng.
func (e *Engine) BuildBudgetStatus(ctx context.Context, userID int64, rng Range, label string) (*BudgetStatus, error) {
	ctx, span := e.span(ctx, "BuildBudgetStatus", rng)
	defer span.End()

	category, err := parseCategoryFilter(label)
	if err != nil {
		return nil, fail(span, err)
	}

	budgets, expenses, err := e.selectBudgets(ctx, userID, rng, category)
	if err != nil {
		return nil, fail(span, err)
	}

	st := &BudgetStatus{Period: rng, BudgetDetails: []BudgetLine{}}
	st.BudgetDetails, st.TotalBudgeted, _ = Reconcile(budgets, expenses)
	st.TotalSpent, _ = Aggregate(expenses,
		func(x models.Expense) decimal.Decimal { return x.Amount },
		func(x models.Expense) string { return x.Category.String() })
	st.RemainingBudget = st.TotalBudgeted.Sub(st.TotalSpent)
	st.BudgetsCount = len(budgets)

	e.metrics.ReportGenerated(ctx, "budget-status")
	return st, nil
}

// BuildOverview compares total income with total expenses over rng.
func (e *Engine) BuildOverview(ctx context.Context, userID int64, rng Range) (*Overview, error) {
	ctx, span := e.span(ctx, "BuildOverview", rng)
	defer span.End()

	var incomes []models.Income
	var expenses []models.Expense

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = e.incomes.FindMany(gctx, repository.IncomeFilter{UserID: userID, From: rng.Start, To: rng.End})
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = e.expenses.FindMany(gctx, repository.ExpenseFilter{UserID: userID, From: rng.Start, To: rng.End})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fail(span, err)
	}

	ov := &Overview{Period: rng}
	ov.TotalIncome, _ = Aggregate(incomes,
		func(x models.Income) decimal.Decimal { return x.Amount },
		func(x models.Income) string { return x.Source })
	ov.TotalExpenses, _ = Aggregate(expenses,
		func(x models.Expense) decimal.Decimal { return x.Amount },
		func(x models.Expense) string { return x.Category.String() })
	ov.NetSavings = ov.TotalIncome.Sub(ov.TotalExpenses)
	ov.Status = StatusFor(ov.NetSavings)

	e.metrics.ReportGenerated(ctx, "overview")
	return ov, nil
}

// CheckBudgetConflict rejects b when another budget of the same owner and
// category overlaps its period. It applies to the "All Categories" sentinel
// too. b.ID is excluded so an update does not conflict with itself.
func (e *Engine) CheckBudgetConflict(ctx context.Context, b models.Budget) error {
	existing, err := e.budgets.FindMany(ctx, repository.BudgetFilter{
		UserID:      b.UserID,
		Category:    b.Category,
		OverlapFrom: b.StartDate,
		OverlapTo:   b.EndDate,
		ExcludeID:   b.ID,
	})
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.Category == b.Category && Overlaps(other.StartDate, other.EndDate, b.StartDate, b.EndDate) {
			e.metrics.BudgetConflict(ctx)
			return models.ErrConflictingBudget
		}
	}
	return nil
}

// parseCategoryFilter resolves a query label. Empty and the sentinel both
// mean no narrowing.
func parseCategoryFilter(label string) (models.Category, error) {
	if strings.TrimSpace(label) == "" {
		return "", nil
	}
	c, err := models.ParseCategory(label)
	if err != nil {
		return "", models.NewValidationError("category", "%s", err.Error())
	}
	if c.IsAll() {
		return "", nil
	}
	return c, nil
}
