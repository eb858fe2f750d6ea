// Package api exposes the finance tracker over HTTP with gin.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/abhishek991-rag/PFM-Backend/internal/database"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/report"
	"github.com/abhishek991-rag/PFM-Backend/internal/service"
)

func init() {
	// Amounts are JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Accounts is the account service.
type Accounts interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.Session, error)
	Login(ctx context.Context, in service.LoginInput) (*service.Session, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, p service.ProfilePatch) (*models.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

// Expenses is the expense service.
type Expenses interface {
	Create(ctx context.Context, userID int64, in service.ExpenseInput) (*models.Expense, error)
	List(ctx context.Context, userID int64) ([]models.Expense, error)
	Get(ctx context.Context, userID, id int64) (*models.Expense, error)
	Update(ctx context.Context, userID, id int64, p service.ExpensePatch) (*models.Expense, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Incomes is the income service.
type Incomes interface {
	Create(ctx context.Context, userID int64, in service.IncomeInput) (*models.Income, error)
	List(ctx context.Context, userID int64) ([]models.Income, error)
	Get(ctx context.Context, userID, id int64) (*models.Income, error)
	Update(ctx context.Context, userID, id int64, p service.IncomePatch) (*models.Income, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Budgets is the budget service.
type Budgets interface {
	Create(ctx context.Context, userID int64, in service.BudgetInput) (*models.Budget, error)
	List(ctx context.Context, userID int64) ([]models.Budget, error)
	Get(ctx context.Context, userID, id int64) (*models.Budget, error)
	Update(ctx context.Context, userID, id int64, p service.BudgetPatch) (*models.Budget, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Goals is the goal service.
type Goals interface {
	Create(ctx context.Context, userID int64, in service.GoalInput) (*models.Goal, error)
	List(ctx context.Context, userID int64) ([]models.Goal, error)
	Get(ctx context.Context, userID, id int64) (*models.Goal, error)
	Update(ctx context.Context, userID, id int64, p service.GoalPatch) (*models.Goal, error)
	Contribute(ctx context.Context, userID, id int64, in service.ContributionInput) (*models.Goal, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Reports builds derived reports.
type Reports interface {
	BuildFlowReport(ctx context.Context, userID int64, rng report.Range, kind report.FlowKind, label string) (*report.FlowReport, error)
	BuildBudgetReport(ctx context.Context, userID int64, rng report.Range, label string) (*report.BudgetReport, error)
	BuildBudgetStatus(ctx context.Context, userID int64, rng report.Range, label string) (*report.BudgetStatus, error)
	BuildOverview(ctx context.Context, userID int64, rng report.Range) (*report.Overview, error)
}

// Deps wires the router. DB is only used by the health check.
type Deps struct {
	Accounts    Accounts
	Expenses    Expenses
	Incomes     Incomes
	Budgets     Budgets
	Goals       Goals
	Reports     Reports
	DB          database.Pinger
	Log         zerolog.Logger
	ServiceName string
}

// Handler serves every route.
type Handler struct {
	accounts Accounts
	expenses Expenses
	incomes  Incomes
	budgets  Budgets
	goals    Goals
	reports  Reports
	db       database.Pinger
	log      zerolog.Logger
	now      func() time.Time
}

// NewRouter builds the gin engine and wraps it for tracing.
func NewRouter(deps Deps) http.Handler {
	h := &Handler{
		accounts: deps.Accounts,
		expenses: deps.Expenses,
		incomes:  deps.Incomes,
		budgets:  deps.Budgets,
		goals:    deps.Goals,
		reports:  deps.Reports,
		db:       deps.DB,
		log:      deps.Log.With().Str("component", "http").Logger(),
		now:      time.Now,
	}

	name := deps.ServiceName
	if name == "" {
		name = "pfm-backend"
	}
	return otelhttp.NewHandler(h.engine(), name)
}

func (h *Handler) engine() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(h.log), recovery(h.log))

	r.GET("/healthz", h.health)

	api := r.Group("/api")
	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)

	protected := api.Group("")
	protected.Use(h.authenticate)

	protected.GET("/auth/profile", h.profile)
	protected.GET("/users/profile", h.profile)
	protected.PUT("/users/profile", h.updateProfile)
	protected.DELETE("/users/delete-account", h.deleteAccount)

	expenses := protected.Group("/expenses")
	{
		expenses.POST("", createRecord(h, expenseResource, h.expenses.Create))
		expenses.GET("", listRecords(h, expenseResource, h.expenses.List))
		expenses.GET("/:id", getRecord(h, expenseResource, h.expenses.Get))
		expenses.PUT("/:id", updateRecord(h, expenseResource, "updated", h.expenses.Update))
		expenses.DELETE("/:id", deleteRecord(h, expenseResource, h.expenses.Delete))
	}

	incomes := protected.Group("/incomes")
	{
		incomes.POST("", createRecord(h, incomeResource, h.incomes.Create))
		incomes.GET("", listRecords(h, incomeResource, h.incomes.List))
		incomes.GET("/:id", getRecord(h, incomeResource, h.incomes.Get))
		incomes.PUT("/:id", updateRecord(h, incomeResource, "updated", h.incomes.Update))
		incomes.DELETE("/:id", deleteRecord(h, incomeResource, h.incomes.Delete))
	}

	budgets := protected.Group("/budgets")
	{
		budgets.POST("", createRecord(h, budgetResource, h.budgets.Create))
		budgets.GET("", listRecords(h, budgetResource, h.budgets.List))
		budgets.GET("/status", h.budgetStatus)
		budgets.GET("/:id", getRecord(h, budgetResource, h.budgets.Get))
		budgets.PUT("/:id", updateRecord(h, budgetResource, "updated", h.budgets.Update))
		budgets.DELETE("/:id", deleteRecord(h, budgetResource, h.budgets.Delete))
	}

	goals := protected.Group("/goals")
	{
		goals.POST("", createRecord(h, goalResource, h.goals.Create))
		goals.GET("", listRecords(h, goalResource, h.goals.List))
		goals.GET("/:id", getRecord(h, goalResource, h.goals.Get))
		goals.PUT("/:id", updateRecord(h, goalResource, "updated", h.goals.Update))
		goals.DELETE("/:id", deleteRecord(h, goalResource, h.goals.Delete))
		goals.POST("/:id/contributions", updateRecord(h, goalResource, "contribution added", h.goals.Contribute))
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/expenses", h.expenseReport)
		reports.GET("/expenses/export.csv", h.exportExpensesCSV)
		reports.GET("/expenses/export.xlsx", h.exportExpensesXLSX)
		reports.GET("/expenses/chart.png", h.expenseChart)
		reports.GET("/income", h.incomeReport)
		reports.GET("/budget-adherence", h.budgetAdherence)
		reports.GET("/overview", h.overview)
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
