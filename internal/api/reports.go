package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishek991-rag/PFM-Backend/internal/report"
)

// queryRange reads startDate and endDate. Missing bounds default to the
// epoch and now.
func (h *Handler) queryRange(c *gin.Context) (report.Range, error) {
	return report.NormalizeRange(c.Query("startDate"), c.Query("endDate"), h.now())
}

func (h *Handler) expenseFlow(c *gin.Context) (*report.FlowReport, bool) {
	rng, err := h.queryRange(c)
	if err != nil {
		h.fail(c, "report", err)
		return nil, false
	}
	rep, err := h.reports.BuildFlowReport(c.Request.Context(), currentUser(c).ID, rng, report.FlowExpense, c.Query("category"))
	if err != nil {
		h.fail(c, "report", err)
		return nil, false
	}
	return rep, true
}

func (h *Handler) expenseReport(c *gin.Context) {
	if rep, ok := h.expenseFlow(c); ok {
		c.JSON(http.StatusOK, rep)
	}
}

func (h *Handler) exportExpensesCSV(c *gin.Context) {
	rep, ok := h.expenseFlow(c)
	if !ok {
		return
	}
	data, err := report.ExpensesCSV(rep.Expenses)
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="expenses_%s_%s.csv"`,
		rep.Period.Start.Format(time.DateOnly), rep.Period.End.Format(time.DateOnly)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *Handler) exportExpensesXLSX(c *gin.Context) {
	rep, ok := h.expenseFlow(c)
	if !ok {
		return
	}
	data, err := report.ExpensesXLSX(rep.Expenses)
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="expenses_%s_%s.xlsx"`,
		rep.Period.Start.Format(time.DateOnly), rep.Period.End.Format(time.DateOnly)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) expenseChart(c *gin.Context) {
	rep, ok := h.expenseFlow(c)
	if !ok {
		return
	}
	title := fmt.Sprintf("Expenses %s to %s",
		rep.Period.Start.Format(time.DateOnly), rep.Period.End.Format(time.DateOnly))
	data, err := report.CategoryChart(rep.Breakdown, title)
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handler) incomeReport(c *gin.Context) {
	rng, err := h.queryRange(c)
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	rep, err := h.reports.BuildFlowReport(c.Request.Context(), currentUser(c).ID, rng, report.FlowIncome, c.Query("source"))
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) budgetAdherence(c *gin.Context) {
	rng, err := h.queryRange(c)
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	rep, err := h.reports.BuildBudgetReport(c.Request.Context(), currentUser(c).ID, rng, c.Query("category"))
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// budgetStatus requires both bounds.
func (h *Handler) budgetStatus(c *gin.Context) {
	if err := report.RequireBounds(c.Query("startDate"), c.Query("endDate")); err != nil {
		h.fail(c, "report", err)
		return
	}
	rng, err := h.queryRange(c)
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	st, err := h.reports.BuildBudgetStatus(c.Request.Context(), currentUser(c).ID, rng, c.Query("category"))
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) overview(c *gin.Context) {
	rng, err := h.queryRange(c)
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	ov, err := h.reports.BuildOverview(c.Request.Context(), currentUser(c).ID, rng)
	if err != nil {
		h.fail(c, "report", err)
		return
	}
	c.JSON(http.StatusOK, ov)
}
