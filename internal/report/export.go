package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/go-analyze/charts"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

// ErrNothingToChart is returned when a chart has no data.
var ErrNothingToChart = errors.New("no expenses to chart")

// ExpensesCSV renders expenses as CSV with a header row.
func ExpensesCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Date", "Amount", "Category", "Description", "Recurring"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range expenses {
		recurring := ""
		if expenses[i].IsRecurring && expenses[i].RecurringFrequency != nil {
			recurring = string(*expenses[i].RecurringFrequency)
		}
		row := []string{
			strconv.FormatInt(expenses[i].ID, 10),
			expenses[i].Date.Format(time.DateOnly),
			expenses[i].Amount.StringFixed(2),
			expenses[i].Category.String(),
			expenses[i].Description,
			recurring,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// expenseSheet is the worksheet name used by ExpensesXLSX.
const expenseSheet = "Expenses"

// ExpensesXLSX renders expenses as a single-sheet workbook with the same
// columns as ExpensesCSV. Amounts are numeric cells.
func ExpensesXLSX(expenses []models.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", expenseSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{"ID", "Date", "Amount", "Category", "Description", "Recurring"}
	if err := f.SetSheetRow(expenseSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i := range expenses {
		recurring := ""
		if expenses[i].IsRecurring && expenses[i].RecurringFrequency != nil {
			recurring = string(*expenses[i].RecurringFrequency)
		}
		row := []any{
			expenses[i].ID,
			expenses[i].Date.Format(time.DateOnly),
			expenses[i].Amount.Round(2).InexactFloat64(),
			expenses[i].Category.String(),
			expenses[i].Description,
			recurring,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address XLSX row: %w", err)
		}
		if err := f.SetSheetRow(expenseSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write XLSX row: %w", err)
		}
	}

	if err := f.SetColWidth(expenseSheet, "B", "B", 12); err != nil {
		return nil, fmt.Errorf("failed to size XLSX columns: %w", err)
	}
	if err := f.SetColWidth(expenseSheet, "E", "E", 40); err != nil {
		return nil, fmt.Errorf("failed to size XLSX columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

// CategoryChart renders a category breakdown as a PNG pie chart. Slices are
// ordered by label so the output is stable.
func CategoryChart(breakdown map[string]decimal.Decimal, title string) ([]byte, error) {
	if len(breakdown) == 0 {
		return nil, ErrNothingToChart
	}

	labels := make([]string, 0, len(breakdown))
	for label := range breakdown {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	values := make([]float64, 0, len(labels))
	for _, label := range labels {
		values = append(values, breakdown[label].InexactFloat64())
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{Text: title}),
		charts.LegendLabelsOptionFunc(labels),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
