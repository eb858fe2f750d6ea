package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	reports   metric.Int64Counter
	conflicts metric.Int64Counter
	reminders metric.Int64Counter
}

// NewMetrics registers the counters on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	reports, err := meter.Int64Counter("pfm.reports.generated",
		metric.WithDescription("Reports built, by kind"))
	if err != nil {
		return nil, fmt.Errorf("create reports counter: %w", err)
	}
	conflicts, err := meter.Int64Counter("pfm.budgets.conflicts",
		metric.WithDescription("Budget writes rejected for overlapping an existing budget"))
	if err != nil {
		return nil, fmt.Errorf("create conflicts counter: %w", err)
	}
	reminders, err := meter.Int64Counter("pfm.goals.reminders",
		metric.WithDescription("Goal deadline reminders sent"))
	if err != nil {
		return nil, fmt.Errorf("create reminders counter: %w", err)
	}
	return &Metrics{reports: reports, conflicts: conflicts, reminders: reminders}, nil
}

// NewGlobalMetrics registers the counters on the global meter provider.
func NewGlobalMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(ScopeName))
}

// ReportGenerated counts one report of kind.
func (m *Metrics) ReportGenerated(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.reports.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// BudgetConflict counts one rejected budget write.
func (m *Metrics) BudgetConflict(ctx context.Context) {
	if m == nil {
		return
	}
	m.conflicts.Add(ctx, 1)
}

// ReminderSent counts one goal reminder.
func (m *Metrics) ReminderSent(ctx context.Context) {
	if m == nil {
		return
	}
	m.reminders.Add(ctx, 1)
}
