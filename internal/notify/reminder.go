package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/telemetry"
)

const (
	// ReminderCheckInterval is how often the loop checks whether to send reminders.
	ReminderCheckInterval = 30 * time.Minute
	// ReminderTimeout bounds a single check.
	ReminderTimeout = 2 * time.Minute
)

// DueGoalFinder lists incomplete goals with a target date in a window.
type DueGoalFinder interface {
	FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Goal, error)
}

// UserFinder loads a goal owner.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ReminderConfig controls when reminders go out.
type ReminderConfig struct {
	Hour      int
	DaysAhead int
	Location  *time.Location
}

// GoalReminder emails owners of goals whose deadline is near, at most once
// per goal per day.
type GoalReminder struct {
	goals   DueGoalFinder
	users   UserFinder
	mailer  Mailer
	cfg     ReminderConfig
	log     zerolog.Logger
	hasher  logger.Hasher
	metrics *telemetry.Metrics

	// goal id -> local date already reminded
	reminded map[int64]string
}

// NewGoalReminder creates a GoalReminder. metrics may be nil.
func NewGoalReminder(
	goals DueGoalFinder,
	users UserFinder,
	mailer Mailer,
	cfg ReminderConfig,
	log zerolog.Logger,
	hasher logger.Hasher,
	metrics *telemetry.Metrics,
) *GoalReminder {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &GoalReminder{
		goals:    goals,
		users:    users,
		mailer:   mailer,
		cfg:      cfg,
		log:      log.With().Str("component", "goal_reminder").Logger(),
		hasher:   hasher,
		metrics:  metrics,
		reminded: make(map[int64]string),
	}
}

// Run checks once immediately, then every ReminderCheckInterval, until ctx
// is done.
func (r *GoalReminder) Run(ctx context.Context) error {
	r.log.Info().
		Int("hour", r.cfg.Hour).
		Int("days_ahead", r.cfg.DaysAhead).
		Str("timezone", r.cfg.Location.String()).
		Msg("Goal reminder loop started")

	ticker := time.NewTicker(ReminderCheckInterval)
	defer ticker.Stop()

	r.Check(ctx, time.Now().In(r.cfg.Location))

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("Goal reminder loop stopped")
			return nil
		case <-ticker.C:
			r.Check(ctx, time.Now().In(r.cfg.Location))
		}
	}
}

// Check sends due reminders if now falls in the configured hour.
func (r *GoalReminder) Check(ctx context.Context, now time.Time) {
	now = now.In(r.cfg.Location)
	if now.Hour() != r.cfg.Hour {
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, ReminderTimeout)
	defer cancel()

	today := now.Format(time.DateOnly)
	for id, date := range r.reminded {
		if date != today {
			delete(r.reminded, id)
		}
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.cfg.Location)
	until := startOfDay.AddDate(0, 0, r.cfg.DaysAhead+1).Add(-time.Millisecond)

	goals, err := r.goals.FindDueBetween(checkCtx, startOfDay, until)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to fetch goals for reminder")
		return
	}

	for _, g := range goals {
		if r.reminded[g.ID] == today {
			continue
		}

		user, err := r.users.GetByID(checkCtx, g.UserID)
		if err != nil {
			r.log.Warn().Err(err).Str("user_hash", r.hasher.UserID(g.UserID)).Msg("Failed to load goal owner")
			continue
		}

		daysLeft := int(g.TargetDate.In(r.cfg.Location).Sub(startOfDay).Hours() / 24)
		msg := Message{
			To:      user.Email,
			Subject: fmt.Sprintf("Your goal %q is due soon", g.Name),
			Body: fmt.Sprintf("Hi %s, your goal %q is due in %d day(s). You have saved %s of %s (%s%%).",
				user.Name, g.Name, daysLeft, g.SavedAmount.StringFixed(2), g.TargetAmount.StringFixed(2),
				g.Progress().StringFixed(0)),
		}
		if err := r.mailer.Send(checkCtx, msg); err != nil {
			r.log.Warn().Err(err).Str("user_hash", r.hasher.UserID(g.UserID)).Msg("Failed to send goal reminder")
			continue
		}

		r.reminded[g.ID] = today
		r.metrics.ReminderSent(checkCtx)
		r.log.Debug().Str("user_hash", r.hasher.UserID(g.UserID)).Int64("goal_id", g.ID).Msg("Sent goal reminder")
	}
}
