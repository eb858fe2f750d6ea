package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubGoals struct {
	goals    []models.Goal
	err      error
	from, to time.Time
}

func (s *stubGoals) FindDueBetween(_ context.Context, from, to time.Time) ([]models.Goal, error) {
	s.from, s.to = from, to
	return s.goals, s.err
}

type stubUsers map[int64]*models.User

func (s stubUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func TestLogMailer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf))
	require.NoError(t, m.Send(context.Background(), WelcomeMessage("Asha", "asha@example.com")))

	out := buf.String()
	require.Contains(t, out, "Email sent")
	require.Contains(t, out, "a***@example.com")
	require.NotContains(t, out, "asha@example.com")
}

func TestGoalReminderCheck(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 1, 10, 9, 15, 0, 0, time.UTC)
	users := stubUsers{1: {ID: 1, Name: "Asha", Email: "asha@example.com"}}
	trip := models.Goal{
		ID: 5, UserID: 1, Name: "Trip",
		TargetAmount: decimal.NewFromInt(300), SavedAmount: decimal.NewFromInt(150),
		TargetDate: time.Date(2030, 1, 13, 0, 0, 0, 0, time.UTC),
	}
	cfg := ReminderConfig{Hour: 9, DaysAhead: 7, Location: time.UTC}

	newReminder := func(goals *stubGoals, mailer Mailer) *GoalReminder {
		return NewGoalReminder(goals, users, mailer, cfg, zerolog.Nop(), logger.NewHasher("salt"), nil)
	}

	t.Run("sends once per goal per day", func(t *testing.T) {
		t.Parallel()
		goals := &stubGoals{goals: []models.Goal{trip}}
		mailer := &recordingMailer{}
		r := newReminder(goals, mailer)

		r.Check(context.Background(), now)
		r.Check(context.Background(), now.Add(10*time.Minute))

		require.Len(t, mailer.sent, 1)
		msg := mailer.sent[0]
		require.Equal(t, "asha@example.com", msg.To)
		require.Contains(t, msg.Subject, "Trip")
		require.Contains(t, msg.Body, "due in 3 day(s)")
		require.Contains(t, msg.Body, "(50%)")

		require.Equal(t, time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC), goals.from)
		require.True(t, goals.to.Before(time.Date(2030, 1, 18, 0, 0, 0, 0, time.UTC)))
		require.True(t, goals.to.After(time.Date(2030, 1, 17, 23, 0, 0, 0, time.UTC)))

		r.Check(context.Background(), now.AddDate(0, 0, 1))
		require.Len(t, mailer.sent, 2)
	})

	t.Run("does nothing outside the configured hour", func(t *testing.T) {
		t.Parallel()
		mailer := &recordingMailer{}
		r := newReminder(&stubGoals{goals: []models.Goal{trip}}, mailer)

		r.Check(context.Background(), now.Add(2*time.Hour))
		require.Empty(t, mailer.sent)
	})

	t.Run("retries after a failed send", func(t *testing.T) {
		t.Parallel()
		mailer := &recordingMailer{err: errors.New("smtp down")}
		r := newReminder(&stubGoals{goals: []models.Goal{trip}}, mailer)

		r.Check(context.Background(), now)
		require.Empty(t, r.reminded)

		mailer.err = nil
		r.Check(context.Background(), now)
		require.Len(t, mailer.sent, 1)
	})

	t.Run("skips goals whose owner is gone", func(t *testing.T) {
		t.Parallel()
		orphan := trip
		orphan.UserID = 99
		mailer := &recordingMailer{}
		r := newReminder(&stubGoals{goals: []models.Goal{orphan}}, mailer)

		r.Check(context.Background(), now)
		require.Empty(t, mailer.sent)
	})

	t.Run("store failure sends nothing", func(t *testing.T) {
		t.Parallel()
		mailer := &recordingMailer{}
		r := newReminder(&stubGoals{err: errors.New("db down")}, mailer)

		r.Check(context.Background(), now)
		require.Empty(t, mailer.sent)
	})
}

func TestGoalReminderRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewGoalReminder(&stubGoals{}, stubUsers{}, &recordingMailer{},
		ReminderConfig{Hour: 9, DaysAhead: 7}, zerolog.Nop(), logger.NewHasher(""), nil)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder loop did not stop")
	}
}
