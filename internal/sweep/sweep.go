// Package sweep runs the periodic background passes: expiring overdue goals,
// sending per-user daily reminders, and the platform-wide evening check-in.
// A single goroutine owns the ticker, so passes never overlap; per-goal status
// flips are conditional writes, so a concurrent HTTP-triggered pass stays safe
// anyway.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shagtracker/shagbot/internal/bot"
	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/gateway"
	"github.com/shagtracker/shagbot/internal/model"
	"github.com/shagtracker/shagbot/internal/repository"
)

// eveningHour is the wall-clock hour of the daily check-in broadcast.
const eveningHour = 20

type Sweeper struct {
	goals       repository.GoalRepository
	users       repository.UserRepository
	gw          gateway.Gateway
	webAppURL   string
	sendTimeout time.Duration
	interval    time.Duration

	lastEveningDay string
}

func New(
	goals repository.GoalRepository,
	users repository.UserRepository,
	gw gateway.Gateway,
	webAppURL string,
	sendTimeout time.Duration,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		goals:       goals,
		users:       users,
		gw:          gw,
		webAppURL:   webAppURL,
		sendTimeout: sendTimeout,
		interval:    interval,
	}
}

// Run ticks until the context is cancelled. Each tick does one expiry pass
// and one reminder pass, plus the evening broadcast once the wall clock
// passes its hour; errors are logged, never fatal.
func (s *Sweeper) Run(ctx context.Context) {
	slog.Info("sweeper started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sweeper stopped")
			return
		case <-ticker.C:
			count, err := s.ExpireGoals(ctx)
			if err != nil {
				slog.Error("expiry pass failed", "error", err)
			} else if count > 0 {
				slog.Info("expired goals", "count", count)
			}
			now := clock.Now()
			s.SendReminders(ctx, now)
			if s.eveningDue(now) {
				s.SendEveningSteps(ctx)
			}
		}
	}
}

// ExpireGoals flips every overdue ACTIVE goal to COMPLETED and asks its owner
// whether the goal was met. Returns how many goals this pass actually flipped;
// a goal another pass got to first is skipped without counting.
func (s *Sweeper) ExpireGoals(ctx context.Context) (int, error) {
	expired, err := s.goals.ExpiredActive(clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to load expired goals: %w", err)
	}

	processed := 0
	for _, goal := range expired {
		err := s.goals.UpdateStatus(goal.ID, model.GoalStatusActive, model.GoalStatusCompleted)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			slog.Error("failed to complete goal", "error", err, "goal_id", goal.ID)
			continue
		}
		processed++

		err = s.send(ctx, goal.TelegramID, bot.FinishConfirmText(goal.Description), bot.FinishConfirmKeyboard(goal.ID))
		if err != nil {
			slog.Warn("failed to send finish confirmation", "error", err, "telegram_id", goal.TelegramID)
		}
	}
	return processed, nil
}

// Гибкие напоминания без давления: случайный тон из пула.
var reminderPool = []func(firstName *string, goal string) string{
	func(firstName *string, goal string) string {
		return fmt.Sprintf("👋 Привет, %s! Как настрой сегодня? 🌟\n\nТвоя цель %q ждет, но без давления. Если есть шаг — супер, отметь его. Если нет — просто вспомни, ради чего ты это начал. Мы играем в долгую! 🧘‍♂️", nameOr(firstName, "друг"), goal)
	},
	func(_ *string, goal string) string {
		return fmt.Sprintf("🚀 Салют! Маленький шаг лучше, чем ничего.\n\nКак там %q? Если есть новости — заглядывай в трекер. Все идет по плану!", goal)
	},
	func(firstName *string, goal string) string {
		return fmt.Sprintf("👀 Минутка осознанности, %s.\n\nПомнишь про цель %q?\nГлавное не скорость, а постоянство. Залетай отметить прогресс, если он есть!", nameOr(firstName, "чемпион"), goal)
	},
}

// SendReminders pings every user whose reminder time matches the current
// wall-clock minute and who has at least one ACTIVE goal. The message
// references their most recently started goal.
func (s *Sweeper) SendReminders(ctx context.Context, now time.Time) {
	minute := clock.Minute(now)
	users, err := s.users.WithReminderAt(minute)
	if err != nil {
		slog.Error("failed to load reminder users", "error", err, "minute", minute)
		return
	}

	for _, user := range users {
		goals, err := s.goals.ActiveForUser(user.ID)
		if err != nil || len(goals) == 0 {
			continue
		}

		text := reminderPool[rand.Intn(len(reminderPool))](user.FirstName, goals[0].Description)
		keyboard := [][]gateway.Button{{{Label: "📲 Открыть ШАГ", URL: s.webAppURL}}}
		err = s.send(ctx, user.TelegramID, text, keyboard)
		if err != nil {
			slog.Warn("failed to send reminder", "error", err, "telegram_id", user.TelegramID)
		}
	}
}

// eveningDue reports whether the evening broadcast should fire now. It fires
// at most once per calendar day, on the first tick at or after eveningHour.
func (s *Sweeper) eveningDue(now time.Time) bool {
	local := now.In(clock.Zone)
	if local.Hour() < eveningHour {
		return false
	}
	day := local.Format("2006-01-02")
	if day == s.lastEveningDay {
		return false
	}
	s.lastEveningDay = day
	return true
}

// SendEveningSteps asks every owner of an ACTIVE goal about today's step.
// One failed delivery never blocks the rest of the broadcast.
func (s *Sweeper) SendEveningSteps(ctx context.Context) {
	goals, err := s.goals.ActiveWithOwners()
	if err != nil {
		slog.Error("failed to load active goals for broadcast", "error", err)
		return
	}

	keyboard := [][]gateway.Button{{{Label: "🚀 Открыть приложение", URL: s.webAppURL}}}
	for _, goal := range goals {
		text := fmt.Sprintf("Вечер добрый! Какой сегодня твой главный ШАГ к цели: %q?\n\nОткрой приложение и отметь свой прогресс!", goal.Description)
		err := s.send(ctx, goal.TelegramID, text, keyboard)
		if err != nil {
			slog.Warn("failed to send evening check-in", "error", err, "telegram_id", goal.TelegramID)
		}
	}
}

func (s *Sweeper) send(ctx context.Context, chatID int64, text string, keyboard [][]gateway.Button) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.gw.SendMessage(sendCtx, chatID, text, keyboard)
}

func nameOr(name *string, fallback string) string {
	if name != nil && *name != "" {
		return *name
	}
	return fallback
}
