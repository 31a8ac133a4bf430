// Package bot turns inbound webhook updates into goal-tracker actions. The
// message text is classified once (internal/intake) and dispatched on the
// resulting variant; callback payloads route on their leading stage marker.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shagtracker/shagbot/internal/gateway"
	"github.com/shagtracker/shagbot/internal/intake"
	"github.com/shagtracker/shagbot/internal/model"
	"github.com/shagtracker/shagbot/internal/repository"
	"github.com/shagtracker/shagbot/internal/service"
	"github.com/shagtracker/shagbot/internal/wizard"
)

type Router struct {
	users       *service.UserService
	goals       *service.GoalService
	ideas       *service.IdeaService
	engine      *wizard.Engine
	gw          gateway.Gateway
	webAppURL   string
	adminChatID int64
}

func NewRouter(
	users *service.UserService,
	goals *service.GoalService,
	ideas *service.IdeaService,
	engine *wizard.Engine,
	gw gateway.Gateway,
	webAppURL string,
	adminChatID int64,
) *Router {
	return &Router{
		users:       users,
		goals:       goals,
		ideas:       ideas,
		engine:      engine,
		gw:          gw,
		webAppURL:   webAppURL,
		adminChatID: adminChatID,
	}
}

// HandleUpdate processes one webhook event. It never returns an error: every
// failure ends in either a generic reply to the user or a log line, so the
// webhook can always acknowledge the platform.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		r.handleMessage(ctx, update.Message)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		return
	}

	user, err := r.users.Ensure(from.ID, from.UserName, from.FirstName)
	if err != nil {
		slog.Error("failed to upsert user", "error", err, "telegram_id", from.ID)
		r.reply(ctx, msg.Chat.ID, msgTryAgain, nil)
		return
	}

	switch intent := intake.Parse(msg.Text).(type) {
	case intake.Command:
		r.handleCommand(ctx, user, msg.Chat.ID, intent)
	case intake.NumericReport:
		r.handleReport(ctx, user, msg.Chat.ID, intent, msg.Text)
	case intake.NewGoalText:
		r.handleNewGoal(ctx, user, msg.Chat.ID, intent.Text)
	}
}

func (r *Router) handleCommand(ctx context.Context, user *model.User, chatID int64, cmd intake.Command) {
	switch cmd.Name {
	case "start":
		r.reply(ctx, chatID, welcomeText(user.DisplayName()), r.webAppKeyboard("🚀 Открыть ShAG"))
	case "help":
		r.reply(ctx, chatID, msgHelp, nil)
	case "idea":
		if cmd.Args == "" {
			r.reply(ctx, chatID, msgIdeaHint, nil)
			return
		}
		username := ""
		if user.Username != nil {
			username = *user.Username
		}
		err := r.ideas.Submit(user.TelegramID, username, cmd.Args)
		if err != nil {
			slog.Error("failed to save idea", "error", err, "telegram_id", user.TelegramID)
			r.reply(ctx, chatID, msgTryAgain, nil)
			return
		}
		r.reply(ctx, chatID, msgIdeaSaved, nil)
		if r.adminChatID != 0 {
			r.reply(ctx, r.adminChatID, adminIdeaNotice(username, user.TelegramID, cmd.Args), nil)
		}
	default:
		// Unknown command: stay silent rather than guessing.
	}
}

// handleReport routes a leading-number message. One metric goal writes the
// step immediately; several ask which goal; none falls through to goal
// intake with the original text.
func (r *Router) handleReport(ctx context.Context, user *model.User, chatID int64, report intake.NumericReport, original string) {
	goals, err := r.goals.ActiveMetricGoals(user.ID)
	if err != nil {
		slog.Error("failed to load metric goals", "error", err, "user_id", user.ID)
		r.reply(ctx, chatID, msgTryAgain, nil)
		return
	}

	switch {
	case len(goals) == 0:
		r.handleNewGoal(ctx, user, chatID, original)
	case len(goals) == 1:
		goal := goals[0]
		content := report.Note
		if content == "" {
			content = "Внесено значение: " + report.ValueText
		}
		_, err := r.goals.AddProgress(goal.ID, report.Value, content)
		if err != nil {
			slog.Error("failed to add progress", "error", err, "goal_id", goal.ID)
			r.reply(ctx, chatID, msgTryAgain, nil)
			return
		}
		r.reply(ctx, chatID, progressAck(goal, report.ValueText), nil)
	default:
		var keyboard [][]gateway.Button
		for _, g := range goals {
			label := g.Description
			if g.Metric != nil {
				label = fmt.Sprintf("%s (%s)", g.Description, *g.Metric)
			}
			keyboard = append(keyboard, []gateway.Button{{Label: label, Data: MetricToken(g.ID, report.ValueText)}})
		}
		r.reply(ctx, chatID, fmt.Sprintf("К какой цели отнести значение %s?", report.ValueText), keyboard)
	}
}

func (r *Router) handleNewGoal(ctx context.Context, user *model.User, chatID int64, text string) {
	count, err := r.goals.CountActive(user.ID)
	if err != nil {
		slog.Error("failed to count active goals", "error", err, "user_id", user.ID)
		r.reply(ctx, chatID, msgTryAgain, nil)
		return
	}
	if count >= model.MaxActiveGoals {
		r.reply(ctx, chatID, msgGoalLimit, r.webAppKeyboard("🚀 Открыть Трекер"))
		return
	}

	prompt := wizard.CategoryPrompt(text)
	r.reply(ctx, chatID, prompt.Text, promptKeyboard(prompt))
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer func() {
		err := r.gw.AnswerCallback(ctx, cb.ID, "")
		if err != nil {
			slog.Debug("failed to answer callback", "error", err)
		}
	}()

	if cb.From == nil || cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	user, err := r.users.Ensure(cb.From.ID, cb.From.UserName, cb.From.FirstName)
	if err != nil {
		slog.Error("failed to upsert user", "error", err, "telegram_id", cb.From.ID)
		r.edit(ctx, chatID, messageID, msgTryAgain, nil)
		return
	}

	marker, _, _ := strings.Cut(cb.Data, ":")
	switch marker {
	case cbMetric:
		r.callbackMetric(ctx, user, chatID, messageID, cb.Data)
	case cbFinish:
		r.callbackFinish(ctx, user, chatID, messageID, cb.Data)
	case cbResume:
		r.callbackResume(ctx, user, chatID, messageID, cb.Data)
	case cbNewGoal:
		r.edit(ctx, chatID, messageID, msgNewGoalPrompt, nil)
	default:
		r.callbackWizard(ctx, user, chatID, messageID, cb.Data)
	}
}

func (r *Router) callbackWizard(ctx context.Context, user *model.User, chatID int64, messageID int, token string) {
	result, err := r.engine.Advance(user.ID, token)
	switch {
	case errors.Is(err, wizard.ErrMalformedToken), errors.Is(err, wizard.ErrUnknownStage):
		// Corrupted or stale token: offer a fresh start, never crash.
		r.edit(ctx, chatID, messageID, msgStaleButton, nil)
		return
	case errors.Is(err, service.ErrGoalLimitReached):
		r.edit(ctx, chatID, messageID, msgGoalLimit, r.webAppKeyboard("🚀 Открыть Трекер"))
		return
	case err != nil:
		slog.Error("wizard advance failed", "error", err, "user_id", user.ID)
		r.edit(ctx, chatID, messageID, msgTryAgain, nil)
		return
	}

	if result.Terminal() {
		r.edit(ctx, chatID, messageID, result.Ack, nil)
		return
	}
	r.edit(ctx, chatID, messageID, result.Prompt.Text, promptKeyboard(result.Prompt))
}

func (r *Router) callbackMetric(ctx context.Context, user *model.User, chatID int64, messageID int, data string) {
	goalID, valueText, ok := parseMetricToken(data)
	if !ok {
		r.edit(ctx, chatID, messageID, msgStaleButton, nil)
		return
	}

	report, isReport := intake.Parse(valueText).(intake.NumericReport)
	if !isReport {
		r.edit(ctx, chatID, messageID, msgStaleButton, nil)
		return
	}

	goal, err := r.goals.ByID(goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		r.edit(ctx, chatID, messageID, "❌ Цель не найдена.", nil)
		return
	}
	if err != nil {
		slog.Error("failed to load goal", "error", err, "goal_id", goalID)
		r.edit(ctx, chatID, messageID, msgTryAgain, nil)
		return
	}
	if goal.UserID != user.ID {
		r.edit(ctx, chatID, messageID, msgStaleButton, nil)
		return
	}

	_, err = r.goals.AddProgress(goal.ID, report.Value, "Внесено значение: "+report.ValueText)
	if err != nil {
		slog.Error("failed to add progress", "error", err, "goal_id", goal.ID)
		r.edit(ctx, chatID, messageID, msgTryAgain, nil)
		return
	}
	r.edit(ctx, chatID, messageID, progressAck(goal, report.ValueText), nil)
}

func (r *Router) callbackFinish(ctx context.Context, user *model.User, chatID int64, messageID int, data string) {
	goalID, done, ok := parseFinishToken(data)
	if !ok {
		r.edit(ctx, chatID, messageID, msgStaleButton, nil)
		return
	}

	if done {
		keyboard := [][]gateway.Button{
			{{Label: "🎯 Создать новую цель", Data: NewGoalToken()}},
			{{Label: "🗺️ Изучить весь путь", URL: r.webAppURL}},
		}
		r.edit(ctx, chatID, messageID, msgFinishDoneYes, keyboard)
		return
	}

	keyboard := [][]gateway.Button{
		{{Label: "🎯 Создать новую цель", Data: NewGoalToken()}},
		{{Label: "⏳ Продолжить текущую", Data: ResumeToken(goalID)}},
		{{Label: "🗺️ Изучить весь путь", URL: r.webAppURL}},
	}
	r.edit(ctx, chatID, messageID, msgFinishDoneNo, keyboard)
}

func (r *Router) callbackResume(ctx context.Context, user *model.User, chatID int64, messageID int, data string) {
	goalID, ok := parseResumeToken(data)
	if !ok {
		r.edit(ctx, chatID, messageID, msgStaleButton, nil)
		return
	}

	goal, err := r.goals.ByID(goalID)
	if err != nil || goal.UserID != user.ID {
		r.edit(ctx, chatID, messageID, msgStaleButton, nil)
		return
	}

	goal, err = r.goals.Resume(goalID)
	switch {
	case errors.Is(err, repository.ErrConflict):
		r.edit(ctx, chatID, messageID, "✅ Эта цель уже активна.", nil)
	case errors.Is(err, service.ErrGoalLimitReached):
		r.edit(ctx, chatID, messageID, msgGoalLimit, r.webAppKeyboard("🚀 Открыть Трекер"))
	case err != nil:
		slog.Error("failed to resume goal", "error", err, "goal_id", goalID)
		r.edit(ctx, chatID, messageID, msgTryAgain, nil)
	default:
		r.edit(ctx, chatID, messageID, resumeAck(goal), nil)
	}
}

func (r *Router) reply(ctx context.Context, chatID int64, text string, keyboard [][]gateway.Button) {
	err := r.gw.SendMessage(ctx, chatID, text, keyboard)
	if err != nil {
		slog.Warn("failed to send reply", "error", err, "chat_id", chatID)
	}
}

func (r *Router) edit(ctx context.Context, chatID int64, messageID int, text string, keyboard [][]gateway.Button) {
	err := r.gw.EditMessage(ctx, chatID, messageID, text, keyboard)
	if err != nil {
		slog.Warn("failed to edit message", "error", err, "chat_id", chatID)
	}
}

func promptKeyboard(prompt *wizard.Prompt) [][]gateway.Button {
	var keyboard [][]gateway.Button
	for _, row := range prompt.Keyboard {
		var buttons []gateway.Button
		for _, b := range row {
			buttons = append(buttons, gateway.Button{Label: b.Label, Data: b.Token})
		}
		keyboard = append(keyboard, buttons)
	}
	return keyboard
}
