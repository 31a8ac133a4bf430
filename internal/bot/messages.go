package bot

import (
	"fmt"

	"github.com/shagtracker/shagbot/internal/gateway"
	"github.com/shagtracker/shagbot/internal/model"
	"github.com/shagtracker/shagbot/internal/wizard"
)

const (
	msgHelp = "🆘 Справка ShAG Bot:\n\n" +
		"1. Внести прогресс: напиши мне число (например: 10, 5000, 0.5). Я добавлю это к твоей цели.\n" +
		"2. Предложить идею: напиши /idea текст.\n" +
		"3. Настройки: открой приложение (кнопка внизу).\n\n" +
		"Если бот не отвечает — напиши /start."

	msgIdeaHint  = "💡 Напишите вашу идею после команды, например:\n/idea Хочу темную тему и календарь!"
	msgIdeaSaved = "✅ Спасибо! Ваша идея сохранена. Лучшие предложения мы обязательно реализуем!"

	msgGoalLimit = "У тебя уже 3 активные цели. Заверши одну из них в приложении, чтобы поставить новую!"

	msgNewGoalPrompt = "Напиши здесь свою новую цель, и я помогу её зафиксировать! 🚀"

	msgStaleButton = "⚠️ Кнопка устарела или не распознана. Напиши цель заново, и я помогу её зафиксировать!"

	msgTryAgain = "Произошла ошибка. Попробуйте еще раз."

	msgFinishDoneYes = "🔥 Красава! Это отличный результат. Что дальше?"
	msgFinishDoneNo  = "Ничего страшного, любой опыт в копилку! Что выберешь сейчас?"
)

func welcomeText(firstName string) string {
	if firstName == "" {
		firstName = "друг"
	}
	return fmt.Sprintf("👋 Привет, %s!\n\n🤖 Что я умею:\n"+
		"1. 🎯 Вести к целям — просто напиши мне свою цель.\n"+
		"2. 📊 Принимать отчеты — напиши мне число (например, 5000 или 5.5), и я занесу это в прогресс!\n"+
		"3. 💡 Собирать идеи — пиши /idea твой_текст.\n\n"+
		"Попробуй отправить мне цифру, если у тебя уже есть цель с метрикой!", firstName)
}

func progressAck(goal *model.Goal, valueText string) string {
	metric := ""
	if goal.Metric != nil {
		metric = *goal.Metric
	}
	return fmt.Sprintf("✅ Принято!\n🎯 %s\n📊 %s: %s\n\nГрафик обновлен.", goal.Description, metric, valueText)
}

func resumeAck(goal *model.Goal) string {
	return fmt.Sprintf("✅ Цель %q снова активна! Новый дедлайн: %s. Вперёд к победе!",
		goal.Description, wizard.FormatDeadline(goal.Deadline))
}

func adminIdeaNotice(username string, telegramID int64, content string) string {
	if username == "" {
		username = "anon"
	}
	return fmt.Sprintf("📩 Новая идея\n\n👤 От: @%s (ID: %d)\n\n📝 %s", username, telegramID, content)
}

// FinishConfirmText is the message the expiry sweep sends when a deadline
// passes.
func FinishConfirmText(description string) string {
	return fmt.Sprintf("🏁 Цель %q подошла к концу. Выполнили ли вы её?", description)
}

// FinishConfirmKeyboard pairs with FinishConfirmText.
func FinishConfirmKeyboard(goalID string) [][]gateway.Button {
	return [][]gateway.Button{
		{{Label: "✅ Да, выполнил", Data: FinishToken(goalID, true)}},
		{{Label: "❌ Нет, не выполнил", Data: FinishToken(goalID, false)}},
	}
}

func (r *Router) webAppKeyboard(label string) [][]gateway.Button {
	return [][]gateway.Button{
		{{Label: label, URL: r.webAppURL}},
	}
}
