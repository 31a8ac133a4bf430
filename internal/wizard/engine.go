package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/model"
	"github.com/shagtracker/shagbot/internal/repository"
)

// Lifecycle is the slice of the goal service the engine needs: the draft
// write at the custom-date branch and the two terminal writes. Everything in
// between is a pure token transformation.
type Lifecycle interface {
	CreateActive(userID, description, category string, months int) (*model.Goal, error)
	CreateDraft(userID, description, category string) (*model.Goal, error)
	Finalize(goalID string, deadline time.Time) (*model.Goal, error)
}

type Button struct {
	Label string
	Token string
}

type Prompt struct {
	Text     string
	Keyboard [][]Button
}

// Result of advancing the wizard one stage: either the next screen or a
// terminal acknowledgement.
type Result struct {
	Prompt *Prompt
	Ack    string
	Goal   *model.Goal
}

func (r *Result) Terminal() bool {
	return r.Prompt == nil
}

type Engine struct {
	goals Lifecycle
}

func New(goals Lifecycle) *Engine {
	return &Engine{goals: goals}
}

var monthsShort = []string{"Янв", "Фев", "Мар", "Апр", "Май", "Июн", "Июл", "Авг", "Сен", "Окт", "Ноя", "Дек"}

var monthsFull = []string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь", "Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}

var monthsGenitive = []string{"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"}

// CategoryPrompt is the wizard entry: free goal text was received, the user
// picks a category. Both buttons carry the clamped description prefix.
func CategoryPrompt(desc string) *Prompt {
	return &Prompt{
		Text: "Отличная цель! К какой сфере она относится?",
		Keyboard: [][]Button{
			{{Label: "👤 Личная", Token: Encode(State{Stage: StageCategory, Category: model.CategoryPersonal, Desc: desc})}},
			{{Label: "💼 Деловая", Token: Encode(State{Stage: StageCategory, Category: model.CategoryBusiness, Desc: desc})}},
		},
	}
}

// Advance consumes one button press. userID is the acting user, resolved by
// the caller from the inbound event; the engine itself touches the store only
// for the draft and terminal writes.
func (e *Engine) Advance(userID, token string) (*Result, error) {
	s, err := Decode(token)
	if err != nil {
		return nil, err
	}

	switch s.Stage {
	case StageCategory:
		return &Result{Prompt: durationPrompt(s)}, nil
	case StagePreset:
		return e.commitPreset(userID, s)
	case StageCustom:
		return e.openDraft(userID, s)
	case StageYear:
		return &Result{Prompt: monthPrompt(s)}, nil
	case StageMonth:
		return &Result{Prompt: dayPrompt(s)}, nil
	case StageDay:
		return &Result{Prompt: hourPrompt(s)}, nil
	case StageTime:
		return e.commitDeadline(s)
	}

	return nil, ErrUnknownStage
}

func durationPrompt(s State) *Prompt {
	preset := func(months int, label string) Button {
		next := s
		next.Stage = StagePreset
		next.Months = months
		return Button{Label: label, Token: Encode(next)}
	}
	custom := s
	custom.Stage = StageCustom

	return &Prompt{
		Text: "На какой период планируешь её поставить?",
		Keyboard: [][]Button{
			{preset(3, "3 месяца"), preset(6, "6 месяцев")},
			{preset(9, "9 месяцев"), preset(12, "12 месяцев")},
			{{Label: "📅 Выбрать дату и время", Token: Encode(custom)}},
		},
	}
}

func (e *Engine) commitPreset(userID string, s State) (*Result, error) {
	goal, err := e.goals.CreateActive(userID, s.Desc, s.Category, s.Months)
	if err != nil {
		return nil, err
	}
	return &Result{Goal: goal, Ack: committedAck(goal)}, nil
}

// openDraft creates the placeholder goal and offers the year screen. From
// here on the tokens carry the draft's id instead of the description.
func (e *Engine) openDraft(userID string, s State) (*Result, error) {
	goal, err := e.goals.CreateDraft(userID, s.Desc, s.Category)
	if err != nil {
		return nil, err
	}

	currentYear := clock.Now().Year()
	var row []Button
	for y := currentYear; y <= currentYear+2; y++ {
		next := State{Stage: StageYear, Category: s.Category, GoalID: goal.ID, Year: y}
		row = append(row, Button{Label: strconv.Itoa(y), Token: Encode(next)})
	}

	return &Result{Prompt: &Prompt{
		Text:     "📅 Выберите год окончания цели:",
		Keyboard: [][]Button{row},
	}}, nil
}

func monthPrompt(s State) *Prompt {
	// Fixed 4x3 grid, January top-left.
	var keyboard [][]Button
	for row := 0; row < 4; row++ {
		var buttons []Button
		for col := 0; col < 3; col++ {
			idx := row*3 + col
			next := s
			next.Stage = StageMonth
			next.Month = idx
			buttons = append(buttons, Button{Label: monthsShort[idx], Token: Encode(next)})
		}
		keyboard = append(keyboard, buttons)
	}

	return &Prompt{
		Text:     fmt.Sprintf("📅 Год: %d\nВыберите месяц:", s.Year),
		Keyboard: keyboard,
	}
}

func dayPrompt(s State) *Prompt {
	// Days 1..31 are offered unconditionally; an impossible day is clamped at
	// commit time.
	var keyboard [][]Button
	var row []Button
	for d := 1; d <= 31; d++ {
		next := s
		next.Stage = StageDay
		next.Day = d
		row = append(row, Button{Label: strconv.Itoa(d), Token: Encode(next)})
		if len(row) == 7 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	return &Prompt{
		Text:     fmt.Sprintf("📅 %s %d\nВыберите день:", monthsFull[s.Month], s.Year),
		Keyboard: keyboard,
	}
}

func hourPrompt(s State) *Prompt {
	var keyboard [][]Button
	var row []Button
	for h := 0; h < 24; h++ {
		next := s
		next.Stage = StageTime
		next.Hour = h
		row = append(row, Button{Label: fmt.Sprintf("%02d:00", h), Token: Encode(next)})
		if len(row) == 4 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}

	return &Prompt{
		Text:     fmt.Sprintf("📅 Дата: %d.%d.%d\n⏰ Выберите время дедлайна:", s.Day, s.Month+1, s.Year),
		Keyboard: keyboard,
	}
}

func (e *Engine) commitDeadline(s State) (*Result, error) {
	deadline := DeadlineFor(s.Year, s.Month, s.Day, s.Hour)

	goal, err := e.goals.Finalize(s.GoalID, deadline)
	if errors.Is(err, repository.ErrConflict) {
		// Replayed terminal token: the draft was already activated. Answer
		// politely instead of creating a second activation.
		return &Result{Ack: "✅ Эта цель уже активна."}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Result{Goal: goal, Ack: committedAck(goal)}, nil
}

// DeadlineFor resolves the picked calendar fields into an instant on the bot
// wall clock. A day past the end of the picked month clamps to that month's
// last day (Feb 30 → Feb 28/29) rather than rolling into the next month.
func DeadlineFor(year, monthIdx, day, hour int) time.Time {
	month := time.Month(monthIdx + 1)
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, hour, 0, 0, 0, clock.Zone)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, clock.Zone).Day()
}

func committedAck(goal *model.Goal) string {
	return fmt.Sprintf("✅ [%s] Цель установлена до %s:\n%q\n\nТеперь каждый день делай ШАГ и отмечай его в приложении!",
		goal.CategoryLabel(), FormatDeadline(goal.Deadline), goal.Description)
}

// FormatDeadline renders an instant the way the bot speaks dates: Russian
// genitive month, bot wall clock.
func FormatDeadline(t time.Time) string {
	t = t.In(clock.Zone)
	return fmt.Sprintf("%d %s %d, %02d:%02d", t.Day(), monthsGenitive[int(t.Month())-1], t.Year(), t.Hour(), t.Minute())
}
