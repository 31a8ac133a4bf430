package model

import (
	"time"
)

type User struct {
	ID         string  `db:"id"`
	TelegramID int64   `db:"telegram_id"`
	Username   *string `db:"username"`
	FirstName  *string `db:"first_name"`
	Occupation *string `db:"occupation"`
	// ReminderTime is "HH:MM" on the bot's wall clock, nil when reminders are off.
	ReminderTime *string   `db:"reminder_time"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *User) DisplayName() string {
	if u.FirstName != nil && *u.FirstName != "" {
		return *u.FirstName
	}
	return "друг"
}
