package model

import (
	"time"
)

// Idea is a free-form suggestion collected through the /idea command.
type Idea struct {
	ID         string    `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Username   *string   `db:"username"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}
