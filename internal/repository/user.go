package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Upsert(user *model.User) (*model.User, error)
	ByTelegramID(telegramID int64) (*model.User, error)
	ByID(userID string) (*model.User, error)
	WithReminderAt(minute string) ([]*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert creates the user on first contact and refreshes the Telegram
// identity fields on every later one. Profile fields (occupation, reminder
// time) are never overwritten here.
func (r *userRepository) Upsert(user *model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = clock.Now()
	}

	query := `
		INSERT INTO users (id, telegram_id, username, first_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = excluded.username, first_name = excluded.first_name
	`
	_, err := r.db.Exec(query,
		user.ID,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.ByTelegramID(user.TelegramID)
}

func (r *userRepository) ByTelegramID(telegramID int64) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE telegram_id = $1`

	err := r.db.Get(user, query, telegramID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByID(userID string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

// WithReminderAt returns users whose reminder minute matches and who have at
// least one ACTIVE goal, so the reminder sweep never pings users with nothing
// to report on.
func (r *userRepository) WithReminderAt(minute string) ([]*model.User, error) {
	var users []*model.User
	query := `
		SELECT u.* FROM users u
		WHERE u.reminder_time = $1
		  AND EXISTS (
			SELECT 1 FROM goals g
			WHERE g.user_id = u.id AND g.status = $2
		  )
	`
	err := r.db.Select(&users, query, minute, model.GoalStatusActive)
	if err != nil {
		return nil, err
	}
	return users, nil
}
