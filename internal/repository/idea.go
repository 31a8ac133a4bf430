package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/model"
)

type IdeaRepository interface {
	Create(idea *model.Idea) error
}

type ideaRepository struct {
	db *sqlx.DB
}

func NewIdeaRepository(db *sqlx.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(idea *model.Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = clock.Now()
	}

	query := `
		INSERT INTO ideas (id, telegram_id, username, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		idea.ID,
		idea.TelegramID,
		idea.Username,
		idea.Content,
		idea.CreatedAt,
	)
	return err
}
