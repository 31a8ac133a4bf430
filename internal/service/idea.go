package service

import (
	"fmt"

	"github.com/shagtracker/shagbot/internal/model"
	"github.com/shagtracker/shagbot/internal/repository"
)

type IdeaService struct {
	repo repository.IdeaRepository
}

func NewIdeaService(repo repository.IdeaRepository) *IdeaService {
	return &IdeaService{repo: repo}
}

func (s *IdeaService) Submit(telegramID int64, username, content string) error {
	idea := &model.Idea{
		TelegramID: telegramID,
		Content:    content,
	}
	if username != "" {
		idea.Username = &username
	}

	err := s.repo.Create(idea)
	if err != nil {
		return fmt.Errorf("failed to save idea: %w", err)
	}
	return nil
}
