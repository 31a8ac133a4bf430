package service

import (
	"github.com/shagtracker/shagbot/internal/model"
	"github.com/shagtracker/shagbot/internal/repository"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Ensure creates the user on first interaction and refreshes the Telegram
// identity fields otherwise. Users are never deleted here.
func (s *UserService) Ensure(telegramID int64, username, firstName string) (*model.User, error) {
	user := &model.User{
		TelegramID: telegramID,
	}
	if username != "" {
		user.Username = &username
	}
	if firstName != "" {
		user.FirstName = &firstName
	}
	return s.repo.Upsert(user)
}

func (s *UserService) ByTelegramID(telegramID int64) (*model.User, error) {
	return s.repo.ByTelegramID(telegramID)
}
