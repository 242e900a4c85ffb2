package service

import (
	"context"
	"time"

	"github.com/mkuznetsov/vocab-llm-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

func (s *UserService) EnsureUser(ctx context.Context, userID int64, username, firstName, lastName, languageCode string) error {
	exists, err := s.repository.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.repository.SaveUser(ctx, &entities.User{
		ID:           userID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		CreatedAt:    time.Now(),
	})
}
