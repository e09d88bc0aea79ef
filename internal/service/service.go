package service

import (
	"bluesea/internal/config"
	"bluesea/internal/repository"
	"bluesea/internal/storage"
)

type Service struct {
	Auth   AuthService
	Post   PostService
	Import ImportService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		Auth:   NewAuthService(rep.User, cfg),
		Post:   NewPostService(rep.Post, storage, cfg),
		Import: NewImportService(rep.Post, rep.User, cfg),
	}
}
