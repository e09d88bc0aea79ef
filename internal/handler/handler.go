package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"bluesea/internal/config"
	"bluesea/internal/repository"
	"bluesea/internal/service"
)

// Pinger - проверка живости хранилища для /health
type Pinger interface {
	HealthCheck() error
}

type Handlers struct {
	AuthService   service.AuthService
	PostService   service.PostService
	ImportService service.ImportService
	UserRepo      repository.UserRepository
	DB            Pinger
	Cfg           *config.Config
	Validate      *validator.Validate
}

func NewHandlers(repo *repository.Repository, service *service.Service, db Pinger, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:   service.Auth,
		PostService:   service.Post,
		ImportService: service.Import,
		UserRepo:      repo.User,
		DB:            db,
		Cfg:           config,
		Validate:      validator.New(),
	}
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.HealthCheck(); err != nil {
			WriteError(w, "база данных недоступна", http.StatusServiceUnavailable)
			return
		}
	}

	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
