package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"bluesea/internal/models"
)

// ErrNotFound - запрошенной записи нет; обработчики отличают
// её от остальных ошибок через errors.Is
var ErrNotFound = errors.New("запись не найдена")

// ErrEmailTaken - нарушение уникальности email при регистрации
var ErrEmailTaken = errors.New("пользователь с таким email уже существует")

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EnsureUser(ctx context.Context, email, password string, isAdmin bool) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	CreateBatch(ctx context.Context, posts []*models.Post) error
	GetByID(ctx context.Context, postID string) (*models.PostWithAuthor, error)
	List(ctx context.Context, source string, limit, offset int) ([]models.PostWithAuthor, error)
}

type Repository struct {
	User UserRepository
	Post PostRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User: NewUserRepository(db),
		Post: NewPostRepository(db),
	}
}
