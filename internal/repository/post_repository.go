package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bluesea/internal/models"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const insertPostQuery = `
	INSERT INTO posts
	(post_id, user_id, title, body, source, tags, image_ref, created_at, updated_at)
	VALUES
	(:post_id, :user_id, :title, :body, :source, :tags, :image_ref, :created_at, :updated_at)
`

func preparePost(post *models.Post) {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	if post.Tags == nil {
		post.Tags = []string{}
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	preparePost(post)

	_, err := r.db.NamedExecContext(ctx, insertPostQuery, post)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

// CreateBatch сохраняет все посты в одной транзакции:
// либо фиксируются все, либо ни одного
func (r *postRepository) CreateBatch(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}

	for _, post := range posts {
		preparePost(post)

		if _, err := tx.NamedExecContext(ctx, insertPostQuery, post); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при создании поста: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.PostWithAuthor, error) {
	// кривой id не доводим до Postgres, иначе ошибка приведения к uuid
	if _, err := uuid.Parse(postID); err != nil {
		return nil, fmt.Errorf("пост с ID %s: %w", postID, ErrNotFound)
	}

	query := `
		SELECT posts.*, users.email AS author_email, users.is_admin AS author_is_admin
		FROM posts
		JOIN users ON users.user_id = posts.user_id
		WHERE post_id = $1
	`

	var post models.PostWithAuthor
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

// List возвращает посты новыми вперёд; post_id добивает порядок
// при равных created_at. Вызывающий передаёт limit с запасом +1,
// чтобы определить наличие следующей страницы
func (r *postRepository) List(ctx context.Context, source string, limit, offset int) ([]models.PostWithAuthor, error) {
	var posts []models.PostWithAuthor
	var err error

	if source != "" {
		query := `
			SELECT posts.*, users.email AS author_email, users.is_admin AS author_is_admin
			FROM posts
			JOIN users ON users.user_id = posts.user_id
			WHERE source = $1
			ORDER BY created_at DESC, post_id DESC
			LIMIT $2 OFFSET $3
		`
		err = r.db.SelectContext(ctx, &posts, query, source, limit, offset)
	} else {
		query := `
			SELECT posts.*, users.email AS author_email, users.is_admin AS author_is_admin
			FROM posts
			JOIN users ON users.user_id = posts.user_id
			ORDER BY created_at DESC, post_id DESC
			LIMIT $1 OFFSET $2
		`
		err = r.db.SelectContext(ctx, &posts, query, limit, offset)
	}

	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	return posts, nil
}
