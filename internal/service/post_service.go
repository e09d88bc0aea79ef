package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"bluesea/internal/config"
	"bluesea/internal/models"
	"bluesea/internal/repository"
	"bluesea/internal/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 50
)

type CreatePostRequest struct {
	UserID string
	Title  string
	Body   string
	Source string
	// Tags уже нормализованы на границе (internal/tags)
	Tags   []string
	Upload *storage.Upload
}

type AuthorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type PostResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Source    string         `json:"source"`
	Tags      []string       `json:"tags"`
	ImageURL  string         `json:"imageUrl"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	User      AuthorResponse `json:"user"`
}

type PostPage struct {
	Items      []PostResponse `json:"items"`
	NextOffset *int           `json:"nextOffset"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

type PostService interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*PostResponse, error)
	ListPosts(ctx context.Context, source, limitParam, offsetParam string) (*PostPage, error)
	GetPost(ctx context.Context, postID string) (*PostResponse, error)
}

type postService struct {
	postRepo repository.PostRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewPostService(postRepo repository.PostRepository, storage storage.Storage, cfg *config.Config) PostService {
	return &postService{
		postRepo: postRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

func (p *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*PostResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, newValidationError("требуется заголовок поста")
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, newValidationError("требуется текст поста")
	}

	source := strings.ToLower(strings.TrimSpace(req.Source))
	if source == "" {
		source = "community"
	}

	post := &models.Post{
		UserID: req.UserID,
		Title:  title,
		Body:   body,
		Source: source,
		Tags:   req.Tags,
	}

	// save media before the record, a rejected upload must not create a post
	if req.Upload != nil {
		ref, err := p.storage.Save(ctx, req.Upload)
		if err != nil {
			return nil, err
		}
		post.ImageRef = ref
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := p.postRepo.GetByID(ctx, post.PostID)
	if err != nil {
		return nil, err
	}

	response := p.serializePost(created)
	return &response, nil
}

// ListPosts держит limit в [1, 50] с умолчанием 20, offset
// неотрицательный. Запрашивается на одну запись больше limit,
// чтобы понять, есть ли следующая страница
func (p *postService) ListPosts(ctx context.Context, source, limitParam, offsetParam string) (*PostPage, error) {
	limit := defaultLimit
	if value, err := strconv.Atoi(limitParam); limitParam != "" && err == nil {
		limit = value
		if limit < 1 {
			limit = 1
		}
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	offset := 0
	if value, err := strconv.Atoi(offsetParam); offsetParam != "" && err == nil && value > 0 {
		offset = value
	}

	source = strings.ToLower(strings.TrimSpace(source))

	posts, err := p.postRepo.List(ctx, source, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	items := make([]PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, p.serializePost(&posts[i]))
	}

	page := &PostPage{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	}

	// next offset counts the records actually returned, not the limit
	if hasMore {
		next := offset + len(items)
		page.NextOffset = &next
	}

	return page, nil
}

func (p *postService) GetPost(ctx context.Context, postID string) (*PostResponse, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	response := p.serializePost(post)
	return &response, nil
}

func (p *postService) serializePost(post *models.PostWithAuthor) PostResponse {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	return PostResponse{
		ID:        post.PostID,
		Title:     post.Title,
		Body:      post.Body,
		Source:    post.Source,
		Tags:      tags,
		ImageURL:  post.ImageRef.ResolveURL(p.cfg.Uploads.PublicBase),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
		User: AuthorResponse{
			ID:       post.UserID,
			Username: post.AuthorEmail,
			IsAdmin:  post.AuthorIsAdmin,
		},
	}
}
