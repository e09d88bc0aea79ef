package service

import (
	"context"
	"encoding/json"
	"strings"

	"bluesea/internal/config"
	"bluesea/internal/marine"
	"bluesea/internal/models"
	"bluesea/internal/repository"
	"bluesea/internal/tags"
)

// ImportService - пакетный приём постов из внешнего источника.
// Кандидаты сначала валидируются все целиком, затем фильтруются
// классификатором, выжившие сохраняются одной транзакцией от имени
// служебной админской записи
type ImportService interface {
	ImportPosts(ctx context.Context, payload json.RawMessage) (int, error)
}

type importService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewImportService(postRepo repository.PostRepository, userRepo repository.UserRepository, cfg *config.Config) ImportService {
	return &importService{
		postRepo: postRepo,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

type candidate struct {
	Title       string
	Body        string
	Source      string
	ImageURL    string
	Tags        []string
	Summary     string
	Description string
}

func (s *importService) ImportPosts(ctx context.Context, payload json.RawMessage) (int, error) {
	candidates, err := collectCandidates(payload)
	if err != nil {
		return 0, err
	}

	var admitted []candidate
	for _, c := range candidates {
		if marine.IsMarine(c.combinedText()) {
			admitted = append(admitted, c)
		}
	}

	// zero admitted is not an error, the caller reports it as empty success
	if len(admitted) == 0 {
		return 0, nil
	}

	author, err := s.userRepo.EnsureUser(ctx, s.cfg.Admin.Email, s.cfg.Admin.Password, true)
	if err != nil {
		return 0, err
	}

	posts := make([]*models.Post, 0, len(admitted))
	for _, c := range admitted {
		post := &models.Post{
			UserID: author.UserID,
			Title:  c.Title,
			Body:   c.Body,
			Source: c.Source,
			Tags:   c.Tags,
		}
		if c.ImageURL != "" {
			post.ImageRef = models.ParseImageRef(c.ImageURL)
		}
		posts = append(posts, post)
	}

	if err := s.postRepo.CreateBatch(ctx, posts); err != nil {
		return 0, err
	}

	return len(posts), nil
}

func (c candidate) combinedText() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{c.Title, c.Summary, c.Description, c.Body, strings.Join(c.Tags, " ")} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// collectCandidates валидирует весь пакет до какой-либо классификации
// или записи. Любая ошибка валидации отклоняет пакет целиком,
// в сообщении указывается индекс проблемного элемента
func collectCandidates(payload json.RawMessage) ([]candidate, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, newValidationError("тело запроса должно быть JSON-объектом")
	}

	rawPosts, ok := envelope["posts"]
	if !ok {
		return nil, newValidationError("в запросе должен быть список постов под ключом 'posts'")
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(rawPosts, &rawItems); err != nil {
		return nil, newValidationError("в запросе должен быть список постов под ключом 'posts'")
	}
	// JSON null распаковывается в nil-срез без ошибки, это не список
	if rawItems == nil {
		return nil, newValidationError("в запросе должен быть список постов под ключом 'posts'")
	}

	candidates := make([]candidate, 0, len(rawItems))
	for index, rawItem := range rawItems {
		var item map[string]interface{}
		if err := json.Unmarshal(rawItem, &item); err != nil || item == nil {
			return nil, newValidationError("пост с индексом %d должен быть объектом", index)
		}

		title, err := requiredString(item, "title", index)
		if err != nil {
			return nil, err
		}

		body, err := requiredString(item, "body", index)
		if err != nil {
			return nil, err
		}

		source, err := optionalString(item, "source", index)
		if err != nil {
			return nil, err
		}
		source = strings.ToLower(strings.TrimSpace(source))
		if source == "" {
			source = "imported"
		}

		imageURL, err := optionalString(item, "image_url", index)
		if err != nil {
			return nil, err
		}

		summary, err := optionalString(item, "summary", index)
		if err != nil {
			return nil, err
		}

		description, err := optionalString(item, "description", index)
		if err != nil {
			return nil, err
		}

		tagList, err := optionalStringList(item, "tags", index)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, candidate{
			Title:       title,
			Body:        body,
			Source:      source,
			ImageURL:    strings.TrimSpace(imageURL),
			Tags:        tags.NormalizeList(tagList),
			Summary:     strings.TrimSpace(summary),
			Description: strings.TrimSpace(description),
		})
	}

	return candidates, nil
}

func requiredString(item map[string]interface{}, key string, index int) (string, error) {
	value, ok := item[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", newValidationError("у поста с индексом %d отсутствует корректное поле %s", index, key)
	}
	return strings.TrimSpace(value), nil
}

func optionalString(item map[string]interface{}, key string, index int) (string, error) {
	raw, present := item[key]
	if !present || raw == nil {
		return "", nil
	}

	value, ok := raw.(string)
	if !ok {
		return "", newValidationError("у поста с индексом %d некорректное поле %s", index, key)
	}
	return value, nil
}

func optionalStringList(item map[string]interface{}, key string, index int) ([]string, error) {
	raw, present := item[key]
	if !present || raw == nil {
		return nil, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, newValidationError("пост с индексом %d должен передавать %s списком", index, key)
	}

	values := make([]string, 0, len(list))
	for _, element := range list {
		// non-string elements are skipped, not rejected
		if s, ok := element.(string); ok {
			values = append(values, s)
		}
	}
	return values, nil
}
