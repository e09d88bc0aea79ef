package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type User struct {
	UserID       string    `json:"userId" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Post struct {
	PostID    string         `json:"postId" db:"post_id"`
	UserID    string         `json:"userId" db:"user_id"`
	Title     string         `json:"title" db:"title"`
	Body      string         `json:"body" db:"body"`
	Source    string         `json:"source" db:"source"`
	Tags      pq.StringArray `json:"tags" db:"tags"`
	ImageRef  ImageRef       `json:"imageRef" db:"image_ref"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// PostWithAuthor - пост вместе с данными автора для выдачи наружу
type PostWithAuthor struct {
	Post
	AuthorEmail   string `json:"-" db:"author_email"`
	AuthorIsAdmin bool   `json:"-" db:"author_is_admin"`
}

type ImageRefKind int

const (
	ImageNone ImageRefKind = iota
	// ImageExternal - полный URL на сторонний ресурс
	ImageExternal
	// ImageStored - относительный путь внутри каталога загрузок
	ImageStored
)

// ImageRef - ссылка на изображение поста: либо внешний URL,
// либо относительный путь к сохранённому файлу
type ImageRef struct {
	kind ImageRefKind
	ref  string
}

func ExternalImage(url string) ImageRef {
	return ImageRef{kind: ImageExternal, ref: url}
}

func StoredImage(relPath string) ImageRef {
	return ImageRef{kind: ImageStored, ref: relPath}
}

// ParseImageRef восстанавливает вариант из строки, сохранённой в БД
func ParseImageRef(raw string) ImageRef {
	if raw == "" {
		return ImageRef{}
	}
	normalized := strings.ReplaceAll(raw, "\\", "/")
	lower := strings.ToLower(normalized)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ImageRef{kind: ImageExternal, ref: normalized}
	}
	return ImageRef{kind: ImageStored, ref: normalized}
}

func (r ImageRef) Kind() ImageRefKind {
	return r.kind
}

func (r ImageRef) IsZero() bool {
	return r.kind == ImageNone
}

// String - форма для хранения в колонке image_ref
func (r ImageRef) String() string {
	return r.ref
}

// ResolveURL превращает ссылку в адрес, доступный клиенту.
// Внешний URL проходит без изменений, сохранённый путь
// подставляется к публичному базовому пути загрузок
func (r ImageRef) ResolveURL(publicBase string) string {
	switch r.kind {
	case ImageExternal:
		return r.ref
	case ImageStored:
		return strings.TrimSuffix(publicBase, "/") + "/" + strings.TrimPrefix(r.ref, "/")
	default:
		return ""
	}
}

func (r ImageRef) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return r.ref, nil
}

func (r *ImageRef) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = ImageRef{}
	case string:
		*r = ParseImageRef(v)
	case []byte:
		*r = ParseImageRef(string(v))
	default:
		return fmt.Errorf("неподдерживаемый тип image_ref: %T", src)
	}
	return nil
}

func (r ImageRef) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(r.ref)
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*r = ImageRef{}
		return nil
	}
	*r = ParseImageRef(*raw)
	return nil
}
