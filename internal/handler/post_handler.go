package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"bluesea/internal/repository"
	"bluesea/internal/service"
	"bluesea/internal/storage"
	"bluesea/internal/tags"
)

// CreatePost создаёт пост из multipart-формы: title, body,
// необязательные source, tags и файл image
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Ошибка при обработке формы", http.StatusBadRequest)
		return
	}

	// dynamic tag shapes are resolved here, at the boundary:
	// repeated form values or a single raw string (JSON or delimited)
	tagValues := r.Form["tags"]
	if len(tagValues) == 0 {
		tagValues = r.Form["tags[]"]
	}

	var normalizedTags []string
	if len(tagValues) == 1 {
		normalizedTags = tags.NormalizeRaw(tagValues[0])
	} else {
		normalizedTags = tags.NormalizeList(tagValues)
	}

	req := service.CreatePostRequest{
		UserID: userID,
		Title:  r.FormValue("title"),
		Body:   r.FormValue("body"),
		Source: r.FormValue("source"),
		Tags:   normalizedTags,
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		req.Upload = &storage.Upload{
			File:        file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), req)
	if err != nil {
		var validationErr *service.ValidationError
		var storageErr *storage.StorageError

		switch {
		case errors.As(err, &validationErr):
			WriteError(w, validationErr.Message, http.StatusBadRequest)
		case errors.As(err, &storageErr):
			WriteError(w, storageErr.Message, http.StatusBadRequest)
		default:
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, map[string]*service.PostResponse{"post": post}, http.StatusCreated)
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	page, err := h.PostService.ListPosts(r.Context(), query.Get("source"), query.Get("limit"), query.Get("offset"))
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, page, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	postID := mux.Vars(r)["id"]

	post, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			WriteError(w, "Пост не найден", http.StatusNotFound)
		} else {
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, map[string]*service.PostResponse{"post": post}, http.StatusOK)
}
