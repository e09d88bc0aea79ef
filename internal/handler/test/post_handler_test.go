package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bluesea/internal/config"
	handlers "bluesea/internal/handler"
	"bluesea/internal/repository"
	"bluesea/internal/service"
)

func newHandlers(postService *MockPostService, importService *MockImportService, authService *MockAuthService, userRepo *MockUserRepository) *handlers.Handlers {
	return &handlers.Handlers{
		AuthService:   authService,
		PostService:   postService,
		ImportService: importService,
		UserRepo:      userRepo,
		Cfg: &config.Config{
			MaxUploadSize: 10 * 1024 * 1024,
		},
		Validate: validator.New(),
	}
}

func TestGetPosts(t *testing.T) {
	t.Run("Параметры запроса передаются в сервис", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newHandlers(postService, new(MockImportService), new(MockAuthService), new(MockUserRepository))

		next := 20
		postService.On("ListPosts", mock.Anything, "imported", "20", "0").
			Return(&service.PostPage{
				Items:      []service.PostResponse{},
				Limit:      20,
				Offset:     0,
				NextOffset: &next,
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/posts?source=imported&limit=20&offset=0", nil)
		rr := httptest.NewRecorder()

		handler.GetPosts(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, float64(20), response["nextOffset"])
		postService.AssertExpectations(t)
	})

	t.Run("Ошибка сервиса даёт 500", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newHandlers(postService, new(MockImportService), new(MockAuthService), new(MockUserRepository))

		postService.On("ListPosts", mock.Anything, "", "", "").
			Return(nil, errors.New("ошибка при получении постов"))

		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		rr := httptest.NewRecorder()

		handler.GetPosts(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetPost(t *testing.T) {
	t.Run("Пост найден", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newHandlers(postService, new(MockImportService), new(MockAuthService), new(MockUserRepository))

		postService.On("GetPost", mock.Anything, "abc").
			Return(&service.PostResponse{ID: "abc", Title: "Ocean"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/posts/abc", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "abc"})
		rr := httptest.NewRecorder()

		handler.GetPost(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"Ocean"`)
	})

	t.Run("Отсутствующий пост даёт 404", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newHandlers(postService, new(MockImportService), new(MockAuthService), new(MockUserRepository))

		postService.On("GetPost", mock.Anything, "missing").
			Return(nil, repository.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/posts/missing", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "missing"})
		rr := httptest.NewRecorder()

		handler.GetPost(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func multipartBody(t *testing.T, fields map[string][]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(key, value))
		}
	}

	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreatePost(t *testing.T) {
	t.Run("Без авторизации 401", func(t *testing.T) {
		handler := newHandlers(new(MockPostService), new(MockImportService), new(MockAuthService), new(MockUserRepository))

		body, contentType := multipartBody(t, map[string][]string{"title": {"t"}, "body": {"b"}}, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		handler.CreatePost(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Повторяющиеся значения tags нормализуются", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newHandlers(postService, new(MockImportService), new(MockAuthService), new(MockUserRepository))

		postService.On("CreatePost", mock.Anything, mock.MatchedBy(func(req service.CreatePostRequest) bool {
			return req.UserID == "user-1" &&
				assert.ObjectsAreEqual(req.Tags, []string{"reef", "coral"})
		})).Return(&service.PostResponse{ID: "p1"}, nil)

		fields := map[string][]string{
			"title": {"Coral reefs"},
			"body":  {"are bleaching"},
			"tags":  {"Reef", " reef ", "Coral"},
		}
		body, contentType := multipartBody(t, fields, "", "", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
		req.Header.Set("Content-Type", contentType)
		req = req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
		rr := httptest.NewRecorder()

		handler.CreatePost(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		postService.AssertExpectations(t)
	})

	t.Run("Одно значение tags разбирается как JSON", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newHandlers(postService, new(MockImportService), new(MockAuthService), new(MockUserRepository))

		postService.On("CreatePost", mock.Anything, mock.MatchedBy(func(req service.CreatePostRequest) bool {
			return assert.ObjectsAreEqual(req.Tags, []string{"kelp", "tide"})
		})).Return(&service.PostResponse{ID: "p1"}, nil)

		fields := map[string][]string{
			"title": {"Kelp forests"},
			"body":  {"under pressure"},
			"tags":  {`["Kelp", "tide", "kelp"]`},
		}
		body, contentType := multipartBody(t, fields, "", "", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
		req.Header.Set("Content-Type", contentType)
		req = req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
		rr := httptest.NewRecorder()

		handler.CreatePost(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		postService.AssertExpectations(t)
	})

	t.Run("Файл из формы попадает в запрос сервиса", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newHandlers(postService, new(MockImportService), new(MockAuthService), new(MockUserRepository))

		postService.On("CreatePost", mock.Anything, mock.MatchedBy(func(req service.CreatePostRequest) bool {
			return req.Upload != nil && req.Upload.Filename == "reef.png"
		})).Return(&service.PostResponse{ID: "p1"}, nil)

		fields := map[string][]string{"title": {"t"}, "body": {"b"}}
		body, contentType := multipartBody(t, fields, "image", "reef.png", []byte("imagedata"))

		req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
		req.Header.Set("Content-Type", contentType)
		req = req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
		rr := httptest.NewRecorder()

		handler.CreatePost(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		postService.AssertExpectations(t)
	})

	t.Run("Ошибка валидации даёт 400", func(t *testing.T) {
		postService := new(MockPostService)
		handler := newHandlers(postService, new(MockImportService), new(MockAuthService), new(MockUserRepository))

		postService.On("CreatePost", mock.Anything, mock.Anything).
			Return(nil, &service.ValidationError{Message: "требуется заголовок поста"})

		fields := map[string][]string{"body": {"b"}}
		body, contentType := multipartBody(t, fields, "", "", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
		req.Header.Set("Content-Type", contentType)
		req = req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
		rr := httptest.NewRecorder()

		handler.CreatePost(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "заголовок")
	})
}
