package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"bluesea/internal/models"
	"bluesea/internal/repository"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.UserID,
		Username: user.Email,
		IsAdmin:  user.IsAdmin,
	}
}

func (h *Handlers) decodeAuthRequest(w http.ResponseWriter, r *http.Request) (*RegisterRequest, bool) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return nil, false
	}

	req.Username = strings.TrimSpace(req.Username)

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Требуются имя пользователя и пароль не короче 8 символов", http.StatusBadRequest)
		return nil, false
	}

	if !usernameRe.MatchString(req.Username) {
		WriteError(w, "Имя пользователя: 3-50 символов, только буквы, цифры, точки, подчёркивания и дефисы", http.StatusBadRequest)
		return nil, false
	}

	return &req, true
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeAuthRequest(w, r)
	if !ok {
		return
	}

	user, accessToken, err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			WriteError(w, "Пользователь с таким именем уже существует", http.StatusConflict)
		} else {
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, AuthResponse{User: userResponse(user), AccessToken: accessToken}, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeAuthRequest(w, r)
	if !ok {
		return
	}

	user, accessToken, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, "Неверное имя пользователя или пароль", http.StatusUnauthorized)
		return
	}

	WriteSuccess(w, AuthResponse{User: userResponse(user), AccessToken: accessToken}, http.StatusOK)
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	user, err := h.UserRepo.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			WriteError(w, "Пользователь не найден", http.StatusNotFound)
		} else {
			WriteError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, map[string]UserResponse{"user": userResponse(user)}, http.StatusOK)
}
