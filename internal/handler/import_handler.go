package handlers

import (
	"errors"
	"io"
	"net/http"

	"bluesea/internal/service"
)

type ImportResponse struct {
	Imported int `json:"imported"`
}

// ImportPosts принимает пакет внешних постов. Ответы различают
// три исхода: создано N записей (201), подходящего контента
// нет (204) и ошибка валидации пакета (400)
func (h *Handlers) ImportPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	isAdmin, _ := r.Context().Value("isAdmin").(bool)
	if !isAdmin {
		WriteError(w, "Доступ запрещен", http.StatusForbidden)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, "Ошибка при чтении запроса", http.StatusBadRequest)
		return
	}

	imported, err := h.ImportService.ImportPosts(r.Context(), payload)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			WriteError(w, validationErr.Message, http.StatusBadRequest)
		} else {
			WriteError(w, "Ошибка при импорте постов", http.StatusInternalServerError)
		}
		return
	}

	if imported == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	WriteSuccess(w, ImportResponse{Imported: imported}, http.StatusCreated)
}
