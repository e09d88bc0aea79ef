package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"bluesea/cmd/app"
	"bluesea/internal/config"
	handlers "bluesea/internal/handler"
	"bluesea/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, repo, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(repo, services, db, cfg)

	router := mux.NewRouter()

	authRequired := middleware.Auth(cfg)

	// setting up routes
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.Handle("/api/me", authRequired(http.HandlerFunc(handler.GetCurrentUser))).Methods(http.MethodGet)

	router.HandleFunc("/api/posts", handler.GetPosts).Methods(http.MethodGet)
	router.Handle("/api/posts", authRequired(http.HandlerFunc(handler.CreatePost))).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id}", handler.GetPost).Methods(http.MethodGet)

	router.Handle("/api/import/mock", authRequired(http.HandlerFunc(handler.ImportPosts))).Methods(http.MethodPost)

	// serving stored uploads, only for the local backend
	if cfg.Uploads.Backend != "minio" {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))
	}

	handlerChain := middleware.Chain(
		router,
		middleware.Logging,
		middleware.CORS,
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Сервер запущен на %s", addr)
	log.Printf("База данных: %s", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
