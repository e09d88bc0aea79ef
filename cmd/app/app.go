package app

import (
	"log"

	"bluesea/internal/config"
	"bluesea/internal/database"
	"bluesea/internal/repository"
	"bluesea/internal/service"
	"bluesea/internal/storage"
)

func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// storage backend
	var store storage.Storage
	switch cfg.Uploads.Backend {
	case "minio":
		minioStore, err := storage.NewMinIOStorage(cfg)
		if err != nil {
			log.Fatalf("Не удалось инициализировать MinIO: %v", err)
		}
		store = minioStore
	default:
		store = storage.NewLocalStorage(cfg.Uploads.Dir)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, store)

	return db, repo, services
}
