package main

import (
	"context"
	"log"
	"os"
	"time"

	"metria/internal/api"
	"metria/internal/auth"
	"metria/internal/config"
	"metria/internal/llm"
	"metria/internal/redis"
	"metria/internal/service/maitre"
	"metria/internal/service/restaurant"
	"metria/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("METRIA_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("METRIA_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	if os.Getenv("METRIA_SEED") == "1" {
		if err := storage.Seed(context.Background(), db, cfg.BasicConfig.PublicBaseURL); err != nil {
			log.Fatalf("seed database: %v", err)
		}
	}

	// Redis fronts the staff token table; the service runs without it.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb, err = redis.NewClient(cfg)
		if err != nil {
			log.Fatalf("create redis client: %v", err)
		}
		defer rdb.Close()
	}

	restaurantService := restaurant.NewService(db)

	completer, err := llm.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init completion client: %v", err)
	}
	maitreService := maitre.NewManager(maitre.NewMemoryStore(), restaurantService, completer)

	authService := auth.NewService(db, rdb, 24*time.Hour)
	uploadDir := cfg.BasicConfig.UploadDir
	if uploadDir == "" {
		uploadDir = "./data/uploads"
	}
	handlers := api.NewHandler(restaurantService, maitreService, authService, uploadDir, cfg.BasicConfig.PublicBaseURL)

	router := gin.Default()
	router.Static("/uploads", uploadDir)
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
