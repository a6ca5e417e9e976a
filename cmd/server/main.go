package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/vehicle-repair-shop/internal/config"
	"github.com/iliyamo/vehicle-repair-shop/internal/database"
	"github.com/iliyamo/vehicle-repair-shop/internal/handler"
	"github.com/iliyamo/vehicle-repair-shop/internal/queue"
	"github.com/iliyamo/vehicle-repair-shop/internal/repository"
	"github.com/iliyamo/vehicle-repair-shop/internal/router"
	queuepublisher "github.com/iliyamo/vehicle-repair-shop/internal/service"
	"github.com/iliyamo/vehicle-repair-shop/internal/storage"
)

func main() {
	// A missing .env file is fine; containers inject real environment.
	_ = godotenv.Load()
	cfg := config.Load()

	// The server must not accept requests until the database answers.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()
	log.Println("connected to database")

	uploads, err := storage.NewUploadStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store init failed: %v", err)
	}

	users := repository.NewUserRepo(db)
	repairs := repository.NewRepairRepo(db)
	details := repository.NewDetailRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	repairHandler := handler.NewRepairHandler(repairs, uploads)
	repairHandler.Publish = queuepublisher.PublishRepairStatus
	detailHandler := handler.NewDetailHandler(details, uploads)

	// Optional Redis: nil disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	// Status events land in logs/repairs.log; the consumer reconnects on its
	// own and never blocks serving.
	go func() {
		if err := queue.StartRepairConsumer(); err != nil {
			log.Printf("repair consumer stopped: %v", err)
		}
	}()

	e := router.New(cfg, authHandler, repairHandler, detailHandler, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
