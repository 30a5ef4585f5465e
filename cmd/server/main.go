package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-record/internal/auth"
	"github.com/iliyamo/health-record/internal/config"
	"github.com/iliyamo/health-record/internal/database"
	"github.com/iliyamo/health-record/internal/handler"
	"github.com/iliyamo/health-record/internal/middleware"
	"github.com/iliyamo/health-record/internal/queue"
	"github.com/iliyamo/health-record/internal/repository"
	"github.com/iliyamo/health-record/internal/router"
	queue_publisher "github.com/iliyamo/health-record/internal/service"
)

func main() {
	// Load .env if present; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	documents := repository.NewDocumentRepo(db)
	insights := repository.NewInsightRepo(db)
	reminders := repository.NewReminderRepo(db)

	codec := auth.NewCodec(cfg.JWTSecret, time.Duration(cfg.TokenTTLDays)*24*time.Hour)
	sessions := auth.NewSessionManager(codec, users, cfg.BcryptCost, cfg.Env == "prod")

	e := echo.New()

	// Rate limiting degrades to a pass-through when redis is unavailable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, auth rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(sessions), sessions, limiter)
	router.RegisterRecords(e,
		handler.NewDocumentHandler(documents, queue_publisher.PublishDocumentRecorded),
		handler.NewInsightHandler(insights),
		handler.NewReminderHandler(reminders),
		sessions)

	// The consumer reconnects forever; run it alongside the HTTP server.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
