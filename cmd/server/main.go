package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/config"
	"github.com/finbeam/guarantor-intake/internal/database"
	"github.com/finbeam/guarantor-intake/internal/handler"
	"github.com/finbeam/guarantor-intake/internal/middleware"
	"github.com/finbeam/guarantor-intake/internal/queue"
	"github.com/finbeam/guarantor-intake/internal/repository"
	"github.com/finbeam/guarantor-intake/internal/router"
	"github.com/finbeam/guarantor-intake/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared DB handle.
	subs := repository.NewSubmissionRepo(db)
	atts := repository.NewAttachmentRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Services.
	subSvc := service.NewSubmissionService(subs, atts)
	dashSvc := service.NewDashboardService(subs)

	// Background consumer appends the intake audit trail; it reconnects
	// on its own and never blocks startup.
	go func() {
		if err := queue.StartIntakeConsumer(); err != nil {
			log.Printf("intake-consumer stopped: %v", err)
		}
	}()

	e := echo.New()

	// The limiter is attached per route group, after JWTAuth on the
	// protected ones, so user-keyed strategies see the authenticated
	// id. A nil Redis client disables it. Only /healthz is unlimited.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, limiter)
	router.RegisterGuarantor(e,
		handler.NewSubmissionHandler(subSvc),
		handler.NewAttachmentHandler(subSvc),
		handler.NewDashboardHandler(dashSvc),
		cfg.JWTSecret, limiter)
	router.RegisterAdmin(e, handler.NewUserHandler(users), cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
