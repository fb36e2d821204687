package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/config"
	"github.com/iliyamo/library-portal/internal/database"
	"github.com/iliyamo/library-portal/internal/handler"
	"github.com/iliyamo/library-portal/internal/middleware"
	"github.com/iliyamo/library-portal/internal/queue"
	"github.com/iliyamo/library-portal/internal/repository"
	"github.com/iliyamo/library-portal/internal/router"
	"github.com/iliyamo/library-portal/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; caches degrade

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	members := repository.NewMemberRepo(db)
	books := repository.NewBookRepo(db)
	borrowings := repository.NewBorrowingRepo(db)
	extensions := repository.NewExtensionRepo(db)
	librarians := repository.NewLibrarianRepo(db)
	sequences := repository.NewSequenceRepo(db)
	settings := repository.NewSettingsRepo(db, rdb)

	// Services.
	rules := service.NewRulesProvider(settings)
	notifier := queue.NewDispatcher(extensions)
	svc := service.NewExtensionService(db, borrowings, extensions, librarians, sequences, rules, notifier)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens, members)
	memberH := handler.NewMemberHandler(members, users, borrowings, extensions, svc)
	librarianH := handler.NewLibrarianHandler(members, extensions, svc, rules)
	publicH := handler.NewPublicHandler(books, borrowings, extensions)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, limiter)
	router.RegisterPublic(e, publicH, cache)
	router.RegisterMember(e, memberH, authH, cfg.JWTSecret, limiter)
	router.RegisterLibrarian(e, librarianH, cfg.JWTSecret, limiter)

	// Notification consumer; runs its own reconnect loop.
	go func() {
		if err := queue.StartExtensionConsumer(); err != nil {
			log.Printf("extension-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
