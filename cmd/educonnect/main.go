package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/educonnect/educonnect/internal/api"
	"github.com/educonnect/educonnect/internal/auth"
	"github.com/educonnect/educonnect/internal/boot"
	"github.com/educonnect/educonnect/internal/chat"
	"github.com/educonnect/educonnect/internal/config"
	"github.com/educonnect/educonnect/internal/db"
	"github.com/educonnect/educonnect/internal/directory"
	"github.com/educonnect/educonnect/internal/i18n"
	"github.com/educonnect/educonnect/internal/marketplace"
	"github.com/educonnect/educonnect/internal/session"
)

const sessionTokenTTL = 7 * 24 * time.Hour

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey := getEnv("SECRET_KEY", "change_me_in_production")
	dbPath := getEnv("DB_PATH", filepath.Join("data", "educonnect.db"))
	port := getEnv("PORT", "8080")
	defaultLanguage := getEnv("DEFAULT_LANGUAGE", "pt")

	appLogger := log.New(os.Stderr, "", log.LstdFlags)

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	repositories := db.NewRepositories(database)

	i18nManager, err := i18n.NewManager(defaultLanguage, filepath.Join("internal", "i18n", "locales"))
	if err != nil {
		log.Fatalf("i18n init failed: %v", err)
	}

	directoryConfig := config.Load()
	directoryClient := directory.NewClient(directoryConfig.APIKey, directoryConfig.BaseID)

	notices := api.NewNoticeBuffer()
	sessionStore := session.NewStore(repositories.KV)
	tokens := auth.NewTokenIssuer([]byte(secretKey), sessionTokenTTL)
	authManager := auth.NewManager(directoryClient, sessionStore, tokens, notices, appLogger, directoryConfig.UsersTable)

	bootController := boot.NewController(
		func() ([]string, []string) {
			return directoryConfig.Tables(), directoryConfig.Missing()
		},
		boot.ProberFunc(func(ctx context.Context, table string) error {
			_, err := directoryClient.List(ctx, table, directory.ListParams{PageSize: 1})
			return err
		}),
		appLogger,
	)

	market := marketplace.NewService(directoryClient, marketplace.Tables{
		Users:   directoryConfig.UsersTable,
		Grupos:  directoryConfig.GruposTable,
		Sessoes: directoryConfig.SessoesTable,
	}, appLogger)

	chatStore := chat.NewStore(repositories.Chat, appLogger)

	handler := api.NewHandler(bootController, authManager, market, chatStore, i18nManager, notices, appLogger)

	app := fiber.New(fiber.Config{
		AppName:               "EduConnect",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	go bootController.Run(lifecycleCtx)
	authManager.Hydrate(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
		if err := chatStore.Close(); err != nil {
			log.Printf("chat flush on shutdown failed: %v", err)
		}
	}()

	log.Printf("EduConnect listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, dbPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
