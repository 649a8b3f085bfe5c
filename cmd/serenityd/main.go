package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/idolanuel5885/serenity-plus/internal/api"
	"github.com/idolanuel5885/serenity-plus/internal/cli"
	"github.com/idolanuel5885/serenity-plus/internal/db"
	"github.com/idolanuel5885/serenity-plus/internal/notify"
	"github.com/idolanuel5885/serenity-plus/internal/realtime"
	"github.com/idolanuel5885/serenity-plus/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	dbPath := getEnv("DB_PATH", filepath.Join("data", "serenity.db"))

	if len(os.Args) >= 3 && os.Args[1] == "rotate-return-token" {
		if err := cli.RunRotateReturnTokenCommand(dbPath, os.Args[2]); err != nil {
			log.Fatalf("rotate return token failed: %v", err)
		}
		return
	}

	secretKey := getEnv("SECRET_KEY", "change_me_in_production")
	port := getEnv("PORT", "8080")
	appURL := getEnv("APP_URL", "http://localhost:"+port)

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	repos := db.NewRepositories(database)

	emailSender := notify.NewEmailSender(
		os.Getenv("RESEND_API_KEY"),
		getEnv("EMAIL_FROM", "Serenity+ <hello@serenityplus.app>"),
		appURL,
	)
	pushSender := notify.NewPushSender(os.Getenv("PUSH_WEBHOOK_URL"))

	var publisher services.ProgressPublisher = realtime.NoopPublisher{}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		natsPublisher, err := realtime.Connect(natsURL)
		if err != nil {
			log.Printf("WARN: realtime publisher unavailable: %v", err)
		} else {
			defer natsPublisher.Close()
			publisher = natsPublisher
		}
	}

	weekService := services.NewWeekService(repos.Weeks, repos.Partnerships)
	accountService := services.NewAccountService(repos.Users)
	partnershipService := services.NewPartnershipService(repos.Partnerships, repos.Users, weekService)
	sessionService := services.NewSessionService(
		repos.Sessions, repos.Weeks, repos.Users, repos.Partnerships,
		weekService, pushSender, publisher,
	)
	recoveryService := services.NewRecoveryService(repos.Users, emailSender)
	healthService := services.NewHealthService(repos.WeekCreationLogs, repos.Partnerships, alertChannels(emailSender))

	handler := api.NewHandler(api.HandlerConfig{
		Accounts:        accountService,
		Partnerships:    partnershipService,
		Weeks:           weekService,
		Sessions:        sessionService,
		Health:          healthService,
		Recovery:        recoveryService,
		SecretKey:       secretKey,
		OperatorKeyHash: os.Getenv("OPERATOR_KEY_HASH"),
	})

	app := fiber.New(fiber.Config{
		AppName:               "Serenity+",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	scheduler := services.NewWeekScheduler(
		repos.Partnerships, repos.Users, repos.WeekCreationLogs,
		weekService, schedulerInterval(),
	)
	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	scheduler.Start(lifecycleCtx)

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
	}()

	log.Printf("Serenity+ listening on http://0.0.0.0:%s (db: %s)", port, dbPath)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func alertChannels(emailSender *notify.EmailSender) []services.AlertChannel {
	channels := make([]services.AlertChannel, 0, 3)
	if alertEmail := os.Getenv("ALERT_EMAIL"); alertEmail != "" {
		channels = append(channels, notify.NewEmailAlertChannel(emailSender, alertEmail))
	}
	if chatURL := os.Getenv("ALERT_CHAT_WEBHOOK_URL"); chatURL != "" {
		channels = append(channels, notify.NewChatWebhookChannel(chatURL))
	}
	if hookURL := os.Getenv("ALERT_WEBHOOK_URL"); hookURL != "" {
		channels = append(channels, notify.NewGenericWebhookChannel(hookURL))
	}
	return channels
}

func schedulerInterval() time.Duration {
	minutes, err := strconv.Atoi(getEnv("WEEK_SCHEDULER_INTERVAL_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
