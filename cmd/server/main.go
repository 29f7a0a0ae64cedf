package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathima-sithara/taskhub/internal/config"
	"github.com/fathima-sithara/taskhub/internal/database"
	"github.com/fathima-sithara/taskhub/internal/handlers"
	"github.com/fathima-sithara/taskhub/internal/mailer"
	"github.com/fathima-sithara/taskhub/internal/middleware"
	"github.com/fathima-sithara/taskhub/internal/repository"
	"github.com/fathima-sithara/taskhub/internal/routes"
	"github.com/fathima-sithara/taskhub/internal/server"
	"github.com/fathima-sithara/taskhub/internal/services"
	"github.com/fathima-sithara/taskhub/internal/token"
	"github.com/fathima-sithara/taskhub/internal/utils"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.App.Env)
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting taskhub in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		cancelIndex()
		sugar.Fatalf("failed to create indexes: %v", err)
	}
	cancelIndex()

	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	var mail mailer.Mailer
	if cfg.Mail.APIKey != "" {
		mail = mailer.NewBrevo(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName, logger)
		sugar.Info("Brevo mail client configured")
	} else {
		mail = mailer.NewLogMailer(sugar)
		sugar.Warn("No mail credentials configured, emails will be logged instead of sent")
	}

	userRepo := repository.NewMongoUserRepo(db)
	verifRepo := repository.NewMongoVerificationRepo(db)
	workspaceRepo := repository.NewMongoWorkspaceRepo(db)
	projectRepo := repository.NewMongoProjectRepo(db)

	issuer := token.NewIssuer(cfg.JWT.Secret)
	authSvc := services.NewAuthService(userRepo, verifRepo, issuer, mail, services.AuthServiceOpts{
		FrontendURL:      cfg.App.FrontendURL,
		VerificationTTL:  cfg.VerificationTTL,
		ResetPasswordTTL: cfg.ResetPasswordTTL,
		SessionTTL:       cfg.SessionTTL,
		DispatchTimeout:  cfg.DispatchTimeout,
	}, sugar)
	workspaceSvc := services.NewWorkspaceService(workspaceRepo, projectRepo)

	h := handlers.NewHandler(authSvc, workspaceSvc)
	limiter := middleware.NewRateLimiter(rdb, "auth_rate_limit", cfg.Security.RateLimitPerMinute, time.Minute)

	app := server.New(cfg, logger)
	routes.Setup(app, h, authSvc, limiter)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		sugar.Errorf("Redis client close error: %v", err)
	}

	sugar.Info("Graceful shutdown complete")
}
