package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/debtkeeper/debtkeeper-server/internal/api/http/handler"
	"github.com/debtkeeper/debtkeeper-server/internal/api/http/middleware"
	"github.com/debtkeeper/debtkeeper-server/internal/api/http/router"
	httpServer "github.com/debtkeeper/debtkeeper-server/internal/api/http/server"
	"github.com/debtkeeper/debtkeeper-server/internal/config"
	"github.com/debtkeeper/debtkeeper-server/internal/identity"
	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/oauth"
	"github.com/debtkeeper/debtkeeper-server/internal/password"
	"github.com/debtkeeper/debtkeeper-server/internal/repository/postgres"
	"github.com/debtkeeper/debtkeeper-server/internal/secret"
	"github.com/debtkeeper/debtkeeper-server/internal/server"
	"github.com/debtkeeper/debtkeeper-server/internal/service"
	"github.com/debtkeeper/debtkeeper-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	debtRepo := postgres.NewDebtRepository(db)

	secrets := secret.NewEnvProvider(cfg.Auth.Secret, cfg.Auth.PreviousSecret)
	tokenManager := token.NewManager(secrets, cfg.Auth.TokenTTL)
	hasher := password.NewHasher()

	var verifier identity.Verifier
	if cfg.Auth.Mode == config.AuthModeIdentity {
		verifier, err = identity.New(cfg.Identity)
		if err != nil {
			logger.Fatal("failed to create identity verifier", "error", err)
		}
	}

	oauthProvider := oauth.NewGoogleProvider(cfg.OAuth)

	accountService := service.NewAccount(userRepo, hasher, logger)
	authService := service.NewAuth(userRepo, hasher, tokenManager, oauthProvider, accountService, logger)
	debtService := service.NewDebt(debtRepo, logger)

	authenticate := middleware.NewAuthenticate(cfg.Auth.Mode, tokenManager, verifier, userRepo, logger)

	engine := router.New(
		handler.NewAuth(authService, logger),
		handler.NewUser(accountService, logger),
		handler.NewDebt(debtService, logger),
		authenticate,
		logger,
	)

	srv := httpServer.New(fmt.Sprintf(":%s", cfg.HTTP.Port), engine, logger)

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
