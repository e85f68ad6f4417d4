package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/njprem/MagicBilling_BackEnd/internal/config"
	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/repository/postgres"
	"github.com/njprem/MagicBilling_BackEnd/internal/repository/redis"
	"github.com/njprem/MagicBilling_BackEnd/internal/service"
	httptransport "github.com/njprem/MagicBilling_BackEnd/internal/transport/http"
	"github.com/njprem/MagicBilling_BackEnd/internal/transport/mail"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("magicbilling: %v", err)
	}
}

func run() error {
	cfg := config.Load()

	logger, logCloser, err := logging.New(cfg.LogLevel, cfg.LogstashTCPAddr)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger.Slog())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db.DB); err != nil {
		return err
	}

	accessTTL, err := util.ParseExpiry(cfg.JWTAccessExpiresIn)
	if err != nil {
		return err
	}
	refreshTTL, err := util.ParseExpiry(cfg.JWTRefreshExpiresIn)
	if err != nil {
		return err
	}
	issuer := util.NewTokenIssuer(cfg.JWTAccessSecret, accessTTL, cfg.JWTRefreshSecret, refreshTTL)

	cipher, err := util.NewFieldCipher(cfg.EncryptionKey, cfg.EncryptionIV)
	if err != nil {
		return err
	}

	users := postgres.NewUserRepo(db)
	refreshRepo := postgres.NewRefreshTokenRepo(db)
	otpRepo := postgres.NewOTPRepo(db)
	resetRepo := postgres.NewPasswordResetRepo(db)
	bankRepo := postgres.NewBankDetailRepo(db)

	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		UseTLS:   cfg.SMTPUseTLS,
	}, "MagicBilling")

	refreshStore := service.NewRefreshTokenStore(refreshRepo)
	authService := service.NewAuthService(users, issuer, refreshStore, logger, cfg.JWTRefreshExpiresIn, cfg.BcryptCost)
	otpService := service.NewOTPService(otpRepo, users, mailer, logger, service.OTPServiceConfig{
		Cooldown:    cfg.OTPCooldown,
		TTL:         cfg.OTPTTL,
		MailTimeout: cfg.MailTimeout,
	})
	resetService := service.NewPasswordResetService(users, resetRepo, mailer, logger, service.PasswordResetConfig{
		TTL:         cfg.PasswordResetTTL,
		MailTimeout: cfg.MailTimeout,
		BaseURL:     cfg.BaseURL,
		BcryptCost:  cfg.BcryptCost,
	})
	bankService := service.NewBankDetailService(bankRepo, cipher)

	reaper := service.NewCleanupReaper(refreshRepo, otpRepo, resetRepo, logger, service.CleanupConfig{
		Interval:  cfg.CleanupInterval,
		UsedGrace: cfg.CleanupUsedGrace,
	})
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, cleanup runs without a lease", "error", err.Error())
		} else {
			defer client.Close()
			reaper.WithLease(redis.NewLease(client, ""))
		}
	}

	cookies := httptransport.CookieConfig{
		Name:   cfg.AuthCookieName,
		Secure: cfg.Production(),
		MaxAge: issuer.Refresh().TTL(),
	}
	e := httptransport.NewRouter(cfg.AllowOrigins, logger)
	requireAuth := httptransport.RequireAuth(issuer.Access(), cookies)
	httptransport.RegisterAuth(e, requireAuth, authService, otpService, resetService, cookies, logger)
	httptransport.RegisterBanks(e, requireAuth, bankService, logger)
	httptransport.RegisterAdmin(e, requireAuth)
	httptransport.RegisterSwagger(e)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reaper.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info(gctx, "http server listening", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info(shutdownCtx, "shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
