package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/auth"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/config"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/database"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/email"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/forms"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/handler"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/middleware"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/queue"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/recaptcha"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/router"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/upload"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	tours := repository.NewTourRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	newsletter := repository.NewNewsletterRepo(db)
	admins := repository.NewAdminRepo(db)
	users := repository.NewUserRepo(db)
	refresh := repository.NewTokenRepo(db)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)
	gate := auth.NewGate(tokens, admins)
	authSvc := auth.NewService(users, refresh, tokens)

	var sender email.Sender = email.NewNoopSender()
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Warn("RESEND_API_KEY not set, outgoing mail is logged only")
	}
	verifier := recaptcha.New(cfg.RecaptchaSecret, cfg.RecaptchaMinScore,
		recaptcha.WithGuard(recaptcha.NewGuard(rdb, 10*time.Minute)))
	events := queue.NewPublisher(cfg.RabbitURL)

	formSvc := forms.NewService(forms.Deps{
		Tours:      tours,
		Bookings:   bookings,
		Newsletter: newsletter,
		Verifier:   verifier,
		Mailer:     email.NewDispatcher(sender, cfg.AdminNotifyEmail),
		Events:     events,
	})
	uploads := upload.NewService(upload.NewCDNUploader(cfg.ImageCDNUploadURL, cfg.ImageCDNAPIKey), cfg.UploadMaxBytes)

	if cfg.RabbitURL != "" {
		go func() {
			c := queue.Consumer{URL: cfg.RabbitURL, Dir: "logs"}
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("booking-consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	if cfg.IsProd() {
		e.Logger.SetLevel(log.INFO)
	} else {
		e.Logger.SetLevel(log.DEBUG)
	}
	e.Use(echoMw.RequestIDWithConfig(echoMw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			c.Logger().Infof("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.Session(gate))

	router.RegisterRoutes(e, db)
	router.RegisterPublic(e, handler.NewPublicTourHandler(tours, bookings), cacheCfg, rdb)
	router.RegisterForms(e, handler.NewFormHandler(formSvc), rateCfg, rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, cfg.IsProd()), rateCfg, rdb)
	router.RegisterAdmin(e, router.Admin{
		Tours:     handler.NewAdminTourHandler(tours),
		Bookings:  handler.NewAdminBookingHandler(bookings, payments, events),
		Dashboard: handler.Dashboard(tours, bookings),
		Upload:    handler.Upload(uploads),
	}, cacheCfg, rdb)
	router.RegisterPages(e, handler.Pages{Dir: cfg.StaticDir})

	go func() {
		addr := ":" + cfg.Port
		e.Logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
	}
}
