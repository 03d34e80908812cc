package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/config"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/database"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/handler"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/logger"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/middleware"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/payment"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/queue"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/repository"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/router"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/service"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New("ground-booking", cfg.Env)
	slog.SetDefault(log)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Error("mysql connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Error("migrate failed", "err", err)
			os.Exit(1)
		}
	}

	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		log.Error("rate limit config", "err", err)
		os.Exit(1)
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		log.Error("cache config", "err", err)
		os.Exit(1)
	}
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; rate limit, cache and slot lock disabled")
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	grounds := repository.NewGroundRepo(db)
	bookings := repository.NewBookingRepo(db)
	files := storage.NewLocal(cfg.UploadDir, cfg.UploadMaxBytes)

	authSvc := &service.AuthService{
		Users:          users,
		Tokens:         tokens,
		Secret:         cfg.JWTSecret,
		AccessTTL:      cfg.AccessTTL(),
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}
	groundSvc := &service.GroundService{
		Grounds:  grounds,
		Bookings: bookings,
		Files:    files,
		Cache:    middleware.NewCachePurger(cacheCfg, rdb),
		Log:      log,
	}
	bookingSvc := &service.BookingService{
		Grounds:  grounds,
		Bookings: bookings,
		Files:    files,
		Locks:    repository.NewSlotLocker(rdb, cfg.SlotLockTTL),
		Payments: payment.NewBuilder(payment.Config{
			QRBaseURL: cfg.QRBaseURL,
			QRSize:    cfg.QRSize,
			Note:      cfg.PaymentNote,
			Currency:  cfg.Currency,
		}),
		Log: log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher *queue.Publisher
	if cfg.QueueEnabled {
		publisher, err = queue.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			log.Warn("rabbitmq unavailable; booking events disabled", "err", err)
		} else {
			bookingSvc.Events = publisher
		}
	}
	if cfg.ConsumerEnabled {
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogPath: cfg.BookingLogPath, Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer stopped", "err", err)
			}
		}()
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		bctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		u, err := authSvc.EnsureAdmin(bctx, service.RegisterInput{
			Name: cfg.AdminName, Email: cfg.AdminEmail, Password: cfg.AdminPassword, Phone: cfg.AdminPhone,
		})
		cancel()
		if err != nil {
			log.Error("admin bootstrap failed", "err", err)
		} else {
			log.Info("admin account ready", "user_id", u.ID, "email", u.Email)
		}
	}

	e := newServer(cfg, log, rdb, rlCfg)
	router.RegisterRoutes(e, &handler.Readiness{DB: db, Redis: rdb})
	router.RegisterStatic(e, cfg.UploadDir, cfg.PublicDir)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, log, cfg.RequestTimeout), cfg.JWTSecret)

	groundH := handler.NewGroundHandler(groundSvc, log, cfg.RequestTimeout)
	bookingH := handler.NewBookingHandler(bookingSvc, log, cfg.RequestTimeout)
	router.RegisterPublic(e, groundH, middleware.NewRedisCache(cacheCfg, rdb, log))
	router.RegisterCustomer(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, groundH, bookingH, users, cfg.JWTSecret)

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "err", err)
	}
	if publisher != nil {
		_ = publisher.Close()
	}
}

// newServer builds the echo instance with the cross-cutting middleware.
func newServer(cfg config.Config, log *slog.Logger, rdb *redis.Client, rlCfg config.RateLimitConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				log.Error("request", append(attrs, "err", v.Error)...)
				return nil
			}
			log.Info("request", attrs...)
			return nil
		},
	}))
	// Multipart uploads carry up to five images plus the form fields.
	e.Use(echomw.BodyLimit(strconv.FormatInt(cfg.UploadMaxBytes*(1+5+1)/1024+64, 10) + "K"))
	e.Use(middleware.NewTokenBucket(rlCfg, rdb, log))
	return e
}
