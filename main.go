package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/config"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/db"
	router "github.com/EthanAnonymous/Skeel-Kameel/internal/http"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/http/handlers"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/notify"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/repositories"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/services"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := utils.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	if cfg.App.GinMode != "" {
		gin.SetMode(cfg.App.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer conn.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(conn); err != nil {
			log.WithError(err).Fatal("migrate database")
		}
	}

	notifiers, closeNotifiers := buildNotifiers(cfg, log)
	defer closeNotifiers()
	dispatcher := notify.NewDispatcher(log, cfg.App.NotifyTimeout, notifiers...)

	var throttle services.Throttle = repositories.NewMemoryThrottle(cfg.App.CallbackThrottle)
	if cfg.Redis.Addr != "" {
		rdb := repositories.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, throttle falls back to allowing requests while it is down")
		}
		throttle = repositories.RedisThrottle{Client: rdb, Window: cfg.App.CallbackThrottle}
	}

	bookingStore := repositories.BookingRepository{DB: conn}
	invoiceStore := repositories.InvoiceRepository{DB: conn}

	r := router.NewRouter(router.Deps{
		Log:         log,
		CORSOrigins: cfg.App.CORSOrigins,
		StaticDir:   cfg.App.StaticDir,
		Bookings:    services.BookingService{Bookings: bookingStore, Notifier: dispatcher, Log: log},
		Invoices:    services.InvoiceService{Bookings: bookingStore, Invoices: invoiceStore, Notifier: dispatcher, Log: log},
		Quotes:      services.QuoteService{},
		Callbacks:   services.CallbackService{Throttle: throttle, Notifier: dispatcher, Log: log},
		System:      &handlers.SystemHandler{DB: conn, Notifiers: dispatcher.Names()},
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.App.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.WithError(err).Warn("notifications still in flight at exit")
	}
	log.Info("server stopped")
}

// buildNotifiers returns the notifiers that are configured. A notifier that
// fails to start is logged and left out.
func buildNotifiers(cfg config.Config, log *logrus.Logger) ([]notify.Notifier, func()) {
	var (
		out     []notify.Notifier
		closers []func() error
	)

	if cfg.SMTP.Enabled() {
		email, err := notify.NewEmail(cfg.SMTP, cfg.App)
		if err != nil {
			log.WithError(err).Error("email notifier disabled")
		} else {
			out = append(out, email)
		}
	} else {
		log.Warn("SMTP not configured, email notifications disabled")
	}

	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram)
		if err != nil {
			log.WithError(err).Error("telegram notifier disabled")
		} else {
			out = append(out, tg)
		}
	}

	if cfg.AMQP.URL != "" {
		pub, err := notify.NewPublisher(cfg.AMQP)
		if err != nil {
			log.WithError(err).Error("amqp publisher disabled")
		} else {
			out = append(out, pub)
			closers = append(closers, pub.Close)
		}
	}

	return out, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.WithError(err).Warn("close notifier")
			}
		}
	}
}
