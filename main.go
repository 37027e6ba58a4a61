package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"decorconnect/internal/app"
	"decorconnect/internal/config"
	"decorconnect/internal/infrastructure/clients"
	"decorconnect/internal/observability"
)

func main() {
	log.Init(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Panic("failed to load config")
	}

	db := sqlx.MustConnect("postgres", cfg.PostgresURL)
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisClient.Close()

	tp := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("failed to shut down trace provider")
		}
	}()

	notificationsClient := clients.NewNotificationsClient(cfg.NotificationsURL)

	watermillLogger := watermill.NewStdLogger(false, false)

	a, err := app.NewApp(watermillLogger, notificationsClient, redisClient, db)
	if err != nil {
		logrus.WithError(err).Panic("failed to initialize the app")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logrus.Info("Starting the service...")

	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Panic("service stopped with an error")
	}
}
