package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/formrelay"
	"github.com/YelzhanWeb/storefront/internal/adapter/gemini"
	"github.com/YelzhanWeb/storefront/internal/adapter/kafka"
	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/adapter/memory"
	"github.com/YelzhanWeb/storefront/internal/adapter/mysql"
	"github.com/YelzhanWeb/storefront/internal/adapter/postgres"
	"github.com/YelzhanWeb/storefront/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/storefront/internal/app/account"
	"github.com/YelzhanWeb/storefront/internal/app/activity"
	"github.com/YelzhanWeb/storefront/internal/app/admin"
	"github.com/YelzhanWeb/storefront/internal/app/cart"
	"github.com/YelzhanWeb/storefront/internal/app/catalog"
	"github.com/YelzhanWeb/storefront/internal/app/order"
	"github.com/YelzhanWeb/storefront/internal/app/relay"
	"github.com/YelzhanWeb/storefront/internal/app/settings"
	"github.com/YelzhanWeb/storefront/internal/app/tracking"
	"github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
	"github.com/YelzhanWeb/storefront/internal/persist"

	amqpAdapter "github.com/YelzhanWeb/storefront/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/storefront/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "storefront", "Service mode: storefront, relay-worker, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides server.port)")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	lgr := logger.NewWithWriter(*mode, cfg.Log.Level, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "storefront":
		err = runStorefront(ctx, cfg, lgr)
	case "relay-worker":
		err = runRelayWorker(ctx, cfg, lgr, *prefetch)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, lgr)
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}

	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "shutdown", nil, err)
		os.Exit(1)
	}
}

func openKVStore(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.KVStore, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
		kv, err := postgres.NewKVStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return kv, nil
	case "mysql":
		kv, err := mysql.Connect(ctx, cfg.MySQL)
		if err != nil {
			return nil, err
		}
		lgr.Info("db_connected", "Connected to MySQL database", "startup", map[string]interface{}{
			"host": cfg.MySQL.Host,
			"db":   cfg.MySQL.Database,
		})
		return kv, nil
	default:
		lgr.Info("store_memory", "Using in-process store; state is lost on restart", "startup", nil)
		return memory.NewKVStore(), nil
	}
}

func connectRabbitMQ(cfg *config.Config, lgr logger.Logger) (rabbitmq.Connection, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}
	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})
	return conn, nil
}

func runStorefront(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	kv, err := openKVStore(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer kv.Close()

	store := persist.New(kv, cfg.Storage.Prefix, lgr)

	var sink interfaces.ActivitySink
	if cfg.Kafka.Enabled {
		ks, err := kafka.NewActivitySink(cfg.Kafka, lgr)
		if err != nil {
			return err
		}
		defer ks.Close()
		sink = ks
	}

	var (
		orderRelay interfaces.OrderRelay
		notifier   interfaces.StatusNotifier
	)
	if cfg.RabbitMQ.Enabled {
		mqConn, err := connectRabbitMQ(cfg, lgr)
		if err != nil {
			return err
		}
		defer mqConn.Close()

		publisher := rabbitmq.NewPublisher(mqConn)
		notifier = publisher
		if cfg.Relay.Mode == "queue" {
			orderRelay = relay.NewQueued(publisher)
		}
	}
	if orderRelay == nil {
		orderRelay = formrelay.New(cfg.Relay.BaseURL, cfg.Relay.Timeout, lgr)
	}

	defaults, err := settings.Defaults(cfg.Business)
	if err != nil {
		return err
	}

	activityService := activity.NewService(ctx, store, sink, lgr)
	settingsService := settings.NewService(ctx, store, defaults, activityService, lgr)
	catalogService := catalog.NewService(ctx, store, activityService, lgr)
	accountService := account.NewService(ctx, store, lgr)
	cartService := cart.NewService(catalogService, settingsService, lgr)
	orderService := order.NewService(ctx, store, cartService, settingsService, activityService, orderRelay, notifier, lgr)
	trackingService := tracking.NewService(orderService, lgr)

	var advisor interfaces.Advisor
	if cfg.Gemini.APIKey != "" {
		a, err := gemini.NewAdvisor(ctx, cfg.Gemini, lgr)
		if err != nil {
			return err
		}
		advisor = a
	}
	adminService := admin.NewService(settingsService, orderService, activityService, advisor, cfg.Gemini.HistorySize, lgr)

	handler := httpAdapter.NewRouter(
		httpAdapter.NewStorefrontHandler(catalogService, cartService, orderService, trackingService, settingsService, accountService, lgr),
		httpAdapter.NewAuthHandler(accountService, settingsService, lgr),
		httpAdapter.NewAdminHandler(adminService, orderService, catalogService, settingsService, activityService, lgr),
		lgr,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Storefront started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":       cfg.Server.Port,
		"storage":    cfg.Storage.Driver,
		"relay_mode": cfg.Relay.Mode,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lgr.Info("shutdown_initiated", "Shutting down storefront", "shutdown", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func runRelayWorker(ctx context.Context, cfg *config.Config, lgr logger.Logger, prefetch int) error {
	mqConn, err := connectRabbitMQ(cfg, lgr)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, prefetch, lgr)
	relayService := relay.NewService(formrelay.New(cfg.Relay.BaseURL, cfg.Relay.Timeout, lgr), lgr)
	handler := amqpAdapter.NewRelayHandler(relayService, lgr)

	lgr.Info("service_started", "Relay worker started", "startup", map[string]interface{}{
		"prefetch": prefetch,
		"queue":    rabbitmq.RelayQueue,
	})

	err = consumer.ConsumeOrders(ctx, handler.HandleOrder)
	lgr.Info("shutdown_initiated", "Shutting down relay worker", "shutdown", nil)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	mqConn, err := connectRabbitMQ(cfg, lgr)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, 1, lgr)
	handler := amqpAdapter.NewNotificationHandler(os.Stdout, lgr)

	lgr.Info("service_started", "Notification subscriber started", "startup", nil)

	err = consumer.ConsumeNotifications(ctx, handler.HandleNotification)
	lgr.Info("shutdown_initiated", "Shutting down notification subscriber", "shutdown", nil)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
