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

	"github.com/casalinda/pedidos/internal/adapter/gemini"
	"github.com/casalinda/pedidos/internal/adapter/logger"
	"github.com/casalinda/pedidos/internal/adapter/postgres"
	"github.com/casalinda/pedidos/internal/adapter/rabbitmq"
	"github.com/casalinda/pedidos/internal/app/agent"
	"github.com/casalinda/pedidos/internal/app/chat"
	"github.com/casalinda/pedidos/internal/app/menu"
	"github.com/casalinda/pedidos/internal/app/order"
	"github.com/casalinda/pedidos/internal/app/product"
	"github.com/casalinda/pedidos/internal/config"
	"github.com/casalinda/pedidos/internal/interfaces"

	amqpAdapter "github.com/casalinda/pedidos/internal/adapter/amqp"
	anthropicAdapter "github.com/casalinda/pedidos/internal/adapter/anthropic"
	httpAdapter "github.com/casalinda/pedidos/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "server", "Service mode: server, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	switch *mode {
	case "server":
		runServer(ctx, cfg, lgr)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runServer(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	embedder, err := gemini.NewEmbedder(ctx, cfg.Embedding)
	if err != nil {
		log.Fatalf("Failed to create embedding client: %v", err)
	}
	defer embedder.Close()

	llm := anthropicAdapter.NewClient(cfg.Agent)

	location, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		log.Fatalf("Failed to load timezone %q: %v", cfg.Database.Timezone, err)
	}

	var publisher interfaces.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqConn.Close()

		publisher = rabbitmq.NewPublisher(mqConn)

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host": cfg.RabbitMQ.Host,
		})
	}

	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	menuRepo := postgres.NewDailyMenuRepository(db)

	productService := product.NewService(productRepo, embedder, lgr)
	orderService := order.NewService(orderRepo, publisher, lgr)
	chatService := chat.NewService(chatRepo, lgr)
	menuService := menu.NewService(menuRepo, productRepo, lgr)
	agentService := agent.NewService(productService, orderService, chatService, embedder, llm, cfg.Agent, location, lgr)

	router := httpAdapter.NewRouter(
		httpAdapter.NewProductHandler(productService, lgr),
		httpAdapter.NewOrderHandler(orderService, lgr),
		httpAdapter.NewMenuHandler(menuService, lgr),
		httpAdapter.NewChatHandler(agentService, chatService, lgr),
		lgr,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Server started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	consumer := rabbitmq.NewConsumer(mqConn, lgr)
	handler := amqpAdapter.NewOrderEventHandler(lgr)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := consumer.ConsumeOrderEvents(consumeCtx, handler.HandleOrderEvent); err != nil {
			lgr.Error("consumer_error", "Error consuming order events", "runtime", nil, err)
		}
	}()

	lgr.Info("service_started", "Notification subscriber started", "startup", nil)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("graceful_shutdown", "Shutting down notification subscriber", "shutdown", nil)
}
