package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/store"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	store       store.Store
	userService *userservice.UserService
	blogService *blogservice.BlogService
}

func main() {
	cfg, err := loadConfig(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)

	// Open the document store
	s, err := common.NewStore(context.Background(), cfg.DBURI, cfg.DBName)
	if err != nil {
		logger.Error("failed to open the document store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer s.Close()

	logger.Info("connected to the document store", slog.String("backend", s.Backend()))

	// Events are only published when a broker is configured
	var producer common.MessageProducer = common.NopProducer{}
	if cfg.RabbitMQURL != "" {
		broker, err := common.NewMessageBroker(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		err = common.SetupExchange(broker)
		if err != nil {
			logger.Error("failed to setup the exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		producer = broker
	}

	var cache *common.Cache
	if cfg.CacheTTL > 0 {
		cache = common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		store:       s,
		userService: userservice.NewUserService(s, producer, cfg.BcryptCost, logger),
		blogService: blogservice.NewBlogService(s, producer, cache, logger),
	}

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
