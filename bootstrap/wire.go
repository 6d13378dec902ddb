package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"briefcard/config"
	"briefcard/driver"
	"briefcard/handler"
	"briefcard/linebot"
	"briefcard/repository"
	"briefcard/retry"
	"briefcard/service"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	DBPool *pgxpool.Pool
	Config *config.Config
	Logger *slog.Logger

	BookmarkRepo repository.BookmarkRepository
	FolderRepo   repository.FolderRepository

	Gateway  *linebot.Client
	Pipeline service.BookmarkPipeline
	Router   service.InteractionRouter

	WebhookHandler  *handler.WebhookHandler
	BookmarkHandler *handler.BookmarkHandler
	FolderHandler   *handler.FolderHandler
	HealthHandler   *handler.HealthHandler
}

// BuildDependencies constructs all application dependencies.
// Returns a cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, func(), error) {
	dbPool, err := driver.Init(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	// Repositories
	bookmarkRepo := repository.NewBookmarkRepository(dbPool, log)
	folderRepo := repository.NewFolderRepository(dbPool, log)

	// Outbound collaborators
	gateway := linebot.NewClient(&cfg.Line, log)
	extractor := service.NewContentExtractor(&cfg.HTTP, log)
	enricher := service.NewContentEnricher(&cfg.Enricher, log)

	retrier := retry.NewRetrier(retry.RetryConfig{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BaseDelay:     cfg.Retry.BaseDelay,
		MaxDelay:      cfg.Retry.MaxDelay,
		BackoffFactor: cfg.Retry.BackoffFactor,
		JitterFactor:  cfg.Retry.JitterFactor,
	}, service.IsRetryableError, log)

	// Services
	pipeline := service.NewBookmarkPipeline(bookmarkRepo, extractor, enricher, retrier, log)
	renderer := service.NewCardRenderer(&cfg.Frontend)
	router := service.NewInteractionRouter(bookmarkRepo, folderRepo, pipeline, renderer, gateway, cfg.Frontend.Origin, log)

	// Handlers
	webhookHandler := handler.NewWebhookHandler(router, cfg.Line.ChannelSecret, log)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkRepo, pipeline, renderer, gateway, log)
	folderHandler := handler.NewFolderHandler(folderRepo, log)
	healthHandler := handler.NewHealthHandler(dbPool, log)

	cleanup := func() {
		dbPool.Close()
	}

	return &Dependencies{
		DBPool:          dbPool,
		Config:          cfg,
		Logger:          log,
		BookmarkRepo:    bookmarkRepo,
		FolderRepo:      folderRepo,
		Gateway:         gateway,
		Pipeline:        pipeline,
		Router:          router,
		WebhookHandler:  webhookHandler,
		BookmarkHandler: bookmarkHandler,
		FolderHandler:   folderHandler,
		HealthHandler:   healthHandler,
	}, cleanup, nil
}
