package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/handlers"
	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/services/chat"
	"github.com/rosellabs/crmlens/internal/services/customers"
	"github.com/rosellabs/crmlens/internal/services/embeddings"
	"github.com/rosellabs/crmlens/internal/services/indexer"
	"github.com/rosellabs/crmlens/internal/services/llm"
	"github.com/rosellabs/crmlens/internal/storage/badger"
)

// App wires configuration, services, and handlers together.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	CustomerStore  interfaces.CustomerStore
	StorageManager interfaces.StorageManager
	LLMService     interfaces.LLMService
	Embedder       interfaces.EmbeddingService
	Indexer        *indexer.Service
	ChatService    interfaces.ChatService

	DashboardHandler *handlers.DashboardHandler
	ChatHandler      *handlers.ChatHandler
	SystemHandler    *handlers.SystemHandler
	PageHandler      *handlers.PageHandler
}

// New builds the application: loads the dataset, opens storage, creates
// the LLM stack, ensures the document index, and wires the handlers.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	store, err := customers.NewStore(cfg.Data.CustomersFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer dataset: %w", err)
	}
	logger.Info().
		Int("customers", store.Count()).
		Str("file", cfg.Data.CustomersFile).
		Msg("Customer dataset loaded")

	storageManager, err := badger.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open document storage: %w", err)
	}

	llmService, err := llm.NewLLMService(&cfg.LLM, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to create LLM service: %w", err)
	}

	embedder := embeddings.NewService(llmService, &cfg.LLM, logger)

	idx := indexer.NewService(store, embedder, storageManager.DocumentStorage(), logger)
	if err := idx.EnsureIndex(ctx); err != nil {
		logger.Warn().Err(err).Msg("Document index build failed - chat runs rule-based only")
	}
	if err := idx.StartSchedule(cfg.Refresh.Schedule); err != nil {
		storageManager.Close()
		return nil, err
	}

	chatService := chat.NewService(store, embedder, storageManager.DocumentStorage(), llmService, &cfg.Chat, logger)

	info, err := common.LoadInfo(cfg.Data.InfoFile)
	if err != nil {
		storageManager.Close()
		return nil, err
	}

	pageHandler, err := handlers.NewPageHandler(logger, cfg.Data.PagesDir)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	return &App{
		Config:           cfg,
		Logger:           logger,
		CustomerStore:    store,
		StorageManager:   storageManager,
		LLMService:       llmService,
		Embedder:         embedder,
		Indexer:          idx,
		ChatService:      chatService,
		DashboardHandler: handlers.NewDashboardHandler(store, info, logger),
		ChatHandler:      handlers.NewChatHandler(chatService, logger),
		SystemHandler:    handlers.NewSystemHandler(store, chatService),
		PageHandler:      pageHandler,
	}, nil
}

// Close releases application resources in reverse dependency order.
func (a *App) Close() {
	if a.Indexer != nil {
		a.Indexer.Stop()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("LLM service close failed")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
}
