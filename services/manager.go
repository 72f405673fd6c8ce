package services

import (
	"foodorder_server/database"
	"foodorder_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	Store               *PgStore
	Sessions            SessionStore
	Metrics             *DomainMetrics
	AuthService         *AuthService
	EmailService        *EmailService
	CacheService        *CacheService
	HealthService       *HealthService
	MessagingService    *MessagingService
	NotificationService *NotificationService
	LifecycleService    *LifecycleService
	CommandService      *CommandService
	ConversationService *ConversationService
	OrderService        *OrderService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	store := NewPgStore(logger, db)
	metrics := NewDomainMetrics()
	cacheService := NewCacheService(logger, cfg)
	sessions := newSessionStore(logger, cfg.Session, cacheService)

	messagingService := NewMessagingService(logger, cfg.Messaging, store)
	emailService := NewEmailService(logger, cfg.Email)
	notificationService := NewNotificationService(logger, store, store, messagingService, emailService, cfg.Notifications.Async, metrics)
	lifecycleService := NewLifecycleService(logger, store, metrics)
	commandService := NewCommandService(logger, store, store, lifecycleService, notificationService, messagingService, metrics)
	var catalog Store = store
	if cfg.Cache.CatalogTTL > 0 {
		catalog = NewCatalogCache(logger, store, cacheService, cfg.Cache.CatalogTTL)
	}
	conversationService := NewConversationService(logger, cfg.Messaging, sessions, catalog, messagingService, commandService, notificationService, metrics)

	return &ServiceManager{
		Store:               store,
		Sessions:            sessions,
		Metrics:             metrics,
		AuthService:         NewAuthService(cfg.Auth, logger, store),
		EmailService:        emailService,
		CacheService:        cacheService,
		HealthService:       NewHealthService(logger, db, cacheService, messagingService, sessions),
		MessagingService:    messagingService,
		NotificationService: notificationService,
		LifecycleService:    lifecycleService,
		CommandService:      commandService,
		ConversationService: conversationService,
		OrderService:        NewOrderService(logger, store, store, lifecycleService, notificationService),
	}
}

func newSessionStore(logger *gecho.Logger, cfg *structs.SessionConfig, cache *CacheService) SessionStore {
	if cfg.Backend == "redis" {
		logger.Info("Using redis session store", gecho.Field("ttl", cfg.TTL.String()))
		return NewRedisSessionStore(cache, cfg.TTL)
	}
	logger.Info("Using in-memory session store", gecho.Field("ttl", cfg.TTL.String()))
	return NewMemorySessionStore(cfg.TTL)
}
