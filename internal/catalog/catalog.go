package catalog

import (
	"context"
	"errors"
	"fmt"

	cataloghttp "v5c-properties/internal/catalog/adapter/http"
	"v5c-properties/internal/catalog/adapter/persistence"
	"v5c-properties/internal/catalog/adapter/persistence/memory"
	"v5c-properties/internal/catalog/adapter/persistence/mongodb"
	"v5c-properties/internal/catalog/config"
	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/domain/repository"
	"v5c-properties/internal/catalog/usecase"
	"v5c-properties/internal/shared/eventbus"
	"v5c-properties/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies are the external resources the catalog runs on. A nil DB
// selects the in-memory store; a nil Redis client disables event history.
type Dependencies struct {
	Config  *config.CatalogConfig
	DB      *mongo.Database
	Redis   *redis.Client
	Content *model.StaticContent
	Logger  logger.Logger
}

// CatalogModule wires every resource, the site snapshot, seeding and the
// change feed.
type CatalogModule struct {
	config  *config.CatalogConfig
	content *model.StaticContent
	logger  logger.Logger

	bus    *eventbus.EventBus
	feed   *usecase.ChangeFeed
	events *usecase.EventsUsecase
	site   *usecase.SiteUsecase
	seed   *usecase.SeedUsecase
	leads  *usecase.ResourceUsecase[*model.Lead]

	eventStore  *persistence.RedisEventStore
	storagePing func(ctx context.Context) error
	indexers    []func(ctx context.Context) error
	resources   []model.ResourceInfo
	routes      []func(router fiber.Router, writeGuard fiber.Handler)

	siteHandler *cataloghttp.SiteHandler
	wsHandler   *cataloghttp.WebSocketHandler
}

// NewCatalogModule creates the catalog module. Index creation failures are
// logged and do not stop the module from starting.
func NewCatalogModule(ctx context.Context, deps Dependencies) (*CatalogModule, error) {
	if deps.Config == nil {
		return nil, errors.New("catalog config is required")
	}
	if deps.Content == nil {
		return nil, errors.New("static content is required")
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	m := &CatalogModule{
		config:  deps.Config,
		content: deps.Content,
		logger:  log.WithComponent("catalog"),
		bus:     eventbus.NewEventBus(log),
		feed:    usecase.NewChangeFeed(deps.Config.Realtime.ClientSendChannelBuffer, log),
	}
	m.bus.Subscribe(eventbus.Wildcard, m.feed.Handle)

	var store repository.EventStore
	if deps.Redis != nil {
		m.eventStore = persistence.NewRedisEventStore(deps.Redis, deps.Config.Redis.StreamName, deps.Config.Redis.StreamMaxLength, log)
		store = m.eventStore
	}
	m.events = usecase.NewEventsUsecase(store, log)
	if m.events.Enabled() {
		m.bus.Subscribe(eventbus.Wildcard, m.events.Record)
	}

	properties, err := addResource(m, deps.DB, model.PropertyResource)
	if err != nil {
		return nil, err
	}
	services, err := addResource(m, deps.DB, model.ServiceResource)
	if err != nil {
		return nil, err
	}
	partners, err := addResource(m, deps.DB, model.PartnerResource)
	if err != nil {
		return nil, err
	}
	emirates, err := addResource(m, deps.DB, model.EmirateResource)
	if err != nil {
		return nil, err
	}
	whyDubai, err := addResource(m, deps.DB, model.WhyDubaiResource)
	if err != nil {
		return nil, err
	}
	testimonials, err := addResource(m, deps.DB, model.TestimonialResource)
	if err != nil {
		return nil, err
	}
	if m.leads, err = addResource(m, deps.DB, model.LeadResource); err != nil {
		return nil, err
	}

	content := deps.Content
	m.site = usecase.NewSiteUsecase(log,
		usecase.NewSiteSection(properties, content.Properties),
		usecase.NewSiteSection(services, content.Services),
		usecase.NewSiteSection(partners, content.Partners),
		usecase.NewSiteSection(emirates, content.Emirates),
		usecase.NewSiteSection(whyDubai, content.WhyDubai),
		usecase.NewSiteSection(testimonials, content.Testimonials),
	)
	m.seed = usecase.NewSeedUsecase(log,
		usecase.NewSeedTarget(properties, content.Properties),
		usecase.NewSeedTarget(services, content.Services),
		usecase.NewSeedTarget(partners, content.Partners),
		usecase.NewSeedTarget(emirates, content.Emirates),
		usecase.NewSeedTarget(whyDubai, content.WhyDubai),
		usecase.NewSeedTarget(testimonials, content.Testimonials),
	)

	m.siteHandler = cataloghttp.NewSiteHandler(m.site, content.SiteContent, m.events)
	m.wsHandler = cataloghttp.NewWebSocketHandler(m.feed, log)

	for _, ensure := range m.indexers {
		if err := ensure(ctx); err != nil {
			m.logger.Warnf("Failed to ensure indexes: %v", err)
		}
	}
	return m, nil
}

// addResource builds the repository, usecase and routes for one resource.
func addResource[T model.Entity](m *CatalogModule, db *mongo.Database, resource model.Resource[T]) (*usecase.ResourceUsecase[T], error) {
	var repo repository.DocumentRepository[T]
	if db != nil {
		mongoRepo := mongodb.NewDocumentRepository(db, resource)
		m.indexers = append(m.indexers, mongoRepo.EnsureIndexes)
		repo = mongoRepo
	} else {
		repo = memory.NewDocumentRepository(resource)
	}

	uc, err := usecase.NewResourceUsecase(resource, repo, m.bus, m.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s usecase: %w", resource.Name, err)
	}

	if m.storagePing == nil {
		m.storagePing = repo.Ping
	}
	m.resources = append(m.resources, resource.Info())
	m.routes = append(m.routes, cataloghttp.NewResourceHandler(uc).RegisterRoutes)
	return uc, nil
}

// RegisterRoutes mounts every resource plus /site, /content and /events on
// router. writeGuard may be nil to leave writes open.
func (cm *CatalogModule) RegisterRoutes(router fiber.Router, writeGuard fiber.Handler) {
	for _, register := range cm.routes {
		register(router, writeGuard)
	}
	cm.siteHandler.RegisterRoutes(router)
}

// RegisterRealtime mounts the WebSocket change feed.
func (cm *CatalogModule) RegisterRealtime(router fiber.Router) {
	cm.wsHandler.RegisterRoutes(router, cm.config.Realtime.WebSocketPath)
}

// Seed copies the bundled content into empty collections.
func (cm *CatalogModule) Seed(ctx context.Context) (map[string]int, error) {
	return cm.seed.Seed(ctx)
}

// RecordVisitor stores a visitor sign-in as a lead.
func (cm *CatalogModule) RecordVisitor(ctx context.Context, name, email, phone string) error {
	_, err := cm.leads.Create(ctx, &model.Lead{
		Name:   name,
		Email:  email,
		Phone:  phone,
		Source: model.LeadSourceVisitorLogin,
	})
	return err
}

// Resources lists the mounted resources in registration order.
func (cm *CatalogModule) Resources() []model.ResourceInfo {
	return cm.resources
}

// Feed returns the change feed.
func (cm *CatalogModule) Feed() *usecase.ChangeFeed {
	return cm.feed
}

// HealthCheck pings the document store and, when enabled, the event store.
func (cm *CatalogModule) HealthCheck(ctx context.Context) error {
	var errs []error
	if err := cm.storagePing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("document store: %w", err))
	}
	if cm.eventStore != nil {
		if err := cm.eventStore.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("event store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Stop disconnects WebSocket subscribers.
func (cm *CatalogModule) Stop() error {
	cm.feed.Close()
	return nil
}
