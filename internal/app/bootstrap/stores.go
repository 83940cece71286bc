package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viralforge/rental-service/internal/adapters/cache"
	"github.com/viralforge/rental-service/internal/adapters/memory"
	"github.com/viralforge/rental-service/internal/adapters/mongodb"
	"github.com/viralforge/rental-service/internal/adapters/postgres"
	"github.com/viralforge/rental-service/internal/adapters/security"
	"github.com/viralforge/rental-service/internal/application"
	"github.com/viralforge/rental-service/internal/ports"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Stores bundles the persistence and cache adapters selected by STORAGE_DRIVER.
type Stores struct {
	Houses  ports.HouseStore
	Users   ports.UserRepository
	Tickets ports.TicketRepository
	Outbox  ports.OutboxRepository
	Cache   ports.Cache

	ping    func(context.Context) error
	closers []func(context.Context)
}

func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases connections in reverse order of acquisition.
func (s *Stores) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i](ctx)
	}
	s.closers = nil
}

func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, error) {
	stores := &Stores{}
	local := cache.NewLocalCache(cfg.LocalCacheTTL, uint64(max(cfg.LocalCacheCapacity, 0)))
	stores.closers = append(stores.closers, func(context.Context) { _ = local.Close() })
	stores.Cache = local

	if cfg.StorageDriver == StorageMemory {
		repos := memory.NewRepositories()
		stores.Houses = repos.Houses
		stores.Users = repos.Users
		stores.Tickets = repos.Tickets
		stores.Outbox = repos.Outbox
		return stores, nil
	}

	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURL)
	if err != nil {
		stores.Close(ctx)
		return nil, err
	}
	stores.closers = append(stores.closers, func(ctx context.Context) { _ = mongoClient.Disconnect(ctx) })
	mongoDB := mongoClient.Database(cfg.MongoDatabase)
	if err := mongodb.EnsureIndexes(ctx, mongoDB); err != nil {
		stores.Close(ctx)
		return nil, err
	}
	stores.Houses = mongodb.NewHouseStore(mongoDB)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		stores.Close(ctx)
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		stores.Close(ctx)
		return nil, err
	}
	stores.closers = append(stores.closers, func(context.Context) { _ = sqlDB.Close() })
	if err := postgres.RunMigrations(ctx, db); err != nil {
		stores.Close(ctx)
		return nil, err
	}
	repos := postgres.NewRepositories(db)
	stores.Users = repos.Users
	stores.Tickets = repos.Tickets
	stores.Outbox = repos.Outbox

	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			logger.WarnContext(ctx, "redis unavailable, owner cache is process-local only",
				"operation", "open_stores",
				"outcome", "degraded",
				"error", redisErr,
			)
		} else {
			stores.closers = append(stores.closers, func(context.Context) { _ = redisClient.Close() })
			stores.Cache = cache.NewTieredCache(local, cache.NewRedisCache(redisClient), cfg.LocalCacheTTL, logger)
		}
	}

	stores.ping = func(ctx context.Context) error {
		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		return nil
	}
	return stores, nil
}

// NewService wires the application service over the opened stores.
func NewService(cfg Config, stores *Stores, logger *slog.Logger, transitions ports.TransitionRecorder) (*application.Service, error) {
	var (
		signer *security.TokenSigner
		err    error
	)
	if cfg.JWTPrivateKeyPEM != "" {
		signer, err = security.NewTokenSigner(cfg.JWTKeyID, cfg.JWTPrivateKeyPEM, cfg.JWTPublicKeyPEM)
	} else {
		logger.Warn("no JWT keys configured, issuing tokens with an ephemeral key",
			"operation", "new_service",
			"outcome", "degraded",
		)
		signer, err = security.NewEphemeralTokenSigner(cfg.JWTKeyID, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("token signer: %w", err)
	}

	return application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:      cfg.ServiceID,
			TokenTTL:         cfg.TokenTTL,
			OwnerCacheTTL:    cfg.OwnerCacheTTL,
			MaxWriteAttempts: cfg.MaxWriteAttempts,
		},
		Houses:      stores.Houses,
		Users:       stores.Users,
		Tickets:     stores.Tickets,
		Outbox:      stores.Outbox,
		Cache:       stores.Cache,
		Hasher:      security.NewBcryptHasher(cfg.BcryptCost),
		TokenSigner: signer,
		Transitions: transitions,
		Logger:      logger,
	}), nil
}

// Migrate applies the relational migrations and document indexes, then disconnects.
func Migrate(ctx context.Context, cfg Config) error {
	if cfg.StorageDriver == StorageMemory {
		return nil
	}
	db, err := postgres.Connect(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}

	client, err := mongodb.Connect(ctx, cfg.MongoURL)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	return mongodb.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase))
}
