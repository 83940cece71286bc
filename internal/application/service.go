package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/viralforge/rental-service/internal/ports"
)

const defaultMaxWriteAttempts = 5

type Service struct {
	cfg         Config
	houses      ports.HouseStore
	users       ports.UserRepository
	tickets     ports.TicketRepository
	outbox      ports.OutboxRepository
	cache       ports.Cache
	hasher      ports.PasswordHasher
	tokenSigner ports.TokenSigner
	transitions ports.TransitionRecorder
	logger      *slog.Logger
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Houses      ports.HouseStore
	Users       ports.UserRepository
	Tickets     ports.TicketRepository
	Outbox      ports.OutboxRepository
	Cache       ports.Cache
	Hasher      ports.PasswordHasher
	TokenSigner ports.TokenSigner
	Transitions ports.TransitionRecorder
	Logger      *slog.Logger
	Now         func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "rental-service"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}
	if cfg.OwnerCacheTTL <= 0 {
		cfg.OwnerCacheTTL = 5 * time.Minute
	}
	if cfg.MaxWriteAttempts <= 0 {
		cfg.MaxWriteAttempts = defaultMaxWriteAttempts
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	cache := deps.Cache
	if cache == nil {
		cache = noopCache{}
	}
	transitions := deps.Transitions
	if transitions == nil {
		transitions = noopRecorder{}
	}

	return &Service{
		cfg:         cfg,
		houses:      deps.Houses,
		users:       deps.Users,
		tickets:     deps.Tickets,
		outbox:      deps.Outbox,
		cache:       cache,
		hasher:      deps.Hasher,
		tokenSigner: deps.TokenSigner,
		transitions: transitions,
		logger:      logger.With("module", "application", "layer", "application"),
		nowFn:       nowFn,
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (string, error) { return "", ports.ErrCacheMiss }

func (noopCache) Set(context.Context, string, string, time.Duration) error { return nil }

func (noopCache) Delete(context.Context, ...string) error { return nil }

type noopRecorder struct{}

func (noopRecorder) RecordTransition(string, string) {}
