package goGate

import (
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goGate/gate"
	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/role"
	"github.com/MrEthical07/goGate/session"
)

const (
	// PredicateAuthenticated is an exported constant or variable used by the bootstrap engine.
	PredicateAuthenticated = "authenticated"
	// PredicateAdmin is an exported constant or variable used by the bootstrap engine.
	PredicateAdmin = "admin"
	// PredicateSalesLeader is an exported constant or variable used by the bootstrap engine.
	PredicateSalesLeader = "sales_leader"
)

// Builder defines a public type used by goGate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	identityClient identity.Client
	auditSink      AuditSink
	predicates     map[string]role.Predicate

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config:     defaultConfig(),
		predicates: make(map[string]role.Predicate),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithIdentityClient describes the withidentityclient operation and its observable behavior.
//
// WithIdentityClient may return an error when input validation, dependency calls, or security checks fail.
// WithIdentityClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithIdentityClient(client identity.Client) *Builder {
	b.identityClient = client
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithPredicate describes the withpredicate operation and its observable behavior.
//
// WithPredicate may return an error when input validation, dependency calls, or security checks fail.
// WithPredicate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPredicate(name string, p role.Predicate) *Builder {
	b.predicates[name] = p
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled && b.redis == nil {
		return nil, errors.New("Cache requires redis client")
	}

	// -------- PREDICATE REGISTRY --------
	registry := role.NewRegistry()
	builtins := map[string]role.Predicate{
		PredicateAuthenticated: role.Authenticated(),
		PredicateAdmin:         role.Admin(cfg.Roles.AdminRole),
		PredicateSalesLeader:   role.SalesLeader(cfg.Roles.SalesRole),
	}
	for name, p := range builtins {
		if err := registry.Register(name, p); err != nil {
			return nil, err
		}
	}
	for name, p := range b.predicates {
		if err := registry.Register(name, p); err != nil {
			return nil, err
		}
	}
	registry.Freeze()

	// -------- IDENTITY CLIENT --------
	client := b.identityClient
	if client == nil {
		var verifier *identity.Verifier
		if cfg.Identity.Assertion.Enabled {
			v, err := identity.NewVerifier(identity.VerifierConfig{
				SigningMethod: identity.SigningMethod(cfg.Identity.Assertion.SigningMethod),
				Key:           cfg.Identity.Assertion.Key,
				Issuer:        cfg.Identity.Assertion.Issuer,
				Leeway:        cfg.Identity.Assertion.Leeway,
			})
			if err != nil {
				return nil, err
			}
			verifier = v
		}

		httpClient, err := identity.NewHTTPClient(identity.Config{
			BaseURL:     cfg.Identity.BaseURL,
			SessionPath: cfg.Identity.SessionPath,
			LogoutPath:  cfg.Identity.LogoutPath,
			Timeout:     cfg.Identity.Timeout,
			Verifier:    verifier,
		})
		if err != nil {
			return nil, err
		}
		client = httpClient
	}

	// -------- SNAPSHOT CACHE --------
	var cache *session.Cache
	if cfg.Cache.Enabled {
		cache = session.NewCache(b.redis, cfg.Cache.RedisPrefix, cfg.Cache.TTL)
	}

	engine := &Engine{
		config:   cfg,
		store:    session.NewStore(),
		registry: registry,
		gate: gate.New(gate.Config{
			LoginPath:     cfg.SSO.LoginPath,
			HomePath:      cfg.SSO.HomePath,
			ReferrerParam: cfg.SSO.ReferrerParam,
		}),
		identity:  client,
		cache:     cache,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
		attemptID: uuid.NewString(),
	}
	engine.state.Store(int32(StateFetching))

	b.built = true
	return engine, nil
}
