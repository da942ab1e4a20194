package goGate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goGate/gate"
	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/role"
	"github.com/MrEthical07/goGate/session"
)

// Engine defines a public type used by goGate APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	store    *session.Store
	registry *role.Registry
	gate     *gate.Gate
	identity identity.Client
	cache    *session.Cache
	audit    *auditDispatcher
	metrics  *Metrics

	attemptID string

	state         atomic.Int32
	bootstrapOnce sync.Once
	bootstrapErr  error
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// State describes the state operation and its observable behavior.
//
// State may return an error when input validation, dependency calls, or security checks fail.
// State does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) State() BootstrapState {
	if e == nil {
		return StateFetching
	}
	return BootstrapState(e.state.Load())
}

// Ready describes the ready operation and its observable behavior.
//
// Ready may return an error when input validation, dependency calls, or security checks fail.
// Ready does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Ready() bool {
	return e.State() == StateReady
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot may return an error when input validation, dependency calls, or security checks fail.
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Snapshot() session.Snapshot {
	if e == nil {
		return session.Snapshot{}
	}
	return e.store.Snapshot()
}

// Store exposes the shared session store, primarily for subscriber wiring.
func (e *Engine) Store() *session.Store {
	if e == nil {
		return nil
	}
	return e.store
}

/*
====================================
BOOTSTRAP SEQUENCER
====================================
*/

// Bootstrap resolves the session exactly once: warm-start from the snapshot
// cache when available, otherwise a single fetch from the identity provider.
// On success the payload is merged into the shared store and the engine moves
// to [StateReady]. On failure the engine moves to [StateRedirecting] and the
// returned error is a [RedirectError] carrying the SSO login URL with the
// current URL percent-encoded as the return parameter.
//
// Subsequent calls return the outcome of the first.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	e.bootstrapOnce.Do(func() {
		e.bootstrapErr = e.bootstrap(ctx)
	})
	return e.bootstrapErr
}

func (e *Engine) bootstrap(ctx context.Context) error {
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.Observe(MetricBootstrapLatency, time.Since(start))
		}
	}()

	if payload, ok := e.loadCached(ctx); ok {
		e.store.Merge(payload)
		e.state.Store(int32(StateReady))
		e.metricInc(MetricBootstrapSuccess)
		e.emitAudit(ctx, auditEventBootstrapSuccess, true, "", nil, func() map[string]string {
			return map[string]string{"source": "cache"}
		})
		return nil
	}

	payload, err := e.identity.FetchSession(ctx)
	if err != nil {
		e.state.Store(int32(StateRedirecting))
		e.metricInc(MetricBootstrapFailure)
		redirect := e.loginRedirectURL(ctx)
		e.emitAudit(ctx, auditEventBootstrapFailure, false, "", err, func() map[string]string {
			return map[string]string{"redirect": redirect}
		})
		return &RedirectError{URL: redirect}
	}

	e.store.Merge(payload)
	e.state.Store(int32(StateReady))
	e.metricInc(MetricBootstrapSuccess)
	e.saveCached(ctx)
	e.emitAudit(ctx, auditEventBootstrapSuccess, true, "", nil, func() map[string]string {
		return map[string]string{"source": "identity"}
	})
	return nil
}

// Run bootstraps and then invokes mount. mount runs only when the engine
// reached [StateReady]; on a failed bootstrap the [RedirectError] is returned
// and mount is never called.
func (e *Engine) Run(ctx context.Context, mount MountFunc) error {
	if err := e.Bootstrap(ctx); err != nil {
		return err
	}
	if mount == nil {
		return nil
	}
	return mount(ctx, e)
}

func (e *Engine) loadCached(ctx context.Context) (session.Payload, bool) {
	if e.cache == nil {
		return session.Payload{}, false
	}

	payload, err := e.cache.Load(ctx, e.config.Cache.Key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			e.metricInc(MetricCacheMiss)
			e.emitAudit(ctx, auditEventCacheMiss, true, "", nil, nil)
		} else {
			// Cache trouble must never block bootstrap.
			log.Print("goGate: snapshot cache load failed: ", err)
		}
		return session.Payload{}, false
	}

	e.metricInc(MetricCacheHit)
	e.emitAudit(ctx, auditEventCacheHit, true, "", nil, nil)
	return payload, true
}

func (e *Engine) saveCached(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Save(ctx, e.config.Cache.Key, e.store.Snapshot()); err != nil {
		log.Print("goGate: snapshot cache save failed: ", err)
	}
}

func (e *Engine) loginRedirectURL(ctx context.Context) string {
	target := currentURLFromContext(ctx)
	if target == "" {
		target = e.config.SSO.DefaultReturnURL
	}
	if target == "" {
		target = e.config.SSO.HomePath
	}

	u, err := url.Parse(e.config.SSO.LoginURL)
	if err != nil {
		return e.config.SSO.LoginURL
	}
	q := u.Query()
	q.Set(e.config.SSO.ReturnParam, target)
	u.RawQuery = q.Encode()
	return u.String()
}

/*
====================================
NAVIGATION & PREDICATES
====================================
*/

// Decide runs the navigation decision table for the target path against the
// current session. An engine that is not [StateReady] is treated as
// unauthenticated.
func (e *Engine) Decide(target string) gate.Verdict {
	if e == nil {
		return gate.Verdict{Decision: gate.RedirectLogin}
	}

	authenticated := e.Ready() && e.store.Snapshot().Authenticated()
	verdict := e.gate.Decide(authenticated, target)

	switch verdict.Decision {
	case gate.Allow:
		e.metricInc(MetricGateAllow)
		e.emitAudit(context.Background(), auditEventGateAllow, true, target, nil, nil)
	case gate.RedirectLogin:
		e.metricInc(MetricGateRedirectLogin)
		e.emitAudit(context.Background(), auditEventGateRedirectLogin, false, target, nil, nil)
	case gate.RedirectHome:
		e.metricInc(MetricGateRedirectHome)
		e.emitAudit(context.Background(), auditEventGateRedirectHome, false, target, nil, nil)
	}

	return verdict
}

// IsAuthenticated describes the isauthenticated operation and its observable behavior.
//
// IsAuthenticated may return an error when input validation, dependency calls, or security checks fail.
// IsAuthenticated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsAuthenticated() bool {
	ok, _ := e.Satisfies(PredicateAuthenticated)
	return ok
}

// IsAdmin describes the isadmin operation and its observable behavior.
//
// IsAdmin may return an error when input validation, dependency calls, or security checks fail.
// IsAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsAdmin() bool {
	ok, _ := e.Satisfies(PredicateAdmin)
	return ok
}

// IsSalesLeader describes the issalesleader operation and its observable behavior.
//
// IsSalesLeader may return an error when input validation, dependency calls, or security checks fail.
// IsSalesLeader does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsSalesLeader() bool {
	ok, _ := e.Satisfies(PredicateSalesLeader)
	return ok
}

// Satisfies evaluates the named predicate against the current snapshot.
// Unknown names return [ErrPredicateNotFound].
func (e *Engine) Satisfies(name string) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	p, ok := e.registry.Lookup(name)
	if !ok {
		return false, ErrPredicateNotFound
	}
	return p(e.store.Snapshot()), nil
}

/*
====================================
LOGOUT
====================================
*/

// Logout invalidates the remote session and returns the SSO login URL to
// navigate to. The redirect URL is returned even when the identity call fails;
// the error then wraps [ErrLogoutFailed] so callers can log it and still
// redirect.
func (e *Engine) Logout(ctx context.Context) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redirect := e.loginRedirectURL(ctx)

	var logoutErr error
	if err := e.identity.Logout(ctx); err != nil {
		logoutErr = fmt.Errorf("%w: %v", ErrLogoutFailed, err)
	}

	if e.cache != nil {
		if err := e.cache.Delete(ctx, e.config.Cache.Key); err != nil {
			log.Print("goGate: snapshot cache delete failed: ", err)
		}
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, logoutErr == nil, "", logoutErr, func() map[string]string {
		return map[string]string{"redirect": redirect}
	})

	return redirect, logoutErr
}
