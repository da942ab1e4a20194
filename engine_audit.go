package goGate

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/session"
)

const (
	auditEventBootstrapSuccess  = "bootstrap_success"
	auditEventBootstrapFailure  = "bootstrap_failure"
	auditEventCacheHit          = "cache_hit"
	auditEventCacheMiss         = "cache_miss"
	auditEventGateAllow         = "gate_allow"
	auditEventGateRedirectLogin = "gate_redirect_login"
	auditEventGateRedirectHome  = "gate_redirect_home"
	auditEventLogout            = "logout"
)

// AuditErrorCode defines a public type used by goGate APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrRedirecting      AuditErrorCode = "redirecting"
	auditErrNotReady         AuditErrorCode = "engine_not_ready"
	auditErrUnavailable      AuditErrorCode = "identity_unavailable"
	auditErrAssertionInvalid AuditErrorCode = "assertion_invalid"
	auditErrLogoutFailed     AuditErrorCode = "logout_failed"
	auditErrCacheUnavailable AuditErrorCode = "cache_unavailable"
	auditErrInternal         AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	path string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		AttemptID: e.attemptID,
		Username:  e.store.Snapshot().Username,
		Path:      path,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrRedirecting):
		return auditErrRedirecting
	case errors.Is(err, ErrEngineNotReady):
		return auditErrNotReady
	case errors.Is(err, ErrIdentityUnavailable),
		errors.Is(err, identity.ErrUnavailable):
		return auditErrUnavailable
	case errors.Is(err, ErrAssertionInvalid),
		errors.Is(err, identity.ErrAssertionInvalid):
		return auditErrAssertionInvalid
	case errors.Is(err, ErrLogoutFailed):
		return auditErrLogoutFailed
	case errors.Is(err, session.ErrCacheUnavailable):
		return auditErrCacheUnavailable
	default:
		return auditErrInternal
	}
}
