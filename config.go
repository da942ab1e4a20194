package goGate

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by goGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Identity IdentityConfig
	SSO      SSOConfig
	Roles    RolesConfig
	Cache    CacheConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
IDENTITY CONFIG
====================================
*/

// IdentityConfig defines a public type used by goGate APIs.
//
// IdentityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type IdentityConfig struct {
	BaseURL     string
	SessionPath string
	LogoutPath  string
	Timeout     time.Duration
	Assertion   AssertionConfig
}

// AssertionConfig defines a public type used by goGate APIs.
//
// AssertionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AssertionConfig struct {
	Enabled       bool
	SigningMethod string // "hs256" (default) or "ed25519"
	Key           []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
SSO CONFIG
====================================
*/

// SSOConfig defines a public type used by goGate APIs.
//
// SSOConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SSOConfig struct {
	// LoginURL is the external single-sign-on endpoint unauthenticated
	// users are sent to when the bootstrap fetch fails or on logout.
	LoginURL string
	// ReturnParam is the query parameter on LoginURL carrying the
	// percent-encoded URL to return to after sign-on.
	ReturnParam string
	// DefaultReturnURL is used as the return target when no current URL
	// is attached to the bootstrap context (see WithCurrentURL).
	DefaultReturnURL string
	// LoginPath is the single public in-app path; every other path is
	// protected by the navigation gate.
	LoginPath string
	// HomePath is where authenticated users landing on LoginPath are sent.
	HomePath string
	// ReferrerParam is the query parameter attached by the navigation gate
	// carrying the intended destination of a blocked navigation.
	ReferrerParam string
}

/*
====================================
ROLES CONFIG
====================================
*/

// RolesConfig defines a public type used by goGate APIs.
//
// RolesConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RolesConfig struct {
	AdminRole string
	SalesRole string
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig defines a public type used by goGate APIs.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	Enabled     bool
	RedisPrefix string
	// Key identifies this application instance's cached snapshot. Required
	// when the cache is enabled.
	Key string
	TTL time.Duration
}

// AuditConfig defines a public type used by goGate APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goGate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Identity: IdentityConfig{
			SessionPath: "/api/session",
			LogoutPath:  "/api/logout",
			Timeout:     10 * time.Second,
			Assertion: AssertionConfig{
				Enabled:       false,
				SigningMethod: "hs256",
				Leeway:        30 * time.Second,
			},
		},
		SSO: SSOConfig{
			ReturnParam:   "returnUrl",
			LoginPath:     "/login",
			HomePath:      "/",
			ReferrerParam: "referrer",
		},
		Roles: RolesConfig{
			AdminRole: "admin",
			SalesRole: "sales",
		},
		Cache: CacheConfig{
			Enabled:     false,
			RedisPrefix: "gg",
			TTL:         5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Identity.Assertion.Key = cloneBytes(cfg.Identity.Assertion.Key)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Identity
	if c.Identity.BaseURL == "" {
		return errors.New("Identity BaseURL is required")
	}
	if u, err := url.Parse(c.Identity.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("Identity BaseURL must be an absolute URL")
	}
	if !strings.HasPrefix(c.Identity.SessionPath, "/") {
		return errors.New("Identity SessionPath must begin with /")
	}
	if !strings.HasPrefix(c.Identity.LogoutPath, "/") {
		return errors.New("Identity LogoutPath must begin with /")
	}
	if c.Identity.Timeout <= 0 {
		return errors.New("Identity Timeout must be > 0")
	}
	if c.Identity.Assertion.Enabled {
		if c.Identity.Assertion.SigningMethod != "hs256" && c.Identity.Assertion.SigningMethod != "ed25519" {
			return errors.New("unsupported assertion signing method")
		}
		if len(c.Identity.Assertion.Key) == 0 {
			return errors.New("Assertion Key is required when assertions are enabled")
		}
		if c.Identity.Assertion.Leeway < 0 || c.Identity.Assertion.Leeway > 2*time.Minute {
			return errors.New("Assertion Leeway must be between 0 and 2m")
		}
	}

	// SSO
	if c.SSO.LoginURL == "" {
		return errors.New("SSO LoginURL is required")
	}
	if u, err := url.Parse(c.SSO.LoginURL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("SSO LoginURL must be an absolute URL")
	}
	if c.SSO.ReturnParam == "" {
		return errors.New("SSO ReturnParam must not be empty")
	}
	if c.SSO.ReferrerParam == "" {
		return errors.New("SSO ReferrerParam must not be empty")
	}
	if !strings.HasPrefix(c.SSO.LoginPath, "/") {
		return errors.New("SSO LoginPath must begin with /")
	}
	if !strings.HasPrefix(c.SSO.HomePath, "/") {
		return errors.New("SSO HomePath must begin with /")
	}

	// Roles
	if c.Roles.AdminRole == "" {
		return errors.New("Roles AdminRole must not be empty")
	}
	if c.Roles.SalesRole == "" {
		return errors.New("Roles SalesRole must not be empty")
	}

	// Cache
	if c.Cache.Enabled {
		if c.Cache.RedisPrefix == "" {
			return errors.New("Cache RedisPrefix must not be empty when cache is enabled")
		}
		if c.Cache.Key == "" {
			return errors.New("Cache Key is required when cache is enabled")
		}
		if c.Cache.TTL <= 0 {
			return errors.New("Cache TTL must be > 0 when cache is enabled")
		}
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
