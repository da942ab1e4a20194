package goGate

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is the flat environment-variable surface for [FromEnv]. It maps
// onto Config; zero-valued entries keep the defaults from DefaultConfig.
type envConfig struct {
	IdentityBaseURL     string        `env:"GOGATE_IDENTITY_BASE_URL"`
	IdentitySessionPath string        `env:"GOGATE_IDENTITY_SESSION_PATH"`
	IdentityLogoutPath  string        `env:"GOGATE_IDENTITY_LOGOUT_PATH"`
	IdentityTimeout     time.Duration `env:"GOGATE_IDENTITY_TIMEOUT"`

	AssertionEnabled bool   `env:"GOGATE_ASSERTION_ENABLED"`
	AssertionMethod  string `env:"GOGATE_ASSERTION_METHOD"`
	AssertionKey     string `env:"GOGATE_ASSERTION_KEY"`
	AssertionIssuer  string `env:"GOGATE_ASSERTION_ISSUER"`

	SSOLoginURL         string `env:"GOGATE_SSO_LOGIN_URL"`
	SSOReturnParam      string `env:"GOGATE_SSO_RETURN_PARAM"`
	SSODefaultReturnURL string `env:"GOGATE_SSO_DEFAULT_RETURN_URL"`
	SSOLoginPath        string `env:"GOGATE_SSO_LOGIN_PATH"`
	SSOHomePath         string `env:"GOGATE_SSO_HOME_PATH"`
	SSOReferrerParam    string `env:"GOGATE_SSO_REFERRER_PARAM"`

	AdminRole string `env:"GOGATE_ADMIN_ROLE"`
	SalesRole string `env:"GOGATE_SALES_ROLE"`

	CacheEnabled bool          `env:"GOGATE_CACHE_ENABLED"`
	CachePrefix  string        `env:"GOGATE_CACHE_PREFIX"`
	CacheKey     string        `env:"GOGATE_CACHE_KEY"`
	CacheTTL     time.Duration `env:"GOGATE_CACHE_TTL"`

	AuditEnabled    bool `env:"GOGATE_AUDIT_ENABLED"`
	AuditBufferSize int  `env:"GOGATE_AUDIT_BUFFER_SIZE"`

	MetricsEnabled    bool `env:"GOGATE_METRICS_ENABLED"`
	MetricsHistograms bool `env:"GOGATE_METRICS_HISTOGRAMS"`
}

// FromEnv loads a [Config] from GOGATE_* environment variables layered over
// [DefaultConfig]. The result is not validated; call [Config.Validate] (or
// let [Builder.Build] do it).
func FromEnv() (Config, error) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := defaultConfig()

	if e.IdentityBaseURL != "" {
		cfg.Identity.BaseURL = e.IdentityBaseURL
	}
	if e.IdentitySessionPath != "" {
		cfg.Identity.SessionPath = e.IdentitySessionPath
	}
	if e.IdentityLogoutPath != "" {
		cfg.Identity.LogoutPath = e.IdentityLogoutPath
	}
	if e.IdentityTimeout > 0 {
		cfg.Identity.Timeout = e.IdentityTimeout
	}

	cfg.Identity.Assertion.Enabled = e.AssertionEnabled
	if e.AssertionMethod != "" {
		cfg.Identity.Assertion.SigningMethod = e.AssertionMethod
	}
	if e.AssertionKey != "" {
		cfg.Identity.Assertion.Key = []byte(e.AssertionKey)
	}
	if e.AssertionIssuer != "" {
		cfg.Identity.Assertion.Issuer = e.AssertionIssuer
	}

	if e.SSOLoginURL != "" {
		cfg.SSO.LoginURL = e.SSOLoginURL
	}
	if e.SSOReturnParam != "" {
		cfg.SSO.ReturnParam = e.SSOReturnParam
	}
	if e.SSODefaultReturnURL != "" {
		cfg.SSO.DefaultReturnURL = e.SSODefaultReturnURL
	}
	if e.SSOLoginPath != "" {
		cfg.SSO.LoginPath = e.SSOLoginPath
	}
	if e.SSOHomePath != "" {
		cfg.SSO.HomePath = e.SSOHomePath
	}
	if e.SSOReferrerParam != "" {
		cfg.SSO.ReferrerParam = e.SSOReferrerParam
	}

	if e.AdminRole != "" {
		cfg.Roles.AdminRole = e.AdminRole
	}
	if e.SalesRole != "" {
		cfg.Roles.SalesRole = e.SalesRole
	}

	cfg.Cache.Enabled = e.CacheEnabled
	if e.CachePrefix != "" {
		cfg.Cache.RedisPrefix = e.CachePrefix
	}
	if e.CacheKey != "" {
		cfg.Cache.Key = e.CacheKey
	}
	if e.CacheTTL > 0 {
		cfg.Cache.TTL = e.CacheTTL
	}

	cfg.Audit.Enabled = e.AuditEnabled
	if e.AuditBufferSize > 0 {
		cfg.Audit.BufferSize = e.AuditBufferSize
	}

	cfg.Metrics.Enabled = e.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = e.MetricsHistograms

	return cfg, nil
}
