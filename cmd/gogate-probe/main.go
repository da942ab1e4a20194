// Command gogate-probe bootstraps a goGate engine against a live identity
// provider and reports the outcome: terminal state, merged session fields,
// predicate results, and the navigation verdict for a set of probe paths.
//
// Configuration comes from GOGATE_* environment variables (see FromEnv) with
// flag overrides for the common knobs. With -redis-addr empty and the cache
// enabled, an embedded miniredis is used.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	goGate "github.com/MrEthical07/goGate"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		identityURL = flag.String("identity-url", "", "identity provider base URL (overrides GOGATE_IDENTITY_BASE_URL)")
		ssoURL      = flag.String("sso-url", "", "SSO login URL (overrides GOGATE_SSO_LOGIN_URL)")
		currentURL  = flag.String("current-url", "", "current URL used as the SSO return target")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty and the cache is enabled, miniredis is used")
		paths       = flag.String("paths", "/login,/,/dashboard", "comma-separated paths to run through the gate")
		timeout     = flag.Duration("timeout", 15*time.Second, "overall probe timeout")
	)
	flag.Parse()

	cfg, err := goGate.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if *identityURL != "" {
		cfg.Identity.BaseURL = *identityURL
	}
	if *ssoURL != "" {
		cfg.SSO.LoginURL = *ssoURL
	}

	builder := goGate.New().WithConfig(cfg).WithMetricsEnabled(true)

	var cleanup func()
	if cfg.Cache.Enabled {
		addr := *redisAddr
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
				os.Exit(1)
			}
			addr = mr.Addr()
			cleanup = mr.Close
			fmt.Printf("using miniredis at %s\n", addr)
		}
		builder.WithRedis(redis.NewClient(&redis.Options{Addr: addr}))
	}
	if cleanup != nil {
		defer cleanup()
	}

	engine, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if *currentURL != "" {
		ctx = goGate.WithCurrentURL(ctx, *currentURL)
	}

	start := time.Now()
	err = engine.Bootstrap(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	fmt.Printf("state: %s (%s)\n", engine.State(), elapsed)

	var redirect *goGate.RedirectError
	if errors.As(err, &redirect) {
		fmt.Printf("redirect: %s\n", redirect.URL)
		os.Exit(3)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}

	snap := engine.Snapshot()
	fmt.Printf("username: %q role: %q\n", snap.Username, snap.Role)
	fmt.Printf("authenticated=%v admin=%v sales_leader=%v\n",
		engine.IsAuthenticated(), engine.IsAdmin(), engine.IsSalesLeader())

	for _, path := range strings.Split(*paths, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		verdict := engine.Decide(path)
		if verdict.Location != "" {
			fmt.Printf("gate %-20s %s -> %s\n", path, verdict.Decision, verdict.Location)
		} else {
			fmt.Printf("gate %-20s %s\n", path, verdict.Decision)
		}
	}

	metrics := engine.MetricsSnapshot()
	fmt.Printf("metrics: success=%d failure=%d cache_hit=%d cache_miss=%d\n",
		metrics.Counters[goGate.MetricBootstrapSuccess],
		metrics.Counters[goGate.MetricBootstrapFailure],
		metrics.Counters[goGate.MetricCacheHit],
		metrics.Counters[goGate.MetricCacheMiss])
}
