package goGate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goGate/session"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type captureSink struct {
	events chan AuditEvent
}

func newCaptureSink(buffer int) *captureSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &captureSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *captureSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = false

	sink := &countingSink{}
	stub := &stubIdentity{payload: adminPayload()}

	engine, err := New().
		WithConfig(cfg).
		WithIdentityClient(stub).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	_ = engine.Decide("/dashboard")
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditBootstrapSuccessEventFields(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16

	sink := newCaptureSink(8)
	stub := &stubIdentity{payload: adminPayload()}

	engine, err := New().
		WithConfig(cfg).
		WithIdentityClient(stub).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	select {
	case ev := <-sink.events:
		if ev.EventType != auditEventBootstrapSuccess {
			t.Fatalf("expected bootstrap_success, got %q", ev.EventType)
		}
		if !ev.Success {
			t.Fatal("expected success flag")
		}
		if ev.AttemptID == "" {
			t.Fatal("expected attempt ID to be populated")
		}
		if ev.Username != "alice" {
			t.Fatalf("expected username alice, got %q", ev.Username)
		}
		if ev.Metadata["source"] != "identity" {
			t.Fatalf("expected source identity, got %v", ev.Metadata)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected audit event to be received")
	}
}

func TestAuditBootstrapFailureCarriesErrorCode(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16

	sink := newCaptureSink(8)
	stub := &stubIdentity{err: errors.New("boom")}

	engine, err := New().
		WithConfig(cfg).
		WithIdentityClient(stub).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.Bootstrap(context.Background()); !errors.Is(err, ErrRedirecting) {
		t.Fatalf("expected redirect error, got %v", err)
	}

	select {
	case ev := <-sink.events:
		if ev.EventType != auditEventBootstrapFailure {
			t.Fatalf("expected bootstrap_failure, got %q", ev.EventType)
		}
		if ev.Success {
			t.Fatal("expected failure flag")
		}
		if ev.Error != string(auditErrInternal) {
			t.Fatalf("expected internal error code, got %q", ev.Error)
		}
		if ev.Metadata["redirect"] == "" {
			t.Fatal("expected redirect URL in metadata")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected audit event to be received")
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	done := make(chan struct{})
	go func() {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestEngineAuditDroppedReportsDispatcherDrops(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 1
	cfg.Audit.DropIfFull = true

	sink := newGateSink()
	stub := &stubIdentity{payload: adminPayload()}

	engine, err := New().
		WithConfig(cfg).
		WithIdentityClient(stub).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer func() {
		close(sink.gate)
		engine.Close()
	}()

	if err := engine.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	// The sink blocks on its gate: one event can be in flight and one can sit
	// in the buffer, so a third emit must be dropped.
	_ = engine.Decide("/dashboard")
	_ = engine.Decide("/dashboard")

	if got := engine.AuditDropped(); got == 0 {
		t.Fatal("expected engine to surface dropped audit events")
	}
}

func TestAuditJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: auditEventGateAllow,
		Username:  "alice",
		Path:      "/dashboard",
		Success:   true,
	}
	sink.Emit(context.Background(), event)

	if !buf.Contains("gate_allow") {
		t.Fatal("expected JSON log line to contain event type")
	}
	if !buf.Contains("\"username\":\"alice\"") {
		t.Fatal("expected JSON log line to contain username")
	}
	if !buf.Contains("\"path\":\"/dashboard\"") {
		t.Fatal("expected JSON log line to contain path")
	}
}

func TestAuditDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, &countingSink{})

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Close()
	dispatcher.Close()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})
}

func TestAuditErrorCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want AuditErrorCode
	}{
		{ErrRedirecting, auditErrRedirecting},
		{&RedirectError{URL: "https://sso.example.com"}, auditErrRedirecting},
		{ErrEngineNotReady, auditErrNotReady},
		{ErrIdentityUnavailable, auditErrUnavailable},
		{ErrAssertionInvalid, auditErrAssertionInvalid},
		{ErrLogoutFailed, auditErrLogoutFailed},
		{session.ErrCacheUnavailable, auditErrCacheUnavailable},
		{errors.New("anything else"), auditErrInternal},
	}
	for _, tc := range cases {
		if got := auditErrorCode(tc.err); got != tc.want {
			t.Fatalf("err %v: expected %q, got %q", tc.err, tc.want, got)
		}
	}
	if got := auditErrorCode(nil); got != "" {
		t.Fatalf("expected empty code for nil error, got %q", got)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) Contains(v string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return stringContains(string(b.buf), v)
}

func stringContains(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	if len(sub) > len(s) {
		return false
	}
	for i := 0; i <= len(s)-len(sub); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
