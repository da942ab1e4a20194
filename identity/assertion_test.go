package identity

import (
	"context"
	"crypto/ed25519"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signHS256(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return token
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"id":       7,
		"username": "alice",
		"role":     "sales",
		"isLeader": true,
		"iss":      "idp",
		"exp":      time.Now().Add(time.Minute).Unix(),
		"iat":      time.Now().Unix(),
	}
}

func newHS256Verifier(t *testing.T) *Verifier {
	t.Helper()

	v, err := NewVerifier(VerifierConfig{
		SigningMethod: MethodHS256,
		Key:           testSecret,
		Issuer:        "idp",
		Leeway:        30 * time.Second,
	})
	if err != nil {
		t.Fatalf("verifier build failed: %v", err)
	}
	return v
}

func TestVerifyExtractsPayload(t *testing.T) {
	v := newHS256Verifier(t)

	payload, err := v.Verify(signHS256(t, baseClaims()))
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if payload.ID == nil || *payload.ID != 7 {
		t.Fatalf("expected ID 7, got %v", payload.ID)
	}
	if payload.Username == nil || *payload.Username != "alice" {
		t.Fatalf("expected username alice, got %v", payload.Username)
	}
	if payload.Role == nil || *payload.Role != "sales" {
		t.Fatalf("expected role sales, got %v", payload.Role)
	}
	if payload.Leader == nil || !*payload.Leader {
		t.Fatal("expected leader flag true")
	}
}

func TestVerifyEmptyClaimStringsAreAbsent(t *testing.T) {
	v := newHS256Verifier(t)

	claims := baseClaims()
	claims["username"] = ""
	claims["role"] = ""
	delete(claims, "isLeader")

	payload, err := v.Verify(signHS256(t, claims))
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if payload.Username != nil || payload.Role != nil || payload.Leader != nil {
		t.Fatalf("expected empty claims to stay absent, got %+v", payload)
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	v := newHS256Verifier(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, baseClaims()).
		SignedString([]byte("another-secret-entirely-32-bytes"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, ErrAssertionInvalid) {
		t.Fatalf("expected ErrAssertionInvalid, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := newHS256Verifier(t)

	claims := baseClaims()
	claims["exp"] = time.Now().Add(-5 * time.Minute).Unix()

	if _, err := v.Verify(signHS256(t, claims)); !errors.Is(err, ErrAssertionInvalid) {
		t.Fatalf("expected ErrAssertionInvalid for expired token, got %v", err)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	v := newHS256Verifier(t)

	claims := baseClaims()
	claims["iss"] = "someone-else"

	if _, err := v.Verify(signHS256(t, claims)); !errors.Is(err, ErrAssertionInvalid) {
		t.Fatalf("expected ErrAssertionInvalid for wrong issuer, got %v", err)
	}
}

func TestVerifyRejectsAlgorithmConfusion(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}

	v, err := NewVerifier(VerifierConfig{
		SigningMethod: MethodEd25519,
		Key:           pub,
	})
	if err != nil {
		t.Fatalf("verifier build failed: %v", err)
	}

	// A valid Ed25519 token passes.
	good, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, baseClaims()).SignedString(priv)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := v.Verify(good); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// An HS256 token signed with the public key bytes must not.
	confused, err := jwt.NewWithClaims(jwt.SigningMethodHS256, baseClaims()).SignedString([]byte(pub))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := v.Verify(confused); !errors.Is(err, ErrAssertionInvalid) {
		t.Fatalf("expected ErrAssertionInvalid for alg confusion, got %v", err)
	}
}

func TestNewVerifierValidatesConfig(t *testing.T) {
	if _, err := NewVerifier(VerifierConfig{SigningMethod: MethodHS256}); err == nil {
		t.Fatal("expected error for missing hs256 key")
	}
	if _, err := NewVerifier(VerifierConfig{SigningMethod: MethodEd25519, Key: []byte("short")}); err == nil {
		t.Fatal("expected error for malformed ed25519 key")
	}
	if _, err := NewVerifier(VerifierConfig{SigningMethod: "rs256", Key: testSecret}); err == nil {
		t.Fatal("expected error for unsupported method")
	}
	if _, err := NewVerifier(VerifierConfig{SigningMethod: MethodHS256, Key: testSecret, Leeway: 10 * time.Minute}); err == nil {
		t.Fatal("expected error for excessive leeway")
	}
}

func TestFetchSessionAssertionMode(t *testing.T) {
	v := newHS256Verifier(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/jwt")
		_, _ = w.Write([]byte(signHS256(t, baseClaims()) + "\n"))
	})

	client, _ := newTestClient(t, handler, v)

	payload, err := client.FetchSession(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if payload.ID == nil || *payload.ID != 7 {
		t.Fatalf("expected ID 7, got %v", payload.ID)
	}
	if payload.Role == nil || *payload.Role != "sales" {
		t.Fatalf("expected role sales, got %v", payload.Role)
	}
}
