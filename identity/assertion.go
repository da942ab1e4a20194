package identity

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/goGate/session"
)

// SigningMethod defines a public type used by goGate APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodHS256 is an exported constant or variable used by the bootstrap engine.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 is an exported constant or variable used by the bootstrap engine.
	MethodEd25519 SigningMethod = "ed25519"
)

// ErrAssertionInvalid is an exported constant or variable used by the bootstrap engine.
var ErrAssertionInvalid = errors.New("identity assertion invalid")

// VerifierConfig defines a public type used by goGate APIs.
//
// VerifierConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type VerifierConfig struct {
	SigningMethod SigningMethod
	// Key is the HMAC secret for hs256 or the raw/PEM Ed25519 public key.
	Key    []byte
	Issuer string
	Leeway time.Duration
}

// Verifier validates signed session assertions issued by the identity provider
// and extracts their claims into a session payload.
type Verifier struct {
	config VerifierConfig
}

type assertionClaims struct {
	ID       *int64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Leader   *bool  `json:"isLeader"`
	jwt.RegisteredClaims
}

// NewVerifier describes the newverifier operation and its observable behavior.
//
// NewVerifier may return an error when input validation, dependency calls, or security checks fail.
// NewVerifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Key) == 0 {
			return nil, errors.New("hs256 requires a secret key")
		}
	case MethodEd25519:
		if _, err := parseEdPublicKey(cfg.Key); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Verifier{config: cfg}, nil
}

// Verify parses and validates the assertion token, returning the session
// payload carried in its claims. Empty claim strings are treated as absent so
// the downstream merge stays permissive.
func (v *Verifier) Verify(token string) (session.Payload, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method().Alg()}),
	}
	if v.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(v.config.Leeway))
	}
	if v.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(token, &assertionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != v.method().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return v.verifyKey()
	})
	if err != nil {
		return session.Payload{}, fmt.Errorf("%w: %v", ErrAssertionInvalid, err)
	}

	claims, ok := parsed.Claims.(*assertionClaims)
	if !ok || !parsed.Valid {
		return session.Payload{}, ErrAssertionInvalid
	}

	payload := session.Payload{
		ID:     claims.ID,
		Leader: claims.Leader,
	}
	if claims.Username != "" {
		username := claims.Username
		payload.Username = &username
	}
	if claims.Role != "" {
		role := claims.Role
		payload.Role = &role
	}
	return payload, nil
}

func (v *Verifier) method() jwt.SigningMethod {
	switch v.config.SigningMethod {
	case MethodEd25519:
		return jwt.SigningMethodEdDSA
	default:
		return jwt.SigningMethodHS256
	}
}

func (v *Verifier) verifyKey() (interface{}, error) {
	switch v.config.SigningMethod {
	case MethodEd25519:
		return parseEdPublicKey(v.config.Key)
	default:
		return v.config.Key, nil
	}
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
