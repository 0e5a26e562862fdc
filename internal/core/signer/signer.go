// Package signer mints and verifies the signed, time-bounded, single-use
// download tokens that stand in for resolved asset URLs. Tokens are HS256
// JWTs; the signer exclusively owns the secret and the replay cache, and
// tokens are stateless bearer credentials everywhere else.
package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	// DefaultTTL bounds a token's validity window.
	DefaultTTL = 30 * time.Minute

	// DefaultReplayCap bounds the replay cache.
	DefaultReplayCap = 1000

	urlClaim      = "url"
	metadataClaim = "metadata"
)

// Signer signs and verifies download tokens with a shared HS256 secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	replay *replayCache

	// now is swappable for expiry tests.
	now func() time.Time
}

// TokenInfo is a read-only status view of a token, built without
// consulting or mutating the replay cache. It must never be used to
// authorize anything; that is Verify's job.
type TokenInfo struct {
	Valid     bool              `json:"valid"`
	Expired   bool              `json:"expired"`
	ExpiresAt time.Time         `json:"expires_at,omitempty"`
	IssuedAt  time.Time         `json:"issued_at,omitempty"`
	URL       string            `json:"url,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	TokenID   string            `json:"token_id,omitempty"`
}

// New creates a Signer. ttl <= 0 and replayCap <= 0 fall back to the
// defaults.
func New(secret string, ttl time.Duration, replayCap int) (*Signer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		replay: newReplayCache(replayCap),
		now:    time.Now,
	}, nil
}

// Sign mints a token for a resolved asset URL. metadata carries small
// display hints (sanitized title, extension) into the download path; nil
// is fine.
func (s *Signer) Sign(url string, metadata map[string]string) (string, error) {
	now := s.now().UTC()
	if metadata == nil {
		metadata = map[string]string{}
	}

	tok, err := jwt.NewBuilder().
		Claim(urlClaim, url).
		Claim(metadataClaim, metadata).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(s.ttl)).
		JwtID(tokenID(url, now)).
		Build()
	if err != nil {
		return "", fmt.Errorf("building token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return string(signed), nil
}

// Verify checks a token's signature, required claims and validity window,
// then records its content hash in the replay cache. A token therefore
// verifies successfully at most once per process lifetime (modulo cache
// eviction). Every failure mode collapses into ErrTokenInvalid.
func (s *Signer) Verify(token string) (string, map[string]string, error) {
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
		jwt.WithRequiredClaim(jwt.IssuedAtKey),
		jwt.WithRequiredClaim(jwt.NotBeforeKey),
		jwt.WithRequiredClaim(urlClaim),
	)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	url, ok := claimString(tok, urlClaim)
	if !ok || url == "" {
		return "", nil, fmt.Errorf("%w: missing url claim", ErrTokenInvalid)
	}

	if s.replay.remember(tokenHash(token)) {
		return "", nil, fmt.Errorf("%w: token already used", ErrTokenInvalid)
	}

	return url, claimMetadata(tok), nil
}

// DecodeUnverified parses a token's claims without checking the signature
// or the validity window. Diagnostics only.
func (s *Signer) DecodeUnverified(token string) (jwt.Token, error) {
	tok, err := jwt.Parse([]byte(token), jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return tok, nil
}

// Describe reports a token's status from its unverified claims plus a
// wall-clock expiry comparison. Unlike Verify it has no side effects, so
// repeated status checks never consume the token.
func (s *Signer) Describe(token string) TokenInfo {
	tok, err := s.DecodeUnverified(token)
	if err != nil {
		return TokenInfo{}
	}

	exp := tok.Expiration()
	expired := exp.IsZero() || exp.Before(s.now())
	url, _ := claimString(tok, urlClaim)

	return TokenInfo{
		Valid:     !expired,
		Expired:   expired,
		ExpiresAt: exp,
		IssuedAt:  tok.IssuedAt(),
		URL:       url,
		Metadata:  claimMetadata(tok),
		TokenID:   tok.JwtID(),
	}
}

// tokenID derives a per-signing identifier from the URL and a millisecond
// timestamp. Two signings of the same URL in the same millisecond could
// collide; accepted as a low-probability risk.
func tokenID(url string, now time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", url, now.UnixMilli())))
	return hex.EncodeToString(sum[:])[:16]
}

// tokenHash is the replay-cache key: a hash of the full signed token, not
// of its claims, so re-signing the same URL yields an independent token.
func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func claimString(tok jwt.Token, name string) (string, bool) {
	v, ok := tok.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func claimMetadata(tok jwt.Token) map[string]string {
	v, ok := tok.Get(metadataClaim)
	if !ok {
		return nil
	}
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	md := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			md[k] = s
		}
	}
	return md
}
