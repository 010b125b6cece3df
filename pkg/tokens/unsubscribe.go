package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Scope is embedded in every token so a link minted for one purpose cannot be
// replayed against another.
const ScopeMarketing = "ads"

var (
	// ErrExpired marks a well-formed, correctly signed token past its window.
	ErrExpired = errors.New("token expired")
	// ErrInvalid marks a malformed or tampered token.
	ErrInvalid = errors.New("token invalid")
)

// UnsubscribeSigner mints and verifies signed opt-out tokens for persons.
type UnsubscribeSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewUnsubscribeSigner constructs a signer with the provided secret and TTL.
func NewUnsubscribeSigner(secret string, ttl time.Duration) *UnsubscribeSigner {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &UnsubscribeSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a signed token for the given person id.
func (s *UnsubscribeSigner) Generate(personID int64, scope string) (string, error) {
	if personID <= 0 || scope == "" {
		return "", fmt.Errorf("personID and scope required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	payload := fmt.Sprintf("%d|%s|%d", personID, scope, expiresAt.Unix())
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return strings.Join([]string{
		strconv.FormatInt(personID, 10),
		scope,
		strconv.FormatInt(expiresAt.Unix(), 10),
		signature,
	}, "."), nil
}

// Verify validates a token for the expected scope and returns the embedded
// person id. The error distinguishes expiry from tampering: a correctly signed
// token past its window yields ErrExpired, anything else yields ErrInvalid.
func (s *UnsubscribeSigner) Verify(token, scope string) (int64, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return 0, ErrInvalid
	}

	payload := fmt.Sprintf("%s|%s|%s", parts[0], parts[1], parts[2])
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[3])) {
		return 0, ErrInvalid
	}

	if parts[1] != scope {
		return 0, ErrInvalid
	}

	expUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	if time.Now().After(time.Unix(expUnix, 0)) {
		return 0, ErrExpired
	}

	personID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || personID <= 0 {
		return 0, ErrInvalid
	}

	return personID, nil
}
