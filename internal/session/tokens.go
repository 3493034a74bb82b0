package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for cookies that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("session: invalid token")

const issuer = "flashdeck"

// Identity is what a browser-session cookie asserts.
type Identity struct {
	SessionID string
	ProfileID int64
}

type claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies browser-session cookies as HS256 JWTs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewSessionID returns a fresh random browser session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Sign issues a token for id. An empty SessionID is replaced with a new one.
func (t *Tokens) Sign(id Identity) (string, Identity, error) {
	if id.SessionID == "" {
		id.SessionID = NewSessionID()
	}
	now := t.now()
	c := claims{
		SID: id.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(id.ProfileID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", Identity{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, id, nil
}

// Parse verifies raw and returns the identity it carries.
func (t *Tokens) Parse(raw string) (Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	profileID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || profileID <= 0 {
		return Identity{}, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	if _, err := uuid.Parse(c.SID); err != nil {
		return Identity{}, fmt.Errorf("%w: bad session id", ErrInvalidToken)
	}
	return Identity{SessionID: c.SID, ProfileID: profileID}, nil
}
