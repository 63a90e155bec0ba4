package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel token validation errors. Callers must treat any of them as a
// rejected token; the split exists for audit detail only.
var (
	// ErrInvalidToken is returned when a token is malformed, carries the
	// wrong issuer or audience, or uses an unexpected signing method.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the token signature is valid but the
	// token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrSignatureMismatch is returned when the token signature does not
	// verify under the configured secret.
	ErrSignatureMismatch = errors.New("token signature mismatch")
)

// MinSecretLen is the minimum HMAC signing secret length in bytes (256 bits).
const MinSecretLen = 32

// Claims is the claim set carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenProvider issues and validates HS256-signed session tokens. Tokens are
// self-contained and never revoked server side; the only cancellation
// mechanism is expiry.
type TokenProvider struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenProvider returns a TokenProvider signing with the given symmetric
// secret. The secret must be at least MinSecretLen bytes and issuer, audience,
// and ttl must be set; misconfiguration is an error here rather than a
// token silently issued with a weak or default key.
func NewTokenProvider(secret []byte, issuer, audience string, ttl time.Duration) (*TokenProvider, error) {
	if len(secret) < MinSecretLen {
		return nil, errors.New("security: signing secret must be at least 32 bytes")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("security: token issuer and audience must be set")
	}
	if ttl <= 0 {
		return nil, errors.New("security: token lifetime must be positive")
	}
	return &TokenProvider{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// TTL returns the configured token lifetime.
func (p *TokenProvider) TTL() time.Duration { return p.ttl }

// Issue mints a signed session token for the given account and role.
// Returns the compact token and its expiry.
func (p *TokenProvider) Issue(accountID int64, role string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.now().UTC()
	expiresAt = now.Add(p.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(accountID, 10),
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses tokenString and checks signature, signing method, expiry,
// issuer, and audience before returning any claim. All failures reject the
// token; no partially trusted claims are returned.
func (p *TokenProvider) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureMismatch
		default:
			return nil, ErrInvalidToken
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccountID returns the numeric subject of the claims.
func (c *Claims) AccountID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
