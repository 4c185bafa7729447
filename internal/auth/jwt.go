package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/entity"
)

// DefaultTTLSeconds is the lenient fallback when a TTL string cannot be
// parsed. Configuration rejects such strings at startup, so this only
// shields direct callers that bypass config.
const DefaultTTLSeconds = 900

// ErrInvalidToken indicates the token failed signature or claim validation.
// Callers get no detail about which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the signed payload carried by access and refresh tokens.
type Claims struct {
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	OrganizationID *string `json:"org_id,omitempty"`
	SessionID      string  `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies access and refresh tokens with a shared HS256
// secret.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager creates a token manager. TTLs that are not positive fall back to
// one hour for access tokens and seven days for refresh tokens.
func NewManager(secret, issuer string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "taskboard"
	}
	return &Manager{
		secret:     []byte(trimmed),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (m *Manager) AccessTTL() time.Duration {
	return m.accessTTL
}

// RefreshTTL returns the configured refresh-token lifetime.
func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// GenerateAccessToken issues a short-lived access token for the user.
func (m *Manager) GenerateAccessToken(user *entity.DbUser, sessionID string) (string, time.Time, error) {
	return m.generate(user, sessionID, m.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token bound to a session.
func (m *Manager) GenerateRefreshToken(user *entity.DbUser, sessionID string) (string, time.Time, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", time.Time{}, errors.New("refresh token requires a session id")
	}
	return m.generate(user, sessionID, m.refreshTTL)
}

func (m *Manager) generate(user *entity.DbUser, sessionID string, ttl time.Duration) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("jwt manager is nil")
	}
	if user == nil || user.ID == "" {
		return "", time.Time{}, errors.New("invalid user for token generation")
	}
	now := time.Now().UTC()
	expiry := now.Add(ttl)

	claims := Claims{
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		SessionID:      sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseToken validates signature, algorithm, issuer and expiry, and returns
// the claims. Any failure maps to ErrInvalidToken.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	if m == nil {
		return nil, errors.New("jwt manager is nil")
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseTTL converts human-readable durations ("900s", "15m", "1h", "7d") to
// a time.Duration. An unrecognised suffix or value yields the lenient 900s
// default. Use ValidateTTL when a typo must be a hard error.
func ParseTTL(value string) time.Duration {
	d, err := ValidateTTL(value)
	if err != nil {
		return DefaultTTLSeconds * time.Second
	}
	return d
}

// ValidateTTL parses a TTL string and reports malformed input as an error,
// for startup-time configuration checks.
func ValidateTTL(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return 0, fmt.Errorf("invalid ttl %q", value)
	}
	n, err := strconv.Atoi(value[:len(value)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid ttl %q", value)
	}
	switch value[len(value)-1] {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid ttl unit in %q", value)
	}
}
