// internals/features/users/auth/service/token_service.go
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TokenService issues HS256 access tokens read by the AuthJWT middleware.
type TokenService struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

func (s *TokenService) buildAccessClaims(userID uuid.UUID, roles []string, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID.String(),
		"roles":   roles,
		"iat":     now.Unix(),
		"exp":     now.Add(s.TTL).Unix(),
	}
}

// Issue returns a signed token and its expiry.
func (s *TokenService) Issue(userID uuid.UUID, roles []string) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	now := s.now().UTC()
	if roles == nil {
		roles = []string{}
	}
	claims := s.buildAccessClaims(userID, roles, now)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}
	return signed, now.Add(s.TTL), nil
}
