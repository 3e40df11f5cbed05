package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrDecode means the token could not be decoded into a trusted subject.
// Callers treat it as "anonymous".
var ErrDecode = errors.New("token decode")

type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and checks HS256 bearer tokens. There is no revocation
// list: a token stays valid until it expires.
type Service struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func New(secret []byte, ttl time.Duration) *Service {
	return &Service{Secret: secret, TTL: ttl, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected sign method %v", t.Header["alg"])
	}
	return s.Secret, nil
}

func (s *Service) Issue(subject string, roles []string) (string, error) {
	if subject == "" {
		return "", errors.New("empty token subject")
	}
	now := s.now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Validate never returns an error: any problem with the token, including a
// subject other than expectedSubject, yields false.
func (s *Service) Validate(token, expectedSubject string) bool {
	if token == "" || expectedSubject == "" {
		return false
	}
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(expectedSubject),
	)
	return err == nil && tkn.Valid
}

// ExtractSubject checks the signature only. Expiry is left to Validate so an
// expired token still names its subject for logging.
func (s *Service) ExtractSubject(token string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrDecode)
	}
	return claims.Subject, nil
}
