package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 24 * time.Hour

var (
	ErrInvalid     = errors.New("invalid token")
	ErrEmptySecret = errors.New("token secret is empty")
)

// Principal is the identity proven by a valid session token.
type Principal struct {
	ID       uint
	UserName string
}

type Claims struct {
	UserID   uint   `json:"id"`
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 session tokens with a server-held secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), ttl: SessionTTL, now: time.Now}, nil
}

func (s *Signer) TTL() time.Duration {
	return s.ttl
}

func (s *Signer) Generate(p Principal) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   p.ID,
		UserName: p.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Signer) Parse(tokenStr string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 {
		return Principal{}, ErrInvalid
	}
	return Principal{ID: claims.UserID, UserName: claims.UserName}, nil
}
