package security

import (
	"time"

	"p2v/internal/common"

	"github.com/golang-jwt/jwt/v5"
)

const signingAlg = "HS256"

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService mints and checks stateless HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides time.Now for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret []byte, ttl time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

func (s *TokenService) Issue(userID, email string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(s.ttl))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.GetSigningMethod(signingAlg), claims).SignedString(s.secret)
}

// Verify returns the claims of a well-signed, unexpired token that names a
// user. Every other outcome is common.ErrCouldNotValidate.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingAlg}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, common.ErrCouldNotValidate
	}
	if claims.UserID == "" {
		return nil, common.ErrCouldNotValidate
	}
	return claims, nil
}

// ceilSecond rounds t up to a whole second. NumericDate keeps whole seconds
// and exp must not fall before issue time + ttl.
func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}
