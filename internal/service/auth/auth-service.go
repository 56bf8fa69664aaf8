package auth

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"servihogar/entity"
	"servihogar/internal/lib/sl"
)

// Service resolves bearer tokens into requester identities. Tokens are
// issued by the account platform and verified here with a shared HMAC secret.
type Service struct {
	jwtSecret []byte
	log       *slog.Logger
}

func NewAuthService(jwtSecret string, logger *slog.Logger) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		log:       logger.With(sl.Module("auth-service")),
	}
}

type identityClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// GetCurrentUser parses and verifies a bearer token. The "Bearer " prefix
// is optional. Returns an error for expired, malformed or forged tokens.
func (s *Service) GetCurrentUser(token string) (*entity.Identity, error) {
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims := &identityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &entity.Identity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Phone: claims.Phone,
	}, nil
}

// IssueToken signs an identity into a token. Used by tests and local tooling.
func (s *Service) IssueToken(identity *entity.Identity) (string, error) {
	claims := &identityClaims{
		Name:  identity.Name,
		Email: identity.Email,
		Phone: identity.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: identity.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
