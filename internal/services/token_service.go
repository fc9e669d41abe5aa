package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ipetrenko/storefront/internal/models"
)

const (
	// Fixed issuer/audience pair; verifiers must match both so a token
	// minted for another deployment is rejected.
	TokenIssuer   = "storefront-users"
	TokenAudience = "storefront-products"

	IdentityTokenTTL     = time.Hour
	activationTokenBytes = 32
)

// Principal is the verified identity extracted from a bearer token.
type Principal struct {
	AccountID int64
	Name      string
	Role      models.Role
}

type identityClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// TokenService mints activation tokens and signs/verifies identity tokens.
// The signing key comes from configuration; config.Load refuses to start
// without one.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: IdentityTokenTTL}
}

// NewActivationToken returns a URL-safe random token with 256 bits of
// entropy. No expiry is tracked here.
func (s *TokenService) NewActivationToken() (string, error) {
	buf := make([]byte, activationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate activation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// IssueIdentityToken signs a one-hour HS256 token for the account. Each
// issuance carries a fresh jti so two tokens for the same account are
// distinguishable.
func (s *TokenService) IssueIdentityToken(account *models.Account) (string, error) {
	now := time.Now().UTC()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			ID:        uuid.New().String(),
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Name: account.Name,
		Role: string(account.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyIdentityToken checks signature, expiry, issuer and audience, then
// extracts the principal. Any failure is reported as ErrInvalidToken.
func (s *TokenService) VerifyIdentityToken(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Principal{
		AccountID: accountID,
		Name:      claims.Name,
		Role:      models.Role(claims.Role),
	}, nil
}
