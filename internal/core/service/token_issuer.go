package service

import (
	"fmt"
	"time"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
)

// Claim names carried by issued tokens.
const (
	ClaimTokenType = "token_type"
	ClaimRole      = "role"
	ClaimName      = "name"
	ClaimUserID    = "user_id"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const (
	defaultAccessTTL  = 24 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenIssuer builds access and refresh tokens for a user. The subject is
// always the user's email. It has no knowledge of the store.
type TokenIssuer struct {
	signer     ports.TokenSigner
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(signer ports.TokenSigner, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenIssuer{signer: signer, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueAccessToken returns a short-lived token carrying the user's role.
func (t *TokenIssuer) IssueAccessToken(user *domain.User) (string, error) {
	claims := map[string]any{
		ClaimTokenType: TokenTypeAccess,
		ClaimRole:      user.Role.String(),
		ClaimName:      user.Name,
		ClaimUserID:    user.ID,
	}
	return t.signer.Sign(user.Email, claims, t.accessTTL)
}

// IssueRefreshToken returns a long-lived token with extra merged into its
// claims. The token type claim cannot be overridden by extra.
func (t *TokenIssuer) IssueRefreshToken(extra map[string]any, user *domain.User) (string, error) {
	claims := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		claims[k] = v
	}
	claims[ClaimTokenType] = TokenTypeRefresh
	return t.signer.Sign(user.Email, claims, t.refreshTTL)
}

// ParseAccessToken validates token and requires it to be an access token.
func (t *TokenIssuer) ParseAccessToken(token string) (*ports.TokenClaims, error) {
	return t.parse(token, TokenTypeAccess)
}

// ParseRefreshToken validates token and requires it to be a refresh token.
func (t *TokenIssuer) ParseRefreshToken(token string) (*ports.TokenClaims, error) {
	return t.parse(token, TokenTypeRefresh)
}

func (t *TokenIssuer) parse(token, wantType string) (*ports.TokenClaims, error) {
	claims, err := t.signer.Parse(token)
	if err != nil {
		return nil, err
	}
	if typ, _ := claims.Claims[ClaimTokenType].(string); typ != wantType {
		return nil, fmt.Errorf("%w: expected %s token", domain.ErrInvalidToken, wantType)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	return claims, nil
}

func (t *TokenIssuer) pair(user *domain.User) (access, refresh string, err error) {
	access, err = t.IssueAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refresh, err = t.IssueRefreshToken(nil, user)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}
	return access, refresh, nil
}
