package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/driveops/sharesync/internal/utils"
)

const (
	// DefaultAuthority is the Azure AD endpoint issuing Graph tokens.
	DefaultAuthority = "https://login.microsoftonline.com"

	graphScope = "https://graph.microsoft.com/.default"
)

// AuthParams holds the app-only credentials for the client credentials flow.
type AuthParams struct {
	Authority    string // defaults to DefaultAuthority
	TenantID     string
	ClientID     string
	ClientSecret string
}

// TokenClaims is the subset of Azure AD token claims worth logging.
type TokenClaims struct {
	AppID    string `json:"appid"`
	TenantID string `json:"tid"`
	jwt.RegisteredClaims
}

// AcquireToken runs the OAuth2 client credentials flow against Azure AD and
// returns a bearer token for Graph calls.
func AcquireToken(ctx context.Context, params *AuthParams) (string, error) {
	authority := params.Authority
	if authority == "" {
		authority = DefaultAuthority
	}

	conf := &clientcredentials.Config{
		ClientID:     params.ClientID,
		ClientSecret: params.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", authority, params.TenantID),
		Scopes:       []string{graphScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	token, err := conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire token: %w", err)
	}
	if token.AccessToken == "" {
		return "", ErrNoAccessToken
	}

	if claims, err := PeekClaims(token.AccessToken); err != nil {
		slog.Debug("token claims unavailable", "error", err)
	} else {
		slog.Debug("acquired graph token",
			"token", utils.MaskSecret(token.AccessToken),
			"appId", claims.AppID,
			"tenantId", claims.TenantID,
			"expiresIn", time.Until(claims.ExpiresAt.Time).Round(time.Second),
		)
	}

	return token.AccessToken, nil
}

// PeekClaims decodes token claims without verifying the signature. Graph is
// the authority on token validity, the peek only feeds logs.
func PeekClaims(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("token has no expiry claim")
	}

	return claims, nil
}
