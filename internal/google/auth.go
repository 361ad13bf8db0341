package google

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	jwtBearerGrant  = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	oauthScopes = "https://www.googleapis.com/auth/calendar https://www.googleapis.com/auth/spreadsheets.readonly"
)

type credentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// tokenSource exchanges a signed service-account assertion for an
// access token and caches it until shortly before expiry.
type tokenSource struct {
	rest  *resty.Client
	creds credentials
	key   *rsa.PrivateKey
	url   string

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenSource(credentialsFile, tokenURL string, rest *resty.Client) (*tokenSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode service account file: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("service account file is missing client_email or private_key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	if tokenURL == "" {
		tokenURL = creds.TokenURI
	}
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	return &tokenSource{rest: rest, creds: creds, key: key, url: tokenURL}, nil
}

func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := time.Now()
	if ts.token != "" && now.Add(time.Minute).Before(ts.expires) {
		return ts.token, nil
	}

	claims := jwt.MapClaims{
		"iss":   ts.creds.ClientEmail,
		"scope": oauthScopes,
		"aud":   ts.url,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token assertion: %w", err)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}

	resp, err := ts.rest.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": jwtBearerGrant,
			"assertion":  assertion,
		}).
		SetResult(&out).
		Post(ts.url)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("token request failed: %s", resp.Status())
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token response had no access token")
	}

	ts.token = out.AccessToken
	ts.expires = now.Add(time.Duration(out.ExpiresIn) * time.Second)
	return ts.token, nil
}
