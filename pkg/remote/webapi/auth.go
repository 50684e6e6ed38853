package webapi

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultAuthority = "https://login.microsoftonline.com"

// Credentials of an application allowed to call the service
type Credentials struct {
	Tenant       string
	ClientID     string
	ClientSecret string

	// TokenURL overrides the token endpoint derived from the tenant
	TokenURL string
}

// TokenEndpoint for these credentials
func (c Credentials) TokenEndpoint() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", defaultAuthority, c.Tenant)
}

func (c Credentials) tokenSource(client *Client) oauth2.TokenSource {
	cfg := clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenEndpoint(),
		Scopes:       []string{strings.TrimSuffix(client.baseURL, "/") + "/.default"},
	}
	// tokens are fetched with the configured http client
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client.base)
	return cfg.TokenSource(ctx)
}
