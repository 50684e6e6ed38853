package webapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIVersion of the Web API
	DefaultAPIVersion = "v9.2"

	// DefaultRequestTimeout bounds a single HTTP exchange. Exports of large bundles may be slow.
	DefaultRequestTimeout = 10 * time.Minute
)

// Option for the Web API client
type Option func(*Client)

// APIVersion sets the version segment of the API path
func APIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = v
		}
	}
}

// HTTPClient sets the underlying http client, also used to fetch tokens
func HTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.base = h
		}
	}
}

// RequestTimeout bounds each HTTP exchange
func RequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Token authenticates requests with a static bearer token
func Token(token string) Option {
	return func(c *Client) {
		if token == "" {
			return
		}
		c.tokenSource = func(_ *Client) oauth2.TokenSource {
			return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		}
	}
}

// ClientCredentials authenticates requests with an application registered on a tenant
func ClientCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.tokenSource = creds.tokenSource
	}
}

// RateLimit throttles requests to the service
func RateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// Logger for the client
func Logger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.l = l
		}
	}
}
