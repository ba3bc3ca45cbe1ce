package authsdk

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Cookie names set by the server.
const (
	AccessCookie  = "AuthToken"
	RefreshCookie = "RefreshToken"
)

// Client talks to one gallery instance and holds its token cookies.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	base *url.URL
}

// NewClient returns a client with its own cookie jar.
func NewClient(baseURL string) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("authsdk: base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL: base.String(),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
		base: base,
	}, nil
}

// cookie returns the value of the named cookie held for the base URL.
func (c *Client) cookie(name string) string {
	if c.HTTPClient.Jar == nil {
		return ""
	}
	for _, ck := range c.HTTPClient.Jar.Cookies(c.base) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// AccessToken returns the current access token, or "" when not logged in.
func (c *Client) AccessToken() string { return c.cookie(AccessCookie) }

// RefreshToken returns the current refresh token, or "".
func (c *Client) RefreshToken() string { return c.cookie(RefreshCookie) }
