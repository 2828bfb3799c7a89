package gemini

import (
	"fmt"
	"net"
	"net/http"
	"net/url"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/constants"
)

const (
	generativeLanguageEndpoint = "https://generativelanguage.googleapis.com"
	vertexEndpointFormat       = "https://%s-aiplatform.googleapis.com"
)

// Client issues generation calls against the Gemini API. The underlying
// transport pool is shared across concurrent requests and safe for concurrent
// use; credentials are passed per call, never stored on the client.
type Client struct {
	cfg *config.Config
	cli *http.Client
}

func New(cfg *config.Config) *Client {
	tr := &http.Transport{
		Proxy: getProxyFunc(cfg.ProxyURL),
		DialContext: (&net.Dialer{
			Timeout:   constants.DefaultDialTimeout,
			KeepAlive: constants.DefaultKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   constants.DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: constants.DefaultResponseHeaderTimeout,
		ExpectContinueTimeout: constants.DefaultExpectContinueTimeout,
		MaxIdleConns:          constants.MaxIdleConns,
		MaxIdleConnsPerHost:   constants.MaxIdleConnsPerHost,
		IdleConnTimeout:       constants.IdleConnTimeout,
	}
	// Per-call deadlines come from context; the transport enforces no global timeout.
	return &Client{cfg: cfg, cli: &http.Client{Transport: tr, Timeout: 0}}
}

// getProxyFunc returns the proxy function based on configuration, falling back
// to the environment proxy.
func getProxyFunc(proxyURL string) func(*http.Request) (*url.URL, error) {
	if proxyURL != "" {
		if parsedURL, err := url.Parse(proxyURL); err == nil {
			return http.ProxyURL(parsedURL)
		}
	}
	return http.ProxyFromEnvironment
}

// generateURL builds the generateContent URL for the active credential mode.
func (c *Client) generateURL(model string) string {
	if c.cfg.IsServiceIdentity() {
		base := c.cfg.UpstreamEndpoint
		if base == "" {
			base = fmt.Sprintf(vertexEndpointFormat, c.cfg.GoogleRegion)
		}
		return fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
			base, c.cfg.GoogleProjectID, c.cfg.GoogleRegion, model)
	}
	base := c.cfg.UpstreamEndpoint
	if base == "" {
		base = generativeLanguageEndpoint
	}
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", base, model)
}

// setAuthHeaders applies the credential under the active mode: an API key via
// x-goog-api-key, or a bearer token from the service identity.
func (c *Client) setAuthHeaders(req *http.Request, credential string) {
	if c.cfg.IsServiceIdentity() {
		req.Header.Set("Authorization", "Bearer "+credential)
		return
	}
	req.Header.Set("x-goog-api-key", credential)
}
