package twitter

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"xscraper/pkg/errors"
	"xscraper/pkg/logger"
)

const fetchStage = "fetch"

// Client wraps an HTTP client with browser-mimicking headers for fetching
// post pages, syndication JSON, and media content. Construct it once and
// pass it to the pipeline; it holds no per-post state.
type Client struct {
	httpClient  *http.Client
	mediaClient *http.Client
	headers     map[string]string
	logger      logger.Logger
}

// NewClient creates a new client. Page and JSON fetches use timeout;
// media transfers use downloadTimeout, which covers the whole streamed
// body and so must allow large files. The header set approximates a
// desktop browser to reduce the chance of being rejected by heuristic
// bot filters.
func NewClient(timeout, downloadTimeout time.Duration, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if downloadTimeout <= 0 {
		downloadTimeout = timeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		mediaClient: &http.Client{
			Timeout: downloadTimeout,
		},
		headers: map[string]string{
			"User-Agent":                userAgent,
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.9",
			"DNT":                       "1",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers.
// Redirects are followed by the underlying http.Client.
func (c *Client) doRequest(httpClient *http.Client, req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fetchStage,
			fmt.Sprintf("network error: %v", err))
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL under the media
// transfer timeout. The caller owns the response body; media downloads
// stream from it directly.
func (c *Client) Get(url string) (*http.Response, error) {
	return c.get(c.mediaClient, url)
}

func (c *Client) get(httpClient *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, fetchStage,
			fmt.Sprintf("failed to create request: %v", err))
	}

	return c.doRequest(httpClient, req)
}

// fetchBody GETs a URL and returns the full response body, enforcing the
// status and non-empty guarantees of the fetch contract.
func (c *Client) fetchBody(url string) ([]byte, error) {
	resp, err := c.get(c.httpClient, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnWithFields("unexpected response status", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
		return nil, errors.NewHTTP(fetchStage,
			fmt.Sprintf("server returned status %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, fetchStage,
			fmt.Sprintf("failed to read response body: %v", err))
	}

	if len(body) == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyResponse, fetchStage,
			"server returned an empty body")
	}

	return body, nil
}

// FetchPage retrieves the post's normalized x.com page. The body may be
// HTML with inline JSON; interpretation belongs to the extractor.
func (c *Client) FetchPage(ref PostRef) ([]byte, error) {
	c.logger.DebugWithFields("fetching post page", map[string]interface{}{
		"handle":  ref.Handle,
		"post_id": ref.ID,
	})
	return c.fetchBody(ref.PageURL())
}

// FetchSyndication retrieves the post's public syndication JSON. It is
// tried before the page fetch because the payload is structured and does
// not require scraping markup.
func (c *Client) FetchSyndication(ref PostRef) ([]byte, error) {
	c.logger.DebugWithFields("fetching syndication JSON", map[string]interface{}{
		"post_id": ref.ID,
	})
	return c.fetchBody(ref.SyndicationURL())
}

// FetchMirror retrieves the post's JSON from the third-party mirror
// APIs, trying each in order and returning the first successful body.
// The last fetch error is returned when every mirror fails.
func (c *Client) FetchMirror(ref PostRef) ([]byte, error) {
	var lastErr error
	for _, mirrorURL := range ref.MirrorURLs() {
		c.logger.DebugWithFields("fetching mirror JSON", map[string]interface{}{
			"post_id": ref.ID,
			"url":     mirrorURL,
		})
		body, err := c.fetchBody(mirrorURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
