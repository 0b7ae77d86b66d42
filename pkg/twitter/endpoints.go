package twitter

import (
	"fmt"
	"net/url"
	"strings"

	"xscraper/pkg/errors"
)

const (
	// BaseURL is the canonical host for post pages
	BaseURL = "https://x.com"

	// SyndicationEndpoint serves public tweet JSON without authentication
	SyndicationEndpoint = "https://cdn.syndication.twimg.com/tweet-result"
)

// acceptedHosts are the domains a post URL may use
var acceptedHosts = map[string]bool{
	"x.com":              true,
	"www.x.com":          true,
	"twitter.com":        true,
	"www.twitter.com":    true,
	"mobile.twitter.com": true,
}

// mirrorEndpoints are third-party JSON mirrors consulted when both the
// syndication endpoint and the post page are unavailable. Each entry is
// a format string taking the post ID.
var mirrorEndpoints = []string{
	"https://api.fxtwitter.com/status/%s",
	"https://api.vxtwitter.com/status/%s",
}

// PostRef identifies a single post by author handle and numeric status ID
type PostRef struct {
	Handle string
	ID     string
}

// PageURL returns the normalized x.com page URL for the post
func (r PostRef) PageURL() string {
	return fmt.Sprintf("%s/%s/status/%s", BaseURL, r.Handle, r.ID)
}

// SyndicationURL returns the public syndication JSON URL for the post
func (r PostRef) SyndicationURL() string {
	params := url.Values{}
	params.Set("id", r.ID)
	params.Set("token", "0")
	return fmt.Sprintf("%s?%s", SyndicationEndpoint, params.Encode())
}

// MirrorURLs returns the third-party mirror API URLs for the post, in
// the order they should be tried.
func (r PostRef) MirrorURLs() []string {
	urls := make([]string, len(mirrorEndpoints))
	for i, endpoint := range mirrorEndpoints {
		urls[i] = fmt.Sprintf(endpoint, r.ID)
	}
	return urls
}

// ParsePostURL validates a post URL and extracts the author handle and
// numeric status ID. Accepted forms:
//
//	https://x.com/<handle>/status/<id>
//	https://twitter.com/<handle>/status/<id>
//	https://x.com/i/web/status/<id>
//
// Trailing query parameters and fragments are ignored.
func ParsePostURL(raw string) (PostRef, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return PostRef{}, errors.New(errors.ErrorTypeInvalidURL, "fetch",
			fmt.Sprintf("malformed URL: %v", err))
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return PostRef{}, errors.New(errors.ErrorTypeInvalidURL, "fetch",
			fmt.Sprintf("unsupported scheme: %q", parsed.Scheme))
	}

	host := strings.ToLower(parsed.Hostname())
	if !acceptedHosts[host] {
		return PostRef{}, errors.New(errors.ErrorTypeInvalidURL, "fetch",
			fmt.Sprintf("unsupported domain: %q", host))
	}

	parts := splitPath(parsed.Path)

	// Look for the "status" segment and take the following one as the ID.
	// Covers /<handle>/status/<id> and /i/web/status/<id>.
	for i, part := range parts {
		if strings.EqualFold(part, "status") && i+1 < len(parts) {
			ref := PostRef{Handle: parts[0], ID: parts[i+1]}
			if ref.Handle == "" || strings.EqualFold(ref.Handle, "status") {
				break
			}
			if !isNumeric(ref.ID) {
				return PostRef{}, errors.New(errors.ErrorTypeInvalidURL, "fetch",
					fmt.Sprintf("post ID is not numeric: %q", ref.ID))
			}
			return ref, nil
		}
	}

	return PostRef{}, errors.New(errors.ErrorTypeInvalidURL, "fetch",
		fmt.Sprintf("could not extract post ID from URL: %s", raw))
}

// splitPath breaks a URL path into its non-empty segments
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// OriginalImageURL upgrades a twimg photo URL to its original-quality form.
// URLs with a format query parameter use name=orig; bare media paths get
// the :orig size suffix. Non-twimg URLs pass through unchanged.
func OriginalImageURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if !strings.Contains(strings.ToLower(parsed.Hostname()), "twimg.com") {
		return raw
	}

	q := parsed.Query()
	if format := q.Get("format"); format != "" {
		nq := url.Values{}
		nq.Set("format", format)
		nq.Set("name", "orig")
		parsed.RawQuery = nq.Encode()
		return parsed.String()
	}

	if parsed.RawQuery == "" && !strings.HasSuffix(parsed.Path, ":orig") {
		return raw + ":orig"
	}
	return raw
}

// ImageExt returns the image file extension implied by a photo URL,
// defaulting to jpg when none can be determined.
func ImageExt(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "jpg"
	}
	path := strings.TrimSuffix(parsed.Path, ":orig")
	if idx := strings.LastIndex(path, "."); idx >= 0 && idx < len(path)-1 {
		ext := strings.ToLower(path[idx+1:])
		switch ext {
		case "jpg", "jpeg", "png", "gif", "webp":
			return ext
		}
	}
	if format := parsed.Query().Get("format"); format != "" {
		return strings.ToLower(format)
	}
	return "jpg"
}
