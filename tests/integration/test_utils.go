package integration

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"xscraper/pkg/config"
	"xscraper/pkg/errors"
	"xscraper/pkg/logger"
	"xscraper/pkg/twitter"
)

// asError unwraps err into a typed pipeline error
func asError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}

// TestHelper provides common test utilities
type TestHelper struct {
	t            *testing.T
	mockServer   *MockPostServer
	tempDir      string
	cleanupFuncs []func()
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	tempDir, err := os.MkdirTemp("", "xscraper_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	return &TestHelper{
		t:            t,
		tempDir:      tempDir,
		cleanupFuncs: []func(){},
	}
}

// SetupMockServer initializes the mock post server
func (h *TestHelper) SetupMockServer() *MockPostServer {
	h.mockServer = NewMockPostServer()
	h.AddCleanup(h.mockServer.Close)
	return h.mockServer
}

// GetTempDir returns the temporary directory for test files
func (h *TestHelper) GetTempDir() string {
	return h.tempDir
}

// CreateTempSubDir creates a subdirectory in the temp directory
func (h *TestHelper) CreateTempSubDir(name string) string {
	dir := filepath.Join(h.tempDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		h.t.Fatalf("Failed to create temp subdir: %v", err)
	}
	return dir
}

// AddCleanup adds a cleanup function to be called when the test ends
func (h *TestHelper) AddCleanup(fn func()) {
	h.cleanupFuncs = append(h.cleanupFuncs, fn)
}

// Cleanup runs all cleanup functions
func (h *TestHelper) Cleanup() {
	for i := len(h.cleanupFuncs) - 1; i >= 0; i-- {
		h.cleanupFuncs[i]()
	}
	os.RemoveAll(h.tempDir)
}

// CreateTestLogger creates a test logger
func (h *TestHelper) CreateTestLogger() logger.Logger {
	return logger.NewTestLogger()
}

// CreateTestConfig creates a test configuration pointing at the temp dir
func (h *TestHelper) CreateTestConfig() *config.Config {
	cfg := config.DefaultConfig()

	cfg.Output.BaseDirectory = h.CreateTempSubDir("downloads")
	cfg.Download.ConcurrentDownloads = 2
	cfg.Download.DownloadTimeout = 5 * time.Second
	cfg.RateLimit.RequestsPerMinute = 6000 // effectively unthrottled

	return cfg
}

// ListDownloads returns the filenames present in the configured output dir
func (h *TestHelper) ListDownloads(cfg *config.Config) []string {
	entries, err := os.ReadDir(cfg.Output.BaseDirectory)
	if err != nil {
		h.t.Fatalf("Failed to read output dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// mockFetcher implements the scraper's fetcher against a MockPostServer,
// translating PostRef lookups into mock server URLs. Media GETs pass
// through unchanged; the fixtures embed mock server URLs.
type mockFetcher struct {
	server *MockPostServer
	http   *http.Client
}

func newMockFetcher(server *MockPostServer) *mockFetcher {
	return &mockFetcher{
		server: server,
		http:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (f *mockFetcher) FetchSyndication(ref twitter.PostRef) ([]byte, error) {
	return f.fetchBody(fmt.Sprintf("%s/tweet-result?id=%s&token=0", f.server.URL(), ref.ID))
}

func (f *mockFetcher) FetchPage(ref twitter.PostRef) ([]byte, error) {
	return f.fetchBody(fmt.Sprintf("%s/%s/status/%s", f.server.URL(), ref.Handle, ref.ID))
}

func (f *mockFetcher) FetchMirror(ref twitter.PostRef) ([]byte, error) {
	return f.fetchBody(fmt.Sprintf("%s/mirror?id=%s", f.server.URL(), ref.ID))
}

func (f *mockFetcher) Get(url string) (*http.Response, error) {
	resp, err := f.http.Get(url)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, "fetch", err.Error())
	}
	return resp, nil
}

func (f *mockFetcher) fetchBody(url string) ([]byte, error) {
	resp, err := f.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewHTTP("fetch",
			fmt.Sprintf("server returned status %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, "fetch", err.Error())
	}
	if len(body) == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyResponse, "fetch", "empty body")
	}
	return body, nil
}

// syndicationPhotoJSON builds a one-photo syndication payload whose photo
// points at the given media URL
func syndicationPhotoJSON(id, mediaURL string, w, hgt int) []byte {
	return []byte(fmt.Sprintf(`{
		"id_str": %q,
		"user": {"screen_name": "someuser"},
		"mediaDetails": [
			{
				"type": "photo",
				"media_url_https": %q,
				"sizes": {"large": {"w": %d, "h": %d}}
			}
		]
	}`, id, mediaURL, w, hgt))
}

// syndicationMixedJSON builds a photo + video + GIF syndication payload.
// The video carries two MP4 renditions plus an HLS playlist that must be
// ignored; highURL is the higher-bitrate rendition.
func syndicationMixedJSON(id, photoURL, lowURL, highURL, gifURL string) []byte {
	return []byte(fmt.Sprintf(`{
		"id_str": %q,
		"user": {"screen_name": "someuser"},
		"mediaDetails": [
			{
				"type": "photo",
				"media_url_https": %q,
				"sizes": {"large": {"w": 1024, "h": 768}}
			},
			{
				"type": "video",
				"media_url_https": "",
				"video_info": {
					"variants": [
						{"bitrate": 320000, "content_type": "video/mp4", "url": %q},
						{"content_type": "application/x-mpegURL", "url": "https://example.invalid/pl.m3u8"},
						{"bitrate": 2176000, "content_type": "video/mp4", "url": %q}
					]
				},
				"sizes": {"large": {"w": 1280, "h": 720}}
			},
			{
				"type": "animated_gif",
				"media_url_https": "",
				"video_info": {
					"variants": [
						{"bitrate": 0, "content_type": "video/mp4", "url": %q}
					]
				},
				"sizes": {"large": {"w": 480, "h": 270}}
			}
		]
	}`, id, photoURL, lowURL, highURL, gifURL))
}

// syndicationNoMediaJSON builds a text-only syndication payload
func syndicationNoMediaJSON(id string) []byte {
	return []byte(fmt.Sprintf(`{
		"id_str": %q,
		"text": "just words, no attachments",
		"user": {"screen_name": "someuser"}
	}`, id))
}

// syndicationQuotedJSON builds a compact payload for a text-only post
// quoting another post that carries a photo. The quoted photo belongs to
// the other post and must never be downloaded.
func syndicationQuotedJSON(id, quotedPhotoURL string) []byte {
	return []byte(fmt.Sprintf(`{"id_str":%q,"text":"look at this","user":{"screen_name":"someuser"},`+
		`"quoted_tweet":{"id_str":"999","user":{"screen_name":"original"},`+
		`"mediaDetails":[{"type":"photo","media_url_https":%q,`+
		`"sizes":{"large":{"w":800,"h":600}}}]}}`, id, quotedPhotoURL))
}

// mirrorVideoJSON builds an fxtwitter-style mirror payload with a single
// MP4 video
func mirrorVideoJSON(videoURL string) []byte {
	return []byte(fmt.Sprintf(
		`{"code":200,"tweet":{"media":{"videos":[{"url":%q,"type":"video","format":"video/mp4","width":1280,"height":720}]}}}`,
		videoURL))
}

// pageWithInlineVideoHTML builds post page HTML carrying an inline JSON
// video URL, exercising the page-scrape fallback
func pageWithInlineVideoHTML(videoURL string) []byte {
	return []byte(fmt.Sprintf(
		`<html><head><script>{"video_url":%q}</script></head><body></body></html>`,
		videoURL))
}
