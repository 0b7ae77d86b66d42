package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	xerrors "xscraper/pkg/errors"
	"xscraper/pkg/models"
	"xscraper/pkg/scraper"
)

const testPostURL = "https://x.com/someuser/status/1956686646272790863"
const testPostID = "1956686646272790863"

func TestDownloadMixedPost(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	photoBytes := bytes.Repeat([]byte{0xAB}, 2048)
	lowBytes := bytes.Repeat([]byte{0x01}, 512)
	highBytes := bytes.Repeat([]byte{0x02}, 4096)
	gifBytes := bytes.Repeat([]byte{0x03}, 1024)

	photoURL := mockServer.AddMedia("/media/photo1.jpg", photoBytes)
	lowURL := mockServer.AddMedia("/media/video_low.mp4", lowBytes)
	highURL := mockServer.AddMedia("/media/video_high.mp4", highBytes)
	gifURL := mockServer.AddMedia("/media/anim.mp4", gifBytes)

	mockServer.AddSyndication(testPostID,
		syndicationMixedJSON(testPostID, photoURL, lowURL, highURL, gifURL))

	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	report, err := s.DownloadFromURL(testPostURL)
	if err != nil {
		t.Fatalf("DownloadFromURL failed: %v", err)
	}

	if len(report.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(report.Results))
	}
	if report.Failed() != 0 {
		t.Fatalf("Expected no failures, got %d", report.Failed())
	}

	// Results keep the post's media order
	wantKinds := []models.MediaKind{models.KindPhoto, models.KindVideo, models.KindGIF}
	for i, want := range wantKinds {
		if report.Results[i].Entry.Kind != want {
			t.Errorf("Result %d: expected kind %s, got %s", i, want, report.Results[i].Entry.Kind)
		}
	}

	// The video result must hold the higher-bitrate rendition
	videoData, err := os.ReadFile(report.Results[1].Path)
	if err != nil {
		t.Fatalf("Failed to read downloaded video: %v", err)
	}
	if !bytes.Equal(videoData, highBytes) {
		t.Errorf("Video content does not match the high-bitrate rendition (%d bytes, want %d)",
			len(videoData), len(highBytes))
	}

	// Filename scheme and extensions
	wantPrefixes := []string{"twitter_photo_", "twitter_video_", "twitter_gif_"}
	wantExts := []string{".jpg", ".mp4", ".mp4"}
	for i, r := range report.Results {
		name := filepath.Base(r.Path)
		if !strings.HasPrefix(name, wantPrefixes[i]) {
			t.Errorf("Result %d: filename %q missing prefix %q", i, name, wantPrefixes[i])
		}
		if !strings.HasSuffix(name, wantExts[i]) {
			t.Errorf("Result %d: filename %q missing extension %q", i, name, wantExts[i])
		}
	}

	// No temporary files may survive
	for _, name := range helper.ListDownloads(cfg) {
		if strings.HasSuffix(name, ".tmp") {
			t.Errorf("Leftover temporary file: %s", name)
		}
	}
}

func TestDownloadPhotoPost(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	photoBytes := bytes.Repeat([]byte{0x7F}, 3000)
	photoURL := mockServer.AddMedia("/media/solo.jpg", photoBytes)
	mockServer.AddSyndication(testPostID, syndicationPhotoJSON(testPostID, photoURL, 800, 600))

	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	report, err := s.DownloadFromURL(testPostURL)
	if err != nil {
		t.Fatalf("DownloadFromURL failed: %v", err)
	}

	paths := report.Paths()
	if len(paths) != 1 {
		t.Fatalf("Expected 1 downloaded file, got %d", len(paths))
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("Failed to read downloaded photo: %v", err)
	}
	if !bytes.Equal(data, photoBytes) {
		t.Errorf("Downloaded photo content mismatch: %d bytes, want %d", len(data), len(photoBytes))
	}
	if report.Results[0].Size != int64(len(photoBytes)) {
		t.Errorf("Result size %d, want %d", report.Results[0].Size, len(photoBytes))
	}
}

func TestPostWithoutMedia(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	mockServer.AddSyndication(testPostID, syndicationNoMediaJSON(testPostID))

	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	report, err := s.DownloadFromURL(testPostURL)
	if err != nil {
		t.Fatalf("A post without media must not fail: %v", err)
	}
	if len(report.Results) != 0 {
		t.Errorf("Expected empty report, got %d results", len(report.Results))
	}
	if report.AllFailed() {
		t.Error("AllFailed must be false for an empty report")
	}
}

func TestSyndicationFallbackToPage(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	videoBytes := bytes.Repeat([]byte{0x55}, 2000)
	videoURL := mockServer.AddMedia("/media/fallback.mp4", videoBytes)

	// No syndication payload registered: the endpoint 404s and the
	// pipeline must scrape the post page instead.
	mockServer.AddPage(testPostID, pageWithInlineVideoHTML(videoURL))

	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	report, err := s.DownloadFromURL(testPostURL)
	if err != nil {
		t.Fatalf("DownloadFromURL failed: %v", err)
	}

	paths := report.Paths()
	if len(paths) != 1 {
		t.Fatalf("Expected 1 downloaded file via page fallback, got %d", len(paths))
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("Failed to read downloaded video: %v", err)
	}
	if !bytes.Equal(data, videoBytes) {
		t.Error("Downloaded video content mismatch")
	}
}

func TestMirrorFallbackWhenPageUnavailable(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	videoBytes := bytes.Repeat([]byte{0x66}, 1800)
	videoURL := mockServer.AddMedia("/media/mirrored.mp4", videoBytes)

	// Neither syndication JSON nor a page is registered; only the mirror
	// API carries the post.
	mockServer.AddMirror(testPostID, mirrorVideoJSON(videoURL))

	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	report, err := s.DownloadFromURL(testPostURL)
	if err != nil {
		t.Fatalf("DownloadFromURL failed: %v", err)
	}

	paths := report.Paths()
	if len(paths) != 1 {
		t.Fatalf("Expected 1 downloaded file via mirror fallback, got %d", len(paths))
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("Failed to read downloaded video: %v", err)
	}
	if !bytes.Equal(data, videoBytes) {
		t.Error("Downloaded video content mismatch")
	}
}

func TestQuotedPostMediaNotDownloaded(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	quotedURL := mockServer.AddMedia("/media/quoted.jpg", bytes.Repeat([]byte{0xDD}, 900))
	mockServer.AddSyndication(testPostID, syndicationQuotedJSON(testPostID, quotedURL))

	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	report, err := s.DownloadFromURL(testPostURL)
	if err != nil {
		t.Fatalf("A post whose only media sits on a quoted post must not fail: %v", err)
	}
	if len(report.Results) != 0 {
		t.Fatalf("Quoted-post media must not be extracted as the post's own, got %d results", len(report.Results))
	}
	if names := helper.ListDownloads(cfg); len(names) != 0 {
		t.Errorf("Expected empty output dir, found %v", names)
	}
}

func TestPerEntryFailureIsolation(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	photoBytes := bytes.Repeat([]byte{0xAA}, 1500)
	highBytes := bytes.Repeat([]byte{0xBB}, 2500)
	gifBytes := bytes.Repeat([]byte{0xCC}, 800)

	photoURL := mockServer.AddMedia("/media/ok_photo.jpg", photoBytes)
	lowURL := mockServer.AddMedia("/media/ok_low.mp4", []byte{0x0})
	highURL := mockServer.AddMedia("/media/broken_high.mp4", highBytes)
	gifURL := mockServer.AddMedia("/media/ok_gif.mp4", gifBytes)

	// The selected (high bitrate) video rendition fails server-side
	mockServer.SetErrorResponse("/media/broken_high.mp4", 500)

	mockServer.AddSyndication(testPostID,
		syndicationMixedJSON(testPostID, photoURL, lowURL, highURL, gifURL))

	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	report, err := s.DownloadFromURL(testPostURL)
	if err != nil {
		t.Fatalf("Per-entry failures must not abort the pipeline: %v", err)
	}

	if len(report.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(report.Results))
	}
	if report.Failed() != 1 {
		t.Fatalf("Expected exactly 1 failure, got %d", report.Failed())
	}
	if report.AllFailed() {
		t.Error("AllFailed must be false when other entries succeeded")
	}

	// The failing entry stays in position with its error recorded
	if report.Results[1].Success() {
		t.Error("Video entry should have failed")
	}
	var perr *xerrors.Error
	if !asError(report.Results[1].Err, &perr) {
		t.Fatalf("Expected a typed error, got %T", report.Results[1].Err)
	}
	if perr.Type != xerrors.ErrorTypeTransfer {
		t.Errorf("Expected transfer error, got %s", perr.Type)
	}
	if xerrors.IsFatal(perr.Type) {
		t.Error("Transfer errors must not be fatal")
	}

	// Neighbours are unaffected
	if !report.Results[0].Success() || !report.Results[2].Success() {
		t.Error("Photo and GIF entries should have succeeded")
	}
	if got := len(report.Paths()); got != 2 {
		t.Errorf("Expected 2 saved paths, got %d", got)
	}
}

func TestFatalFetchFailure(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	// No syndication JSON, page, or mirror payload is registered: every
	// content source 404s and the run is fatal.
	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	report, err := s.DownloadFromURL(testPostURL)
	if err == nil {
		t.Fatal("Expected a fatal error when no content source responds")
	}
	if report != nil {
		t.Error("No report should be produced on a fatal fetch error")
	}

	var perr *xerrors.Error
	if !asError(err, &perr) {
		t.Fatalf("Expected a typed error, got %T", err)
	}
	if perr.Type != xerrors.ErrorTypeHTTP {
		t.Errorf("Expected http error, got %s", perr.Type)
	}
	if perr.Code != 404 {
		t.Errorf("Expected status 404 on the error, got %d", perr.Code)
	}

	// Nothing may be written
	if names := helper.ListDownloads(cfg); len(names) != 0 {
		t.Errorf("Expected empty output dir, found %v", names)
	}
}

func TestInvalidPostURL(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	cfg := helper.CreateTestConfig()

	s := scraper.NewWithClient(cfg, newMockFetcher(mockServer))

	_, err := s.DownloadFromURL("https://example.com/someuser/status/123")
	if err == nil {
		t.Fatal("Expected an error for a non-Twitter domain")
	}

	var perr *xerrors.Error
	if !asError(err, &perr) {
		t.Fatalf("Expected a typed error, got %T", err)
	}
	if perr.Type != xerrors.ErrorTypeInvalidURL {
		t.Errorf("Expected invalid_url error, got %s", perr.Type)
	}

	// The URL is rejected before any request is made
	if mockServer.RequestCount() != 0 {
		t.Errorf("Expected no requests for an invalid URL, got %d", mockServer.RequestCount())
	}
}
