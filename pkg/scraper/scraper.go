package scraper

import (
	"net/http"
	"strconv"
	"time"

	"xscraper/internal/downloader"
	"xscraper/pkg/config"
	"xscraper/pkg/errors"
	"xscraper/pkg/extractor"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
	"xscraper/pkg/ratelimit"
	"xscraper/pkg/storage"
	"xscraper/pkg/twitter"
	"xscraper/pkg/ui"
)

// Fetcher retrieves post content and media. *twitter.Client is the
// production implementation; tests substitute their own.
type Fetcher interface {
	FetchSyndication(ref twitter.PostRef) ([]byte, error)
	FetchPage(ref twitter.PostRef) ([]byte, error)
	FetchMirror(ref twitter.PostRef) ([]byte, error)
	Get(url string) (*http.Response, error)
}

// Scraper orchestrates the fetch → extract → download pipeline
type Scraper struct {
	client      Fetcher
	extractor   *extractor.Extractor
	rateLimiter ratelimit.Limiter
	config      *config.Config
	logger      logger.Logger
}

// Report is the outcome of one pipeline run
type Report struct {
	Ref     twitter.PostRef
	Results []models.DownloadResult
}

// Paths returns the local file paths of the successful downloads, in
// the post's media order.
func (r *Report) Paths() []string {
	var paths []string
	for _, res := range r.Results {
		if res.Success() {
			paths = append(paths, res.Path)
		}
	}
	return paths
}

// Failed returns the count of entries that could not be downloaded
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success() {
			n++
		}
	}
	return n
}

// AllFailed reports whether the post had media and none of it downloaded
func (r *Report) AllFailed() bool {
	return len(r.Results) > 0 && r.Failed() == len(r.Results)
}

// New creates a new Scraper instance from configuration
func New(cfg *config.Config) (*Scraper, error) {
	log := logger.GetLogger()

	client := twitter.NewClient(cfg.HTTP.Timeout, cfg.Download.DownloadTimeout, cfg.HTTP.UserAgent, log)

	return &Scraper{
		client:      client,
		extractor:   extractor.New(log),
		rateLimiter: newLimiter(cfg),
		config:      cfg,
		logger:      log,
	}, nil
}

// NewWithClient creates a Scraper with a caller-supplied fetcher
func NewWithClient(cfg *config.Config, client Fetcher) *Scraper {
	log := logger.GetLogger()
	return &Scraper{
		client:      client,
		extractor:   extractor.New(log),
		rateLimiter: newLimiter(cfg),
		config:      cfg,
		logger:      log,
	}
}

// newLimiter builds the media request limiter. Burst size caps how many
// requests may fire back to back; the refill period is scaled so the
// sustained rate stays at requests_per_minute.
func newLimiter(cfg *config.Config) ratelimit.Limiter {
	rpm := cfg.RateLimit.RequestsPerMinute
	burst := cfg.RateLimit.BurstSize
	if burst <= 0 || burst > rpm {
		burst = rpm
	}
	period := time.Duration(burst) * time.Minute / time.Duration(rpm)
	return ratelimit.NewTokenBucket(burst, period)
}

// DownloadFromURL runs the whole pipeline for one post URL: validate the
// URL, fetch content, extract media entries, and download each selected
// variant into the configured output directory.
//
// A returned error is pipeline-fatal (invalid URL, fetch failure, parse
// failure). Per-entry download failures are recorded in the report and do
// not produce an error; a post without media yields an empty report.
func (s *Scraper) DownloadFromURL(postURL string) (*Report, error) {
	ref, err := twitter.ParsePostURL(postURL)
	if err != nil {
		s.logger.WithError(err).Error("post URL rejected")
		return nil, err
	}

	s.logger.InfoWithFields("post reference parsed", map[string]interface{}{
		"handle":  ref.Handle,
		"post_id": ref.ID,
	})

	content, err := s.fetchContent(ref)
	if err != nil {
		return nil, err
	}

	entries, err := s.extractor.Extract(content)
	if err != nil {
		s.logger.WithError(err).Error("extraction failed")
		return nil, err
	}

	report := &Report{Ref: ref}
	if len(entries) == 0 {
		s.logger.Info("post contains no media")
		ui.PrintInfo("Media found", "none")
		return report, nil
	}

	ui.PrintInfo("Media found", strconv.Itoa(len(entries)))

	report.Results = s.downloadEntries(entries)
	return report, nil
}

// fetchContent retrieves the post's content, trying the structured
// syndication payload, then the post page, then the third-party JSON
// mirrors. When every source fails the page error is returned; the
// mirrors are best effort.
func (s *Scraper) fetchContent(ref twitter.PostRef) ([]byte, error) {
	content, err := s.client.FetchSyndication(ref)
	if err == nil {
		return content, nil
	}

	s.logger.WarnWithFields("syndication fetch failed, falling back to page", map[string]interface{}{
		"post_id": ref.ID,
		"error":   err.Error(),
	})

	content, pageErr := s.client.FetchPage(ref)
	if pageErr == nil {
		return content, nil
	}

	s.logger.WarnWithFields("page fetch failed, falling back to mirrors", map[string]interface{}{
		"post_id": ref.ID,
		"error":   pageErr.Error(),
	})

	content, mirrorErr := s.client.FetchMirror(ref)
	if mirrorErr != nil {
		s.logger.WithError(pageErr).Error("all content sources failed")
		return nil, pageErr
	}
	return content, nil
}

// downloadEntries resolves each entry's best variant and hands the batch
// to the worker pool. Every entry gets exactly one result, in the post's
// media order.
func (s *Scraper) downloadEntries(entries []models.MediaEntry) []models.DownloadResult {
	results := make([]models.DownloadResult, len(entries))

	manager, err := storage.NewManager(s.config.Output.BaseDirectory)
	if err != nil {
		s.logger.WithError(err).Error("failed to prepare output directory")
		for i, entry := range entries {
			results[i] = models.DownloadResult{Entry: entry, Err: err}
		}
		return results
	}

	jobs := make([]downloader.Job, 0, len(entries))
	jobPos := make([]int, 0, len(entries))
	for i, entry := range entries {
		variant, ok := entry.BestVariant()
		if !ok {
			results[i] = models.DownloadResult{Entry: entry, Err: errors.New(
				errors.ErrorTypeTransfer, "download", "entry has no downloadable variant")}
			continue
		}

		ext := entry.Kind.Ext()
		if entry.Kind == models.KindPhoto {
			ext = twitter.ImageExt(variant.URL)
		}

		s.logger.DebugWithFields("variant selected", map[string]interface{}{
			"kind":    string(entry.Kind),
			"index":   entry.Index,
			"bitrate": variant.Bitrate,
			"url":     variant.URL,
		})

		jobs = append(jobs, downloader.Job{Entry: entry, URL: variant.URL, Ext: ext})
		jobPos = append(jobPos, i)
	}

	pool := downloader.NewWorkerPool(
		s.config.Download.ConcurrentDownloads,
		s.client,
		manager,
		s.rateLimiter,
		s.logger,
	)

	for j, res := range pool.DownloadAll(jobs) {
		results[jobPos[j]] = res
	}
	return results
}
