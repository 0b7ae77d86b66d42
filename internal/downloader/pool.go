package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"xscraper/pkg/errors"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
	"xscraper/pkg/ratelimit"
	"xscraper/pkg/ui"
)

const downloadStage = "download"

// Job represents a single media download task
type Job struct {
	Entry models.MediaEntry
	// URL is the selected variant's source URL
	URL string
	// Ext is the target file extension
	Ext string
}

// MediaFetcher issues GET requests for media content
type MediaFetcher interface {
	Get(url string) (*http.Response, error)
}

// MediaStorage names and persists downloaded files
type MediaStorage interface {
	ClaimFilename(kind models.MediaKind, ext string) string
	Save(r io.Reader, filename string) (int64, error)
	Path(filename string) string
}

// WorkerPool manages concurrent download workers. Result order always
// matches job submission order, whatever order transfers complete in.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan indexedJob
	resultQueue chan indexedResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      MediaFetcher
	storage     MediaStorage
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

type indexedJob struct {
	pos int
	job Job
}

type indexedResult struct {
	pos    int
	result models.DownloadResult
}

// NewWorkerPool creates a new download worker pool
func NewWorkerPool(
	numWorkers int,
	client MediaFetcher,
	storage MediaStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan indexedJob, numWorkers*2),
		resultQueue: make(chan indexedResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		storage:     storage,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// DownloadAll processes every job and returns one result per job, in job
// order. Per-entry failures are recorded in their result; they never abort
// the rest of the batch.
func (wp *WorkerPool) DownloadAll(jobs []Job) []models.DownloadResult {
	wp.logger.InfoWithFields("starting download batch", map[string]interface{}{
		"jobs":        len(jobs),
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	go func() {
		for pos, job := range jobs {
			wp.jobQueue <- indexedJob{pos: pos, job: job}
		}
		close(wp.jobQueue)
	}()

	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
	}()

	results := make([]models.DownloadResult, len(jobs))
	for r := range wp.resultQueue {
		results[r.pos] = r.result
	}

	wp.cancel()
	return results
}

// worker is the main worker routine
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for ij := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(ij.job, id)

		select {
		case wp.resultQueue <- indexedResult{pos: ij.pos, result: result}:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob handles a single download job
func (wp *WorkerPool) processJob(job Job, workerID int) models.DownloadResult {
	result := models.DownloadResult{Entry: job.Entry}

	wp.logger.DebugWithFields("worker processing job", map[string]interface{}{
		"worker_id": workerID,
		"kind":      string(job.Entry.Kind),
		"index":     job.Entry.Index,
		"url":       job.URL,
	})

	// Politeness pacing between media requests
	if wp.rateLimiter != nil {
		wp.rateLimiter.Wait()
	}

	resp, err := wp.client.Get(job.URL)
	if err != nil {
		result.Err = errors.New(errors.ErrorTypeTransfer, downloadStage,
			fmt.Sprintf("request failed: %v", err))
		wp.logger.WithError(result.Err).Error("media request failed")
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Err = errors.New(errors.ErrorTypeTransfer, downloadStage,
			fmt.Sprintf("media server returned status %d", resp.StatusCode))
		wp.logger.WithError(result.Err).Error("media request rejected")
		return result
	}

	filename := wp.storage.ClaimFilename(job.Entry.Kind, job.Ext)

	var total int64
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		total, _ = strconv.ParseInt(cl, 10, 64)
	}
	progress := ui.NewProgress(filename, total)

	size, err := wp.storage.Save(&progressReader{r: resp.Body, progress: progress}, filename)
	if err != nil {
		progress.Fail()
		result.Err = err
		wp.logger.ErrorWithFields("failed to save media", map[string]interface{}{
			"worker_id": workerID,
			"filename":  filename,
			"error":     err.Error(),
		})
		return result
	}
	progress.Done()

	result.Path = wp.storage.Path(filename)
	result.Size = size

	wp.logger.DebugWithFields("worker completed job", map[string]interface{}{
		"worker_id": workerID,
		"path":      result.Path,
		"size":      size,
	})

	return result
}

// progressReader reports bytes read to a progress line as they stream
// through to storage
type progressReader struct {
	r        io.Reader
	progress *ui.Progress
	received int64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.received += int64(n)
		pr.progress.Update(pr.received)
	}
	return n, err
}
