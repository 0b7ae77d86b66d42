package ui

import (
	"fmt"
	"sync"
	"time"
)

// updateInterval throttles progress line redraws
const updateInterval = 200 * time.Millisecond

// Progress renders a single download's byte progress on one terminal
// line. It is purely observational; the download does not depend on it.
type Progress struct {
	mu         sync.Mutex
	filename   string
	total      int64 // expected bytes from content-length, 0 when unknown
	received   int64
	lastRender time.Time
	startTime  time.Time
}

// NewProgress creates a progress line for one file transfer
func NewProgress(filename string, total int64) *Progress {
	return &Progress{
		filename:  filename,
		total:     total,
		startTime: time.Now(),
	}
}

// Update records received bytes and periodically redraws the line
func (p *Progress) Update(received int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.received = received
	if time.Since(p.lastRender) < updateInterval {
		return
	}
	p.lastRender = time.Now()
	p.render()
}

// Done finishes the progress line
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if IsQuietMode() {
		return
	}
	p.render()
	fmt.Printf(" %s\n", Green("done"))
}

// Fail terminates the progress line with an error marker
func (p *Progress) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if IsQuietMode() {
		return
	}
	fmt.Printf("\r%s %s: %s\n", Dim("↓"), p.filename, Red("failed"))
}

// render redraws the line. Caller must hold the mutex.
func (p *Progress) render() {
	if IsQuietMode() {
		return
	}
	if p.total > 0 {
		pct := float64(p.received) / float64(p.total) * 100
		fmt.Printf("\r%s %s: %5.1f%% (%s/%s)", Dim("↓"), p.filename, pct,
			FormatSize(p.received), FormatSize(p.total))
	} else {
		fmt.Printf("\r%s %s: %s", Dim("↓"), p.filename, FormatSize(p.received))
	}
}

// FormatSize renders a byte count in human-readable form
func FormatSize(numBytes int64) string {
	if numBytes < 0 {
		return "unknown"
	}
	if numBytes < 1024 {
		return fmt.Sprintf("%d B", numBytes)
	}
	size := float64(numBytes)
	for _, unit := range []string{"KB", "MB", "GB"} {
		size /= 1024.0
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
	}
	return fmt.Sprintf("%.1f TB", size/1024.0)
}
