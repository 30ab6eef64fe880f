package monitor

import (
	"sync"
	"time"

	"github.com/byRen2002/decomment/internal/common/logger"
	"go.uber.org/zap"
)

// Stats represents processing statistics
type Stats struct {
	Files           uint64
	Changed         uint64
	Errors          uint64
	Bytes           uint64
	CommentsFound   uint64
	CommentsRemoved uint64
	Unterminated    uint64
	StartTime       time.Time
}

// Preserved returns the number of comments found but kept
func (s Stats) Preserved() uint64 {
	if s.CommentsRemoved > s.CommentsFound {
		return 0
	}
	return s.CommentsFound - s.CommentsRemoved
}

// FileStats is what one processed file contributes to Stats
type FileStats struct {
	Bytes        int
	Found        int
	Removed      int
	Unterminated int
	Changed      bool
}

// Monitor counts processed files and periodically logs progress
type Monitor struct {
	mutex    sync.Mutex
	stats    Stats
	interval time.Duration
	done     chan struct{}
}

// New creates a new monitor. A non-positive interval disables periodic logging.
func New(interval time.Duration) *Monitor {
	return &Monitor{
		stats: Stats{
			StartTime: time.Now(),
		},
		interval: interval,
	}
}

// Start starts periodic progress logging. It is a no-op when already running.
func (m *Monitor) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.interval <= 0 || m.done != nil {
		return
	}
	m.done = make(chan struct{})
	go m.monitor(m.done)
}

// Stop stops periodic progress logging
func (m *Monitor) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.done != nil {
		close(m.done)
		m.done = nil
	}
}

// GetStats returns current statistics
func (m *Monitor) GetStats() Stats {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.stats
}

// Record adds the statistics of one processed file
func (m *Monitor) Record(fs FileStats) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.stats.Files++
	if fs.Changed {
		m.stats.Changed++
	}
	m.stats.Bytes += uint64(fs.Bytes)
	m.stats.CommentsFound += uint64(fs.Found)
	m.stats.CommentsRemoved += uint64(fs.Removed)
	m.stats.Unterminated += uint64(fs.Unterminated)
}

// RecordError counts a file that failed to process
func (m *Monitor) RecordError() {
	m.mutex.Lock()
	m.stats.Errors++
	m.mutex.Unlock()
}

func (m *Monitor) monitor(done <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Log("Processing progress")
		case <-done:
			return
		}
	}
}

// Log writes the current statistics at info level
func (m *Monitor) Log(msg string) {
	stats := m.GetStats()
	logger.Info(msg,
		zap.Uint64("files", stats.Files),
		zap.Uint64("changed", stats.Changed),
		zap.Uint64("errors", stats.Errors),
		zap.Uint64("comments_found", stats.CommentsFound),
		zap.Uint64("comments_removed", stats.CommentsRemoved),
		zap.Uint64("unterminated", stats.Unterminated),
		zap.Duration("elapsed", time.Since(stats.StartTime)),
	)
}
