package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about one ingestion run
type IngestionMetrics struct {
	mu               sync.RWMutex
	League           string
	StartTime        time.Time
	Duration         time.Duration
	TotalMatches     int
	Stored           int
	Finished         int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics(league string) *IngestionMetrics {
	return &IngestionMetrics{
		League:    league,
		StartTime: time.Now(),
	}
}

// RecordFetched adds fetched fixtures to the total
func (m *IngestionMetrics) RecordFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalMatches += n
}

// RecordStored increments the stored count
func (m *IngestionMetrics) RecordStored(finished bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stored++
	if finished {
		m.Finished++
	}
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// Finish stamps the run duration
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalMatches > 0 {
		successRate = float64(m.Stored) / float64(m.TotalMatches) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{League=%s, Total=%d, Stored=%d (%.1f%%), Finished=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.League,
		m.TotalMatches,
		m.Stored,
		successRate,
		m.Finished,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
