package analysis

import (
	"math"
	"sync"
)

// Stats counts analyses for the /stats endpoint
type Stats struct {
	mu         sync.Mutex
	succeeded  int64
	failed     int64
	scoreTotal int64
}

// StatsSnapshot is a point in time copy of Stats
type StatsSnapshot struct {
	ResumesAnalyzed int64   `json:"resumes_analyzed"`
	Failed          int64   `json:"failed"`
	AverageScore    float64 `json:"average_score"`
	AccuracyRate    float64 `json:"accuracy_rate"` // Percentage of analyses that produced a report
}

func (s *Stats) recordSuccess(score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.succeeded++
	s.scoreTotal += int64(score)
}

func (s *Stats) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}

// Snapshot returns the current counters. Rates are rounded to one decimal.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		ResumesAnalyzed: s.succeeded,
		Failed:          s.failed,
	}
	if s.succeeded > 0 {
		snap.AverageScore = round1(float64(s.scoreTotal) / float64(s.succeeded))
	}
	if total := s.succeeded + s.failed; total > 0 {
		snap.AccuracyRate = round1(100 * float64(s.succeeded) / float64(total))
	}
	return snap
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
