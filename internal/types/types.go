package types

import "time"

// ScoreDetails holds the six bounded sub-scores that make up a resume score
type ScoreDetails struct {
	ContactInfo       int `json:"contact_info"`       // 0-20
	ExperienceQuality int `json:"experience_quality"` // 0-25
	SkillsRelevance   int `json:"skills_relevance"`   // 0-20
	Achievements      int `json:"achievements"`       // 0-20
	Formatting        int `json:"formatting"`         // 0-10
	Keywords          int `json:"keywords"`           // 0-5
}

// Total returns the sum of all sub-scores
func (d ScoreDetails) Total() int {
	return d.ContactInfo + d.ExperienceQuality + d.SkillsRelevance +
		d.Achievements + d.Formatting + d.Keywords
}

// AnalysisReport represents the result of scoring a single resume
type AnalysisReport struct {
	Score       int          `json:"score"`
	Grade       string       `json:"grade"`
	Skills      []string     `json:"skills"`
	Suggestions []string     `json:"suggestions"`
	Summary     string       `json:"summary"`
	Details     ScoreDetails `json:"details"`
}

// AnalysisJob is a queued request to score a resume stored in object storage
type AnalysisJob struct {
	JobID       string `json:"job_id" validate:"required,uuid"`
	Bucket      string `json:"bucket" validate:"required"`
	Key         string `json:"key" validate:"required"`
	Filename    string `json:"filename" validate:"omitempty,max=255"`
	ContentType string `json:"content_type" validate:"omitempty"`
}

// Job result statuses
const (
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// AnalysisResult is published once a queued job has been processed
type AnalysisResult struct {
	JobID     string          `json:"job_id"`
	Status    string          `json:"status"`
	Report    *AnalysisReport `json:"report,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorCode string          `json:"error_code,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// FileReport pairs an input file with its analysis, used by batch commands
type FileReport struct {
	File   string          `json:"file"`
	Report *AnalysisReport `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}
