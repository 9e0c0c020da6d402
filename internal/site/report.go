package site

import "time"

// Report summarizes one generation run.
type Report struct {
	RunID            string        `json:"run_id"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration"`
	Pages            int           `json:"pages"`
	Articles         int           `json:"articles"`
	Datasets         int           `json:"datasets"`
	Tags             int           `json:"tags"`
	DocumentsWritten int           `json:"documents_written"`
	ResourcesCopied  int           `json:"resources_copied"`
	OutputDir        string        `json:"output_dir"`
	Documents        []string      `json:"documents"` // relative output paths, sorted
}
