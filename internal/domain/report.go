package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Report is a normalized feed snapshot handed to the persistence sink.
// Persistence itself is an external collaborator; the dashboard only
// produces reports, it never reads them back.
type Report struct {
	ID          string          `json:"id"`
	Feed        string          `json:"feed"`
	Source      string          `json:"source"`
	Quality     float64         `json:"quality"`
	Payload     json.RawMessage `json:"payload"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// NewReport builds a Report with a fresh ID for one served feed response.
func NewReport(feed, source string, quality float64, payload json.RawMessage, now time.Time) Report {
	return Report{
		ID:          uuid.NewString(),
		Feed:        feed,
		Source:      source,
		Quality:     quality,
		Payload:     payload,
		GeneratedAt: now.UTC(),
	}
}

// ReportSink receives normalized reports for downstream persistence.
// Implementations must be safe for concurrent use by request handlers.
type ReportSink interface {
	Publish(ctx context.Context, report Report) error
	Close() error
}
