// Package events publishes build notifications to NATS so downstream
// consumers (deploy hooks, cache invalidation) can react to finished runs.
// Publishing is best effort; a failed publish never fails the build.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// BuildEvent describes one completed generation run.
type BuildEvent struct {
	RunID       string    `json:"run_id"`
	Outcome     string    `json:"outcome"` // success|failed
	Documents   int       `json:"documents"`
	DurationMS  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
	Detail      string    `json:"detail,omitempty"`
}

// Publisher sends build events over a NATS connection.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewPublisher connects to NATS at url and publishes on subject.
func NewPublisher(url, subject string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("sitebuilder"),
		nats.MaxReconnects(3),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Publisher{conn: conn, subject: subject, logger: logger}, nil
}

// PublishBuildCompleted sends one build event and flushes the connection so
// short-lived CLI runs do not drop the message on exit.
func (p *Publisher) PublishBuildCompleted(ev BuildEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	if err := p.conn.Flush(); err != nil {
		return fmt.Errorf("flush build event: %w", err)
	}
	p.logger.Debug("build event published",
		logfields.RunID(ev.RunID),
		slog.String("subject", p.subject))
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
