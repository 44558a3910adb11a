// Package events publishes lint findings to NATS JetStream so downstream
// tooling (dashboards, notification bots) can react to corpus regressions.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/lessonkit/internal/config"
	"git.home.luguber.info/inful/lessonkit/internal/lint"
)

// IssueEvent is the wire form of one published lint issue.
type IssueEvent struct {
	File      string    `json:"file"`
	Line      int       `json:"line,omitempty"`
	Severity  string    `json:"severity"`
	Rule      string    `json:"rule"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RunEvent summarizes a completed lint run.
type RunEvent struct {
	FilesTotal int       `json:"files_total"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher manages the NATS connection and JetStream publishing.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS and ensures the target stream exists.
func NewPublisher(cfg *config.EventsConfig) (*Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("event publishing is disabled")
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := &Publisher{conn: conn, js: js, subject: cfg.Subject}
	if err := p.ensureStream(cfg.Stream, cfg.Subject); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("Event publisher connected", "url", cfg.NATSURL, "subject", cfg.Subject, "stream", cfg.Stream)
	return p, nil
}

func (p *Publisher) ensureStream(stream, subject string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Capture both lessonkit.lint.issue and lessonkit.lint.run.
	prefix := subject
	if i := strings.LastIndex(subject, "."); i > 0 {
		prefix = subject[:i] + ".>"
	}

	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{prefix},
		MaxAge:   30 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", stream, err)
	}
	return nil
}

// PublishResult publishes every issue of a lint result, then a run summary.
func (p *Publisher) PublishResult(ctx context.Context, result *lint.Result) error {
	now := time.Now()
	for _, issue := range result.Issues {
		event := IssueEvent{
			File:      issue.FilePath,
			Line:      issue.Line,
			Severity:  issue.Severity.String(),
			Rule:      issue.Rule,
			Message:   issue.Message,
			Timestamp: now,
		}
		if err := p.publish(ctx, p.subject, event); err != nil {
			return err
		}
	}

	summary := RunEvent{
		FilesTotal: result.FilesTotal,
		Errors:     result.ErrorCount(),
		Warnings:   result.WarningCount(),
		Timestamp:  now,
	}
	return p.publish(ctx, runSubject(p.subject), summary)
}

func (p *Publisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := p.js.Publish(pubCtx, subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	slog.Debug("Published event", "subject", subject)
	return nil
}

// runSubject derives the run-summary subject from the issue subject.
func runSubject(issueSubject string) string {
	if i := strings.LastIndex(issueSubject, "."); i > 0 {
		return issueSubject[:i] + ".run"
	}
	return issueSubject + ".run"
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
