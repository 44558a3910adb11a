// Package preview runs the live preview loop: render the corpus, serve it
// over HTTP, and rebuild on file changes or on a schedule.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/lessonkit/internal/config"
	"git.home.luguber.info/inful/lessonkit/internal/corpus"
	"git.home.luguber.info/inful/lessonkit/internal/events"
	"git.home.luguber.info/inful/lessonkit/internal/lint"
	"git.home.luguber.info/inful/lessonkit/internal/logfields"
	"git.home.luguber.info/inful/lessonkit/internal/metrics"
	"git.home.luguber.info/inful/lessonkit/internal/render"
	"git.home.luguber.info/inful/lessonkit/internal/runstore"
)

// Service wires the watcher, debouncer, rebuild loop, scheduler, and HTTP
// server into one preview session.
type Service struct {
	cfg       *config.Config
	linter    *lint.Linter
	renderer  *render.Renderer
	recorder  metrics.Recorder
	server    *Server
	debouncer *Debouncer
	store     *runstore.SQLiteStore // nil when history is disabled
	publisher *events.Publisher     // nil when events are disabled

	// rebuildMu serializes rebuilds: the debounced loop and the scheduled
	// relint both call rebuild, and concurrent renders would race on the
	// output tree and the signature.
	rebuildMu     sync.Mutex
	lastSignature string
}

// NewService assembles a preview service from the configuration. The
// returned service owns the run store and event publisher and closes them
// when Run returns.
func NewService(cfg *config.Config) (*Service, error) {
	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	linter := lint.NewLinter(&lint.Config{
		TocDepth:            cfg.Lint.TocDepth,
		RequireUID:          cfg.Lint.RequireUID,
		RequireCodeLanguage: cfg.Lint.RequireCodeLanguage,
	})

	svc := &Service{
		cfg:       cfg,
		linter:    linter,
		renderer:  render.NewRenderer(cfg),
		recorder:  recorder,
		server:    NewServer(cfg.Output.Directory, cfg.Preview.Port, registry),
		debouncer: NewDebouncer(cfg.Preview.Debounce.Std(), 0),
	}

	if cfg.History.Enabled {
		store, err := runstore.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open run history: %w", err)
		}
		svc.store = store
	}

	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(&cfg.Events)
		if err != nil {
			svc.closeStores()
			return nil, err
		}
		svc.publisher = publisher
	}

	return svc, nil
}

// Run performs an initial build and serves until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	defer s.closeStores()

	if err := s.rebuild(ctx, "startup"); err != nil {
		return err
	}

	watcher, err := NewCorpusWatcher(s.cfg.Corpus.Root, s.debouncer)
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { s.debouncer.Run(ctx); return nil })
	group.Go(func() error { watcher.Run(ctx); return nil })
	group.Go(func() error { return s.server.Run(ctx) })
	group.Go(func() error { return s.rebuildLoop(ctx) })

	if interval := s.cfg.Preview.RelintInterval.Std(); interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				if err := s.rebuild(ctx, "schedule"); err != nil {
					slog.Error("Scheduled relint failed", "error", err)
				}
			}),
			gocron.WithName("relint"),
		)
		if err != nil {
			return fmt.Errorf("schedule relint job: %w", err)
		}
		scheduler.Start()
		defer func() { _ = scheduler.Shutdown() }()
		slog.Info("Scheduled periodic relint", "interval", interval)
	}

	return group.Wait()
}

func (s *Service) rebuildLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.debouncer.C():
			if err := s.rebuild(ctx, "fsevent"); err != nil {
				slog.Error("Rebuild failed", "error", err)
			}
		}
	}
}

// rebuild lints and re-renders the corpus. Unchanged corpus signatures skip
// the work entirely. Calls are serialized; a scheduled relint arriving while
// a file-event rebuild runs waits its turn.
func (s *Service) rebuild(ctx context.Context, trigger string) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	files, err := corpus.NewDiscovery(s.cfg.Corpus.Root, s.cfg.Corpus.Ignore).Discover()
	if err != nil {
		return err
	}
	s.recorder.SetCorpusFiles(len(files))

	sig, err := signature(files)
	if err != nil {
		return err
	}
	if sig == s.lastSignature {
		slog.Debug("Corpus unchanged, skipping rebuild", "trigger", trigger)
		s.recorder.IncRebuildSkipped()
		return nil
	}

	started := time.Now()
	result, err := s.linter.LintFiles(files)
	if err != nil {
		return err
	}
	s.recorder.ObserveLintDuration(time.Since(started))
	for _, issue := range result.Issues {
		s.recorder.IncLintIssue(issue.Rule, issue.Severity.String())
	}

	renderStart := time.Now()
	report, err := s.renderer.RenderSite(files)
	if err != nil {
		return err
	}
	s.recorder.ObserveRenderDuration(time.Since(renderStart))
	s.recorder.IncRebuild(trigger)

	s.lastSignature = sig
	s.server.SetStatus(report.Pages, result.ErrorCount(), result.WarningCount())

	if s.store != nil {
		if _, err := s.store.RecordResult(ctx, result, started, s.cfg.History.Keep); err != nil {
			slog.Warn("Failed to record lint run", "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishResult(ctx, result); err != nil {
			slog.Warn("Failed to publish lint events", "error", err)
		}
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "Rebuild complete",
		logfields.Trigger(trigger),
		logfields.Files(len(files)),
		logfields.Errors(result.ErrorCount()),
		logfields.Warnings(result.WarningCount()),
		logfields.DurationMS(float64(time.Since(started).Milliseconds())))
	return nil
}

func (s *Service) closeStores() {
	if s.store != nil {
		_ = s.store.Close()
		s.store = nil
	}
	if s.publisher != nil {
		_ = s.publisher.Close()
		s.publisher = nil
	}
}
