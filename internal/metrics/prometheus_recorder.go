package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	lintDuration   prom.Histogram
	lintIssues     *prom.CounterVec
	corpusFiles    prom.Gauge
	renderDuration prom.Histogram
	rebuilds       *prom.CounterVec
	rebuildSkips   prom.Counter
}

// NewPrometheusRecorder constructs and registers the lessonkit metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		lintDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "lessonkit",
			Name:      "lint_duration_seconds",
			Help:      "Duration of full corpus lint runs",
			Buckets:   prom.DefBuckets,
		}),
		lintIssues: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "lessonkit",
			Name:      "lint_issues_total",
			Help:      "Lint issues found, by rule and severity",
		}, []string{"rule", "severity"}),
		corpusFiles: prom.NewGauge(prom.GaugeOpts{
			Namespace: "lessonkit",
			Name:      "corpus_files",
			Help:      "Lesson files discovered in the corpus",
		}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "lessonkit",
			Name:      "render_duration_seconds",
			Help:      "Duration of full site renders",
			Buckets:   prom.DefBuckets,
		}),
		rebuilds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "lessonkit",
			Name:      "preview_rebuilds_total",
			Help:      "Preview rebuilds by trigger",
		}, []string{"trigger"}),
		rebuildSkips: prom.NewCounter(prom.CounterOpts{
			Namespace: "lessonkit",
			Name:      "preview_rebuilds_skipped_total",
			Help:      "Rebuilds skipped because the corpus signature was unchanged",
		}),
	}
	reg.MustRegister(pr.lintDuration, pr.lintIssues, pr.corpusFiles, pr.renderDuration, pr.rebuilds, pr.rebuildSkips)
	return pr
}

func (p *PrometheusRecorder) ObserveLintDuration(d time.Duration) {
	p.lintDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncLintIssue(rule, severity string) {
	p.lintIssues.WithLabelValues(rule, severity).Inc()
}

func (p *PrometheusRecorder) SetCorpusFiles(n int) {
	p.corpusFiles.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRebuild(trigger string) {
	p.rebuilds.WithLabelValues(trigger).Inc()
}

func (p *PrometheusRecorder) IncRebuildSkipped() {
	p.rebuildSkips.Inc()
}

// HTTPHandler returns an http.Handler serving the registry in the Prometheus
// exposition format.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
