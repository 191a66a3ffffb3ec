package prometheus

import (
	"time"
)

// CampaignMetrics holds all campaign metrics.
type CampaignMetrics struct {
	// Preparation
	LigandsTotal CounterVec

	// Docking
	DockingJobsTotal   CounterVec
	DockingJobDuration HistogramVec

	// Summaries
	LogsParsedTotal  CounterVec
	SummaryMolecules GaugeVec

	// Prioritization
	PrioritizedMolecules GaugeVec

	// Pipeline
	StageDuration HistogramVec
	ErrorsTotal   CounterVec
}

// Default Buckets
var (
	DefaultDockingDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}
	DefaultStageDurationBuckets   = []float64{.1, 1, 10, 60, 300, 1800, 3600, 4 * 3600, 12 * 3600}
)

// NewCampaignMetrics registers all metrics and returns CampaignMetrics struct.
func NewCampaignMetrics(collector MetricsCollector) *CampaignMetrics {
	m := &CampaignMetrics{}

	m.LigandsTotal = collector.RegisterCounter("ligands_total", "Molecules handled by preparation", "outcome")

	m.DockingJobsTotal = collector.RegisterCounter("docking_jobs_total", "Docking engine invocations", "target", "outcome")
	m.DockingJobDuration = collector.RegisterHistogram("docking_job_duration_seconds", "Docking engine invocation duration", DefaultDockingDurationBuckets, "target")

	m.LogsParsedTotal = collector.RegisterCounter("logs_parsed_total", "Engine logs read while building summaries", "target", "result")
	m.SummaryMolecules = collector.RegisterGauge("summary_molecules", "Molecules in the latest summary table", "target")

	m.PrioritizedMolecules = collector.RegisterGauge("prioritized_molecules", "Molecules in the latest prioritization table")

	m.StageDuration = collector.RegisterHistogram("stage_duration_seconds", "Pipeline stage duration", DefaultStageDurationBuckets, "stage")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by kind", "stage", "kind")

	return m
}

// Helpers

// ObserveJob records one finished docking job.  It lets CampaignMetrics serve
// as the docking invoker's observer.
func (m *CampaignMetrics) ObserveJob(target, outcome string, d time.Duration) {
	m.DockingJobsTotal.WithLabelValues(target, outcome).Inc()
	m.DockingJobDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (m *CampaignMetrics) RecordLigand(outcome string) {
	m.LigandsTotal.WithLabelValues(outcome).Inc()
}

// RecordSummary records the per-result log counts of one summary build and
// the size of the resulting table.  Zero counts are skipped.
func (m *CampaignMetrics) RecordSummary(target string, rows int, results map[string]int) {
	for result, n := range results {
		if n > 0 {
			m.LogsParsedTotal.WithLabelValues(target, result).Add(float64(n))
		}
	}
	m.SummaryMolecules.WithLabelValues(target).Set(float64(rows))
}

func (m *CampaignMetrics) RecordPrioritization(rows int) {
	m.PrioritizedMolecules.WithLabelValues().Set(float64(rows))
}

// StartStage returns a timer for the named stage.
func (m *CampaignMetrics) StartStage(stage string) *Timer {
	return NewTimer(m.StageDuration.WithLabelValues(stage))
}

func (m *CampaignMetrics) RecordError(stage, kind string) {
	m.ErrorsTotal.WithLabelValues(stage, kind).Inc()
}

//Personal.AI order the ending
