package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignMetrics_ObserveJob(t *testing.T) {
	c := newTestCollector(t)
	m := NewCampaignMetrics(c)

	m.ObserveJob("t1", "success", 2*time.Second)
	m.ObserveJob("t1", "success", 3*time.Second)
	m.ObserveJob("t1", "failure", time.Second)

	jobs := family(t, c, "test_unit_docking_jobs_total")
	ok := labelled(jobs, map[string]string{"target": "t1", "outcome": "success"})
	require.NotNil(t, ok)
	assert.Equal(t, 2.0, ok.GetCounter().GetValue())

	hist := labelled(family(t, c, "test_unit_docking_job_duration_seconds"), map[string]string{"target": "t1"})
	require.NotNil(t, hist)
	assert.Equal(t, uint64(3), hist.GetHistogram().GetSampleCount())
	assert.Equal(t, 6.0, hist.GetHistogram().GetSampleSum())
}

func TestCampaignMetrics_RecordSummary(t *testing.T) {
	c := newTestCollector(t)
	m := NewCampaignMetrics(c)

	m.RecordSummary("t1", 4, map[string]int{"included": 4, "malformed": 1, "empty": 0})

	logs := family(t, c, "test_unit_logs_parsed_total")
	require.NotNil(t, logs)
	assert.Len(t, logs.GetMetric(), 2)
	assert.Equal(t, 1.0, labelled(logs, map[string]string{"target": "t1", "result": "malformed"}).GetCounter().GetValue())

	rows := labelled(family(t, c, "test_unit_summary_molecules"), map[string]string{"target": "t1"})
	require.NotNil(t, rows)
	assert.Equal(t, 4.0, rows.GetGauge().GetValue())
}

func TestCampaignMetrics_Misc(t *testing.T) {
	c := newTestCollector(t)
	m := NewCampaignMetrics(c)

	m.RecordLigand("converted")
	m.RecordPrioritization(7)
	m.RecordError("dock", "docking")
	m.StartStage("summarize").ObserveDuration()

	assert.Equal(t, 1.0, labelled(family(t, c, "test_unit_ligands_total"), map[string]string{"outcome": "converted"}).GetCounter().GetValue())
	assert.Equal(t, 7.0, labelled(family(t, c, "test_unit_prioritized_molecules"), map[string]string{}).GetGauge().GetValue())
	assert.Equal(t, 1.0, labelled(family(t, c, "test_unit_errors_total"), map[string]string{"stage": "dock", "kind": "docking"}).GetCounter().GetValue())
	assert.NotNil(t, labelled(family(t, c, "test_unit_stage_duration_seconds"), map[string]string{"stage": "summarize"}))
}

func TestCampaignMetrics_Noop(t *testing.T) {
	m := NewCampaignMetrics(NewNoopCollector())
	assert.NotPanics(t, func() {
		m.ObserveJob("t", "success", time.Second)
		m.RecordSummary("t", 1, map[string]int{"included": 1})
		m.RecordPrioritization(1)
	})
}

//Personal.AI order the ending
