// Package docking implements the docking stage of a campaign: deciding which
// molecules still need docking, invoking the engine for each (molecule,
// target) pair, parsing the engine's logs and assembling per-target summary
// tables.
package docking

import (
	"github.com/turtacn/tinydock/internal/domain/target"
)

// Layout resolves the files of a campaign.  config.Layout implements it.
type Layout interface {
	LigandPath(id string) string
	PoseDir(target string) string
	PosePath(target, id string) string
	LogDir(target string) string
	LogPath(target, id string) string
}

// Job is one engine invocation.  Paths are resolved when the job is built.
// A job has no persisted state: success is the presence of its pose file.
type Job struct {
	MoleculeID string
	Target     target.Target
	LigandPath string
	PosePath   string
	LogPath    string
}

// NewJobs builds one job per identifier against t.
func NewJobs(t target.Target, ids []string, l Layout) []Job {
	jobs := make([]Job, len(ids))
	for i, id := range ids {
		jobs[i] = Job{
			MoleculeID: id,
			Target:     t,
			LigandPath: l.LigandPath(id),
			PosePath:   l.PosePath(t.Name, id),
			LogPath:    l.LogPath(t.Name, id),
		}
	}
	return jobs
}

//Personal.AI order the ending
