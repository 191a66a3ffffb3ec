package campaign

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/internal/domain/prioritization"
	"github.com/turtacn/tinydock/internal/infrastructure/batch"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
)

// Stats describes the best-pose affinities in the summary table of each
// selected target.
func (s *serviceImpl) Stats(ctx context.Context, input *StatsInput) (*StatsResult, error) {
	var names []string
	if input != nil {
		names = input.Targets
	}
	targets, err := s.selectTargets(names)
	if err != nil {
		return nil, err
	}

	res := &StatsResult{}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		tbl, err := docking.ReadSummary(filepath.Join(s.layout.LogDir(t.Name), docking.SummaryFileName))
		if err != nil {
			return res, err
		}
		res.Targets = append(res.Targets, TargetStats{
			Target: t.Name,
			Role:   t.Role,
			Stats:  docking.ComputeStats(tbl.BestAffinities()),
		})
	}
	return res, nil
}

type exportJob struct {
	target string
	id     string
}

// ExportPoses converts docked poses to SDF for inspection.  Molecules come
// from input.IDs, or else from the head of the prioritization table.
func (s *serviceImpl) ExportPoses(ctx context.Context, input *ExportInput) (*ExportResult, error) {
	if input == nil {
		input = &ExportInput{}
	}
	targets, err := s.selectTargets(input.Targets)
	if err != nil {
		return nil, err
	}

	ids := input.IDs
	if len(ids) == 0 {
		top := input.Top
		if top <= 0 {
			top = DefaultExportTop
		}
		tbl, err := prioritization.ReadFile(s.layout.PrioritizationCSV)
		if err != nil {
			return nil, err
		}
		for _, r := range tbl.Top(top) {
			ids = append(ids, r.ID)
		}
	}

	var jobs []exportJob
	for _, t := range targets {
		for _, id := range ids {
			jobs = append(jobs, exportJob{target: t.Name, id: id})
		}
	}

	proc := batch.NewProcessor[exportJob, string](batch.WithMaxConcurrency(s.cfg.Preparation.Concurrency))
	out, err := proc.Process(ctx, jobs, func(ctx context.Context, j exportJob) (string, error) {
		dst := s.layout.PoseviewPath(j.target, j.id)
		if err := s.converter.PoseToSDF(ctx, s.layout.PosePath(j.target, j.id), dst); err != nil {
			return "", err
		}
		return dst, nil
	})
	if err != nil {
		return nil, err
	}

	res := &ExportResult{}
	for i, ir := range out.Results {
		if ir.Error != nil {
			f := failureOf(jobs[i].id, ir.Error)
			f.Reason = jobs[i].target + ": " + f.Reason
			res.Failures = append(res.Failures, f)
			s.logger.Warn("pose export failed", logging.String("target", jobs[i].target),
				logging.String("uuid", jobs[i].id), logging.Err(ir.Error))
			continue
		}
		res.Paths = append(res.Paths, ir.Result)
	}
	sort.Strings(res.Paths)
	sortFailures(res.Failures)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

//Personal.AI order the ending
