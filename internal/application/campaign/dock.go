package campaign

import (
	"context"

	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
)

// Dock resolves the job set of every selected target against the prepared
// ligands and the poses already on disk, then runs the engine over it.
// Failed jobs are reported, not returned; the error is reserved for setup
// problems and for a cancelled ctx.
func (s *serviceImpl) Dock(ctx context.Context, input *DockInput) (*DockResult, error) {
	timer := s.metrics.StartStage("dock")
	defer timer.ObserveDuration()

	if input == nil {
		input = &DockInput{}
	}
	targets, err := s.selectTargets(input.Targets)
	if err != nil {
		return nil, err
	}

	all, err := docking.ListIdentifiers(s.layout.LigandsDir)
	if err != nil {
		return nil, err
	}
	opts := docking.ResolveOptions{Rewrite: input.Rewrite, Fraction: input.Fraction, Rand: newRand(input.Seed)}
	if input.SelectorPath != "" {
		if opts.Selector, err = docking.ReadSelector(input.SelectorPath, s.cfg.Data.IDColumn); err != nil {
			return nil, err
		}
	}

	res := &DockResult{}
	for _, t := range targets {
		done, err := docking.ListIdentifiers(s.layout.PoseDir(t.Name))
		if err != nil {
			return res, err
		}
		ids, err := docking.Resolve(all, done, opts)
		if err != nil {
			return res, err
		}
		s.logger.Info("resolved docking jobs",
			logging.String("target", t.Name),
			logging.Int("ligands", len(all)),
			logging.Int("done", len(done)),
			logging.Int("jobs", len(ids)))

		report, err := s.invoker.Run(ctx, t, docking.NewJobs(t, ids, s.layout))
		if err != nil {
			return res, err
		}
		for range report.Failures {
			s.metrics.RecordError("dock", "docking")
		}
		res.Reports = append(res.Reports, report)
		res.Total += report.Total
		res.Succeeded += report.Succeeded
		res.Failed += report.Failed

		if err := ctx.Err(); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Summarize parses the logs of every selected target and replaces its
// summary table.
func (s *serviceImpl) Summarize(ctx context.Context, input *SummarizeInput) (*SummarizeResult, error) {
	timer := s.metrics.StartStage("summarize")
	defer timer.ObserveDuration()

	var names []string
	if input != nil {
		names = input.Targets
	}
	targets, err := s.selectTargets(names)
	if err != nil {
		return nil, err
	}

	res := &SummarizeResult{}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		dir := s.layout.LogDir(t.Name)
		tbl, build, err := docking.BuildSummary(dir, s.logger.With(logging.String("target", t.Name)))
		if err != nil {
			return res, err
		}
		path, err := docking.WriteSummary(dir, tbl)
		if err != nil {
			return res, err
		}
		s.metrics.RecordSummary(t.Name, tbl.Len(), map[string]int{
			"included":  build.Included,
			"empty":     build.Empty,
			"no_poses":  build.NoPoses,
			"malformed": build.Malformed,
			"duplicate": build.Duplicates,
		})
		for i := 0; i < build.Malformed; i++ {
			s.metrics.RecordError("summarize", "parse")
		}
		s.logger.Info("summary written",
			logging.String("target", t.Name),
			logging.String("path", path),
			logging.Int("rows", tbl.Len()),
			logging.Int("excluded", len(build.Excluded)))
		res.Targets = append(res.Targets, TargetSummary{Target: t.Name, Path: path, Rows: tbl.Len(), Build: build})
	}
	return res, nil
}

//Personal.AI order the ending
