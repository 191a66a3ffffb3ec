package campaign

import (
	"context"
	"path/filepath"

	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/internal/domain/prioritization"
	"github.com/turtacn/tinydock/internal/domain/target"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/pkg/errors"
)

// topRows is the number of ranked rows carried in PrioritizeResult.
const topRows = 10

// Prioritize aggregates the summary tables of every configured target into
// the prioritization table.  A target without a summary aborts with
// CodeTargetMissing.
func (s *serviceImpl) Prioritize(ctx context.Context) (*PrioritizeResult, error) {
	timer := s.metrics.StartStage("prioritize")
	defer timer.ObserveDuration()

	on, err := s.loadSummaries(s.targets.OnTargets())
	if err != nil {
		return nil, err
	}
	off, err := s.loadSummaries(s.targets.OffTargets())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tbl, err := prioritization.Aggregate(on, off)
	if err != nil {
		s.metrics.RecordError("prioritize", string(errors.KindOf(err)))
		return nil, err
	}
	path := s.layout.PrioritizationCSV
	if err := tbl.WriteFile(path); err != nil {
		return nil, err
	}
	s.metrics.RecordPrioritization(tbl.Len())
	s.logger.Info("prioritization written", logging.String("path", path), logging.Int("rows", tbl.Len()))

	return &PrioritizeResult{Path: path, Rows: tbl.Len(), Top: tbl.Top(topRows)}, nil
}

func (s *serviceImpl) loadSummaries(targets []target.Target) (map[string]docking.SummaryTable, error) {
	out := make(map[string]docking.SummaryTable, len(targets))
	for _, t := range targets {
		path := filepath.Join(s.layout.LogDir(t.Name), docking.SummaryFileName)
		tbl, err := docking.ReadSummary(path)
		if err != nil {
			if errors.IsCode(err, errors.CodeNotFound) {
				return nil, errors.MissingTarget(t.Name, "no summary table at "+path).WithCause(err)
			}
			return nil, err
		}
		out[t.Name] = tbl
	}
	return out, nil
}

// Run docks, summarizes and prioritizes.  Summaries cover every target even
// when docking was restricted, since prioritization needs all of them.
func (s *serviceImpl) Run(ctx context.Context, input *RunInput) (*RunResult, error) {
	if input == nil {
		input = &RunInput{}
	}
	res := &RunResult{}
	var err error

	if res.Dock, err = s.Dock(ctx, &input.Dock); err != nil {
		return res, err
	}
	if res.Summarize, err = s.Summarize(ctx, nil); err != nil {
		return res, err
	}
	if res.Prioritize, err = s.Prioritize(ctx); err != nil {
		return res, err
	}
	return res, nil
}

//Personal.AI order the ending
