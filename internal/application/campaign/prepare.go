package campaign

import (
	"context"
	"os"
	"sort"

	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/internal/domain/molecule"
	"github.com/turtacn/tinydock/internal/infrastructure/batch"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/pkg/errors"
)

// Ligand outcomes, also used as metric labels.
const (
	ligandConverted = "converted"
	ligandSkipped   = "skipped"
	ligandInvalid   = "invalid"
	ligandFailed    = "failed"
)

// Prepare reads a molecule table, drops invalid and duplicate structures,
// assigns identifiers, writes the identified table and converts every
// molecule into a ligand file.  Invalid structures and failed conversions
// are counted per molecule and never stop the others.
func (s *serviceImpl) Prepare(ctx context.Context, input *PrepareInput) (*PrepareResult, error) {
	timer := s.metrics.StartStage("prepare")
	defer timer.ObserveDuration()

	src := s.layout.MoleculesCSV
	if input != nil && input.Input != "" {
		src = input.Input
	}
	rewrite := input != nil && input.Rewrite

	tbl, err := molecule.ReadTableFile(src, s.cfg.Data.SmilesColumn, s.cfg.Data.IDColumn)
	if err != nil {
		return nil, err
	}
	if tbl.EnsureIdentifiers(s.assigner) {
		s.logger.Info("assigned molecule identifiers", logging.String("column", s.cfg.Data.IDColumn))
	}

	res := &PrepareResult{TablePath: s.layout.MoleculesCSV, Total: tbl.Len()}
	unique := tbl.Dedupe()
	res.Duplicates = tbl.Len() - unique.Len()

	invalid := make(map[string]bool)
	for _, m := range unique.Molecules() {
		if err := s.validator.Validate(ctx, m.SMILES); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			invalid[m.ID] = true
			res.Invalid++
			res.Failures = append(res.Failures, failureOf(m.ID, err))
			s.metrics.RecordLigand(ligandInvalid)
			s.logger.Warn("excluding invalid molecule", logging.String("uuid", m.ID), logging.Err(err))
		}
	}
	valid := unique.Filter(func(m molecule.Molecule) bool { return !invalid[m.ID] })

	if err := valid.WriteFile(s.layout.MoleculesCSV); err != nil {
		return res, err
	}

	mols := valid.Molecules()
	proc := batch.NewProcessor[molecule.Molecule, string](batch.WithMaxConcurrency(s.cfg.Preparation.Concurrency))
	out, err := proc.Process(ctx, mols, func(ctx context.Context, m molecule.Molecule) (string, error) {
		path := s.layout.LigandPath(m.ID)
		if !rewrite {
			if _, err := os.Stat(path); err == nil {
				return ligandSkipped, nil
			}
		}
		if err := s.converter.SmilesToLigand(ctx, m.SMILES, path); err != nil {
			return ligandFailed, err
		}
		return ligandConverted, nil
	})
	if err != nil {
		return res, err
	}

	for i, ir := range out.Results {
		switch {
		case ir.Status == batch.ItemStatusCancelled:
		case ir.Error != nil:
			res.Failed++
			res.Failures = append(res.Failures, failureOf(mols[i].ID, ir.Error))
			s.metrics.RecordLigand(ligandFailed)
			s.logger.Warn("ligand conversion failed", logging.String("uuid", mols[i].ID), logging.Err(ir.Error))
		case ir.Result == ligandSkipped:
			res.Skipped++
			s.metrics.RecordLigand(ligandSkipped)
		default:
			res.Converted++
			s.metrics.RecordLigand(ligandConverted)
		}
	}
	sortFailures(res.Failures)
	res.Elapsed = out.TotalDuration

	s.logger.Info("preparation finished",
		logging.Int("total", res.Total),
		logging.Int("invalid", res.Invalid),
		logging.Int("duplicates", res.Duplicates),
		logging.Int("converted", res.Converted),
		logging.Int("skipped", res.Skipped),
		logging.Int("failed", res.Failed))

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func failureOf(id string, err error) docking.Failure {
	return docking.Failure{MoleculeID: id, Code: errors.GetCode(err).String(), Reason: err.Error()}
}

func sortFailures(f []docking.Failure) {
	sort.SliceStable(f, func(i, j int) bool { return f[i].MoleculeID < f[j].MoleculeID })
}

//Personal.AI order the ending
