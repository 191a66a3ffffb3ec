// Package campaign provides the application-level service driving a docking
// campaign: ligand preparation, docking, per-target summaries, cross-target
// prioritization and the reporting commands built on them.  It is the single
// entry point used by the CLI.
package campaign

import (
	"context"
	"math/rand"
	"time"

	"github.com/turtacn/tinydock/internal/config"
	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/internal/domain/molecule"
	"github.com/turtacn/tinydock/internal/domain/prioritization"
	"github.com/turtacn/tinydock/internal/domain/target"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/tinydock/internal/infrastructure/process"
	"github.com/turtacn/tinydock/internal/infrastructure/storage/minio"
	"github.com/turtacn/tinydock/pkg/errors"
)

// Service defines the campaign operations.
type Service interface {
	Prepare(ctx context.Context, input *PrepareInput) (*PrepareResult, error)
	Dock(ctx context.Context, input *DockInput) (*DockResult, error)
	Summarize(ctx context.Context, input *SummarizeInput) (*SummarizeResult, error)
	Prioritize(ctx context.Context) (*PrioritizeResult, error)
	Run(ctx context.Context, input *RunInput) (*RunResult, error)
	Stats(ctx context.Context, input *StatsInput) (*StatsResult, error)
	ExportPoses(ctx context.Context, input *ExportInput) (*ExportResult, error)
	Publish(ctx context.Context) (*minio.PublishReport, error)
	Targets() *target.Set
}

// ─────────────────────────────────────────────────────────────────────────────
// Inputs
// ─────────────────────────────────────────────────────────────────────────────

// PrepareInput contains input for ligand preparation.
type PrepareInput struct {
	// Input is a CSV file with a structure column.  Empty means the
	// configured molecules table.
	Input string
	// Rewrite converts molecules whose ligand file already exists.
	Rewrite bool
}

// DockInput contains input for a docking pass.
type DockInput struct {
	// Targets restricts docking to the named targets; empty means all.
	Targets []string
	Rewrite bool
	// Fraction subsamples the job set of every target; 0 disables sampling.
	Fraction float64
	// Seed fixes the subsampling source; 0 leaves it unseeded.
	Seed int64
	// SelectorPath is a CSV whose identifier column restricts the job set.
	SelectorPath string
}

// SummarizeInput contains input for building summary tables.
type SummarizeInput struct {
	Targets []string
}

// RunInput contains input for the dock, summarize and prioritize sequence.
type RunInput struct {
	Dock DockInput
}

// StatsInput selects the targets to describe.
type StatsInput struct {
	Targets []string
}

// ExportInput selects the poses to convert.  IDs take precedence over Top;
// with neither, the ten best-ranked molecules are exported.
type ExportInput struct {
	Targets []string
	IDs     []string
	Top     int
}

// DefaultExportTop is the number of ranked molecules exported by default.
const DefaultExportTop = 10

// ─────────────────────────────────────────────────────────────────────────────
// Results
// ─────────────────────────────────────────────────────────────────────────────

// PrepareResult counts what preparation did with each molecule.
type PrepareResult struct {
	TablePath  string            `json:"table_path" yaml:"table_path"`
	Total      int               `json:"total" yaml:"total"`
	Duplicates int               `json:"duplicates" yaml:"duplicates"`
	Invalid    int               `json:"invalid" yaml:"invalid"`
	Converted  int               `json:"converted" yaml:"converted"`
	Skipped    int               `json:"skipped" yaml:"skipped"`
	Failed     int               `json:"failed" yaml:"failed"`
	Failures   []docking.Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Elapsed    time.Duration     `json:"elapsed" yaml:"elapsed"`
}

// DockResult holds one report per docked target.
type DockResult struct {
	Reports   []docking.BatchReport `json:"reports" yaml:"reports"`
	Total     int                   `json:"total" yaml:"total"`
	Succeeded int                   `json:"succeeded" yaml:"succeeded"`
	Failed    int                   `json:"failed" yaml:"failed"`
}

// TargetSummary describes one written summary table.
type TargetSummary struct {
	Target string              `json:"target" yaml:"target"`
	Path   string              `json:"path" yaml:"path"`
	Rows   int                 `json:"rows" yaml:"rows"`
	Build  docking.BuildReport `json:"build" yaml:"build"`
}

// SummarizeResult holds one entry per summarized target.
type SummarizeResult struct {
	Targets []TargetSummary `json:"targets" yaml:"targets"`
}

// PrioritizeResult describes the written prioritization table.
type PrioritizeResult struct {
	Path string               `json:"path" yaml:"path"`
	Rows int                  `json:"rows" yaml:"rows"`
	Top  []prioritization.Row `json:"top" yaml:"top"`
}

// RunResult chains the results of Run.
type RunResult struct {
	Dock       *DockResult       `json:"dock" yaml:"dock"`
	Summarize  *SummarizeResult  `json:"summarize" yaml:"summarize"`
	Prioritize *PrioritizeResult `json:"prioritize" yaml:"prioritize"`
}

// TargetStats describes the best-pose affinities of one target.
type TargetStats struct {
	Target string        `json:"target" yaml:"target"`
	Role   target.Role   `json:"role" yaml:"role"`
	Stats  docking.Stats `json:"stats" yaml:"stats"`
}

// StatsResult holds one entry per target.
type StatsResult struct {
	Targets []TargetStats `json:"targets" yaml:"targets"`
}

// ExportResult lists the written SDF files and the failed conversions.
type ExportResult struct {
	Paths    []string          `json:"paths" yaml:"paths"`
	Failures []docking.Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────────────────────────────────────

// Deps are the collaborators of the service.  Config and Runner are
// required; everything else has a default.
type Deps struct {
	Config    *config.Config
	Runner    process.Runner
	Validator molecule.Validator
	Assigner  molecule.IdentityAssigner
	Metrics   *prometheus.CampaignMetrics
	Publisher *minio.Publisher
	Logger    logging.Logger
}

type serviceImpl struct {
	cfg       *config.Config
	layout    config.Layout
	targets   *target.Set
	validator molecule.Validator
	assigner  molecule.IdentityAssigner
	converter *process.Converter
	invoker   *docking.Invoker
	metrics   *prometheus.CampaignMetrics
	publisher *minio.Publisher
	logger    logging.Logger
}

// NewService creates a new campaign service.
func NewService(d Deps) (Service, error) {
	if d.Config == nil || d.Runner == nil {
		return nil, errors.InvalidParam("campaign service needs a config and a process runner")
	}
	cfg := d.Config

	targets, err := buildTargets(cfg)
	if err != nil {
		return nil, err
	}

	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	if d.Metrics == nil {
		d.Metrics = prometheus.NewCampaignMetrics(prometheus.NewNoopCollector())
	}
	if d.Assigner == nil {
		d.Assigner = molecule.DefaultAssigner
	}
	if d.Validator == nil {
		d.Validator = newValidator(cfg.Preparation, d.Runner)
	}
	logger := d.Logger.Named("campaign")

	invoker := docking.NewInvoker(d.Runner, docking.InvokerConfig{
		Binary:      cfg.Docking.Binary,
		ExtraArgs:   cfg.Docking.ExtraArgs,
		Concurrency: cfg.Docking.Concurrency,
		JobTimeout:  cfg.Docking.JobTimeout,
	}, logger.Named("docking"), docking.WithObserver(d.Metrics))

	return &serviceImpl{
		cfg:       cfg,
		layout:    cfg.Paths(),
		targets:   targets,
		validator: d.Validator,
		assigner:  d.Assigner,
		converter: process.NewConverter(d.Runner, cfg.Preparation.Converter, cfg.Preparation.ConversionTimeout),
		invoker:   invoker,
		metrics:   d.Metrics,
		publisher: d.Publisher,
		logger:    logger,
	}, nil
}

func buildTargets(cfg *config.Config) (*target.Set, error) {
	var all []target.Target
	add := func(role target.Role, list []config.TargetConfig) {
		for _, tc := range list {
			all = append(all, target.Target{
				Name:         tc.Name,
				ConfigPath:   cfg.ResolvePath(tc.Config),
				ReceptorPath: cfg.ResolvePath(tc.Receptor),
				Role:         role,
			})
		}
	}
	add(target.RoleOnTarget, cfg.Targets.OnTarget)
	add(target.RoleOffTarget, cfg.Targets.OffTarget)
	return target.NewSet(all...)
}

func newValidator(p config.PreparationConfig, r process.Runner) molecule.Validator {
	if p.Validator == config.ValidatorCommand {
		return molecule.CommandValidator{Runner: r, Command: p.ValidatorCommand}
	}
	return molecule.SyntaxValidator{}
}

func (s *serviceImpl) Targets() *target.Set { return s.targets }

// selectTargets resolves names, or returns every target for none.
func (s *serviceImpl) selectTargets(names []string) ([]target.Target, error) {
	if len(names) == 0 {
		all := s.targets.All()
		if len(all) == 0 {
			return nil, errors.InvalidConfig("no targets configured")
		}
		return all, nil
	}
	out := make([]target.Target, 0, len(names))
	for _, n := range names {
		t, ok := s.targets.Get(n)
		if !ok {
			return nil, errors.NotFound("unknown target").WithDetail("target=" + n)
		}
		out = append(out, t)
	}
	return out, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

//Personal.AI order the ending
