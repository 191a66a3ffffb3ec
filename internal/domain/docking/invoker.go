package docking

import (
	"context"
	stdliberrors "errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/turtacn/tinydock/internal/domain/target"
	"github.com/turtacn/tinydock/internal/infrastructure/batch"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/pkg/errors"
)

// Runner runs an external program.  process.ExecRunner implements it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Job outcomes reported to an Observer.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
)

// Observer receives one call per finished job.  Implementations must be safe
// for concurrent use.
type Observer interface {
	ObserveJob(target, outcome string, d time.Duration)
}

// InvokerConfig holds the engine settings.
type InvokerConfig struct {
	Binary      string
	ExtraArgs   []string
	Concurrency int
	JobTimeout  time.Duration
}

// Failure is one failed job of a batch.
type Failure struct {
	MoleculeID string `json:"uuid" yaml:"uuid"`
	Code       string `json:"code" yaml:"code"`
	Reason     string `json:"reason" yaml:"reason"`
}

// BatchReport summarises Run.  Failures are sorted by molecule identifier.
type BatchReport struct {
	Target    string        `json:"target" yaml:"target"`
	Total     int           `json:"total" yaml:"total"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
	Cancelled int           `json:"cancelled" yaml:"cancelled"`
	Failures  []Failure     `json:"failures,omitempty" yaml:"failures,omitempty"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Invoker runs the docking engine.
type Invoker struct {
	runner   Runner
	cfg      InvokerConfig
	logger   logging.Logger
	observer Observer
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithObserver reports every finished job to o.
func WithObserver(o Observer) InvokerOption {
	return func(inv *Invoker) { inv.observer = o }
}

// NewInvoker creates an Invoker.  Concurrency below 1 means sequential.
func NewInvoker(r Runner, cfg InvokerConfig, logger logging.Logger, opts ...InvokerOption) *Invoker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Binary == "" {
		cfg.Binary = "vina"
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	inv := &Invoker{runner: r, cfg: cfg, logger: logger}
	for _, o := range opts {
		o(inv)
	}
	return inv
}

// Args returns the engine arguments of job.  The receptor flag is omitted
// when the target's configuration names the receptor itself.
func (inv *Invoker) Args(job Job) []string {
	args := make([]string, 0, 10+len(inv.cfg.ExtraArgs))
	if job.Target.ReceptorPath != "" {
		args = append(args, "--receptor", job.Target.ReceptorPath)
	}
	args = append(args,
		"--config", job.Target.ConfigPath,
		"--ligand", job.LigandPath,
		"--out", job.PosePath,
		"--log", job.LogPath,
	)
	return append(args, inv.cfg.ExtraArgs...)
}

// Invoke runs the engine once.  A non-zero exit is CodeDockingFailed and
// exceeding the job timeout is CodeDockingTimeout.  If the parent ctx ends,
// the returned error wraps ctx.Err().  On any failure the job's pose and log
// files are removed so the molecule is offered again by the next Resolve.
func (inv *Invoker) Invoke(ctx context.Context, job Job) error {
	jobCtx := ctx
	if inv.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, inv.cfg.JobTimeout)
		defer cancel()
	}

	err := inv.runner.Run(jobCtx, inv.cfg.Binary, inv.Args(job)...)
	if err == nil {
		return nil
	}
	removePartial(job)

	switch {
	case ctx.Err() != nil:
		return errors.Wrap(ctx.Err(), errors.CodeInternal, "docking interrupted").WithDetail("uuid=" + job.MoleculeID)
	case jobCtx.Err() != nil || stdliberrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(err, errors.CodeDockingTimeout, "docking timed out").WithDetail("uuid=" + job.MoleculeID)
	default:
		return errors.Wrap(err, errors.CodeDockingFailed, "docking failed").WithDetail("uuid=" + job.MoleculeID)
	}
}

func removePartial(job Job) {
	_ = os.Remove(job.PosePath)
	_ = os.Remove(job.LogPath)
}

// Run docks jobs against t.  The pose and log directories are created before
// any job starts.  Jobs run on a pool of InvokerConfig.Concurrency workers;
// a failed job is logged and counted and never stops the others.  The only
// error returned is a failure to create the output directories.
func (inv *Invoker) Run(ctx context.Context, t target.Target, jobs []Job) (BatchReport, error) {
	report := BatchReport{Target: t.Name, Total: len(jobs)}
	if err := inv.prepareDirs(jobs); err != nil {
		return report, err
	}

	logger := inv.logger.With(logging.String("target", t.Name))
	n := len(jobs)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	proc := batch.NewProcessor[int, struct{}](batch.WithMaxConcurrency(inv.cfg.Concurrency))

	res, err := proc.Process(ctx, indices, func(ctx context.Context, i int) (struct{}, error) {
		job := jobs[i]
		logger.Info("docking molecule", logging.Int("n", i+1), logging.Int("of", n),
			logging.String("uuid", job.MoleculeID))
		start := time.Now()
		err := inv.Invoke(ctx, job)
		inv.observe(t.Name, err, time.Since(start))
		if err != nil && !interrupted(ctx, err) {
			logger.Warn("docking failed, skipping", logging.String("uuid", job.MoleculeID), logging.Err(err))
		}
		return struct{}{}, err
	})
	if err != nil {
		return report, err
	}

	for i, ir := range res.Results {
		switch {
		case ir.Status == batch.ItemStatusSuccess:
			report.Succeeded++
		case ir.Status == batch.ItemStatusCancelled || interrupted(ctx, ir.Error):
			report.Cancelled++
		default:
			report.Failed++
			report.Failures = append(report.Failures, Failure{
				MoleculeID: jobs[i].MoleculeID,
				Code:       errors.GetCode(ir.Error).String(),
				Reason:     ir.Error.Error(),
			})
		}
	}
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].MoleculeID < report.Failures[j].MoleculeID
	})
	report.Elapsed = res.TotalDuration

	logger.Info("docking batch finished",
		logging.Int("total", report.Total),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Int("cancelled", report.Cancelled),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}

func (inv *Invoker) prepareDirs(jobs []Job) error {
	dirs := make(map[string]struct{})
	for _, j := range jobs {
		dirs[filepath.Dir(j.PosePath)] = struct{}{}
		dirs[filepath.Dir(j.LogPath)] = struct{}{}
	}
	for d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return errors.Wrap(err, errors.CodeIO, "create docking output directory").WithDetail("dir=" + d)
		}
	}
	return nil
}

// interrupted reports whether err comes from the end of the batch context
// rather than from the job itself.
func interrupted(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.GetCode(err) == errors.CodeInternal
}

func (inv *Invoker) observe(target string, err error, d time.Duration) {
	if inv.observer == nil {
		return
	}
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case errors.IsCode(err, errors.CodeDockingTimeout):
		outcome = OutcomeTimeout
	case errors.GetCode(err) == errors.CodeInternal:
		outcome = OutcomeCancelled
	default:
		outcome = OutcomeFailure
	}
	inv.observer.ObserveJob(target, outcome, d)
}

//Personal.AI order the ending
