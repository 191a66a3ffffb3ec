package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultDataRoot          = "."
	DefaultLigandsDir        = "ligands"
	DefaultPosesDir          = "poses"
	DefaultLogsDir           = "logs"
	DefaultPoseviewDir       = "poseview"
	DefaultMoleculesCSV      = "molecules.csv"
	DefaultPrioritizationCSV = "prioritization.csv"
	DefaultSmilesColumn      = "smiles"
	DefaultIDColumn          = "uuid"

	DefaultDockingBinary      = "vina"
	DefaultLigandExt          = "pdbqt"
	DefaultLogExt             = "txt"
	DefaultDockingConcurrency = 1

	DefaultConverter              = "obabel"
	DefaultConversionTimeout      = 2 * time.Minute
	DefaultPreparationConcurrency = 1

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultMetricsNamespace = "tinydock"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "tinydock"
)

// Validator kinds.
const (
	ValidatorSyntax  = "syntax"
	ValidatorCommand = "command"
)

// ApplyDefaults fills every zero-value field in cfg.  Explicitly configured
// values always win.  A zero docking.job_timeout means no per-job timeout.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Data ──────────────────────────────────────────────────────────────────
	setString(&cfg.Data.Root, DefaultDataRoot)
	setString(&cfg.Data.LigandsDir, DefaultLigandsDir)
	setString(&cfg.Data.PosesDir, DefaultPosesDir)
	setString(&cfg.Data.LogsDir, DefaultLogsDir)
	setString(&cfg.Data.PoseviewDir, DefaultPoseviewDir)
	setString(&cfg.Data.MoleculesCSV, DefaultMoleculesCSV)
	setString(&cfg.Data.PrioritizationCSV, DefaultPrioritizationCSV)
	setString(&cfg.Data.SmilesColumn, DefaultSmilesColumn)
	setString(&cfg.Data.IDColumn, DefaultIDColumn)

	// ── Docking ───────────────────────────────────────────────────────────────
	setString(&cfg.Docking.Binary, DefaultDockingBinary)
	setString(&cfg.Docking.LigandExt, DefaultLigandExt)
	setString(&cfg.Docking.LogExt, DefaultLogExt)
	if cfg.Docking.Concurrency == 0 {
		cfg.Docking.Concurrency = DefaultDockingConcurrency
	}

	// ── Preparation ───────────────────────────────────────────────────────────
	setString(&cfg.Preparation.Converter, DefaultConverter)
	setString(&cfg.Preparation.Validator, ValidatorSyntax)
	if cfg.Preparation.ConversionTimeout == 0 {
		cfg.Preparation.ConversionTimeout = DefaultConversionTimeout
	}
	if cfg.Preparation.Concurrency == 0 {
		cfg.Preparation.Concurrency = DefaultPreparationConcurrency
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	setString(&cfg.Log.Level, DefaultLogLevel)
	setString(&cfg.Log.Format, DefaultLogFormat)

	// ── Metrics ───────────────────────────────────────────────────────────────
	setString(&cfg.Metrics.Namespace, DefaultMetricsNamespace)

	// ── Storage ───────────────────────────────────────────────────────────────
	setString(&cfg.Storage.MinIO.Endpoint, DefaultMinIOEndpoint)
	setString(&cfg.Storage.MinIO.Bucket, DefaultMinIOBucket)
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// Default returns a Config populated only with defaults.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
