// Package config defines the configuration structures for tinydock.  No I/O
// or parsing lives here, only plain data types, validation and path
// resolution.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// DataConfig describes the on-disk layout of a campaign.  Relative directories
// are resolved against Root.
type DataConfig struct {
	Root              string `mapstructure:"root"`
	LigandsDir        string `mapstructure:"ligands_dir"`
	PosesDir          string `mapstructure:"poses_dir"`
	LogsDir           string `mapstructure:"logs_dir"`
	PoseviewDir       string `mapstructure:"poseview_dir"`
	MoleculesCSV      string `mapstructure:"molecules_csv"`
	PrioritizationCSV string `mapstructure:"prioritization_csv"`
	SmilesColumn      string `mapstructure:"smiles_column"`
	IDColumn          string `mapstructure:"id_column"`
}

// TargetConfig is a single docking target.  Config and Receptor are paths to
// engine inputs; relative paths are resolved against data.root.
type TargetConfig struct {
	Name     string `mapstructure:"name"`
	Config   string `mapstructure:"config"`
	Receptor string `mapstructure:"receptor"`
}

// TargetsConfig groups targets by role.
type TargetsConfig struct {
	OnTarget  []TargetConfig `mapstructure:"on_target"`
	OffTarget []TargetConfig `mapstructure:"off_target"`
}

// DockingConfig holds docking engine tunables.
type DockingConfig struct {
	Binary      string        `mapstructure:"binary"`
	LigandExt   string        `mapstructure:"ligand_ext"`
	LogExt      string        `mapstructure:"log_ext"`
	Concurrency int           `mapstructure:"concurrency"`
	JobTimeout  time.Duration `mapstructure:"job_timeout"`
	ExtraArgs   []string      `mapstructure:"extra_args"`
}

// PreparationConfig holds ligand preparation tunables.
type PreparationConfig struct {
	Converter         string        `mapstructure:"converter"`
	Validator         string        `mapstructure:"validator"` // "syntax" | "command"
	ValidatorCommand  []string      `mapstructure:"validator_command"`
	ConversionTimeout time.Duration `mapstructure:"conversion_timeout"`
	Concurrency       int           `mapstructure:"concurrency"`
}

// LogConfig holds logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig controls Prometheus metric collection.  When Textfile is set
// the registry is written there in text exposition format at the end of every
// command, for node_exporter's textfile collector.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Textfile  string `mapstructure:"textfile"`
}

// MinIOConfig holds S3-compatible artifact storage parameters.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
}

// StorageConfig groups artifact storage backends.
type StorageConfig struct {
	MinIO MinIOConfig `mapstructure:"minio"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root configuration
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration, built once at start-up and passed by
// pointer into constructors.  It is never mutated after Load returns.
type Config struct {
	Data        DataConfig        `mapstructure:"data"`
	Targets     TargetsConfig     `mapstructure:"targets"`
	Docking     DockingConfig     `mapstructure:"docking"`
	Preparation PreparationConfig `mapstructure:"preparation"`
	Log         LogConfig         `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Storage     StorageConfig     `mapstructure:"storage"`
}

// Validate checks the configuration for consistency.  It is called after
// ApplyDefaults so only genuinely invalid values are rejected.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config: nil configuration")
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Targets.Validate(); err != nil {
		return err
	}
	if err := c.Docking.Validate(); err != nil {
		return err
	}
	if err := c.Preparation.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return c.Storage.MinIO.Validate()
}

// Validate checks the data section.
func (d *DataConfig) Validate() error {
	if strings.TrimSpace(d.Root) == "" {
		return fmt.Errorf("config: data.root is required")
	}
	if d.SmilesColumn == "" || d.IDColumn == "" {
		return fmt.Errorf("config: data.smiles_column and data.id_column are required")
	}
	if d.SmilesColumn == d.IDColumn {
		return fmt.Errorf("config: data.smiles_column and data.id_column must differ")
	}
	return nil
}

// Validate checks that every target is named, has a docking configuration
// file, and that no name is used twice across both roles.
func (t *TargetsConfig) Validate() error {
	seen := make(map[string]string)
	check := func(role string, list []TargetConfig) error {
		for i, tc := range list {
			name := strings.TrimSpace(tc.Name)
			if name == "" {
				return fmt.Errorf("config: targets.%s[%d].name is required", role, i)
			}
			if strings.ContainsAny(name, `/\`) {
				return fmt.Errorf("config: target name %q must not contain path separators", name)
			}
			if tc.Config == "" {
				return fmt.Errorf("config: target %q has no docking configuration file", name)
			}
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("config: target %q listed twice (%s and %s)", name, prev, role)
			}
			seen[name] = role
		}
		return nil
	}
	if err := check("on_target", t.OnTarget); err != nil {
		return err
	}
	return check("off_target", t.OffTarget)
}

// Validate checks the docking section.
func (d *DockingConfig) Validate() error {
	if d.Binary == "" {
		return fmt.Errorf("config: docking.binary is required")
	}
	if d.Concurrency < 1 {
		return fmt.Errorf("config: docking.concurrency must be >= 1, got %d", d.Concurrency)
	}
	if d.JobTimeout < 0 {
		return fmt.Errorf("config: docking.job_timeout must not be negative")
	}
	if strings.Contains(d.LigandExt, ".") || strings.Contains(d.LogExt, ".") {
		return fmt.Errorf("config: docking.ligand_ext and docking.log_ext must not contain a dot")
	}
	return nil
}

// Validate checks the preparation section.
func (p *PreparationConfig) Validate() error {
	switch p.Validator {
	case ValidatorSyntax:
	case ValidatorCommand:
		if len(p.ValidatorCommand) == 0 {
			return fmt.Errorf("config: preparation.validator_command is required for the command validator")
		}
	default:
		return fmt.Errorf("config: unknown preparation.validator %q", p.Validator)
	}
	if p.Concurrency < 1 {
		return fmt.Errorf("config: preparation.concurrency must be >= 1, got %d", p.Concurrency)
	}
	return nil
}

// Validate checks the log section.
func (l *LogConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", l.Level)
	}
	switch l.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log.format %q", l.Format)
	}
	return nil
}

// Validate checks the MinIO section; it is ignored unless enabled.
func (m *MinIOConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Endpoint == "" || m.Bucket == "" {
		return fmt.Errorf("config: storage.minio.endpoint and storage.minio.bucket are required when enabled")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolved paths
// ─────────────────────────────────────────────────────────────────────────────

// Layout is the fully-resolved campaign filesystem layout.  Every path used by
// the pipeline is derived from it so that no component re-derives paths from
// raw configuration.
type Layout struct {
	Root              string
	LigandsDir        string
	PosesDir          string
	LogsDir           string
	PoseviewDir       string
	MoleculesCSV      string
	PrioritizationCSV string
	LigandExt         string
	LogExt            string
}

// Paths resolves the data section against data.root.
func (c *Config) Paths() Layout {
	root := filepath.Clean(c.Data.Root)
	return Layout{
		Root:              root,
		LigandsDir:        resolve(root, c.Data.LigandsDir),
		PosesDir:          resolve(root, c.Data.PosesDir),
		LogsDir:           resolve(root, c.Data.LogsDir),
		PoseviewDir:       resolve(root, c.Data.PoseviewDir),
		MoleculesCSV:      resolve(root, c.Data.MoleculesCSV),
		PrioritizationCSV: resolve(root, c.Data.PrioritizationCSV),
		LigandExt:         c.Docking.LigandExt,
		LogExt:            c.Docking.LogExt,
	}
}

// ResolvePath resolves p against data.root unless it is already absolute.
func (c *Config) ResolvePath(p string) string {
	if p == "" {
		return ""
	}
	return resolve(filepath.Clean(c.Data.Root), p)
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// LigandPath is the prepared ligand file of a molecule.
func (l Layout) LigandPath(id string) string {
	return filepath.Join(l.LigandsDir, id+"."+l.LigandExt)
}

// PoseDir is the directory of docked poses for a target.
func (l Layout) PoseDir(target string) string {
	return filepath.Join(l.PosesDir, target)
}

// PosePath is the docked pose file of a molecule against a target.
func (l Layout) PosePath(target, id string) string {
	return filepath.Join(l.PoseDir(target), id+"."+l.LigandExt)
}

// LogDir is the directory of engine logs for a target.  The target's summary
// table is written next to the logs.
func (l Layout) LogDir(target string) string {
	return filepath.Join(l.LogsDir, target)
}

// LogPath is the engine log of a molecule against a target.
func (l Layout) LogPath(target, id string) string {
	return filepath.Join(l.LogDir(target), id+"."+l.LogExt)
}

// PoseviewPath is the exported SDF of a molecule's pose against a target.
func (l Layout) PoseviewPath(target, id string) string {
	return filepath.Join(l.PoseviewDir, target, id+".sdf")
}

//Personal.AI order the ending
