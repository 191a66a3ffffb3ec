package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/turtacn/tinydock/pkg/errors"
)

// envPrefix is the environment variable prefix of every setting, e.g.
// TINYDOCK_DOCKING_CONCURRENCY or TINYDOCK_DATA_ROOT.
const envPrefix = "TINYDOCK"

// SearchPaths lists the configuration files tried, in order, when no explicit
// path is given.
func SearchPaths() []string {
	paths := []string{"tinydock.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tinydock", "config.yaml"))
	}
	return append(paths, "/etc/tinydock/config.yaml")
}

// newViper builds a Viper instance with YAML parsing, TINYDOCK_ env binding and
// a "." → "_" key replacer.  Scalar keys are registered as defaults so that
// environment overrides are honoured even when the file omits the key.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("data.root", d.Data.Root)
	v.SetDefault("data.ligands_dir", d.Data.LigandsDir)
	v.SetDefault("data.poses_dir", d.Data.PosesDir)
	v.SetDefault("data.logs_dir", d.Data.LogsDir)
	v.SetDefault("data.poseview_dir", d.Data.PoseviewDir)
	v.SetDefault("data.molecules_csv", d.Data.MoleculesCSV)
	v.SetDefault("data.prioritization_csv", d.Data.PrioritizationCSV)
	v.SetDefault("data.smiles_column", d.Data.SmilesColumn)
	v.SetDefault("data.id_column", d.Data.IDColumn)
	v.SetDefault("docking.binary", d.Docking.Binary)
	v.SetDefault("docking.ligand_ext", d.Docking.LigandExt)
	v.SetDefault("docking.log_ext", d.Docking.LogExt)
	v.SetDefault("docking.concurrency", d.Docking.Concurrency)
	v.SetDefault("docking.job_timeout", d.Docking.JobTimeout)
	v.SetDefault("preparation.converter", d.Preparation.Converter)
	v.SetDefault("preparation.validator", d.Preparation.Validator)
	v.SetDefault("preparation.conversion_timeout", d.Preparation.ConversionTimeout)
	v.SetDefault("preparation.concurrency", d.Preparation.Concurrency)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("storage.minio.enabled", false)
	v.SetDefault("storage.minio.endpoint", d.Storage.MinIO.Endpoint)
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.bucket", d.Storage.MinIO.Bucket)
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.prefix", "")
	v.SetDefault("storage.minio.region", "")
	return v
}

// Load reads the YAML file at configPath, merges TINYDOCK_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigRead, "failed to read config file").
			WithDetail("path=" + configPath)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from TINYDOCK_* environment variables and
// defaults only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// Discover loads the first existing file of SearchPaths, falling back to
// LoadFromEnv when none exists.  It returns the path used, empty for none.
func Discover() (*Config, string, error) {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			cfg, err := Load(p)
			return cfg, p, err
		}
	}
	cfg, err := LoadFromEnv()
	return cfg, "", err
}

// LoadBytes parses an in-memory YAML document.  Environment overrides still
// apply.
func LoadBytes(data []byte) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(strings.NewReader(string(data))); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigRead, "failed to parse configuration")
	}
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "failed to unmarshal configuration")
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "validation failed")
	}

	return cfg, nil
}

//Personal.AI order the ending
