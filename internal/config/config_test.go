package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/tinydock/internal/config"
)

func validConfig() *config.Config {
	cfg := config.Default()
	cfg.Data.Root = "/data/campaign"
	cfg.Targets.OnTarget = []config.TargetConfig{{Name: "drd2", Config: "configs/drd2.txt", Receptor: "receptors/drd2.pdbqt"}}
	cfg.Targets.OffTarget = []config.TargetConfig{{Name: "ccr2", Config: "configs/ccr2.txt"}}
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty root", func(c *config.Config) { c.Data.Root = " " }, "data.root"},
		{"same columns", func(c *config.Config) { c.Data.IDColumn = c.Data.SmilesColumn }, "must differ"},
		{"unnamed target", func(c *config.Config) { c.Targets.OnTarget[0].Name = "" }, "on_target[0].name"},
		{"target without config", func(c *config.Config) { c.Targets.OffTarget[0].Config = "" }, "no docking configuration"},
		{"target with separator", func(c *config.Config) { c.Targets.OnTarget[0].Name = "a/b" }, "path separators"},
		{"duplicate across roles", func(c *config.Config) { c.Targets.OffTarget[0].Name = "drd2" }, "listed twice"},
		{"zero concurrency", func(c *config.Config) { c.Docking.Concurrency = 0 }, "docking.concurrency"},
		{"negative timeout", func(c *config.Config) { c.Docking.JobTimeout = -1 }, "job_timeout"},
		{"dotted extension", func(c *config.Config) { c.Docking.LigandExt = ".pdbqt" }, "must not contain a dot"},
		{"unknown validator", func(c *config.Config) { c.Preparation.Validator = "rdkit" }, "preparation.validator"},
		{"command validator without command", func(c *config.Config) { c.Preparation.Validator = config.ValidatorCommand }, "validator_command"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
		{"minio without bucket", func(c *config.Config) {
			c.Storage.MinIO.Enabled = true
			c.Storage.MinIO.Bucket = ""
		}, "storage.minio"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_Validate_Nil(t *testing.T) {
	t.Parallel()
	var cfg *config.Config
	assert.Error(t, cfg.Validate())
}

func TestConfig_Paths(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Data.PosesDir = "/scratch/poses"
	l := cfg.Paths()

	assert.Equal(t, "/data/campaign", l.Root)
	assert.Equal(t, filepath.Join("/data/campaign", "ligands", "994595c7.pdbqt"), l.LigandPath("994595c7"))
	assert.Equal(t, filepath.Join("/scratch/poses", "drd2", "994595c7.pdbqt"), l.PosePath("drd2", "994595c7"))
	assert.Equal(t, filepath.Join("/data/campaign", "logs", "drd2"), l.LogDir("drd2"))
	assert.Equal(t, filepath.Join("/data/campaign", "logs", "drd2", "994595c7.txt"), l.LogPath("drd2", "994595c7"))
	assert.Equal(t, filepath.Join("/data/campaign", "poseview", "ccr2", "994595c7.sdf"), l.PoseviewPath("ccr2", "994595c7"))
	assert.Equal(t, filepath.Join("/data/campaign", "prioritization.csv"), l.PrioritizationCSV)
	assert.Equal(t, filepath.Join("/data/campaign", "molecules.csv"), l.MoleculesCSV)
}

func TestConfig_ResolvePath(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	assert.Equal(t, "/data/campaign/configs/drd2.txt", cfg.ResolvePath("configs/drd2.txt"))
	assert.Equal(t, "/etc/vina/ccr2.txt", cfg.ResolvePath("/etc/vina/ccr2.txt"))
	assert.Empty(t, cfg.ResolvePath(""))
}

//Personal.AI order the ending
