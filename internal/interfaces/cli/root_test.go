package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/tinydock/internal/application/campaign"
	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/internal/infrastructure/storage/minio"
	"github.com/turtacn/tinydock/internal/testutil"
	"github.com/turtacn/tinydock/pkg/errors"
)

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "tinydock", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{
		"prepare", "dock", "summarize", "prioritize", "run", "stats", "export-poses", "publish", "version",
	}, names)
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	pf := NewRootCommand().PersistentFlags()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"config", "c", ""},
		{"log-level", "", ""},
		{"output", "o", "text"},
		{"verbose", "v", "false"},
		{"timeout", "", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := pf.Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func TestDockFlags(t *testing.T) {
	cmd := NewRootCommand()
	dock, _, err := cmd.Find([]string{"dock"})
	require.NoError(t, err)
	for _, name := range []string{"target", "rewrite", "fraction", "seed", "selector"} {
		assert.NotNil(t, dock.Flags().Lookup(name), name)
	}
	export, _, err := cmd.Find([]string{"export-poses"})
	require.NoError(t, err)
	assert.Equal(t, "10", export.Flags().Lookup("top").DefValue)
}

func TestVersionCmd_Output(t *testing.T) {
	old := Version
	Version = "1.2.3"
	defer func() { Version = old }()

	out, _, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestInvalidOutputFormat(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")
	_, _, err := execute(t, nil, "--config", path, "-o", "xml", "prioritize")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := execute(t, nil, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "stats")
	assert.True(t, errors.IsCode(err, errors.CodeConfigRead))
}

// ─────────────────────────────────────────────────────────────────────────────
// End to end through the command tree
// ─────────────────────────────────────────────────────────────────────────────

func TestCampaignCommands(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfig(t, root, "metrics:\n  enabled: true\n  textfile: tinydock.prom\n")
	input := filepath.Join(root, "input.csv")
	require.NoError(t, testutil.WriteFile(input, "smiles\nCCO\nc1ccccc1\nC1CC\n"))
	runner := fakeEngines()

	out, _, err := execute(t, runner, "--config", cfgPath, "-o", "json", "prepare", "--input", input)
	require.NoError(t, err)
	var prep campaign.PrepareResult
	require.NoError(t, json.Unmarshal([]byte(out), &prep))
	assert.Equal(t, 2, prep.Converted)
	assert.Equal(t, 1, prep.Invalid)

	out, _, err = execute(t, runner, "--config", cfgPath, "-o", "json", "run")
	require.NoError(t, err)
	var run campaign.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, 4, run.Dock.Succeeded)
	require.Len(t, run.Prioritize.Top, 2)
	assert.Equal(t, "994595c7", run.Prioritize.Top[0].ID)

	prom, err := os.ReadFile(filepath.Join(root, "tinydock.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `tinydock_docking_jobs_total{outcome="success",target="off1"} 2`)

	out, _, err = execute(t, runner, "--config", cfgPath, "-o", "yaml", "prioritize")
	require.NoError(t, err)
	assert.Contains(t, out, "uuid: 994595c7")

	out, _, err = execute(t, runner, "--config", cfgPath, "-o", "table", "stats", "--target", "on1")
	require.NoError(t, err)
	assert.Contains(t, out, "on1")
	assert.Contains(t, out, "-7.000")
	assert.NotContains(t, out, "off1")

	out, _, err = execute(t, runner, "--config", cfgPath, "export-poses", "--top", "1", "-t", "on1")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("poseview", "on1", "994595c7.sdf"))
}

func TestPublishCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, testutil.WriteFile(filepath.Join(root, "molecules.csv"), "smiles,uuid\nCCO,994595c7\n"))

	t.Run("disabled", func(t *testing.T) {
		path := writeConfig(t, root, "")
		_, _, err := execute(t, nil, "--config", path, "publish")
		assert.True(t, errors.IsCode(err, errors.CodeConfigInvalid))
	})

	t.Run("enabled", func(t *testing.T) {
		path := writeConfig(t, root, "storage:\n  minio:\n    enabled: true\n")
		up := &stubUploader{}
		_, _, err := execute(t, nil, "--config", path, "-o", "json", "publish", WithUploader(up))
		require.NoError(t, err)
		assert.Equal(t, []string{"molecules.csv"}, up.keys)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

type stubUploader struct{ keys []string }

func (s *stubUploader) UploadFile(_ context.Context, _, key, _ string, _ map[string]string) (*minio.UploadResult, error) {
	s.keys = append(s.keys, key)
	return &minio.UploadResult{Bucket: "tinydock", ObjectKey: key}, nil
}

// execute runs the command tree with args.  Trailing Option values in args
// are applied to the root command.
func execute(t *testing.T, runner *testutil.FakeRunner, args ...interface{}) (string, string, error) {
	t.Helper()
	opts := []Option{WithLogger(logging.NewNopLogger())}
	if runner != nil {
		opts = append(opts, WithRunner(runner))
	}
	var argv []string
	for _, a := range args {
		switch v := a.(type) {
		case string:
			argv = append(argv, v)
		case Option:
			opts = append(opts, v)
		}
	}

	cmd := NewRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(argv)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, root, extra string) string {
	t.Helper()
	path := filepath.Join(root, fmt.Sprintf("tinydock-%d.yaml", len(extra)))
	content := fmt.Sprintf(`data:
  root: %s
targets:
  on_target:
    - name: on1
      config: on1.txt
  off_target:
    - name: off1
      config: off1.txt
docking:
  concurrency: 2
%s`, root, extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fakeEngines emulates the converter and the docking engine.  Ethanol binds
// on1 at -8 and off1 at -7; benzene binds on1 at -6 and off1 at -2.
func fakeEngines() *testutil.FakeRunner {
	affinity := map[string]map[string]float64{
		"on1.txt":  {"994595c7": -8, "2858c15f": -6},
		"off1.txt": {"994595c7": -7, "2858c15f": -2},
	}
	return &testutil.FakeRunner{Handler: func(_ context.Context, c testutil.Call) error {
		if c.Name == "obabel" {
			return testutil.WriteFile(c.Flag("-O"), "converted\n")
		}
		id := docking.IdentifierFromFilename(filepath.Base(c.Flag("--ligand")))
		aff := affinity[filepath.Base(c.Flag("--config"))][id]
		if err := testutil.WriteFile(c.Flag("--log"), testutil.VinaLog(fmt.Sprintf("1 %g 0 0", aff))); err != nil {
			return err
		}
		return testutil.WriteFile(c.Flag("--out"), "MODEL 1\n")
	}}
}

//Personal.AI order the ending
