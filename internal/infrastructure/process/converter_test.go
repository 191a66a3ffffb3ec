package process_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/tinydock/internal/infrastructure/process"
	"github.com/turtacn/tinydock/internal/testutil"
	"github.com/turtacn/tinydock/pkg/errors"
)

func TestSmilesToLigandArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-:CCO", "-ismi", "-opdbqt", "-O", "/l/994595c7.pdbqt", "--gen3d", "-h"},
		process.SmilesToLigandArgs("CCO", "/l/994595c7.pdbqt"))
}

func TestPoseToSDFArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"/p/a.pdbqt", "-ipdbqt", "-osdf", "-O", "/v/a.sdf"},
		process.PoseToSDFArgs("/p/a.pdbqt", "/v/a.sdf"))
}

func TestConverter_SmilesToLigand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ligands", "994595c7.pdbqt")
	r := &testutil.FakeRunner{Handler: func(_ context.Context, c testutil.Call) error {
		return testutil.WriteFile(c.Flag("-O"), "ATOM\n")
	}}

	c := process.NewConverter(r, "", 0)
	require.NoError(t, c.SmilesToLigand(context.Background(), "CCO", out))

	calls := r.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "obabel", calls[0].Name)
	assert.FileExists(t, out)
}

func TestConverter_FailureRemovesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.pdbqt")
	r := &testutil.FakeRunner{Handler: func(_ context.Context, c testutil.Call) error {
		_ = testutil.WriteFile(c.Flag("-O"), "partial")
		return stderrors.New("exit status 1")
	}}

	err := process.NewConverter(r, "obabel", 0).SmilesToLigand(context.Background(), "C1CC", out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConversionFailed))
	assert.NoFileExists(t, out)
}

func TestConverter_EmptyOutputIsFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.pdbqt")
	r := &testutil.FakeRunner{Handler: func(_ context.Context, c testutil.Call) error {
		return testutil.WriteFile(c.Flag("-O"), "")
	}}

	err := process.NewConverter(r, "obabel", 0).SmilesToLigand(context.Background(), "CCO", out)
	assert.True(t, errors.IsCode(err, errors.CodeConversionFailed))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConverter_PoseToSDF(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "poses", "a.pdbqt")
	out := filepath.Join(dir, "poseview", "drd2", "a.sdf")

	r := &testutil.FakeRunner{Handler: func(_ context.Context, c testutil.Call) error {
		return testutil.WriteFile(c.Flag("-O"), "sdf")
	}}
	c := process.NewConverter(r, "obabel", 0)

	err := c.PoseToSDF(context.Background(), in, out)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	require.NoError(t, testutil.WriteFile(in, "MODEL 1\n"))
	require.NoError(t, c.PoseToSDF(context.Background(), in, out))
	assert.FileExists(t, out)
}

//Personal.AI order the ending
