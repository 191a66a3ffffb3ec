package process

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/turtacn/tinydock/pkg/errors"
)

// Converter drives an Open Babel compatible structure converter.
type Converter struct {
	Runner  Runner
	Binary  string
	Timeout time.Duration
}

// NewConverter creates a Converter.  An empty binary means "obabel".
func NewConverter(r Runner, binary string, timeout time.Duration) *Converter {
	if binary == "" {
		binary = "obabel"
	}
	return &Converter{Runner: r, Binary: binary, Timeout: timeout}
}

// SmilesToLigandArgs builds the arguments converting an inline SMILES string
// into a dockable 3D structure with explicit hydrogens.  The output format is
// taken from the extension of out.
func SmilesToLigandArgs(smiles, out string) []string {
	return []string{"-:" + smiles, "-ismi", "-o" + formatOf(out), "-O", out, "--gen3d", "-h"}
}

// PoseToSDFArgs builds the arguments converting a docked pose file to SDF.
func PoseToSDFArgs(in, out string) []string {
	return []string{in, "-i" + formatOf(in), "-osdf", "-O", out}
}

func formatOf(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "pdbqt"
	}
	return ext[1:]
}

// SmilesToLigand writes the prepared ligand of smiles to out.
func (c *Converter) SmilesToLigand(ctx context.Context, smiles, out string) error {
	return c.convert(ctx, out, SmilesToLigandArgs(smiles, out))
}

// PoseToSDF converts the pose file in to SDF at out.
func (c *Converter) PoseToSDF(ctx context.Context, in, out string) error {
	if _, err := os.Stat(in); err != nil {
		return errors.Wrap(err, errors.CodeNotFound, "pose file missing").WithDetail("path=" + in)
	}
	return c.convert(ctx, out, PoseToSDFArgs(in, out))
}

// convert runs the converter and requires out to exist and be non-empty on
// success.  A failed conversion leaves no output file behind.
func (c *Converter) convert(ctx context.Context, out string, args []string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Wrap(err, errors.CodeIO, "create output directory")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	if err := c.Runner.Run(ctx, c.Binary, args...); err != nil {
		_ = os.Remove(out)
		return errors.Wrap(err, errors.CodeConversionFailed, "conversion failed").WithDetail("out=" + out)
	}
	fi, err := os.Stat(out)
	if err != nil || fi.Size() == 0 {
		_ = os.Remove(out)
		return errors.New(errors.CodeConversionFailed, "converter produced no output").WithDetail("out=" + out)
	}
	return nil
}

//Personal.AI order the ending
