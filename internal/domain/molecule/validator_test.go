package molecule

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/tinydock/pkg/errors"
)

func TestSyntaxValidator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		smiles string
		valid  bool
	}{
		{"CCO", true},
		{"c1ccccc1", true},
		{"CC(=O)Oc1ccccc1C(=O)O", true},
		{"[Na+].[Cl-]", true},
		{"C[C@@H](N)C(=O)O", true},
		{"[13CH4]", true},
		{"C%12CCCCC%12", true},
		{"C1CC2CCCCC2CC1", true},
		{"", false},
		{"   ", false},
		{"C1CC", false},
		{"CC(C", false},
		{"CC)C", false},
		{"[NH4+", false},
		{"C[N(H)]", false},
		{"C%1CC", false},
		{"CC O", false},
		{"CC&O", false},
	}

	v := SyntaxValidator{}
	for _, tc := range cases {
		err := v.Validate(context.Background(), tc.smiles)
		if tc.valid {
			assert.NoError(t, err, "smiles %q", tc.smiles)
			continue
		}
		require.Error(t, err, "smiles %q", tc.smiles)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidStructure), "smiles %q", tc.smiles)
	}
}

type stubRunner struct {
	err  error
	name string
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) error {
	s.name = name
	s.args = args
	return s.err
}

func TestCommandValidator(t *testing.T) {
	t.Parallel()

	r := &stubRunner{}
	v := CommandValidator{Runner: r, Command: []string{"obabel", "-ismi", "-:"}}
	require.NoError(t, v.Validate(context.Background(), "CCO"))
	assert.Equal(t, "obabel", r.name)
	assert.Equal(t, []string{"-ismi", "-:", "CCO"}, r.args)

	r.err = stderrors.New("exit status 1")
	err := v.Validate(context.Background(), "C1CC")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidStructure))

	err = v.Validate(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidStructure))

	err = CommandValidator{Runner: r}.Validate(context.Background(), "CCO")
	assert.True(t, errors.IsCode(err, errors.CodeConfigInvalid))
}

func TestCommandValidator_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := CommandValidator{Runner: &stubRunner{err: stderrors.New("killed")}, Command: []string{"check"}}
	err := v.Validate(ctx, "CCO")
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending
