package molecule

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/turtacn/tinydock/pkg/errors"
)

// Validator decides whether a structure string describes a usable molecule.
// Invalid structures are reported as CodeInvalidStructure errors.
type Validator interface {
	Validate(ctx context.Context, smiles string) error
}

// ─────────────────────────────────────────────────────────────────────────────
// SyntaxValidator
// ─────────────────────────────────────────────────────────────────────────────

// smilesCharset is the set of characters allowed in a SMILES string.
var smilesCharset = regexp.MustCompile(`^[A-Za-z0-9@+\-\[\]()=#$:/\\%.*]+$`)

// SyntaxValidator performs a purely lexical check: allowed characters,
// balanced parentheses and brackets, and paired ring-closure labels.  It does
// not perceive valence or aromaticity.
type SyntaxValidator struct{}

// Validate implements Validator.
func (SyntaxValidator) Validate(_ context.Context, smiles string) error {
	if strings.TrimSpace(smiles) == "" {
		return errors.InvalidStructure(smiles).WithCause(fmt.Errorf("empty structure"))
	}
	if !smilesCharset.MatchString(smiles) {
		return errors.InvalidStructure(smiles).WithCause(fmt.Errorf("unexpected character"))
	}
	if err := validateBrackets(smiles); err != nil {
		return errors.InvalidStructure(smiles).WithCause(err)
	}
	if err := validateRingClosures(smiles); err != nil {
		return errors.InvalidStructure(smiles).WithCause(err)
	}
	return nil
}

func validateBrackets(smiles string) error {
	var stack []rune
	closers := map[rune]rune{
		')': '(',
		']': '[',
	}

	for _, ch := range smiles {
		switch ch {
		case '(', '[':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				return fmt.Errorf("nested bracket atom")
			}
			stack = append(stack, ch)
		case ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != closers[ch] {
				return fmt.Errorf("unmatched %q", ch)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) != 0 {
		return fmt.Errorf("unclosed %q", stack[len(stack)-1])
	}
	return nil
}

// validateRingClosures checks that every ring-bond label outside bracket
// atoms (a single digit, or % followed by two digits) occurs an even number of
// times.
func validateRingClosures(smiles string) error {
	open := make(map[string]bool)
	inBracket := false
	for i := 0; i < len(smiles); i++ {
		ch := smiles[i]
		switch {
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == '%':
			if i+2 >= len(smiles) || !isDigit(smiles[i+1]) || !isDigit(smiles[i+2]) {
				return fmt.Errorf("malformed ring label at offset %d", i)
			}
			label := smiles[i+1 : i+3]
			open[label] = !open[label]
			i += 2
		case isDigit(ch):
			label := string(ch)
			open[label] = !open[label]
		}
	}
	for label, unpaired := range open {
		if unpaired {
			return fmt.Errorf("unclosed ring %s", label)
		}
	}
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ─────────────────────────────────────────────────────────────────────────────
// CommandValidator
// ─────────────────────────────────────────────────────────────────────────────

// CommandRunner runs an external program and reports a non-zero exit as an
// error.  process.ExecRunner satisfies it.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// CommandValidator delegates the decision to an external checker invoked as
// Command[0] Command[1:]... <smiles>.  Exit status 0 means valid.
type CommandValidator struct {
	Runner  CommandRunner
	Command []string
}

// Validate implements Validator.
func (v CommandValidator) Validate(ctx context.Context, smiles string) error {
	if len(v.Command) == 0 {
		return errors.InvalidConfig("validator command is empty")
	}
	if strings.TrimSpace(smiles) == "" {
		return errors.InvalidStructure(smiles).WithCause(fmt.Errorf("empty structure"))
	}
	args := append(append([]string(nil), v.Command[1:]...), smiles)
	if err := v.Runner.Run(ctx, v.Command[0], args...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.InvalidStructure(smiles).WithCause(err)
	}
	return nil
}

//Personal.AI order the ending
