package molecule

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/tinydock/pkg/errors"
)

// Table is a tabular molecule collection read from CSV.  Columns other than
// the structure and identifier columns are carried through untouched.
type Table struct {
	SmilesColumn string
	IDColumn     string

	header []string
	rows   [][]string
	smiIdx int
	idIdx  int
}

// NewTable builds a Table from molecules with just the identifier and
// structure columns.
func NewTable(mols []Molecule, smilesColumn, idColumn string) *Table {
	t := &Table{
		SmilesColumn: smilesColumn,
		IDColumn:     idColumn,
		header:       []string{idColumn, smilesColumn},
		idIdx:        0,
		smiIdx:       1,
	}
	for _, m := range mols {
		t.rows = append(t.rows, []string{m.ID, m.SMILES})
	}
	return t
}

// ReadTable parses CSV from r.  The structure column must be present; the
// identifier column is optional (see EnsureIdentifiers).
func ReadTable(r io.Reader, smilesColumn, idColumn string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeTableRead, "malformed molecule table")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.CodeMoleculeTableRead, "molecule table has no header")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{
		SmilesColumn: smilesColumn,
		IDColumn:     idColumn,
		header:       header,
		smiIdx:       indexOf(header, smilesColumn),
		idIdx:        indexOf(header, idColumn),
	}
	if t.smiIdx < 0 {
		return nil, errors.Newf(errors.CodeMoleculeTableRead, "molecule table has no %q column", smilesColumn)
	}

	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, errors.Newf(errors.CodeMoleculeTableRead,
				"row %d has %d fields, header has %d", i+2, len(rec), len(header))
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// ReadTableFile opens path and calls ReadTable.
func ReadTableFile(path, smilesColumn, idColumn string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeTableRead, "cannot open molecule table").
			WithDetail("path=" + path)
	}
	defer f.Close()
	return ReadTable(f, smilesColumn, idColumn)
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Header returns a copy of the column names.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// HasIdentifiers reports whether the identifier column is present.
func (t *Table) HasIdentifiers() bool { return t.idIdx >= 0 }

// EnsureIdentifiers appends the identifier column, computed with a, when it is
// missing.  A table that already has the column is left untouched, so calling
// it twice is the same as calling it once.  It reports whether the column was
// added.
func (t *Table) EnsureIdentifiers(a IdentityAssigner) bool {
	if t.HasIdentifiers() {
		return false
	}
	if a == nil {
		a = DefaultAssigner
	}
	t.header = append(t.header, t.IDColumn)
	t.idIdx = len(t.header) - 1
	for i, row := range t.rows {
		t.rows[i] = append(row, a.Assign(row[t.smiIdx]))
	}
	return true
}

// Molecules returns the (identifier, structure) pairs in row order.  The
// identifier is computed with DefaultAssigner when the column is missing.
func (t *Table) Molecules() []Molecule {
	out := make([]Molecule, len(t.rows))
	for i, row := range t.rows {
		smi := row[t.smiIdx]
		var id string
		if t.idIdx >= 0 {
			id = row[t.idIdx]
		} else {
			id = Identifier(smi)
		}
		out[i] = Molecule{ID: id, SMILES: smi}
	}
	return out
}

// IDSet returns the identifiers as a set, for use as a job selector.
func (t *Table) IDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.rows))
	for _, m := range t.Molecules() {
		set[m.ID] = struct{}{}
	}
	return set
}

// Filter returns a new Table with the rows whose identifier satisfies keep.
// The receiver is not modified.
func (t *Table) Filter(keep func(m Molecule) bool) *Table {
	out := &Table{
		SmilesColumn: t.SmilesColumn,
		IDColumn:     t.IDColumn,
		header:       t.Header(),
		smiIdx:       t.smiIdx,
		idIdx:        t.idIdx,
	}
	mols := t.Molecules()
	for i, row := range t.rows {
		if keep(mols[i]) {
			out.rows = append(out.rows, append([]string(nil), row...))
		}
	}
	return out
}

// Dedupe returns a new Table keeping the first row of every identifier.
func (t *Table) Dedupe() *Table {
	seen := make(map[string]struct{}, len(t.rows))
	return t.Filter(func(m Molecule) bool {
		if _, ok := seen[m.ID]; ok {
			return false
		}
		seen[m.ID] = struct{}{}
		return true
	})
}

// Write encodes the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return errors.Wrap(err, errors.CodeIO, "write molecule table")
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return errors.Wrap(err, errors.CodeIO, "write molecule table")
	}
	return nil
}

// WriteFile writes the table to path, creating parent directories.
func (t *Table) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.CodeIO, "create molecule table directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "create molecule table").WithDetail("path=" + path)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//Personal.AI order the ending
