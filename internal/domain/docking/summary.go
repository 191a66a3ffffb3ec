package docking

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/pkg/errors"
)

const (
	// SummaryFileName is the per-target summary table written into the log
	// directory.  It is never read back as a log.
	SummaryFileName = "summary.csv"

	// IDColumn names the identifier column of every table the pipeline writes.
	IDColumn = "uuid"

	// NumValueColumns is the number of numeric columns of a summary row.
	NumValueColumns = 3 * MaxPoses

	affinityPrefix = "affin_kcal_mol-1_"
	rmsdLBPrefix   = "best_dist_rmsd_lb_"
	rmsdUBPrefix   = "best_dist_rmsd_ub_"
)

// SummaryColumns returns the 30 value column names: the affinity group, then
// the lower-bound group, then the upper-bound group, each in numeric rank
// order (rank 10 follows rank 9).
func SummaryColumns() []string {
	cols := make([]string, 0, NumValueColumns)
	for _, prefix := range []string{affinityPrefix, rmsdLBPrefix, rmsdUBPrefix} {
		for rank := 1; rank <= MaxPoses; rank++ {
			cols = append(cols, prefix+strconv.Itoa(rank))
		}
	}
	return cols
}

// AffinityColumns returns the names of the first MaxPoses columns.
func AffinityColumns() []string {
	return SummaryColumns()[:MaxPoses]
}

// ─────────────────────────────────────────────────────────────────────────────
// SummaryTable
// ─────────────────────────────────────────────────────────────────────────────

// SummaryRow is one molecule's flattened pose record.
type SummaryRow struct {
	ID     string
	Values [NumValueColumns]float64
}

// Record converts the row back into a PoseRecord.
func (r SummaryRow) Record() PoseRecord {
	return RecordFromValues(r.Values)
}

// Affinities returns the MaxPoses affinity values.
func (r SummaryRow) Affinities() []float64 {
	return append([]float64(nil), r.Values[:MaxPoses]...)
}

// SummaryTable is the per-target result table, one row per molecule with at
// least one reported pose, sorted by identifier.
type SummaryTable struct {
	rows []SummaryRow
}

// NewSummaryTable builds a table from rows, keeping the first row of each
// identifier and sorting by identifier.
func NewSummaryTable(rows []SummaryRow) SummaryTable {
	seen := make(map[string]struct{}, len(rows))
	out := make([]SummaryRow, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return SummaryTable{rows: out}
}

// Len returns the number of rows.
func (t SummaryTable) Len() int { return len(t.rows) }

// Rows returns a copy of the rows.
func (t SummaryTable) Rows() []SummaryRow {
	return append([]SummaryRow(nil), t.rows...)
}

// IDs returns the identifiers in table order.
func (t SummaryTable) IDs() []string {
	ids := make([]string, len(t.rows))
	for i, r := range t.rows {
		ids[i] = r.ID
	}
	return ids
}

// Get returns the row of id.
func (t SummaryTable) Get(id string) (SummaryRow, bool) {
	i := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].ID >= id })
	if i < len(t.rows) && t.rows[i].ID == id {
		return t.rows[i], true
	}
	return SummaryRow{}, false
}

// BestAffinities returns the rank-1 affinity of every row, skipping NaN.
func (t SummaryTable) BestAffinities() []float64 {
	out := make([]float64, 0, len(t.rows))
	for _, r := range t.rows {
		if v := r.Values[0]; !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Building from logs
// ─────────────────────────────────────────────────────────────────────────────

// BuildReport counts what BuildSummary did with each log file.
type BuildReport struct {
	Files      int      `json:"files" yaml:"files"`
	Included   int      `json:"included" yaml:"included"`
	Empty      int      `json:"empty" yaml:"empty"`
	NoPoses    int      `json:"no_poses" yaml:"no_poses"`
	Malformed  int      `json:"malformed" yaml:"malformed"`
	Duplicates int      `json:"duplicates" yaml:"duplicates"`
	Excluded   []string `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// BuildSummary parses every regular file in logDir except the summary table
// itself, in lexical filename order.  Short logs, logs without poses and
// malformed logs are excluded and counted; a molecule whose identifier was
// already seen keeps its first log.  A missing logDir yields an empty table.
func BuildSummary(logDir string, logger logging.Logger) (SummaryTable, BuildReport, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	var report BuildReport

	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return SummaryTable{}, report, nil
		}
		return SummaryTable{}, report, errors.Wrap(err, errors.CodeIO, "list log directory").WithDetail("dir=" + logDir)
	}

	seen := make(map[string]struct{})
	var rows []SummaryRow
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == SummaryFileName {
			continue
		}
		id := IdentifierFromFilename(e.Name())
		if id == "" {
			continue
		}
		report.Files++

		rec, ok, err := ParseLogFile(filepath.Join(logDir, e.Name()))
		switch {
		case err != nil:
			report.Malformed++
			report.Excluded = append(report.Excluded, id)
			logger.Warn("excluding malformed log", logging.String("file", e.Name()), logging.Err(err))
			continue
		case !ok:
			report.Empty++
			report.Excluded = append(report.Excluded, id)
			logger.Debug("excluding short log", logging.String("file", e.Name()))
			continue
		case rec.Reported() == 0:
			report.NoPoses++
			report.Excluded = append(report.Excluded, id)
			logger.Debug("excluding log without poses", logging.String("file", e.Name()))
			continue
		}
		if _, dup := seen[id]; dup {
			report.Duplicates++
			logger.Warn("duplicate log for molecule, keeping first", logging.String("file", e.Name()))
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, SummaryRow{ID: id, Values: rec.Flatten()})
		report.Included++
	}
	return NewSummaryTable(rows), report, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CSV persistence
// ─────────────────────────────────────────────────────────────────────────────

// WriteSummaryCSV writes the table with the identifier column first and NaN
// as an empty cell.
func WriteSummaryCSV(w io.Writer, t SummaryTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{IDColumn}, SummaryColumns()...)); err != nil {
		return errors.Wrap(err, errors.CodeIO, "write summary header")
	}
	rec := make([]string, 1+NumValueColumns)
	for _, r := range t.rows {
		rec[0] = r.ID
		for i, v := range r.Values {
			rec[i+1] = FormatFloat(v)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, errors.CodeIO, "write summary row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeIO, "flush summary")
	}
	return nil
}

// WriteSummary writes the table to dir/summary.csv, replacing any previous
// table atomically.
func WriteSummary(dir string, t SummaryTable) (string, error) {
	path := filepath.Join(dir, SummaryFileName)
	err := WriteFileAtomic(path, func(w io.Writer) error { return WriteSummaryCSV(w, t) })
	return path, err
}

// ReadSummaryCSV parses a summary table.  Columns are located by name, so
// extra columns (such as a leading index) are ignored; empty cells and "nan"
// read as NaN.
func ReadSummaryCSV(r io.Reader) (SummaryTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return SummaryTable{}, errors.Wrap(err, errors.CodeSummaryRead, "malformed summary table")
	}
	if len(records) == 0 {
		return SummaryTable{}, errors.New(errors.CodeSummaryRead, "summary table has no header")
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[h] = i
	}
	idIdx, ok := index[IDColumn]
	if !ok {
		return SummaryTable{}, errors.Newf(errors.CodeSummaryRead, "summary table has no %q column", IDColumn)
	}
	var colIdx [NumValueColumns]int
	for i, name := range SummaryColumns() {
		j, ok := index[name]
		if !ok {
			return SummaryTable{}, errors.Newf(errors.CodeSummaryRead, "summary table has no %q column", name)
		}
		colIdx[i] = j
	}

	rows := make([]SummaryRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			return SummaryTable{}, errors.Newf(errors.CodeSummaryRead, "row %d has %d fields", n+2, len(rec))
		}
		row := SummaryRow{ID: rec[idIdx]}
		for i, j := range colIdx {
			v, err := ParseFloat(rec[j])
			if err != nil {
				return SummaryTable{}, errors.Wrap(err, errors.CodeSummaryRead, "malformed value").
					WithDetail(fmt.Sprintf("row=%d column=%s", n+2, records[0][j]))
			}
			row.Values[i] = v
		}
		rows = append(rows, row)
	}
	return NewSummaryTable(rows), nil
}

// ReadSummary loads a summary table from path.
func ReadSummary(path string) (SummaryTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SummaryTable{}, errors.Wrap(err, errors.CodeNotFound, "summary table not found").WithDetail("path=" + path)
		}
		return SummaryTable{}, errors.Wrap(err, errors.CodeIO, "open summary table").WithDetail("path=" + path)
	}
	defer f.Close()
	return ReadSummaryCSV(f)
}

//Personal.AI order the ending
