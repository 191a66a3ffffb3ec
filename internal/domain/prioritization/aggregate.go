// Package prioritization combines per-target summary tables into a single
// ranked table.  On-targets reward a molecule through the mean of their
// per-target mean affinities; off-targets penalise it through the algebraic
// maximum of theirs.
package prioritization

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/pkg/errors"
)

// Columns of the prioritization table, in output order.
var Columns = []string{docking.IDColumn, "on_target_mean", "off_target_max", "objective"}

// Row is one ranked molecule.
type Row struct {
	ID           string             `json:"uuid" yaml:"uuid"`
	OnTargetMean float64            `json:"on_target_mean" yaml:"on_target_mean"`
	OffTargetMax float64            `json:"off_target_max" yaml:"off_target_max"`
	Objective    float64            `json:"objective" yaml:"objective"`
	PerTarget    map[string]float64 `json:"per_target,omitempty" yaml:"per_target,omitempty"`
}

// Table is the ranked result of Aggregate: objective descending, identifier
// ascending on ties.
type Table struct {
	Rows []Row `json:"rows" yaml:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Top returns at most n leading rows.  n <= 0 returns every row.
func (t *Table) Top(n int) []Row {
	if n <= 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregation
// ─────────────────────────────────────────────────────────────────────────────

// Aggregate ranks the molecules present in every summary of on and off.
//
// For each target the per-molecule mean is taken over the reported affinity
// slots only.  A molecule absent from any target, or with no reported slot,
// is dropped.  Both roles must name at least one target and every summary
// must have rows; otherwise a CodeTargetMissing error names the target.
func Aggregate(on, off map[string]docking.SummaryTable) (*Table, error) {
	if len(on) == 0 {
		return nil, errors.MissingTarget("on_target", "no on-target summaries")
	}
	if len(off) == 0 {
		return nil, errors.MissingTarget("off_target", "no off-target summaries")
	}

	onMeans, onNames, err := perTargetMeans(on)
	if err != nil {
		return nil, err
	}
	offMeans, offNames, err := perTargetMeans(off)
	if err != nil {
		return nil, err
	}

	onJoined := innerJoin(onMeans, onNames)
	offJoined := innerJoin(offMeans, offNames)

	ids := make([]string, 0, len(onJoined))
	for id := range onJoined {
		if _, ok := offJoined[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		onVals, offVals := onJoined[id], offJoined[id]
		row := Row{
			ID:           id,
			OnTargetMean: mean(onVals),
			OffTargetMax: maxOf(offVals),
			PerTarget:    make(map[string]float64, len(onNames)+len(offNames)),
		}
		row.Objective = row.OnTargetMean - row.OffTargetMax
		for i, name := range onNames {
			row.PerTarget[name] = onVals[i]
		}
		for i, name := range offNames {
			row.PerTarget[name] = offVals[i]
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Objective != rows[j].Objective {
			return rows[i].Objective > rows[j].Objective
		}
		return rows[i].ID < rows[j].ID
	})
	return &Table{Rows: rows}, nil
}

// perTargetMeans computes, for every target in sorted name order, the mean
// reported affinity of each molecule.
func perTargetMeans(summaries map[string]docking.SummaryTable) ([]map[string]float64, []string, error) {
	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)

	means := make([]map[string]float64, len(names))
	for i, name := range names {
		tbl := summaries[name]
		if tbl.Len() == 0 {
			return nil, nil, errors.MissingTarget(name, "summary is missing or empty")
		}
		m := make(map[string]float64, tbl.Len())
		for _, r := range tbl.Rows() {
			if v := mean(r.Affinities()); !math.IsNaN(v) {
				m[r.ID] = v
			}
		}
		if len(m) == 0 {
			return nil, nil, errors.MissingTarget(name, "summary has no reported affinities")
		}
		means[i] = m
	}
	return means, names, nil
}

// innerJoin keeps identifiers present in every map.  Values are in the order
// of names.
func innerJoin(means []map[string]float64, names []string) map[string][]float64 {
	out := make(map[string][]float64, len(means[0]))
	for id := range means[0] {
		vals := make([]float64, len(names))
		ok := true
		for i, m := range means {
			v, present := m[id]
			if !present {
				ok = false
				break
			}
			vals[i] = v
		}
		if ok {
			out[id] = vals
		}
	}
	return out
}

// mean ignores NaN and returns NaN for no values.
func mean(vals []float64) float64 {
	var sum float64
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func maxOf(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// CSV
// ─────────────────────────────────────────────────────────────────────────────

// WriteCSV writes the table with Columns as the header.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return errors.Wrap(err, errors.CodeIO, "write prioritization header")
	}
	for _, r := range t.Rows {
		rec := []string{
			r.ID,
			docking.FormatFloat(r.OnTargetMean),
			docking.FormatFloat(r.OffTargetMax),
			docking.FormatFloat(r.Objective),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, errors.CodeIO, "write prioritization row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeIO, "flush prioritization")
	}
	return nil
}

// WriteFile replaces path atomically with the CSV encoding of t.
func (t *Table) WriteFile(path string) error {
	return docking.WriteFileAtomic(path, t.WriteCSV)
}

// ReadCSV parses a table written by WriteCSV.  Rows keep their file order;
// PerTarget is not restored.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "malformed prioritization table")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.CodeSerialization, "prioritization table has no header")
	}
	idx := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		idx[h] = i
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, errors.Newf(errors.CodeSerialization, "prioritization table has no %q column", c)
		}
	}

	t := &Table{Rows: make([]Row, 0, len(records)-1)}
	for n, rec := range records[1:] {
		row := Row{ID: rec[idx[docking.IDColumn]]}
		fields := []*float64{&row.OnTargetMean, &row.OffTargetMax, &row.Objective}
		for i, c := range Columns[1:] {
			v, err := docking.ParseFloat(rec[idx[c]])
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeSerialization, "malformed prioritization value").
					WithDetail("row=" + strconv.Itoa(n+2) + " column=" + c)
			}
			*fields[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadFile loads a prioritization table from path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.CodeNotFound, "prioritization table not found").WithDetail("path=" + path)
		}
		return nil, errors.Wrap(err, errors.CodeIO, "open prioritization table").WithDetail("path=" + path)
	}
	defer f.Close()
	return ReadCSV(f)
}

//Personal.AI order the ending
