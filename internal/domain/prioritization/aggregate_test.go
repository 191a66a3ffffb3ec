package prioritization

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/pkg/errors"
)

// summary builds a table from id → reported affinities.
func summary(rows map[string][]float64) docking.SummaryTable {
	out := make([]docking.SummaryRow, 0, len(rows))
	for id, affs := range rows {
		r := docking.SummaryRow{ID: id}
		for i := range r.Values {
			r.Values[i] = math.NaN()
		}
		for i, a := range affs {
			r.Values[i] = a
			r.Values[docking.MaxPoses+i] = 0
			r.Values[2*docking.MaxPoses+i] = 0
		}
		out = append(out, r)
	}
	return docking.NewSummaryTable(out)
}

func TestAggregate_Scenario(t *testing.T) {
	on := map[string]docking.SummaryTable{
		"T1": summary(map[string][]float64{"A": {4, 6}, "B": {7}}),
		"T2": summary(map[string][]float64{"A": {3}, "B": {8, 9, 10}}),
	}
	off := map[string]docking.SummaryTable{
		"O1": summary(map[string][]float64{"A": {-2}, "B": {-1}}),
	}

	tbl, err := Aggregate(on, off)
	require.NoError(t, err)

	want := []Row{
		{ID: "B", OnTargetMean: 8, OffTargetMax: -1, Objective: 9,
			PerTarget: map[string]float64{"T1": 7, "T2": 9, "O1": -1}},
		{ID: "A", OnTargetMean: 4, OffTargetMax: -2, Objective: 6,
			PerTarget: map[string]float64{"T1": 5, "T2": 3, "O1": -2}},
	}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_OffTargetTakesAlgebraicMax(t *testing.T) {
	on := map[string]docking.SummaryTable{"T": summary(map[string][]float64{"A": {-9}})}
	off := map[string]docking.SummaryTable{
		"O1": summary(map[string][]float64{"A": {-8}}),
		"O2": summary(map[string][]float64{"A": {-3}}),
	}
	tbl, err := Aggregate(on, off)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, -3.0, tbl.Rows[0].OffTargetMax)
	assert.Equal(t, -6.0, tbl.Rows[0].Objective)
}

func TestAggregate_StrictInnerJoin(t *testing.T) {
	on := map[string]docking.SummaryTable{
		"T1": summary(map[string][]float64{"A": {-5}, "B": {-5}, "C": {-5}}),
		"T2": summary(map[string][]float64{"A": {-5}, "B": {-5}}),
	}
	off := map[string]docking.SummaryTable{
		"O1": summary(map[string][]float64{"B": {-1}, "C": {-1}, "D": {-1}}),
	}
	tbl, err := Aggregate(on, off)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "B", tbl.Rows[0].ID)
}

func TestAggregate_TiesByIdentifier(t *testing.T) {
	on := map[string]docking.SummaryTable{"T": summary(map[string][]float64{"z": {-5}, "a": {-5}, "m": {-5}})}
	off := map[string]docking.SummaryTable{"O": summary(map[string][]float64{"z": {-1}, "a": {-1}, "m": {-1}})}
	tbl, err := Aggregate(on, off)
	require.NoError(t, err)
	ids := make([]string, 0, tbl.Len())
	for _, r := range tbl.Rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "m", "z"}, ids)
}

func TestAggregate_MissingTarget(t *testing.T) {
	full := summary(map[string][]float64{"A": {-5}})

	_, err := Aggregate(map[string]docking.SummaryTable{"T1": full, "T2": {}},
		map[string]docking.SummaryTable{"O1": full})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTargetMissing))
	assert.Equal(t, errors.KindAggregation, errors.KindOf(err))
	assert.Contains(t, err.Error(), `"T2"`)

	_, err = Aggregate(map[string]docking.SummaryTable{"T1": full}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTargetMissing))
}

func TestAggregate_TargetWithoutAffinities(t *testing.T) {
	on := map[string]docking.SummaryTable{"T1": summary(map[string][]float64{"A": nil})}
	off := map[string]docking.SummaryTable{"O1": summary(map[string][]float64{"A": {-2}})}

	tbl, err := Aggregate(on, off)
	require.Error(t, err)
	assert.Nil(t, tbl)
	assert.True(t, errors.IsCode(err, errors.CodeTargetMissing))
	assert.Contains(t, err.Error(), `"T1"`)
}

func TestTable_CSV(t *testing.T) {
	tbl := &Table{Rows: []Row{
		{ID: "B", OnTargetMean: 8, OffTargetMax: -1, Objective: 9},
		{ID: "A", OnTargetMean: 4, OffTargetMax: -2, Objective: 6},
	}}
	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	assert.Equal(t, "uuid,on_target_mean,off_target_max,objective\nB,8,-1,9\nA,4,-2,6\n", buf.String())

	path := filepath.Join(t.TempDir(), "prioritization.csv")
	require.NoError(t, tbl.WriteFile(path))
	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows, back.Rows)
	assert.Len(t, back.Top(1), 1)
	assert.Len(t, back.Top(0), 2)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "none.csv"))
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

//Personal.AI order the ending
