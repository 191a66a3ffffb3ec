package docking

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/tinydock/pkg/errors"
)

const (
	// MaxPoses is the number of pose slots in a PoseRecord.
	MaxPoses = 10

	// MinLogLines is the shortest log that can contain a pose table.  Shorter
	// logs belong to runs that never reached the search phase.
	MinLogLines = 28

	// poseTableOffset is the distance from the last blank line to the first
	// pose row: one header line for the column names, one for the units, and
	// one ruler line.
	poseTableOffset = 4

	// poseFields is rank, affinity, rmsd l.b., rmsd u.b.
	poseFields = 4
)

// Pose is one scored binding pose as reported by the engine.
type Pose struct {
	Affinity float64 // kcal/mol, lower is stronger binding
	RMSDLB   float64 // distance from best mode, lower bound
	RMSDUB   float64 // distance from best mode, upper bound
}

// PoseRecord is the fixed-width parse result of one log: MaxPoses slots in
// engine order.  Unreported slots are NaN, never zero.
type PoseRecord struct {
	Poses    [MaxPoses]Pose
	reported int
}

// EmptyRecord returns a record with every slot NaN.
func EmptyRecord() PoseRecord {
	var r PoseRecord
	nan := math.NaN()
	for i := range r.Poses {
		r.Poses[i] = Pose{Affinity: nan, RMSDLB: nan, RMSDUB: nan}
	}
	return r
}

// Reported returns the number of poses the engine reported (at most MaxPoses).
func (r PoseRecord) Reported() int { return r.reported }

// Flatten returns the record column-major: the MaxPoses affinities, then the
// lower bounds, then the upper bounds.  The order matches SummaryColumns.
func (r PoseRecord) Flatten() [NumValueColumns]float64 {
	var out [NumValueColumns]float64
	for i, p := range r.Poses {
		out[i] = p.Affinity
		out[MaxPoses+i] = p.RMSDLB
		out[2*MaxPoses+i] = p.RMSDUB
	}
	return out
}

// RecordFromValues is the inverse of Flatten.  Reported counts the leading
// slots whose affinity is not NaN.
func RecordFromValues(v [NumValueColumns]float64) PoseRecord {
	var r PoseRecord
	for i := range r.Poses {
		r.Poses[i] = Pose{Affinity: v[i], RMSDLB: v[MaxPoses+i], RMSDUB: v[2*MaxPoses+i]}
	}
	for r.reported < MaxPoses && !math.IsNaN(r.Poses[r.reported].Affinity) {
		r.reported++
	}
	return r
}

// ParseLog extracts the pose table from the lines of an engine log.
//
// It returns ok=false with no error when the log has fewer than MinLogLines
// lines.  The pose block runs from four lines after the last blank line up to,
// but excluding, the final line; each block line must hold exactly four
// numeric tokens, of which the leading rank is dropped.  Rows past MaxPoses
// are ignored and missing rows are NaN.  A block with no rows yields an
// all-NaN record with Reported() == 0.
func ParseLog(lines []string) (PoseRecord, bool, error) {
	if len(lines) < MinLogLines {
		return PoseRecord{}, false, nil
	}

	blank := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			blank = i
			break
		}
	}
	if blank < 0 {
		return PoseRecord{}, false, errors.New(errors.CodeLogParseFailed, "log has no blank line before the pose table")
	}

	start, end := blank+poseTableOffset, len(lines)-1
	rec := EmptyRecord()
	for i := start; i < end; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) != poseFields {
			return PoseRecord{}, false, errors.Newf(errors.CodeLogParseFailed,
				"line %d: expected %d fields, got %d", i+1, poseFields, len(fields))
		}
		var vals [poseFields]float64
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return PoseRecord{}, false, errors.Wrap(err, errors.CodeLogParseFailed, "malformed number").
					WithDetail("line=" + strconv.Itoa(i+1))
			}
			vals[j] = v
		}
		if rec.reported < MaxPoses {
			rec.Poses[rec.reported] = Pose{Affinity: vals[1], RMSDLB: vals[2], RMSDUB: vals[3]}
			rec.reported++
		}
	}
	return rec, true, nil
}

// ParseLogReader reads all lines from r and calls ParseLog.
func ParseLogReader(r io.Reader) (PoseRecord, bool, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return PoseRecord{}, false, errors.Wrap(err, errors.CodeIO, "read docking log")
	}
	return ParseLog(lines)
}

// ParseLogFile opens path and calls ParseLogReader.
func ParseLogFile(path string) (PoseRecord, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return PoseRecord{}, false, errors.Wrap(err, errors.CodeIO, "open docking log").WithDetail("path=" + path)
	}
	defer f.Close()
	return ParseLogReader(f)
}

//Personal.AI order the ending
