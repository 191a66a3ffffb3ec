package docking

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/turtacn/tinydock/pkg/errors"
)

// ResolveOptions adjusts which identifiers Resolve offers for docking.
type ResolveOptions struct {
	// Rewrite offers every identifier, including those already docked.
	Rewrite bool

	// Selector, when non-nil, restricts the result to identifiers it contains.
	Selector map[string]struct{}

	// Fraction subsamples the candidates to round(Fraction × n), uniformly
	// without replacement.  It must lie in (0, 1]; 0 and 1 both disable
	// sampling.
	Fraction float64

	// Rand is the sampling source.  Nil means the process-wide source, which
	// is not reproducible.
	Rand *rand.Rand
}

// Resolve computes the identifiers still to be docked: all minus done (unless
// Rewrite), then restricted to Selector, then subsampled.  The result is
// sorted ascending and free of duplicates.
func Resolve(all, done []string, opts ResolveOptions) ([]string, error) {
	f := opts.Fraction
	if math.IsNaN(f) || f < 0 || f > 1 {
		return nil, errors.InvalidParam(fmt.Sprintf("subsample fraction must be in (0, 1], got %v", f))
	}

	doneSet := make(map[string]struct{}, len(done))
	if !opts.Rewrite {
		for _, id := range done {
			doneSet[id] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(all))
	candidates := make([]string, 0, len(all))
	for _, id := range all {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, isDone := doneSet[id]; isDone {
			continue
		}
		if opts.Selector != nil {
			if _, ok := opts.Selector[id]; !ok {
				continue
			}
		}
		candidates = append(candidates, id)
	}
	sort.Strings(candidates)

	if f == 0 || f == 1 {
		return candidates, nil
	}

	k := int(math.Round(f * float64(len(candidates))))
	shuffle := rand.Shuffle
	if opts.Rand != nil {
		shuffle = opts.Rand.Shuffle
	}
	shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sample := candidates[:k]
	sort.Strings(sample)
	return sample, nil
}

// IdentifierFromFilename returns name up to, but excluding, its first ".".
func IdentifierFromFilename(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// ListIdentifiers returns the identifiers of the regular files in dir, sorted
// and de-duplicated.  A missing dir is created and treated as empty.
func ListIdentifiers(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "create directory").WithDetail("dir=" + dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "list directory").WithDetail("dir=" + dir)
	}
	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		id := IdentifierFromFilename(e.Name())
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ReadSelector loads the identifier column of any CSV file as a selector set.
func ReadSelector(path, idColumn string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "open selector table").WithDetail("path=" + path)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "selector table has no header").WithDetail("path=" + path)
	}
	col := -1
	for i, h := range header {
		if strings.TrimPrefix(h, "\ufeff") == idColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.InvalidParam(fmt.Sprintf("selector table has no %q column", idColumn)).WithDetail("path=" + path)
	}

	set := make(map[string]struct{})
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "malformed selector table").WithDetail("path=" + path)
	}
	for _, rec := range records {
		if col < len(rec) && rec[col] != "" {
			set[rec[col]] = struct{}{}
		}
	}
	return set, nil
}

//Personal.AI order the ending
