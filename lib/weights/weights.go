// Package weights resolves the per-course credit weighting multiplier used
// when averaging grades across courses. The data itself is district-owned;
// this package only answers lookups against whatever table the caller loads.
package weights

import (
	"context"
	"log/slog"

	"hacview-backend/lib/configutil"
	"hacview-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// Provider answers credit-weight lookups during extraction.
type Provider interface {
	Weight(ctx context.Context, district, course string) float64
}

// Fixed returns the same multiplier for every course.
type Fixed float64

func (f Fixed) Weight(ctx context.Context, district, course string) float64 {
	return float64(f)
}

// minimum JaroWinkler similarity before a table entry is considered the
// same course under a different display name
const similarityFloor = 0.9

// Table resolves weights from a district -> course -> multiplier mapping.
type Table struct {
	districts map[string]map[string]float64
}

func NewTable(districts map[string]map[string]float64) *Table {
	return &Table{districts: districts}
}

// LoadTable reads a table from a json5 file shaped like
// `{ "10870": { "AP Calculus BC": 1.2 } }`.
func LoadTable(path string) (*Table, error) {
	districts, err := configutil.ReadConfig[map[string]map[string]float64](path)
	if err != nil {
		return nil, err
	}
	return NewTable(districts), nil
}

// Weight returns the multiplier for a course, preferring an exact name match
// and falling back to the most similar table entry. Unknown districts and
// courses weigh 1.
func (t *Table) Weight(ctx context.Context, district, course string) float64 {
	courses, ok := t.districts[district]
	if !ok {
		return 1
	}
	if w, ok := courses[course]; ok {
		return w
	}

	normalized := textutil.NormalizeName(course)
	mostSimilar := ""
	var similarity float64
	for name := range courses {
		sim := matchr.JaroWinkler(normalized, textutil.NormalizeName(name), false)
		if sim > similarity {
			similarity = sim
			mostSimilar = name
		}
	}
	if mostSimilar == "" || similarity < similarityFloor {
		return 1
	}

	slog.DebugContext(
		ctx, "fuzzy matched course weight",
		"course", course,
		"matched", mostSimilar,
		"similarity", similarity,
	)
	return courses[mostSimilar]
}
