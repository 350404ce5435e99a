package brandxl

import (
	"strings"

	"github.com/locvowork/brandsheet/pkg/brand"
	"github.com/locvowork/brandsheet/pkg/table"
)

// ChartFamily is the kind of chart drawn.
type ChartFamily int

const (
	FamilyBar ChartFamily = iota
	FamilyLine
)

func (f ChartFamily) String() string {
	if f == FamilyLine {
		return "line"
	}
	return "bar"
}

const (
	// MaxSeries caps the number of Y columns charted.
	MaxSeries = 3

	titleYNames = 2
)

var (
	xAxisHints = []string{"date", "time", "id", "batch"}
	timeHints  = []string{"date", "time"}
)

// ChartSpec describes the chart inferred for a table. Indexes are 0-based
// column positions.
type ChartSpec struct {
	XColumn      string
	XIndex       int
	YColumns     []string
	YIndexes     []int
	Family       ChartFamily
	SeriesColors []string
	Title        string
	Rows         int
}

// InferChart picks the axes, family, colors and title for t. ok is false when
// no sensible chart exists, which is an expected outcome and not an error.
// A table without data rows has nothing to plot.
func InferChart(t *table.Table, p *brand.Profile) (spec ChartSpec, ok bool) {
	if t.NumRows() == 0 {
		return ChartSpec{}, false
	}
	x := -1
	for i, c := range t.Columns {
		if containsAny(c.Name, xAxisHints) {
			x = i
			break
		}
	}
	if x < 0 {
		for i, c := range t.Columns {
			if c.Kind != table.KindNumeric {
				x = i
				break
			}
		}
	}
	if x < 0 {
		return ChartSpec{}, false
	}

	spec = ChartSpec{XColumn: t.Columns[x].Name, XIndex: x, Rows: t.NumRows()}
	for i, c := range t.Columns {
		if i == x || c.Kind != table.KindNumeric {
			continue
		}
		if len(spec.YColumns) == MaxSeries {
			break
		}
		spec.YColumns = append(spec.YColumns, c.Name)
		spec.YIndexes = append(spec.YIndexes, i)
	}
	if len(spec.YColumns) == 0 {
		return ChartSpec{}, false
	}

	if containsAny(spec.XColumn, timeHints) {
		spec.Family = FamilyLine
	}

	palette := seriesPalette(p)
	for i := range spec.YColumns {
		spec.SeriesColors = append(spec.SeriesColors, palette[i%len(palette)])
	}

	lead := spec.YColumns[:min(titleYNames, len(spec.YColumns))]
	spec.Title = strings.Join(lead, " & ") + " by " + spec.XColumn
	return spec, true
}

func seriesPalette(p *brand.Profile) []string {
	src := []string{brand.DefaultSeriesPrimary, brand.DefaultSeriesSecondary, brand.DefaultSeriesTertiary}
	if p != nil && len(p.Series) > 0 {
		src = p.Series
	}
	out := make([]string, len(src))
	for i, c := range src {
		out[i] = brand.RGB(c)
	}
	return out
}

func containsAny(name string, hints []string) bool {
	lower := strings.ToLower(name)
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
