package brandxl

import (
	"math"
	"unicode/utf8"

	"github.com/locvowork/brandsheet/pkg/brand"
	"github.com/locvowork/brandsheet/pkg/table"
)

const (
	// MaxColumnWidth caps auto-fitted column widths.
	MaxColumnWidth = 50.0
	// WidthSampleRows is how many data rows are measured per column.
	WidthSampleRows = 100
	// ZebraFill is the fill of even rendered rows when alternating rows are on.
	ZebraFill = "F9F9F9"

	widthPadding = 2
	widthFactor  = 1.1
)

// StyleDirectives produces the sheet, header, body and column width
// directives for t. A nil profile means no styling.
func StyleDirectives(p *brand.Profile, t *table.Table) []Directive {
	if p == nil {
		return nil
	}

	show := p.Options.ShowGridlines
	out := []Directive{{Target: Target{Kind: TargetSheet}, ShowGridlines: &show}}

	ncols := len(t.Columns)
	if ncols == 0 {
		return out
	}

	header := &Style{
		Font:      &Font{Family: p.Fonts.Heading, Bold: true, Color: brand.RGB(p.Header.Text)},
		Fill:      brand.RGB(p.Header.Fill),
		Alignment: &Alignment{Horizontal: "left", Vertical: "center"},
	}
	if p.Options.HeaderBorders {
		header.BorderBottom = brand.RGB(p.Header.Border)
	}
	out = append(out, Directive{Target: Target{Kind: TargetHeader, RowStart: 1, RowEnd: 1}, Style: header})

	out = append(out, bodyDirectives(p, t.NumRows())...)

	for i := range t.Columns {
		out = append(out, Directive{
			Target:      Target{Kind: TargetColumn, Col: i, RowStart: 1, RowEnd: t.NumRows() + 1},
			ColumnWidth: ColumnWidth(t, i),
		})
	}
	return out
}

// bodyDirectives styles rendered rows 2..n+1. With alternating rows every
// row gets its own directive so even rows can carry the zebra fill.
func bodyDirectives(p *brand.Profile, n int) []Directive {
	if n == 0 {
		return nil
	}
	if !p.Options.AlternatingRows {
		return []Directive{{
			Target: Target{Kind: TargetBody, RowStart: 2, RowEnd: n + 1},
			Style:  &Style{Font: &Font{Family: p.Fonts.Body}},
		}}
	}

	out := make([]Directive, 0, n)
	for row := 2; row <= n+1; row++ {
		s := &Style{Font: &Font{Family: p.Fonts.Body}}
		if row%2 == 0 {
			s.Fill = ZebraFill
		}
		out = append(out, Directive{Target: Target{Kind: TargetBody, RowStart: row, RowEnd: row}, Style: s})
	}
	return out
}

// ColumnWidth is min(1.1 * (maxlen + 2), 50), where maxlen is the longest of
// the header and the first WidthSampleRows values of the column.
func ColumnWidth(t *table.Table, col int) float64 {
	maxLen := utf8.RuneCountInString(t.Columns[col].Name)
	for i, row := range t.Rows {
		if i == WidthSampleRows {
			break
		}
		maxLen = max(maxLen, utf8.RuneCountInString(table.String(row[col])))
	}
	return math.Min(widthFactor*float64(maxLen+widthPadding), MaxColumnWidth)
}
