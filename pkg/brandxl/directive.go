// Package brandxl turns a canonical brand profile and a table into style
// directives, and flushes those directives into an xlsx workbook.
package brandxl

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TargetKind is the scope a directive applies to.
type TargetKind int

const (
	TargetSheet TargetKind = iota
	TargetHeader
	TargetBody
	TargetColumn
	TargetRange
)

func (k TargetKind) String() string {
	switch k {
	case TargetSheet:
		return "sheet"
	case TargetHeader:
		return "header"
	case TargetBody:
		return "body"
	case TargetColumn:
		return "column"
	case TargetRange:
		return "range"
	default:
		return "unknown"
	}
}

// Target addresses cells on one sheet. Col is 0-based and only meaningful for
// column and range targets. Rows are 1-based rendered rows, header = 1.
type Target struct {
	Kind     TargetKind
	Col      int
	RowStart int
	RowEnd   int
}

// Ref renders the target as an A1 range over ncols columns. Sheet targets
// have no reference.
func (t Target) Ref(ncols int) (string, error) {
	switch t.Kind {
	case TargetSheet:
		return "", nil
	case TargetHeader, TargetBody:
		return areaRef(0, t.RowStart, ncols-1, t.RowEnd)
	default:
		return areaRef(t.Col, t.RowStart, t.Col, t.RowEnd)
	}
}

// columns returns the first and last 0-based column the target covers.
func (t Target) columns(ncols int) (first, last int) {
	switch t.Kind {
	case TargetHeader, TargetBody:
		return 0, ncols - 1
	default:
		return t.Col, t.Col
	}
}

func areaRef(col1, row1, col2, row2 int) (string, error) {
	start, err := excelize.CoordinatesToCellName(col1+1, row1)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(col2+1, row2)
	if err != nil {
		return "", err
	}
	return start + ":" + end, nil
}

// Font colors are 6 digit RGB without '#'.
type Font struct {
	Family string
	Bold   bool
	Color  string
}

// Alignment of cell content.
type Alignment struct {
	Horizontal string
	Vertical   string
}

// Style is the closed set of style dimensions a directive can set. A nil or
// empty field leaves that dimension alone.
type Style struct {
	Font         *Font
	Fill         string
	BorderBottom string
	Alignment    *Alignment
}

// Operator is a cell-value comparison of a conditional format.
type Operator string

const (
	OpLessThan    Operator = "lessThan"
	OpGreaterThan Operator = "greaterThan"
	OpEqual       Operator = "equal"
)

// ConditionalFormat is a differential style applied while a comparison holds.
// Colors are 8 digit opaque ARGB.
type ConditionalFormat struct {
	RuleIndex  int
	Column     string
	Operator   Operator
	Value      interface{}
	FontColor  string
	BgColor    string
	StopIfTrue bool
	// Coerced is set when the declared condition was not recognized and
	// Operator fell back to lessThan.
	Coerced bool
}

// Directive is one instruction for a target. Exactly one of the payload
// fields is set.
type Directive struct {
	Target        Target
	Style         *Style
	ColumnWidth   float64
	ShowGridlines *bool
	Conditional   *ConditionalFormat
}

func (d Directive) String() string {
	switch {
	case d.Conditional != nil:
		return fmt.Sprintf("%s col=%d rows=%d-%d %s %v", d.Target.Kind, d.Target.Col, d.Target.RowStart, d.Target.RowEnd, d.Conditional.Operator, d.Conditional.Value)
	case d.ShowGridlines != nil:
		return fmt.Sprintf("sheet gridlines=%t", *d.ShowGridlines)
	case d.Style == nil:
		return fmt.Sprintf("%s col=%d width=%.2f", d.Target.Kind, d.Target.Col, d.ColumnWidth)
	default:
		return fmt.Sprintf("%s col=%d rows=%d-%d style", d.Target.Kind, d.Target.Col, d.Target.RowStart, d.Target.RowEnd)
	}
}

type planKey struct {
	target  Target
	payload int
	rule    int
}

const (
	payloadStyle = iota
	payloadWidth
	payloadGridlines
	payloadConditional
)

// Plan accumulates the directives for one sheet. A directive for a target
// that already has one of the same payload replaces it in place, so the
// plan keeps first-seen order with last-writer-wins contents. Conditional
// formats are keyed by rule as well, so several rules can share a range.
type Plan struct {
	Sheet   string
	Columns int

	directives []Directive
	index      map[planKey]int
}

// NewPlan returns an empty plan for a sheet with ncols columns.
func NewPlan(sheet string, ncols int) *Plan {
	return &Plan{Sheet: sheet, Columns: ncols, index: map[planKey]int{}}
}

// Add records d, overwriting any earlier directive for the same target.
func (p *Plan) Add(ds ...Directive) {
	for _, d := range ds {
		k := keyOf(d)
		if i, ok := p.index[k]; ok {
			p.directives[i] = d
			continue
		}
		p.index[k] = len(p.directives)
		p.directives = append(p.directives, d)
	}
}

// Directives returns the accumulated directives in application order.
func (p *Plan) Directives() []Directive {
	out := make([]Directive, len(p.directives))
	copy(out, p.directives)
	return out
}

// Len is the number of distinct targets in the plan.
func (p *Plan) Len() int {
	return len(p.directives)
}

// Conditionals returns only the conditional format directives.
func (p *Plan) Conditionals() []Directive {
	var out []Directive
	for _, d := range p.directives {
		if d.Conditional != nil {
			out = append(out, d)
		}
	}
	return out
}

func keyOf(d Directive) planKey {
	k := planKey{target: d.Target, rule: -1}
	switch {
	case d.Conditional != nil:
		k.payload = payloadConditional
		k.rule = d.Conditional.RuleIndex
	case d.ShowGridlines != nil:
		k.payload = payloadGridlines
	case d.Style != nil:
		k.payload = payloadStyle
	default:
		k.payload = payloadWidth
	}
	return k
}
