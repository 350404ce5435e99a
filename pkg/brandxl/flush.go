package brandxl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Chart placement defaults.
const (
	DefaultInsightsSheet = "Insights"
	DefaultChartAnchor   = "B2"

	chartWidth  = 640
	chartHeight = 320
	lineWidth   = 2.25
)

var criteria = map[Operator]string{
	OpLessThan:    "less than",
	OpGreaterThan: "greater than",
	OpEqual:       "equal to",
}

type styleKey struct {
	base       int
	fontFamily string
	bold       bool
	fontColor  string
	fill       string
	border     string
	horizontal string
	vertical   string
}

// flusher writes plans into one workbook. A directive style is laid over
// the style a cell already has, so number formats and anything the
// directive does not set survive. Each (existing style, directive) pair
// maps to one style id.
type flusher struct {
	f      *excelize.File
	styles map[styleKey]int
}

func newFlusher(f *excelize.File) *flusher {
	return &flusher{f: f, styles: map[styleKey]int{}}
}

// Flush applies every directive of plan to its sheet.
func Flush(f *excelize.File, plan *Plan) error {
	return newFlusher(f).flush(plan)
}

func (fl *flusher) flush(plan *Plan) error {
	for _, d := range plan.Directives() {
		switch {
		case d.Conditional != nil:
			continue
		case d.ShowGridlines != nil:
			if err := fl.f.SetSheetView(plan.Sheet, 0, &excelize.ViewOptions{ShowGridLines: d.ShowGridlines}); err != nil {
				return fmt.Errorf("setting gridlines: %w", err)
			}
		case d.Style != nil:
			if err := fl.applyStyle(plan.Sheet, d.Target, plan.Columns, d.Style); err != nil {
				return fmt.Errorf("setting %s style: %w", d.Target.Kind, err)
			}
		default:
			col, err := excelize.ColumnNumberToName(d.Target.Col + 1)
			if err != nil {
				return err
			}
			if err := fl.f.SetColWidth(plan.Sheet, col, col, d.ColumnWidth); err != nil {
				return fmt.Errorf("setting column width: %w", err)
			}
		}
	}

	// One call per range so rules sharing a column keep their order.
	var (
		refs  []string
		conds = map[string][]excelize.ConditionalFormatOptions{}
	)
	for _, d := range plan.Conditionals() {
		ref, err := d.Target.Ref(plan.Columns)
		if err != nil {
			return fmt.Errorf("resolving %s target: %w", d.Target.Kind, err)
		}
		opt, err := fl.conditional(d.Conditional)
		if err != nil {
			return err
		}
		if _, seen := conds[ref]; !seen {
			refs = append(refs, ref)
		}
		conds[ref] = append(conds[ref], opt)
	}
	for _, ref := range refs {
		if err := fl.f.SetConditionalFormat(plan.Sheet, ref, conds[ref]); err != nil {
			return fmt.Errorf("setting conditional format on %s: %w", ref, err)
		}
	}
	return nil
}

// applyStyle restyles every cell of target. Runs of cells in a row that end
// up with the same style id are written with one SetCellStyle call.
func (fl *flusher) applyStyle(sheet string, t Target, ncols int, s *Style) error {
	first, last := t.columns(ncols)
	for row := t.RowStart; row <= t.RowEnd; row++ {
		runStart, runID := -1, 0
		for col := first; col <= last+1; col++ {
			id := -1
			if col <= last {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return err
				}
				base, err := fl.f.GetCellStyle(sheet, cell)
				if err != nil {
					return err
				}
				if id, err = fl.style(base, s); err != nil {
					return err
				}
			}
			if runStart >= 0 && id != runID {
				if err := fl.setRun(sheet, row, runStart, col-1, runID); err != nil {
					return err
				}
				runStart = -1
			}
			if runStart < 0 && id >= 0 {
				runStart, runID = col, id
			}
		}
	}
	return nil
}

func (fl *flusher) setRun(sheet string, row, col1, col2, id int) error {
	start, err := excelize.CoordinatesToCellName(col1+1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(col2+1, row)
	if err != nil {
		return err
	}
	return fl.f.SetCellStyle(sheet, start, end, id)
}

// style returns the id of s laid over the existing style base.
func (fl *flusher) style(base int, s *Style) (int, error) {
	k := styleKey{base: base, fill: s.Fill, border: s.BorderBottom}
	if s.Font != nil {
		k.fontFamily, k.bold, k.fontColor = s.Font.Family, s.Font.Bold, s.Font.Color
	}
	if s.Alignment != nil {
		k.horizontal, k.vertical = s.Alignment.Horizontal, s.Alignment.Vertical
	}
	if id, ok := fl.styles[k]; ok {
		return id, nil
	}

	xs, err := fl.f.GetStyle(base)
	if err != nil {
		return 0, fmt.Errorf("reading style %d: %w", base, err)
	}
	mergeStyle(xs, s)

	id, err := fl.f.NewStyle(xs)
	if err != nil {
		return 0, err
	}
	fl.styles[k] = id
	return id, nil
}

// mergeStyle sets the font, fill, bottom border and alignment fields that s
// carries and leaves the rest of xs alone.
func mergeStyle(xs *excelize.Style, s *Style) {
	if s.Font != nil {
		font := excelize.Font{}
		if xs.Font != nil {
			font = *xs.Font
		}
		font.Family, font.Bold = s.Font.Family, s.Font.Bold
		if s.Font.Color != "" {
			font.Color = s.Font.Color
			font.ColorIndexed, font.ColorTheme, font.ColorTint = 0, nil, 0
		}
		xs.Font = &font
	}
	if s.Fill != "" {
		xs.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}
	if s.BorderBottom != "" {
		borders := make([]excelize.Border, 0, len(xs.Border)+1)
		for _, b := range xs.Border {
			if b.Type != "bottom" {
				borders = append(borders, b)
			}
		}
		xs.Border = append(borders, excelize.Border{Type: "bottom", Color: s.BorderBottom, Style: 1})
	}
	if s.Alignment != nil {
		align := excelize.Alignment{}
		if xs.Alignment != nil {
			align = *xs.Alignment
		}
		align.Horizontal, align.Vertical = s.Alignment.Horizontal, s.Alignment.Vertical
		xs.Alignment = &align
	}
}

func (fl *flusher) conditional(cf *ConditionalFormat) (excelize.ConditionalFormatOptions, error) {
	xs := &excelize.Style{}
	if cf.FontColor != "" {
		xs.Font = &excelize.Font{Color: rgbOf(cf.FontColor)}
	}
	if cf.BgColor != "" {
		xs.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{rgbOf(cf.BgColor)}}
	}
	format, err := fl.f.NewConditionalStyle(xs)
	if err != nil {
		return excelize.ConditionalFormatOptions{}, fmt.Errorf("creating conditional style for rule %d: %w", cf.RuleIndex, err)
	}
	return excelize.ConditionalFormatOptions{
		Type:       "cell",
		Criteria:   criteria[cf.Operator],
		Format:     format,
		Value:      FormulaValue(cf.Value),
		StopIfTrue: cf.StopIfTrue,
	}, nil
}

// rgbOf drops the alpha byte; excelize adds an opaque one itself.
func rgbOf(argb string) string {
	if len(argb) == 8 {
		return argb[2:]
	}
	return argb
}

// FormulaValue renders a rule operand as a formula term. Numbers and
// numeric strings are used as is; other strings become string literals.
func FormulaValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return `""`
	case bool:
		return strings.ToUpper(strconv.FormatBool(val))
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case string:
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			return val
		}
		return `"` + strings.ReplaceAll(val, `"`, `""`) + `"`
	default:
		return fmt.Sprint(val)
	}
}

// AddChart draws spec on chartSheet at anchor, creating the sheet if it does
// not exist. Data references point at dataSheet.
func AddChart(f *excelize.File, dataSheet, chartSheet, anchor string, spec ChartSpec) error {
	idx, err := f.GetSheetIndex(chartSheet)
	if err != nil {
		return fmt.Errorf("looking up chart sheet: %w", err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(chartSheet); err != nil {
			return fmt.Errorf("creating chart sheet: %w", err)
		}
	}

	lastRow := spec.Rows + 1
	categories, err := columnRef(dataSheet, spec.XIndex, 2, lastRow)
	if err != nil {
		return err
	}

	chart := &excelize.Chart{
		Type:      excelize.Col,
		Title:     []excelize.RichTextRun{{Text: spec.Title}},
		Dimension: excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
		Legend:    excelize.ChartLegend{Position: "bottom"},
	}
	if spec.Family == FamilyLine {
		chart.Type = excelize.Line
	}
	for i, y := range spec.YIndexes {
		name, err := columnRef(dataSheet, y, 1, 1)
		if err != nil {
			return err
		}
		values, err := columnRef(dataSheet, y, 2, lastRow)
		if err != nil {
			return err
		}
		series := excelize.ChartSeries{
			Name:       name,
			Categories: categories,
			Values:     values,
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{spec.SeriesColors[i]}},
		}
		if spec.Family == FamilyLine {
			series.Line = excelize.ChartLine{Width: lineWidth}
		}
		chart.Series = append(chart.Series, series)
	}

	if err := f.AddChart(chartSheet, anchor, chart); err != nil {
		return fmt.Errorf("adding chart: %w", err)
	}
	return nil
}

// columnRef is an absolute reference like 'Sheet 1'!$B$2:$B$9, or a single
// cell when first == last.
func columnRef(sheet string, col, first, last int) (string, error) {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return "", err
	}
	ref := fmt.Sprintf("'%s'!$%s$%d", strings.ReplaceAll(sheet, "'", "''"), name, first)
	if last != first {
		ref += fmt.Sprintf(":$%s$%d", name, last)
	}
	return ref, nil
}
