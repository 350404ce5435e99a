package brandxl

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/locvowork/brandsheet/internal/apperr"
	"github.com/locvowork/brandsheet/internal/logger"
	"github.com/locvowork/brandsheet/pkg/brand"
	"github.com/locvowork/brandsheet/pkg/table"
)

// Engine selects the rendering backend.
type Engine string

const (
	// EngineExcelize writes values and styling.
	EngineExcelize Engine = "excelize"
	// EnginePlain writes values only.
	EnginePlain Engine = "plain"
)

// ParseEngine accepts "", "excelize" and "plain".
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineExcelize:
		return EngineExcelize, nil
	case EnginePlain:
		return EnginePlain, nil
	}
	return "", fmt.Errorf("unknown engine %q, expected %q or %q", s, EngineExcelize, EnginePlain)
}

// Renderer sequences the style, conditional formatting and chart engines.
type Renderer struct {
	sheet         string
	insightsSheet string
	chartAnchor   string
	workers       int
	engine        Engine
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSheet sets the data sheet name.
func WithSheet(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.sheet = name
		}
	}
}

// WithInsightsSheet sets the sheet the chart is placed on.
func WithInsightsSheet(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.insightsSheet = name
		}
	}
}

// WithChartAnchor sets the top-left cell of the chart.
func WithChartAnchor(cell string) Option {
	return func(r *Renderer) {
		if cell != "" {
			r.chartAnchor = cell
		}
	}
}

// WithWorkers bounds how many sheets are planned at once when re-branding.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithEngine selects the backend.
func WithEngine(e Engine) Option {
	return func(r *Renderer) {
		r.engine = e
	}
}

// NewRenderer returns a renderer writing to "Sheet1" with the chart on
// "Insights" at B2.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		sheet:         "Sheet1",
		insightsSheet: DefaultInsightsSheet,
		chartAnchor:   DefaultChartAnchor,
		workers:       4,
		engine:        EngineExcelize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SheetResult is the plan generated for one sheet.
type SheetResult struct {
	Sheet       string
	Plan        *Plan
	Diagnostics []Diagnostic
}

// Result describes what a render or re-brand produced.
type Result struct {
	Sheets []SheetResult
	Chart  *ChartSpec
}

// PlanSheet runs the style engine, then the conditional formatting engine,
// for one sheet. It only reads p and t.
func PlanSheet(sheet string, p *brand.Profile, t *table.Table) SheetResult {
	res := SheetResult{Sheet: sheet, Plan: NewPlan(sheet, len(t.Columns))}
	if p == nil {
		return res
	}
	res.Plan.Add(StyleDirectives(p, t)...)

	matches, diags := ResolveRules(p.Rules, t.Names())
	res.Plan.Add(ConditionalDirectives(matches, t.NumRows())...)
	for i := range diags {
		diags[i].Sheet = sheet
	}
	res.Diagnostics = diags
	return res
}

// Render writes t into a new workbook and, when a profile is given, styles
// it and adds the inferred chart. A nil profile renders values only.
func (r *Renderer) Render(ctx context.Context, t *table.Table, p *brand.Profile) (*excelize.File, *Result, error) {
	ctx = logger.WithLogger(ctx, map[string]interface{}{"sheet": r.sheet})
	if p != nil && r.engine == EnginePlain {
		logger.WarnLog(ctx, "branding requires the %s engine, using it instead of %s", EngineExcelize, EnginePlain)
	}

	f := excelize.NewFile()
	if r.sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", r.sheet); err != nil {
			return nil, nil, apperr.Wrap(apperr.ErrIOFailure, err, "naming data sheet")
		}
	}
	if err := writeTable(f, r.sheet, t); err != nil {
		return nil, nil, err
	}

	result := &Result{}
	if p == nil {
		return f, result, nil
	}
	warnProfile(ctx, p)

	sr := PlanSheet(r.sheet, p, t)
	logDiagnostics(ctx, sr.Diagnostics)
	if err := Flush(f, sr.Plan); err != nil {
		return nil, nil, apperr.Wrap(apperr.ErrIOFailure, err, "applying styles")
	}
	result.Sheets = append(result.Sheets, sr)

	spec, ok := InferChart(t, p)
	if !ok {
		logger.DebugLog(ctx, "no chart inferred for %d columns", len(t.Columns))
		return f, result, nil
	}
	if err := AddChart(f, r.sheet, r.insightsSheet, r.chartAnchor, spec); err != nil {
		return nil, nil, apperr.Wrap(apperr.ErrIOFailure, err, "adding chart")
	}
	result.Chart = &spec
	logger.DebugLog(ctx, "added %s chart %q", spec.Family, spec.Title)
	return f, result, nil
}

// Rebrand restyles every sheet of an existing workbook in place. Sheets are
// read and flushed in order; their plans are generated concurrently. No
// chart is generated.
func (r *Renderer) Rebrand(ctx context.Context, f *excelize.File, p *brand.Profile) (*Result, error) {
	if p == nil {
		return nil, apperr.ErrMissingBrandForRebrand
	}
	warnProfile(ctx, p)

	sheets := f.GetSheetList()
	tables := make([]*table.Table, len(sheets))
	for i, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, apperr.WrapWith(apperr.ErrIOFailure, err, "reading sheet", "sheet", sheet)
		}
		if len(rows) == 0 {
			tables[i] = table.New(nil, nil)
			continue
		}
		tables[i] = table.FromStrings(rows[0], rows[1:])
	}

	results := make([]SheetResult, len(sheets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range sheets {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = PlanSheet(sheets[i], p, tables[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fl := newFlusher(f)
	for _, sr := range results {
		sctx := logger.WithLogger(ctx, map[string]interface{}{"sheet": sr.Sheet})
		logDiagnostics(sctx, sr.Diagnostics)
		if err := fl.flush(sr.Plan); err != nil {
			return nil, apperr.WrapWith(apperr.ErrIOFailure, err, "applying styles", "sheet", sr.Sheet)
		}
		logger.DebugLog(sctx, "applied %d directives", sr.Plan.Len())
	}
	return &Result{Sheets: results}, nil
}

func writeTable(f *excelize.File, sheet string, t *table.Table) error {
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperr.Wrap(apperr.ErrIOFailure, err, "writing header")
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperr.Wrap(apperr.ErrIOFailure, err, "addressing row")
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperr.WrapWith(apperr.ErrIOFailure, err, "writing row", "row", i+2)
		}
	}
	return nil
}

func warnProfile(ctx context.Context, p *brand.Profile) {
	for _, w := range p.Warnings {
		logger.WarnLog(ctx, "brand profile: %s", w)
	}
}

func logDiagnostics(ctx context.Context, diags []Diagnostic) {
	for _, d := range diags {
		if d.Skipped {
			logger.WarnLog(ctx, "skipping conditional rule %d: %s", d.RuleIndex, d.Message)
			continue
		}
		logger.WarnLog(ctx, "conditional rule %d: %s", d.RuleIndex, d.Message)
	}
}
