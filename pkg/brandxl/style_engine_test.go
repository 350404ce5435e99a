package brandxl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/brandsheet/pkg/brand"
	"github.com/locvowork/brandsheet/pkg/table"
)

func testProfile(opts brand.Options) *brand.Profile {
	return &brand.Profile{
		Name:    "Test",
		Fonts:   brand.Fonts{Heading: "Poppins", Body: "Lora"},
		Options: opts,
		Header:  brand.HeaderPalette{Fill: "#d97757", Text: "#fff", Border: "#b0aea5"},
		Series:  []string{"#d97757", "#6a9bcc", "#788c5d"},
	}
}

func TestStyleDirectivesNilProfile(t *testing.T) {
	tbl := table.New([]string{"A"}, [][]interface{}{{1}})
	assert.Empty(t, StyleDirectives(nil, tbl))
}

func TestStyleDirectivesHeader(t *testing.T) {
	tbl := table.New([]string{"SKU", "Units"}, [][]interface{}{{"a", 1}, {"b", 2}})

	ds := StyleDirectives(testProfile(brand.Options{ShowGridlines: false, HeaderBorders: true}), tbl)

	require.NotNil(t, ds[0].ShowGridlines)
	assert.False(t, *ds[0].ShowGridlines)

	header := ds[1]
	assert.Equal(t, TargetHeader, header.Target.Kind)
	ref, err := header.Target.Ref(2)
	require.NoError(t, err)
	assert.Equal(t, "A1:B1", ref)
	assert.Equal(t, &Style{
		Font:         &Font{Family: "Poppins", Bold: true, Color: "FFFFFF"},
		Fill:         "D97757",
		BorderBottom: "B0AEA5",
		Alignment:    &Alignment{Horizontal: "left", Vertical: "center"},
	}, header.Style)

	body := ds[2]
	assert.Equal(t, Target{Kind: TargetBody, RowStart: 2, RowEnd: 3}, body.Target)
	assert.Equal(t, &Style{Font: &Font{Family: "Lora"}}, body.Style)

	assert.Len(t, ds, 5, "sheet, header, body and one width per column")
}

func TestStyleDirectivesNoHeaderBorder(t *testing.T) {
	tbl := table.New([]string{"SKU"}, [][]interface{}{{"a"}})
	ds := StyleDirectives(testProfile(brand.Options{}), tbl)
	assert.Empty(t, ds[1].Style.BorderBottom)
}

func TestStyleDirectivesAlternatingRows(t *testing.T) {
	rows := make([][]interface{}, 5)
	for i := range rows {
		rows[i] = []interface{}{i}
	}
	tbl := table.New([]string{"N"}, rows)

	ds := StyleDirectives(testProfile(brand.Options{AlternatingRows: true}), tbl)

	fills := map[int]string{}
	for _, d := range ds {
		if d.Target.Kind == TargetBody {
			require.Equal(t, d.Target.RowStart, d.Target.RowEnd)
			fills[d.Target.RowStart] = d.Style.Fill
			assert.Equal(t, "Lora", d.Style.Font.Family)
		}
	}
	assert.Equal(t, map[int]string{2: ZebraFill, 3: "", 4: ZebraFill, 5: "", 6: ZebraFill}, fills)
}

func TestStyleDirectivesEmptyTable(t *testing.T) {
	ds := StyleDirectives(testProfile(brand.Options{ShowGridlines: true}), table.New(nil, nil))
	require.Len(t, ds, 1)
	assert.Equal(t, TargetSheet, ds[0].Target.Kind)

	ds = StyleDirectives(testProfile(brand.Options{}), table.New([]string{"A", "B"}, nil))
	for _, d := range ds {
		assert.NotEqual(t, TargetBody, d.Target.Kind)
	}
}

func TestColumnWidth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		values []interface{}
		want   float64
	}{
		{name: "header wins", header: "Revenue", values: []interface{}{1, 22}, want: 1.1 * 9},
		{name: "value wins", header: "ID", values: []interface{}{"abcdefghij"}, want: 1.1 * 12},
		{name: "float values", header: "P", values: []interface{}{12.125}, want: 1.1 * 8},
		{name: "missing values", header: "Note", values: []interface{}{nil, nil}, want: 1.1 * 6},
		{name: "capped", header: strings.Repeat("x", 60), want: MaxColumnWidth},
		{name: "runes not bytes", header: "Größe", want: 1.1 * 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]interface{}, len(tt.values))
			for i, v := range tt.values {
				rows[i] = []interface{}{v}
			}
			tbl := table.New([]string{tt.header}, rows)
			assert.InDelta(t, tt.want, ColumnWidth(tbl, 0), 1e-9)
		})
	}
}

func TestColumnWidthSamplesFirstRows(t *testing.T) {
	rows := make([][]interface{}, 0, WidthSampleRows+1)
	for i := 0; i < WidthSampleRows; i++ {
		rows = append(rows, []interface{}{"abc"})
	}
	rows = append(rows, []interface{}{strings.Repeat("z", 40)})
	tbl := table.New([]string{"Code"}, rows)

	assert.InDelta(t, 1.1*6, ColumnWidth(tbl, 0), 1e-9, "row %d is beyond the sample", WidthSampleRows+1)
}

func TestPlanLastWriterWins(t *testing.T) {
	p := NewPlan("Sheet1", 2)
	header := Target{Kind: TargetHeader, RowStart: 1, RowEnd: 1}

	p.Add(
		Directive{Target: header, Style: &Style{Fill: "111111"}},
		Directive{Target: Target{Kind: TargetColumn, Col: 0}, ColumnWidth: 10},
		Directive{Target: header, Style: &Style{Fill: "222222"}},
	)

	ds := p.Directives()
	require.Len(t, ds, 2)
	assert.Equal(t, "222222", ds[0].Style.Fill)
	assert.Equal(t, 10.0, ds[1].ColumnWidth)
}

func TestPlanKeepsRulesSharingARange(t *testing.T) {
	p := NewPlan("Sheet1", 1)
	rng := Target{Kind: TargetRange, Col: 0, RowStart: 2, RowEnd: 5}
	for i := 0; i < 3; i++ {
		p.Add(Directive{Target: rng, Conditional: &ConditionalFormat{RuleIndex: i % 2, Value: i}})
	}

	conds := p.Conditionals()
	require.Len(t, conds, 2)
	assert.Equal(t, 2, conds[0].Conditional.Value, "same rule on same range is replaced")
	assert.Equal(t, 1, conds[1].Conditional.Value)
}
