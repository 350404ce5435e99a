package brandxl

import (
	"fmt"
	"regexp"

	"github.com/locvowork/brandsheet/pkg/brand"
)

// Match pairs one rule with one column its pattern matched.
type Match struct {
	Rule     brand.Rule
	Operator Operator
	Coerced  bool
	Col      int
	Name     string
}

// Diagnostic reports a rule that was skipped or adjusted.
type Diagnostic struct {
	Sheet     string
	RuleIndex int
	Skipped   bool
	Message   string
}

func (d Diagnostic) String() string {
	if d.Sheet == "" {
		return fmt.Sprintf("rule %d: %s", d.RuleIndex, d.Message)
	}
	return fmt.Sprintf("%s: rule %d: %s", d.Sheet, d.RuleIndex, d.Message)
}

// OperatorFor maps a declared condition to an operator. Unknown conditions
// fall back to lessThan and report coerced.
func OperatorFor(condition string) (op Operator, coerced bool) {
	switch Operator(condition) {
	case OpLessThan, OpGreaterThan, OpEqual:
		return Operator(condition), false
	}
	return OpLessThan, true
}

// ResolveRules matches every rule's pattern, case-insensitively and
// unanchored, against the column names and returns one pair per match in
// rule order, then column order. Malformed rules are skipped with a
// diagnostic. Columns with an empty name never match.
func ResolveRules(rules []brand.Rule, columns []string) ([]Match, []Diagnostic) {
	var (
		matches []Match
		diags   []Diagnostic
	)
	for _, r := range rules {
		if r.ColumnPattern == "" || r.Condition == "" {
			diags = append(diags, Diagnostic{RuleIndex: r.Index, Skipped: true, Message: "missing column_pattern or condition"})
			continue
		}
		re, err := regexp.Compile("(?i)" + r.ColumnPattern)
		if err != nil {
			diags = append(diags, Diagnostic{RuleIndex: r.Index, Skipped: true, Message: fmt.Sprintf("invalid column_pattern %q: %v", r.ColumnPattern, err)})
			continue
		}
		if msg, ok := checkRuleStyle(r.Style); !ok {
			diags = append(diags, Diagnostic{RuleIndex: r.Index, Skipped: true, Message: msg})
			continue
		}

		op, coerced := OperatorFor(r.Condition)
		if coerced {
			diags = append(diags, Diagnostic{RuleIndex: r.Index, Message: fmt.Sprintf("unrecognized condition %q, using %s", r.Condition, op)})
		}
		for col, name := range columns {
			if name == "" || !re.MatchString(name) {
				continue
			}
			matches = append(matches, Match{Rule: r, Operator: op, Coerced: coerced, Col: col, Name: name})
		}
	}
	return matches, diags
}

func checkRuleStyle(s brand.RuleStyle) (string, bool) {
	if s.FontColor != "" && !brand.ValidHex(s.FontColor) {
		return fmt.Sprintf("invalid style.font_color %q", s.FontColor), false
	}
	if s.BgColor != "" && !brand.ValidHex(s.BgColor) {
		return fmt.Sprintf("invalid style.bg_color %q", s.BgColor), false
	}
	return "", true
}

// ConditionalDirectives builds one range directive per match, spanning the
// column's data rows 2..nrows+1. A table without data rows gets none.
func ConditionalDirectives(matches []Match, nrows int) []Directive {
	if nrows == 0 {
		return nil
	}
	out := make([]Directive, 0, len(matches))
	for _, m := range matches {
		cf := &ConditionalFormat{
			RuleIndex:  m.Rule.Index,
			Column:     m.Name,
			Operator:   m.Operator,
			Value:      m.Rule.Value,
			StopIfTrue: true,
			Coerced:    m.Coerced,
		}
		if m.Rule.Style.FontColor != "" {
			cf.FontColor = brand.ARGB(m.Rule.Style.FontColor)
		}
		if m.Rule.Style.BgColor != "" {
			cf.BgColor = brand.ARGB(m.Rule.Style.BgColor)
		}
		out = append(out, Directive{
			Target:      Target{Kind: TargetRange, Col: m.Col, RowStart: 2, RowEnd: nrows + 1},
			Conditional: cf,
		})
	}
	return out
}
