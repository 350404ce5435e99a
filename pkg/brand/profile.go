package brand

import "fmt"

// Chart series defaults, cycled as primary, secondary, tertiary.
const (
	DefaultSeriesPrimary   = "#d97757"
	DefaultSeriesSecondary = "#6a9bcc"
	DefaultSeriesTertiary  = "#788c5d"
)

// Fonts holds the two brand typefaces.
type Fonts struct {
	Heading string
	Body    string
}

// Options are the sheet-level presentation switches.
type Options struct {
	ShowGridlines   bool
	HeaderBorders   bool
	AlternatingRows bool
}

// HeaderPalette is what the style engine reads for the header row.
type HeaderPalette struct {
	Fill   string
	Text   string
	Border string
}

// RuleStyle is the differential style a conditional rule applies.
type RuleStyle struct {
	FontColor string
	BgColor   string
}

// Rule is one conditional formatting rule, as declared. Validity is judged by
// the rule engine so malformed rules can be reported and skipped.
type Rule struct {
	Index         int
	ColumnPattern string
	Condition     string
	Value         interface{}
	Style         RuleStyle
}

// Profile is the canonical, version-independent brand profile. Every field
// is populated once by Canonicalize; consumers never look at the source
// document.
type Profile struct {
	Name    string
	Fonts   Fonts
	Colors  map[string]string
	Options Options
	Header  HeaderPalette
	Series  []string
	Rules   []Rule

	// Warnings lists colors that were present but unusable and were replaced
	// by their default.
	Warnings []string
}

// Canonicalize normalizes doc and resolves it into a Profile.
func Canonicalize(doc Document) *Profile {
	if doc == nil {
		return nil
	}
	doc = Normalize(doc)

	p := &Profile{Colors: map[string]string{}}
	p.Name, _ = stringAt(doc, "name")

	fonts := section(doc, "fonts")
	p.Fonts.Heading = nonEmpty(fonts, "heading", DefaultFont)
	p.Fonts.Body = nonEmpty(fonts, "body", DefaultFont)

	for k, v := range section(doc, "colors") {
		if s, ok := v.(string); ok {
			p.Colors[k] = s
		}
	}

	primary, ok := p.resolve("primary")
	p.Header = HeaderPalette{
		Fill:   orDefault(primary, ok, DefaultHeaderFill),
		Text:   p.color("header_text", DefaultHeaderText),
		Border: p.color("borders", DefaultBorderColor),
	}
	p.Series = []string{
		orDefault(primary, ok, DefaultSeriesPrimary),
		p.color("secondary", DefaultSeriesSecondary),
		p.color("tertiary", DefaultSeriesTertiary),
	}

	opts := section(doc, "excel")
	if opts == nil {
		opts = section(doc, "options")
	}
	p.Options = Options{
		ShowGridlines:   boolOr(opts, "show_gridlines", true),
		HeaderBorders:   boolOr(opts, "header_borders", false),
		AlternatingRows: boolOr(opts, "alternating_rows", false),
	}

	if rules, ok := section(doc, "analytics")["rules"].([]interface{}); ok {
		for i, raw := range rules {
			p.Rules = append(p.Rules, parseRule(i, raw))
		}
	}

	return p
}

func (p *Profile) color(key, fallback string) string {
	v, ok := p.resolve(key)
	return orDefault(v, ok, fallback)
}

// resolve looks key up once. An unusable value is reported in Warnings and
// resolves like a missing one.
func (p *Profile) resolve(key string) (string, bool) {
	v, ok := p.Colors[key]
	if !ok {
		return "", false
	}
	if !ValidHex(v) {
		p.Warnings = append(p.Warnings, fmt.Sprintf("colors.%s %q is not a hex color, using the default", key, v))
		return "", false
	}
	return v, true
}

func orDefault(v string, ok bool, fallback string) string {
	if ok {
		return v
	}
	return fallback
}

func parseRule(idx int, raw interface{}) Rule {
	r := Rule{Index: idx}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return r
	}
	r.ColumnPattern, _ = stringAt(m, "column_pattern")
	r.Condition, _ = stringAt(m, "condition")
	r.Value = m["value"]
	style := section(m, "style")
	r.Style.FontColor, _ = stringAt(style, "font_color")
	r.Style.BgColor, _ = stringAt(style, "bg_color")
	return r
}

func nonEmpty(m map[string]interface{}, key, fallback string) string {
	if s, ok := stringAt(m, key); ok && s != "" {
		return s
	}
	return fallback
}

func boolOr(m map[string]interface{}, key string, fallback bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return fallback
}
