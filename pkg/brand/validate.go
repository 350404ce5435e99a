package brand

import (
	"fmt"
	"sort"
	"strings"

	"github.com/locvowork/brandsheet/internal/apperr"
)

// Severity of a validation finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// FindingCode classifies a validation finding.
type FindingCode int

const (
	CodeInfo FindingCode = iota
	CodeMissingField
	CodeInvalidColor
)

// Finding is one diagnostic produced while validating a document.
type Finding struct {
	Severity Severity
	Code     FindingCode
	Field    string
	Message  string
}

func (f Finding) String() string {
	if f.Severity == SeverityError {
		return "Error: " + f.Message
	}
	return "Info: " + f.Message
}

// Report is the outcome of validating one document.
type Report struct {
	Kind     Kind
	Findings []Finding
}

// Valid reports whether no error findings were collected.
func (r Report) Valid() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns only the error findings.
func (r Report) Errors() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Err returns a *ValidationError when the report has errors, nil otherwise.
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Kind: r.Kind, Findings: r.Errors()}
}

// ValidationError carries every violation found in one pass.
type ValidationError struct {
	Kind     Kind
	Findings []Finding
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		msgs[i] = f.Message
	}
	return fmt.Sprintf("%s brand profile has %d error(s): %s", e.Kind, len(e.Findings), strings.Join(msgs, "; "))
}

// Is matches apperr.ErrSchemaViolation, and apperr.ErrInvalidColor when any
// finding is a color failure.
func (e *ValidationError) Is(target error) bool {
	if target == apperr.ErrSchemaViolation {
		return true
	}
	if target == apperr.ErrInvalidColor {
		for _, f := range e.Findings {
			if f.Code == CodeInvalidColor {
				return true
			}
		}
	}
	return false
}

var requiredV1 = []string{"name", "font", "header_bg", "header_font_color"}

// Validate checks a document against the schema it was detected as and
// collects all violations rather than stopping at the first.
func Validate(doc Document) Report {
	kind := Detect(doc)
	r := Report{Kind: kind}
	if kind == KindV2 {
		r.Findings = validateV2(doc)
	} else {
		r.Findings = validateV1(doc)
	}
	return r
}

func validateV2(doc Document) []Finding {
	var out []Finding

	fonts := section(doc, "fonts")
	for _, key := range []string{"heading", "body"} {
		if _, ok := fonts[key]; !ok {
			out = append(out, missing("fonts."+key, fmt.Sprintf("Missing 'fonts.%s'", key)))
		}
	}

	colors := section(doc, "colors")
	for _, key := range []string{"primary", "background", "text"} {
		if _, ok := colors[key]; !ok {
			out = append(out, missing("colors."+key, fmt.Sprintf("Missing 'colors.%s'", key)))
		}
	}

	keys := make([]string, 0, len(colors))
	for k := range colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := colors[k].(string); ok && !ValidHex(s) {
			out = append(out, Finding{
				Severity: SeverityError,
				Code:     CodeInvalidColor,
				Field:    "colors." + k,
				Message:  fmt.Sprintf("Invalid hex color for 'colors.%s': %s", k, s),
			})
		}
	}

	if _, ok := doc["analytics"]; ok {
		rules, _ := section(doc, "analytics")["rules"].([]interface{})
		for idx, raw := range rules {
			rule, _ := raw.(map[string]interface{})
			if _, ok := rule["column_pattern"]; !ok {
				out = append(out, missing(fmt.Sprintf("analytics.rules[%d].column_pattern", idx),
					fmt.Sprintf("Missing 'column_pattern' in analytics rule index %d", idx)))
			}
			if _, ok := rule["condition"]; !ok {
				out = append(out, missing(fmt.Sprintf("analytics.rules[%d].condition", idx),
					fmt.Sprintf("Missing 'condition' in analytics rule index %d", idx)))
			}
		}
		if len(rules) == 0 {
			out = append(out, Finding{
				Severity: SeverityInfo,
				Code:     CodeInfo,
				Field:    "analytics.rules",
				Message:  "'analytics' section present but contains no rules.",
			})
		}
	}

	return out
}

func validateV1(doc Document) []Finding {
	var out []Finding
	for _, field := range requiredV1 {
		if _, ok := doc[field]; !ok {
			out = append(out, missing(field, fmt.Sprintf("Missing required field '%s'", field)))
		}
	}

	for _, field := range []string{"header_bg", "header_font_color"} {
		val, ok := doc[field]
		if !ok {
			continue
		}
		if s, isStr := val.(string); !isStr || !ValidHex(s) {
			out = append(out, Finding{
				Severity: SeverityError,
				Code:     CodeInvalidColor,
				Field:    field,
				Message:  fmt.Sprintf("Invalid hex color for '%s': %v", field, val),
			})
		}
	}
	return out
}

func missing(field, msg string) Finding {
	return Finding{Severity: SeverityError, Code: CodeMissingField, Field: field, Message: msg}
}
