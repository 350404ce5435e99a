package brand

// Document is a decoded brand profile file in either schema version.
type Document map[string]interface{}

// Kind identifies which schema a Document was written against.
type Kind int

const (
	KindV1 Kind = iota + 1 // flat legacy schema
	KindV2                 // nested fonts/colors schema
)

func (k Kind) String() string {
	switch k {
	case KindV1:
		return "v1"
	case KindV2:
		return "v2"
	default:
		return "unknown"
	}
}

// Legacy defaults used when lifting a v1 document.
const (
	DefaultFont            = "Arial"
	DefaultName            = "Unknown"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#000000"
	DefaultBorderColor     = "#b0aea5"
	DefaultHeaderFill      = "#ffffff"
	DefaultHeaderText      = "#000000"
)

// Detect classifies a document for validation. A document is v2 iff it has
// both a "fonts" and a "colors" key.
func Detect(doc Document) Kind {
	_, hasFonts := doc["fonts"]
	_, hasColors := doc["colors"]
	if hasFonts && hasColors {
		return KindV2
	}
	return KindV1
}

// Normalize lifts a legacy document into the v2 shape. Any document that
// already has a "colors" key is returned as is, without defaulting.
func Normalize(doc Document) Document {
	if doc == nil {
		return nil
	}
	if _, ok := doc["colors"]; ok {
		return doc
	}

	font := valueOr(doc, "font", DefaultFont)
	return Document{
		"name": valueOr(doc, "name", DefaultName),
		"fonts": map[string]interface{}{
			"heading": font,
			"body":    font,
		},
		"colors": map[string]interface{}{
			"primary":     valueOr(doc, "header_bg", DefaultHeaderFill),
			"background":  DefaultBackgroundColor,
			"text":        DefaultTextColor,
			"header_text": valueOr(doc, "header_font_color", DefaultHeaderText),
			"borders":     DefaultBorderColor,
		},
		"excel": map[string]interface{}{
			"show_gridlines": true,
			"header_borders": false,
		},
	}
}

func valueOr(m map[string]interface{}, key string, fallback interface{}) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

// section returns a nested mapping, or nil when key is absent or not a mapping.
func section(m map[string]interface{}, key string) map[string]interface{} {
	v, ok := m[key]
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case map[string]interface{}:
		return s
	case Document:
		return s
	}
	return nil
}

func stringAt(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
