package brand

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/locvowork/brandsheet/internal/apperr"
)

// Format of a brand profile file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the decoder from the file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load decodes a brand profile document. The top level must be an object.
func Load(r io.Reader, format Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIOFailure, err, "reading brand profile")
	}

	var doc map[string]interface{}
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrParseFailure, err, "decoding brand profile")
	}
	if doc == nil {
		return nil, apperr.Wrap(apperr.ErrParseFailure, nil, "brand profile must be an object")
	}
	return Document(doc), nil
}

// LoadFile reads and decodes the brand profile at path.
func LoadFile(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperr.WrapWith(apperr.ErrIOFailure, err, "opening brand profile", "path", path)
	}
	defer file.Close()

	return Load(file, FormatFor(path))
}

// LoadProfile reads, decodes and canonicalizes the brand profile at path.
func LoadProfile(path string) (*Profile, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Canonicalize(doc), nil
}
