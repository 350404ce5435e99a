package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/brandsheet/internal/apperr"
	"github.com/locvowork/brandsheet/pkg/brand"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		content      string
		expectedExit int
		expectedOut  []string
	}{
		{
			name:         "valid v1",
			file:         "legacy.json",
			content:      `{"name": "Acme", "font": "Arial", "header_bg": "#112233", "header_font_color": "#fff"}`,
			expectedExit: 0,
			expectedOut: []string{
				"Info: Detected Legacy (v1) schema for 'legacy.json'",
				"Success: 'legacy.json' is a valid brand file.",
			},
		},
		{
			name:         "invalid v1",
			file:         "legacy.json",
			content:      `{"name": "Acme", "header_bg": "blue", "header_font_color": "#fff"}`,
			expectedExit: 1,
			expectedOut: []string{
				"Info: Detected Legacy (v1) schema for 'legacy.json'",
				"Error: Missing required field 'font'",
				"Error: Invalid hex color for 'header_bg': blue",
				"Failure: 'legacy.json' has errors.",
			},
		},
		{
			name: "valid v2 with empty rules",
			file: "acme.json",
			content: `{"name": "Acme", "fonts": {"heading": "Poppins", "body": "Lora"},
				"colors": {"primary": "#d97757", "background": "#faf9f5", "text": "#141413"},
				"analytics": {"rules": []}}`,
			expectedExit: 0,
			expectedOut: []string{
				"Info: Detected v2 (Advanced) schema for 'acme.json'",
				"Info: 'analytics' section present but contains no rules.",
				"Success: 'acme.json' is a valid brand file.",
			},
		},
		{
			name: "invalid v2 rule",
			file: "acme.json",
			content: `{"fonts": {"heading": "Poppins", "body": "Lora"},
				"colors": {"primary": "#d97757", "background": "#faf9f5", "text": "#141413"},
				"analytics": {"rules": [{"column_pattern": "rev"}]}}`,
			expectedExit: 1,
			expectedOut: []string{
				"Info: Detected v2 (Advanced) schema for 'acme.json'",
				"Error: Missing 'condition' in analytics rule index 0",
				"Failure: 'acme.json' has errors.",
			},
		},
		{
			name:         "unparsable",
			file:         "broken.json",
			content:      `{"name": `,
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.expectedExit, run([]string{path}, &stdout, &stderr))

			lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
			if tt.expectedOut != nil {
				assert.Equal(t, tt.expectedOut, lines)
			} else {
				assert.True(t, strings.HasPrefix(lines[0], "Error: Could not parse JSON"), lines[0])
			}
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "nope.json")
	assert.Equal(t, 1, run([]string{path}, &stdout, &stderr))
	assert.Equal(t, "Error: File not found: "+path+"\n", stdout.String())
}

func TestCheckReturnsKindTaggedErrors(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"name": "Acme", "font": "Arial", "header_bg": "#000000", "header_font_color": "#ffffff"}`), 0o600))
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"fonts": {"heading": "Poppins", "body": "Lora"},
		"colors": {"primary": "#zzz", "background": "#faf9f5", "text": "#141413"}}`), 0o600))

	var out bytes.Buffer
	assert.NoError(t, check(&out, valid))

	err := check(&out, invalid)
	var verr *brand.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, brand.KindV2, verr.Kind)
	assert.ErrorIs(t, err, apperr.ErrSchemaViolation)
	assert.ErrorIs(t, err, apperr.ErrInvalidColor)

	assert.ErrorIs(t, check(&out, filepath.Join(dir, "nope.json")), apperr.ErrInputNotFound)
}

func TestRunRequiresOneArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.NotEmpty(t, stderr.String())
}
