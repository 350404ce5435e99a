package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testBrand = `{
  "name": "Acme",
  "fonts": {"heading": "Poppins", "body": "Lora"},
  "colors": {"primary": "#d97757", "background": "#faf9f5", "text": "#141413"},
  "analytics": {"rules": [{"column_pattern": "units", "condition": "lessThan", "value": 2, "style": {"font_color": "#c00000"}}]}
}`

const testRecords = `[{"SKU": "A-1", "Units": 3}, {"SKU": "B-2", "Units": 1}]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	records := writeFile(t, dir, "records.json", testRecords)
	brandPath := writeFile(t, dir, "brand.json", testBrand)
	badJSON := writeFile(t, dir, "broken.json", `[{"SKU": `)
	unknown := writeFile(t, dir, "records.dat", "SKU;Units\nA;1\n")
	blocker := writeFile(t, dir, "blocker", "")

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{
			name:         "render with brand",
			args:         []string{"-i", records, "-o", filepath.Join(dir, "out", "nested", "report.xlsx"), "-b", brandPath},
			expectedExit: 0,
		},
		{
			name:         "missing brand file renders unstyled",
			args:         []string{"-i", records, "-o", filepath.Join(dir, "plain.xlsx"), "-b", filepath.Join(dir, "nope.json")},
			expectedExit: 0,
		},
		{
			name:         "input not found",
			args:         []string{"-i", filepath.Join(dir, "missing.csv"), "-o", filepath.Join(dir, "x.xlsx")},
			expectedExit: 1,
		},
		{
			name:         "output flag required",
			args:         []string{"-i", records},
			expectedExit: 1,
		},
		{
			name:         "unknown engine",
			args:         []string{"-i", records, "-o", filepath.Join(dir, "x.xlsx"), "-e", "xlsxwriter"},
			expectedExit: 1,
		},
		{
			name:         "malformed json",
			args:         []string{"-i", badJSON, "-o", filepath.Join(dir, "x.xlsx")},
			expectedExit: 2,
		},
		{
			name:         "unsupported format",
			args:         []string{"-i", unknown, "-o", filepath.Join(dir, "x.xlsx")},
			expectedExit: 2,
		},
		{
			name:         "output not writable",
			args:         []string{"-i", records, "-o", filepath.Join(blocker, "report.xlsx")},
			expectedExit: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			exitCode := run(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.expectedExit, exitCode, "stderr: %s", stderr.String())
			if tt.expectedExit == 0 {
				assert.Equal(t, tt.args[3]+"\n", stdout.String())
				assert.FileExists(t, tt.args[3])
			} else {
				assert.Empty(t, stdout.String())
				assert.True(t, strings.HasPrefix(stderr.String(), "Error: "), stderr.String())
			}
		})
	}
}

func TestRunRebrand(t *testing.T) {
	dir := t.TempDir()
	brandPath := writeFile(t, dir, "brand.json", testBrand)

	src := filepath.Join(dir, "existing.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"SKU", "Units"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"A-1", 1}))
	_, err := f.NewSheet("Summary")
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(src))
	require.NoError(t, f.Close())

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-i", src, "-o", filepath.Join(dir, "out.xlsx")}, &stdout, &stderr))
	assert.True(t, strings.Contains(stderr.String(), "--brand is required"))

	broken := writeFile(t, dir, "broken.json", `{"name": `)
	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-i", src, "-o", filepath.Join(dir, "out.xlsx"), "-b", broken}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "loading brand")
	assert.NoFileExists(t, filepath.Join(dir, "out.xlsx"))

	out := filepath.Join(dir, "rebranded.xlsx")
	stdout.Reset()
	require.Equal(t, 0, run([]string{"-i", src, "-o", out, "-b", brandPath}, &stdout, &stderr), stderr.String())
	assert.Equal(t, out+"\n", stdout.String())

	rebranded, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer rebranded.Close()

	assert.Equal(t, []string{"Sheet1", "Summary"}, rebranded.GetSheetList())
	id, err := rebranded.GetCellStyle("Sheet1", "A1")
	require.NoError(t, err)
	style, err := rebranded.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.Equal(t, "Poppins", style.Font.Family)

	formats, err := rebranded.GetConditionalFormats("Sheet1")
	require.NoError(t, err)
	assert.Contains(t, formats, "B2:B2")
}
