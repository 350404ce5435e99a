package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/locvowork/brandsheet/pkg/brandxl"
)

func newContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRenderHandler(t *testing.T) {
	e := echo.New()
	h := NewRenderHandler(brandxl.WithInsightsSheet("Charts"))

	body := `{
		"sheet": "Sales",
		"brand": {"name": "Acme", "font": "Calibri", "header_bg": "#112233", "header_font_color": "fff"},
		"rows": [{"SKU": "A-1", "Units": 3}, {"SKU": "B-2", "Units": 5}]
	}`
	c, rec := newContext(e, http.MethodPost, "/render", body)

	require.NoError(t, h.RenderHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sales", "Charts"}, f.GetSheetList())
	v, err := f.GetCellValue("Sales", "B3")
	require.NoError(t, err)
	assert.Equal(t, "5", v)

	id, err := f.GetCellStyle("Sales", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	assert.Equal(t, "Calibri", style.Font.Family)
}

func TestRenderHandlerBadBrandRendersUnstyled(t *testing.T) {
	e := echo.New()
	h := NewRenderHandler()

	c, rec := newContext(e, http.MethodPost, "/render", `{"brand": "not a profile", "rows": [{"SKU": "A", "Units": 1}]}`)
	require.NoError(t, h.RenderHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}

func TestRenderHandlerRejectsBadRows(t *testing.T) {
	e := echo.New()
	h := NewRenderHandler()

	for _, body := range []string{`{}`, `{"rows": {"a": 1}}`} {
		c, rec := newContext(e, http.MethodPost, "/render", body)
		require.NoError(t, h.RenderHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestValidateHandler(t *testing.T) {
	e := echo.New()
	h := NewRenderHandler()

	c, rec := newContext(e, http.MethodPost, "/validate", `{"fonts": {"heading": "A"}, "colors": {"primary": "#zz0000"}}`)
	require.NoError(t, h.ValidateHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string        `json:"message"`
		Data    ValidationDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "v2", resp.Data.Kind)
	assert.False(t, resp.Data.Valid)
	assert.Contains(t, resp.Data.Findings, FindingDTO{
		Severity: "error",
		Field:    "colors.primary",
		Message:  "Invalid hex color for 'colors.primary': #zz0000",
	})
	assert.Contains(t, resp.Data.Error, "v2 brand profile has")
	assert.Contains(t, resp.Data.Error, "Invalid hex color for 'colors.primary': #zz0000")

	c, rec = newContext(e, http.MethodPost, "/validate", `{"name": "Acme", "font": "Arial", "header_bg": "#000", "header_font_color": "#fff"}`)
	require.NoError(t, h.ValidateHandler(c))
	resp.Data = ValidationDTO{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Valid)
	assert.Empty(t, resp.Data.Error)

	c, rec = newContext(e, http.MethodPost, "/validate", `{"name": `)
	require.NoError(t, h.ValidateHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	c, rec := newContext(e, http.MethodGet, "/healthz", "")
	require.NoError(t, NewRenderHandler().HealthHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "ok"}`, rec.Body.String())
}
