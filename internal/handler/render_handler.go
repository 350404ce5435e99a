package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/brandsheet/internal/apperr"
	"github.com/locvowork/brandsheet/internal/logger"
	"github.com/locvowork/brandsheet/pkg/brand"
	"github.com/locvowork/brandsheet/pkg/brandxl"
	"github.com/locvowork/brandsheet/pkg/table"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RenderHandler struct {
	opts []brandxl.Option
}

func NewRenderHandler(opts ...brandxl.Option) *RenderHandler {
	return &RenderHandler{opts: opts}
}

// RenderHandler turns JSON records into a branded workbook. A brand that
// cannot be parsed is logged and the workbook is rendered unstyled.
func (h *RenderHandler) RenderHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if len(req.Rows) == 0 {
		return ResponseError(c, http.StatusBadRequest, "Missing rows", nil)
	}

	t, err := table.Read(bytes.NewReader(req.Rows), table.FormatJSON)
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid rows", err)
	}

	var profile *brand.Profile
	if len(req.Brand) > 0 && !bytes.Equal(req.Brand, []byte("null")) {
		doc, err := brand.Load(bytes.NewReader(req.Brand), brand.FormatJSON)
		if err != nil {
			logger.WarnLog(ctx, "failed to parse brand, rendering unstyled: %v", err)
		} else {
			profile = brand.Canonicalize(doc)
		}
	}

	opts := append(append([]brandxl.Option{}, h.opts...), brandxl.WithSheet(req.Sheet))
	f, _, err := brandxl.NewRenderer(opts...).Render(ctx, t, profile)
	if err != nil {
		logger.ErrorLog(ctx, "Failed to render workbook", err)
		return ResponseError(c, http.StatusInternalServerError, "Failed to render workbook", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.ErrorLog(ctx, "Failed to write workbook", err)
		return ResponseError(c, http.StatusInternalServerError, "Failed to write workbook", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", "report.xlsx"))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ValidateHandler checks a brand profile document and lists every finding.
func (h *RenderHandler) ValidateHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	doc, err := brand.Load(bytes.NewReader(body), brand.FormatJSON)
	if err != nil {
		if errors.Is(err, apperr.ErrParseFailure) {
			return ResponseError(c, http.StatusBadRequest, "Brand profile is not valid JSON", err)
		}
		return ResponseError(c, http.StatusInternalServerError, "Failed to read brand profile", err)
	}

	report := brand.Validate(doc)
	verr := report.Err()
	dto := ValidationDTO{Kind: report.Kind.String(), Valid: verr == nil, Findings: []FindingDTO{}}
	for _, f := range report.Findings {
		severity := "info"
		if f.Severity == brand.SeverityError {
			severity = "error"
		}
		dto.Findings = append(dto.Findings, FindingDTO{Severity: severity, Field: f.Field, Message: f.Message})
	}

	if verr != nil {
		logger.WarnLog(c.Request().Context(), "Rejected brand profile: %v", verr)
		dto.Error = verr.Error()
		return ResponseSuccess(c, http.StatusOK, "Brand profile is invalid", dto)
	}
	return ResponseSuccess(c, http.StatusOK, "Brand profile is valid", dto)
}

func (h *RenderHandler) HealthHandler(c echo.Context) error {
	return ResponseSuccess(c, http.StatusOK, "ok", nil)
}
