package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"go.trai.ch/zerr"

	"github.com/locvowork/brandsheet/internal/apperr"
	"github.com/locvowork/brandsheet/internal/config"
	"github.com/locvowork/brandsheet/internal/database"
	"github.com/locvowork/brandsheet/internal/logger"
	"github.com/locvowork/brandsheet/pkg/brand"
	"github.com/locvowork/brandsheet/pkg/brandxl"
	"github.com/locvowork/brandsheet/pkg/table"
)

type generateOptions struct {
	input    string
	output   string
	sheet    string
	engine   string
	brand    string
	dsn      string
	query    string
	table    string
	columns  []string
	where    []string
	orderBy  []string
	limit    int
	insights string
	anchor   string
	workers  int
}

func (c *CLI) generate(cmd *cobra.Command, o generateOptions) error {
	ctx := cmd.Context()

	engine, err := brandxl.ParseEngine(o.engine)
	if err != nil {
		return apperr.Wrap(apperr.ErrUsage, err, "")
	}
	if o.input == "" && o.query == "" && o.table == "" {
		return apperr.Wrap(apperr.ErrUsage, nil, "one of --input, --query or --table is required")
	}

	renderer := brandxl.NewRenderer(
		brandxl.WithSheet(o.sheet),
		brandxl.WithInsightsSheet(o.insights),
		brandxl.WithChartAnchor(o.anchor),
		brandxl.WithWorkers(o.workers),
		brandxl.WithEngine(engine),
	)

	if isWorkbook(o.input) {
		return c.rebrand(cmd, renderer, o)
	}

	t, err := loadTable(ctx, o)
	if err != nil {
		return apperr.Wrap(apperr.ErrInputLoad, err, "")
	}

	p, err := loadBrand(o.brand)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WarnLog(ctx, "Brand file not found: %s", o.brand)
		} else {
			logger.WarnLog(ctx, "Failed to load brand %s, rendering unstyled: %v", o.brand, err)
		}
	}

	f, _, err := renderer.Render(ctx, t, p)
	if err != nil {
		return apperr.Wrap(apperr.ErrIOFailure, err, "failed to write workbook")
	}
	defer f.Close()

	if err := save(f, o.output); err != nil {
		return zerr.Wrap(err, "failed to write workbook")
	}

	fmt.Fprintln(cmd.OutOrStdout(), o.output)
	return nil
}

// rebrand restyles an existing workbook. A loadable brand is mandatory here.
func (c *CLI) rebrand(cmd *cobra.Command, renderer *brandxl.Renderer, o generateOptions) error {
	ctx := cmd.Context()

	if o.brand == "" {
		return apperr.ErrMissingBrandForRebrand
	}
	p, err := loadBrand(o.brand)
	if err != nil {
		return apperr.WrapWith(apperr.ErrMissingBrandForRebrand, err, "loading brand", "path", o.brand)
	}

	f, err := excelize.OpenFile(o.input)
	if err != nil {
		return apperr.WrapWith(apperr.ErrIOFailure, err, "opening workbook", "path", o.input)
	}
	defer f.Close()

	res, err := renderer.Rebrand(ctx, f, p)
	if err != nil {
		return zerr.Wrap(err, "failed to re-brand workbook")
	}
	logger.InfoLog(ctx, "re-branded %d sheet(s)", len(res.Sheets))
	if err := save(f, o.output); err != nil {
		return zerr.Wrap(err, "failed to re-brand workbook")
	}

	fmt.Fprintln(cmd.OutOrStdout(), o.output)
	return nil
}

func isWorkbook(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// tableQuery builds the SELECT for --table from the column, filter, order
// and limit flags.
func tableQuery(o generateOptions) (string, []interface{}, error) {
	b := database.NewSelectBuilder(o.table).Columns(o.columns...).OrderBy(o.orderBy...).Limit(o.limit)
	for _, cond := range o.where {
		b.Where(cond)
	}
	query, args, err := b.Build()
	if err != nil {
		return "", nil, apperr.Wrap(apperr.ErrUsage, err, "building table query")
	}
	return query, args, nil
}

func loadTable(ctx context.Context, o generateOptions) (*table.Table, error) {
	query, args := o.query, []interface{}(nil)
	switch {
	case o.table != "":
		var err error
		if query, args, err = tableQuery(o); err != nil {
			return nil, err
		}
	case query == "":
		return table.Load(o.input)
	}

	cfg := config.DefaultEnvConfig
	dbConfig := database.Config{
		Host:            cfg.DB_HOST,
		Port:            cfg.DB_PORT,
		User:            cfg.DB_USER,
		Password:        cfg.DB_PASSWORD,
		DBName:          cfg.DB_NAME,
		SSLMode:         cfg.DB_SSL_MODE,
		MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
	}

	var (
		db  *sql.DB
		err error
	)
	if o.dsn == "" {
		db, err = database.NewPostgresDB(ctx, dbConfig)
	} else {
		db, err = database.Open(ctx, o.dsn, dbConfig)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIOFailure, err, "connecting to postgres")
	}
	defer db.Close()

	return table.FromSQL(ctx, db, query, args...)
}

// loadBrand returns nil, nil when no brand was given.
func loadBrand(path string) (*brand.Profile, error) {
	if path == "" {
		return nil, nil
	}
	return brand.LoadProfile(path)
}

func save(f *excelize.File, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.WrapWith(apperr.ErrIOFailure, err, "creating output directory", "dir", dir)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return apperr.WrapWith(apperr.ErrIOFailure, err, "saving workbook", "path", path)
	}
	return nil
}
