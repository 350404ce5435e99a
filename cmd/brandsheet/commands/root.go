// Package commands implements the brandsheet command line interface.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/locvowork/brandsheet/internal/apperr"
	"github.com/locvowork/brandsheet/internal/config"
)

// CLI represents the command line interface for brandsheet.
type CLI struct {
	rootCmd *cobra.Command
	// ran is set once a command's RunE is entered.
	ran bool
}

// New creates the command tree. config.DefaultEnvConfig must be loaded.
func New() *CLI {
	cfg := config.DefaultEnvConfig
	c := &CLI{}

	var o generateOptions
	rootCmd := &cobra.Command{
		Use:   "brandsheet",
		Short: "Render tabular data into a brand-styled Excel workbook",
		Long: `Render JSON, CSV or TSV records (or a Postgres query or table) into an .xlsx
workbook styled by a brand profile. When --input is an existing .xlsx file
the workbook is re-branded in place of loading data.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.ran = true
			return c.generate(cmd, o)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&o.input, "input", "i", "", "Path to input file or '-' for JSON on stdin")
	flags.StringVarP(&o.output, "output", "o", "", "Output .xlsx path")
	flags.StringVarP(&o.sheet, "sheet", "s", cfg.SHEET_NAME, "Sheet name")
	flags.StringVarP(&o.engine, "engine", "e", "", "Rendering engine (excelize, plain)")
	flags.StringVarP(&o.brand, "brand", "b", "", "Path to brand profile (.json, .yaml)")
	flags.StringVar(&o.dsn, "dsn", "", "Postgres connection string used with --query (defaults to DB_* env)")
	flags.StringVar(&o.query, "query", "", "SQL query whose result is rendered instead of --input")
	flags.StringVar(&o.table, "table", "", "Postgres table rendered instead of --input")
	flags.StringSliceVar(&o.columns, "columns", nil, "Columns selected from --table")
	flags.StringArrayVar(&o.where, "where", nil, "Condition on --table rows, repeatable (ANDed)")
	flags.StringSliceVar(&o.orderBy, "order-by", nil, "Columns --table rows are ordered by")
	flags.IntVar(&o.limit, "limit", 0, "Maximum rows selected from --table")
	flags.StringVar(&o.insights, "insights-sheet", cfg.INSIGHTS_SHEET, "Sheet the chart is placed on")
	flags.StringVar(&o.anchor, "chart-anchor", cfg.CHART_ANCHOR, "Top-left cell of the chart")
	flags.IntVar(&o.workers, "workers", cfg.REBRAND_WORKERS, "Sheets planned concurrently when re-branding")
	_ = rootCmd.MarkFlagRequired("output")
	rootCmd.MarkFlagsMutuallyExclusive("input", "query", "table")

	rootCmd.AddCommand(c.newServeCmd())
	c.rootCmd = rootCmd
	return c
}

// Execute runs the root command with the given context. Errors carry an
// apperr kind; see apperr.ExitCode.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if err != nil && !c.ran {
		// Flag, argument and required-flag errors never reach a command.
		return apperr.Wrap(apperr.ErrUsage, err, "")
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output and error text.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)
}
