// Package main is the entry point for the brandcheck brand profile validator.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/locvowork/brandsheet/internal/apperr"
	"github.com/locvowork/brandsheet/pkg/brand"
)

// errReported marks errors whose diagnostics check already printed.
var errReported = errors.New("reported")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "brandcheck <file>",
		Short:         "Validate a v1 or v2 brand profile",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := check(cmd.OutOrStdout(), args[0]); err != nil {
				return fmt.Errorf("%w: %w", errReported, err)
			}
			return nil
		},
	}
}

// check prints every finding for the profile at path. An invalid profile
// returns the report's *brand.ValidationError.
func check(w io.Writer, path string) error {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "Error: File not found: %s\n", path)
		return apperr.Wrap(apperr.ErrInputNotFound, err, path)
	}

	doc, err := brand.LoadFile(path)
	if err != nil {
		if errors.Is(err, apperr.ErrParseFailure) {
			fmt.Fprintf(w, "Error: Could not parse JSON from %s: %v\n", path, err)
		} else {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
		return err
	}

	name := filepath.Base(path)
	report := brand.Validate(doc)
	if report.Kind == brand.KindV2 {
		fmt.Fprintf(w, "Info: Detected v2 (Advanced) schema for '%s'\n", name)
	} else {
		fmt.Fprintf(w, "Info: Detected Legacy (v1) schema for '%s'\n", name)
	}

	for _, f := range report.Findings {
		fmt.Fprintln(w, f.String())
	}

	if err := report.Err(); err != nil {
		fmt.Fprintf(w, "Failure: '%s' has errors.\n", name)
		return err
	}
	fmt.Fprintf(w, "Success: '%s' is a valid brand file.\n", name)
	return nil
}
