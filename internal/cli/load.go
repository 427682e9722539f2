// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/foodgram/internal/importer"
	"github.com/tomtom215/foodgram/internal/logging"
)

// LoadOptions are the flags of load-ingredients and load-tags.
type LoadOptions struct {
	Path     string
	File     string
	Encoding string
	Force    bool
	DryRun   bool
}

// LoadResult wraps importer stats for text rendering.
type LoadResult struct {
	*importer.Stats
}

// RenderText prints a one-screen summary.
func (r LoadResult) RenderText(w io.Writer) {
	if r.UpToDate {
		fmt.Fprintf(w, "%s: %s unchanged since last import (use --force to reload)\n", r.Kind, r.Source)
		return
	}
	mode := ""
	if r.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "%s: %s%s\n", r.Kind, r.Source, mode)
	fmt.Fprintf(w, "  total:    %d\n", r.Total)
	fmt.Fprintf(w, "  inserted: %d\n", r.Inserted)
	fmt.Fprintf(w, "  skipped:  %d\n", r.Skipped)
	fmt.Fprintf(w, "  errors:   %d\n", r.Errors)
	for _, re := range r.RowErrors {
		fmt.Fprintf(w, "    line %d: %s\n", re.Line, re.Message)
	}
	fmt.Fprintf(w, "  duration: %s\n", r.Duration().Round(time.Millisecond))
}

// NewLoadIngredientsCommand creates the load-ingredients command.
func NewLoadIngredientsCommand(rootOpts *RootOptions) *cobra.Command {
	return newLoadCommand(rootOpts, importer.KindIngredients, "ingredients.csv", true)
}

// NewLoadTagsCommand creates the load-tags command.
func NewLoadTagsCommand(rootOpts *RootOptions) *cobra.Command {
	return newLoadCommand(rootOpts, importer.KindTags, "tags.csv", false)
}

func newLoadCommand(rootOpts *RootOptions, kind importer.Kind, defaultFile string, withEncoding bool) *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load-" + string(kind),
		Short: fmt.Sprintf("Import %s from a CSV or JSON file", kind),
		Long: fmt.Sprintf(`Import %s into the catalogue.

The file is read from --path joined with --file; the extension (.csv or
.json) selects the parser. Invalid rows are reported and skipped, rows that
already exist are left alone. A file that has not changed since its last
successful import is skipped unless --force is given.`, kind),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, rootOpts, opts, kind)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "directory holding the data file (default: import.data_dir)")
	cmd.Flags().StringVar(&opts.File, "file", defaultFile, "file name inside --path")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "import even if the file is unchanged")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "validate rows without writing")
	if withEncoding {
		cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "CSV encoding: utf-8 or cp1251 (default: import.encoding)")
	}
	return cmd
}

func runLoad(cmd *cobra.Command, rootOpts *RootOptions, opts *LoadOptions, kind importer.Kind) error {
	out := newFormatter(rootOpts, cmd.OutOrStdout())

	e, err := openEnv(rootOpts, cmd.ErrOrStderr())
	if err != nil {
		return out.Fail(err)
	}
	defer e.Close()

	progress, err := importer.NewProgressTracker(&e.cfg.Import)
	if err != nil {
		return out.Fail(WrapExitError(ExitCommandError, "open import progress store", err))
	}
	defer func() {
		if err := progress.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing import progress store")
		}
	}()

	dir := opts.Path
	if dir == "" {
		dir = e.cfg.Import.DataDir
	}
	path := filepath.Join(dir, opts.File)

	imp := importer.New(e.db, progress, &e.cfg.Import)
	stats, err := imp.ImportFile(cmd.Context(), kind, path, importer.Options{
		Force:    opts.Force,
		DryRun:   opts.DryRun,
		Encoding: opts.Encoding,
	})
	if err != nil {
		return out.Fail(WrapExitError(ExitCommandError, "import "+path, err))
	}
	return out.Success(LoadResult{Stats: stats})
}
