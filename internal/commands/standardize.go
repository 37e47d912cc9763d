package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtnorm/internal/importer"
	"github.com/cleared-dev/stmtnorm/internal/logger"
	"github.com/cleared-dev/stmtnorm/internal/model"
	"github.com/cleared-dev/stmtnorm/internal/report"
	"github.com/cleared-dev/stmtnorm/internal/runlog"
	"github.com/cleared-dev/stmtnorm/internal/standardize"
)

type standardizeOptions struct {
	dir           string
	moveProcessed bool
	format        string
	stats         bool
	output        string
}

// statsResponse is the JSON output when --stats is set.
type statsResponse struct {
	report.Response
	Statistics standardize.Statistics `json:"statistics"`
}

func newStandardizeCommand(a *app) *cobra.Command {
	var opts standardizeOptions

	cmd := &cobra.Command{
		Use:   "standardize [files...]",
		Short: "Standardize parser output (JSON arrays of parsed files)",
		Long: `Reads parser output from the given files, from <dir>/import/*.json
with --dir, or from stdin when neither is given, and writes the
standardized transactions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "json" && opts.format != "csv" {
				return fmt.Errorf("unknown format %q (want json or csv)", opts.format)
			}
			if opts.moveProcessed && opts.dir == "" {
				return fmt.Errorf("--move-processed requires --dir")
			}
			return runStandardize(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "project directory; reads import/*.json")
	cmd.Flags().BoolVar(&opts.moveProcessed, "move-processed", false, "move read files to import/processed/")
	cmd.Flags().StringVar(&opts.format, "format", "json", "output format: json or csv")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "include batch statistics")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runStandardize(cmd *cobra.Command, a *app, opts standardizeOptions, paths []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	svc, err := standardize.NewService(a.cfg)
	if err != nil {
		return err
	}

	var scanned []importer.FileInfo
	if opts.dir != "" {
		scanned, err = importer.Scan(opts.dir)
		if err != nil {
			return err
		}
		for _, f := range scanned {
			paths = append(paths, f.Path)
		}
		if len(scanned) == 0 {
			log.Warn().Str("dir", opts.dir).Msg("no parser output found in import directory")
		}
	}

	var (
		batch model.BatchResult
		spans []pathSpan
	)
	if len(paths) == 0 && opts.dir == "" {
		batch, err = svc.ProcessJSON(ctx, cmd.InOrStdin())
	} else {
		batch, spans, err = processPaths(ctx, svc, paths)
	}
	if err != nil {
		_ = report.WriteJSON(cmd.ErrOrStderr(), report.NewErrorResponse(err))
		return err
	}

	w, closeOut, err := openOutput(cmd, opts.output)
	if err != nil {
		return err
	}
	if err := writeBatch(w, cmd.ErrOrStderr(), svc, batch, opts); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	if len(scanned) > 0 {
		if err := runlog.Append(opts.dir, runEntries(time.Now(), batch, spans)); err != nil {
			return err
		}
	}

	if opts.moveProcessed {
		for _, f := range scanned {
			if err := importer.MarkProcessed(opts.dir, f.Name); err != nil {
				return err
			}
			log.Debug().Str("file", f.Name).Msg("moved to processed")
		}
	}
	return nil
}

// pathSpan records which file results came from one input path.
type pathSpan struct {
	path       string
	start, end int
}

// processPaths decodes every file and standardizes them as one batch.
func processPaths(ctx context.Context, svc *standardize.Service, paths []string) (model.BatchResult, []pathSpan, error) {
	var (
		files []model.FileRecord
		spans []pathSpan
	)
	for _, p := range paths {
		recs, err := decodePath(ctx, svc, p)
		if err != nil {
			return model.BatchResult{}, nil, err
		}
		spans = append(spans, pathSpan{path: p, start: len(files), end: len(files) + len(recs)})
		files = append(files, recs...)
	}
	return svc.ProcessBatch(ctx, files), spans, nil
}

// runEntries builds one run log entry per input path, sharing a run ID.
func runEntries(now time.Time, batch model.BatchResult, spans []pathSpan) []runlog.Entry {
	runID := uuid.NewString()
	entries := make([]runlog.Entry, 0, len(spans))
	for _, sp := range spans {
		entries = append(entries, runlog.NewEntry(now, runID, filepath.Base(sp.path), batch.FileResults[sp.start:sp.end]))
	}
	return entries
}

func decodePath(ctx context.Context, svc *standardize.Service, path string) ([]model.FileRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	recs, err := svc.Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return recs, nil
}

func writeBatch(w, errw io.Writer, svc *standardize.Service, batch model.BatchResult, opts standardizeOptions) error {
	if opts.format == "csv" {
		if err := report.WriteTransactions(w, batch); err != nil {
			return err
		}
		if opts.stats {
			return report.WriteJSON(errw, svc.Statistics(batch))
		}
		return nil
	}

	resp := report.NewResponse(batch)
	if opts.stats {
		return report.WriteJSON(w, statsResponse{Response: resp, Statistics: svc.Statistics(batch)})
	}
	return report.WriteJSON(w, resp)
}
