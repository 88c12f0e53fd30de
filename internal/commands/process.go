package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stockcheck-dev/stockcheck/internal/gitops"
	"github.com/stockcheck-dev/stockcheck/internal/id"
	"github.com/stockcheck-dev/stockcheck/internal/importer"
	"github.com/stockcheck-dev/stockcheck/internal/inventory"
	"github.com/stockcheck-dev/stockcheck/internal/model"
	"github.com/stockcheck-dev/stockcheck/internal/report"
	"github.com/stockcheck-dev/stockcheck/internal/runlog"
)

type processFlags struct {
	repoDir  string
	all      bool
	now      string
	csv      bool
	jobs     int
	noCommit bool

	// moveArgs moves explicit inputs from import/ to import/processed/ too.
	moveArgs bool
}

func newProcessCommand() *cobra.Command {
	var f processFlags

	cmd := &cobra.Command{
		Use:   "process [file...]",
		Short: "Process inventory workbooks into reports",
		Long: `Process reads each inventory file, normalizes expiry dates, flags
duplicates, computes profit and writes a report workbook with a Data sheet
and a Dashboard sheet to the output directory.

With --all every supported file in import/ is processed and then moved to
import/processed/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !f.all {
				return errors.New("no input files: pass file paths or --all")
			}

			p, err := openProject(f.repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("csv") {
				f.csv = p.cfg.Output.CSV
			}

			_, err = runProcess(cmd.Context(), cmd.OutOrStdout(), p, args, f)
			return err
		},
	}

	cmd.Flags().StringVar(&f.repoDir, "repo", ".", "project directory")
	cmd.Flags().BoolVar(&f.all, "all", false, "process every file in import/ and move it to import/processed/")
	cmd.Flags().StringVar(&f.now, "now", "", "reference date for expiry classification (default: current time)")
	cmd.Flags().BoolVar(&f.csv, "csv", false, "also write CSV exports next to each workbook")
	cmd.Flags().IntVar(&f.jobs, "jobs", runtime.NumCPU(), "number of files processed concurrently")
	cmd.Flags().BoolVar(&f.noCommit, "no-commit", false, "do not commit reports even when git.auto_commit is set")

	return cmd
}

// fileRun is the outcome of processing one input file.
type fileRun struct {
	source string
	report string
	result inventory.Result
	entry  runlog.Entry
	files  []string // everything written for this input
}

type input struct {
	path     string
	imported bool // lives in import/ and is moved after processing
}

func runProcess(ctx context.Context, out io.Writer, p *project, args []string, f processFlags) ([]fileRun, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	now, err := parseNow(f.now, p.loc)
	if err != nil {
		return nil, err
	}

	inputs, err := collectInputs(p.root, args, f.all, f.moveArgs)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		fmt.Fprintln(out, "No input files found.")
		return nil, nil
	}

	outDir := p.outputDir()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	names := reportNames(inputs, outDir, now)
	runs := make([]fileRun, len(inputs))
	registry := importer.DefaultRegistry()

	g, gctx := errgroup.WithContext(ctx)
	if f.jobs > 0 {
		g.SetLimit(f.jobs)
	}
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run, err := processFile(p, registry, in.path, filepath.Join(outDir, names[i]), now, f.csv)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// The batch failed as a whole; drop reports from files that succeeded.
		for _, run := range runs {
			removeFiles(p.logger, run.files)
		}
		return nil, err
	}

	for _, run := range runs {
		printRun(out, run)
	}

	var moved bool
	for _, in := range inputs {
		if !in.imported {
			continue
		}
		archived, err := importer.MarkProcessed(p.root, filepath.Base(in.path))
		if err != nil {
			return runs, err
		}
		p.logger.Debug("archived input", "source", filepath.Base(in.path), "as", archived)
		moved = true
	}

	if p.cfg.Git.AutoCommit && !f.noCommit && gitops.IsRepo(p.root) {
		commitRuns(p, runs, moved)
	}

	entries := make([]runlog.Entry, len(runs))
	for i, run := range runs {
		entries[i] = run.entry
	}
	if err := runlog.Append(p.root, entries); err != nil {
		p.logger.Warn("failed to write run log", "error", err)
	} else if p.cfg.Git.AutoCommit && !f.noCommit && gitops.IsRepo(p.root) {
		msg := fmt.Sprintf("log: record %d run(s)", len(entries))
		if _, err := gitops.CommitPaths(p.root, msg, p.author(), "logs"); err != nil && !errors.Is(err, gitops.ErrNothingToCommit) {
			p.logger.Warn("failed to commit run log", "error", err)
		}
	}

	return runs, nil
}

func collectInputs(root string, args []string, all, moveArgs bool) ([]input, error) {
	var inputs []input
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", a, err)
		}
		if _, err := os.Stat(abs); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", importer.ErrSourceNotFound, abs)
			}
			return nil, fmt.Errorf("checking %s: %w", a, err)
		}
		imported := moveArgs && filepath.Dir(abs) == importer.ImportDir(root)
		inputs = append(inputs, input{path: abs, imported: imported})
	}
	if all {
		files, err := importer.Scan(root)
		if err != nil {
			return nil, err
		}
		for _, fi := range files {
			inputs = append(inputs, input{path: fi.Path, imported: true})
		}
	}
	return inputs, nil
}

// reportNames assigns each input a report file name that is distinct within
// the batch and does not overwrite an existing file in outDir.
func reportNames(inputs []input, outDir string, now time.Time) []string {
	names := make([]string, len(inputs))
	used := make(map[string]bool)
	taken := func(name string) bool {
		if used[name] {
			return true
		}
		_, err := os.Lstat(filepath.Join(outDir, name))
		return err == nil
	}
	for i, in := range inputs {
		name := id.ReportName(in.path, now)
		for n := 2; taken(name); n++ {
			name = id.ReportName(fmt.Sprintf("%s-%d", id.Stem(in.path), n), now)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func processFile(p *project, registry *importer.Registry, path, reportPath string, now time.Time, writeCSV bool) (fileRun, error) {
	runID := id.NewRunID()
	logger := p.logger.With("run_id", runID, "source", filepath.Base(path))

	sheet, err := registry.ReadFile(path, importer.Options{
		Sheet:      p.cfg.Input.Sheet,
		HeaderRows: p.cfg.Input.HeaderRows,
	})
	if err != nil {
		return fileRun{}, err
	}
	logger.Debug("read sheet", "sheet", sheet.Name, "rows", len(sheet.Rows))

	opts := p.pipelineOptions(now, logger)
	res := inventory.Process(sheet.Rows, opts)
	rep := report.Report{
		Header:  opts.Columns.Titles(sheet.Header),
		Records: res.Records,
		Summary: res.Summary,
	}

	files := []string{reportPath}
	if err := report.SaveWorkbook(reportPath, rep); err != nil {
		removeFiles(logger, files)
		return fileRun{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if writeCSV {
		csvFiles, err := saveCSV(reportPath, rep)
		files = append(files, csvFiles...)
		if err != nil {
			removeFiles(logger, files)
			return fileRun{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	logger.Info("processed",
		slog.Int("processed", res.Summary.Processed),
		slog.Int("skipped", res.Summary.Skipped),
		slog.Int("duplicates", len(res.Summary.Duplicates)),
		slog.String("report", reportPath),
	)

	return fileRun{
		source: p.rel(path),
		report: p.rel(reportPath),
		result: res,
		entry:  runlog.NewEntry(now, runID, p.rel(path), p.rel(reportPath), res.Summary),
		files:  files,
	}, nil
}

// saveCSV writes <report>.csv and <report>-summary.csv beside the workbook.
// It returns the paths it created, even on error.
func saveCSV(reportPath string, rep report.Report) ([]string, error) {
	base := strings.TrimSuffix(reportPath, filepath.Ext(reportPath))

	records, summary := base+".csv", base+"-summary.csv"
	if err := writeFile(records, func(w io.Writer) error {
		return report.WriteCSV(w, rep.Records)
	}); err != nil {
		return []string{records}, err
	}
	err := writeFile(summary, func(w io.Writer) error {
		return report.WriteSummaryCSV(w, rep.Summary)
	})
	return []string{records, summary}, err
}

func removeFiles(logger *slog.Logger, paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove partial output", "path", path, "error", err)
		}
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func commitRuns(p *project, runs []fileRun, moved bool) {
	paths := []string{p.rel(p.outputDir())}
	if moved {
		paths = append(paths, "import")
	}

	sources := make([]string, len(runs))
	for i, run := range runs {
		sources[i] = filepath.Base(run.source)
	}
	msg := "process: " + strings.Join(sources, ", ")

	hash, err := gitops.CommitPaths(p.root, msg, p.author(), paths...)
	if err != nil {
		if !errors.Is(err, gitops.ErrNothingToCommit) {
			p.logger.Warn("failed to commit reports", "error", err)
		}
		return
	}
	for i := range runs {
		runs[i].entry.CommitHash = hash
	}
}

func printRun(out io.Writer, run fileRun) {
	s := run.result.Summary
	fmt.Fprintf(out, "Processed %s -> %s\n", run.source, run.report)
	fmt.Fprintf(out, "  Rows: %d processed, %d skipped\n", s.Processed, s.Skipped)
	fmt.Fprintf(out, "  Status counts -> Expired: %d, Near: %d, Valid: %d, No Expiry: %d, Invalid Date: %d\n",
		s.Counts[model.StatusExpired], s.Counts[model.StatusNearExpiry],
		s.Counts[model.StatusValid], s.Counts[model.StatusNoExpiry], s.Invalid)
	fmt.Fprintf(out, "  Duplicates: %d -> [%s]\n", len(s.Duplicates), strings.Join(s.Duplicates, ", "))
}
