package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aezell/codescore/internal/client"
	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/report"
	"github.com/aezell/codescore/internal/selector"
	"github.com/aezell/codescore/internal/session"
	"github.com/aezell/codescore/internal/watch"
	"github.com/gobwas/glob"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Analyze files and output a report (non-interactive)",
	Long: `Send each .js, .jsx and .py file to the analysis service, one at a
time, and print a report. Directories are searched recursively.
Useful for CI, pre-commit hooks, and piping into other tools.

Exit codes:
  0 - every file analysed, all scores at or above --min-score
  1 - a score is below --min-score
  2 - a file could not be analysed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	checkCmd.Flags().Int("min-score", 0, "fail when an overall score is below this value")
	checkCmd.Flags().StringSlice("exclude", nil, "glob patterns of paths to skip")
	checkCmd.Flags().BoolP("watch", "w", false, "re-analyse files when they change")
}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"venv":         true,
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	writeReport, err := report.Writer(format)
	if err != nil {
		return err
	}
	minScore, _ := cmd.Flags().GetInt("min-score")
	patterns, _ := cmd.Flags().GetStringSlice("exclude")
	watching, _ := cmd.Flags().GetBool("watch")

	excludes, err := compileExcludes(patterns)
	if err != nil {
		return err
	}
	paths, err := collectFiles(args, excludes)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No .js, .jsx or .py files to check.")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c := client.New(cfg.ResolvedEndpoint())
	out := cmd.OutOrStdout()

	reports := make([]report.FileReport, 0, len(paths))
	for _, p := range paths {
		reports = append(reports, analyzeFile(ctx, c, p))
	}
	if err := writeReport(out, reports); err != nil {
		return err
	}

	if watching {
		return watchFiles(ctx, c, paths, writeReport, out)
	}
	return exitFor(reports, minScore)
}

// analyzeFile runs one file through a fresh session, the same way the
// interactive front-ends do.
func analyzeFile(ctx context.Context, sub session.Submitter, path string) report.FileReport {
	rep := report.FileReport{Path: path}
	sess := session.New(sub)

	f, err := sess.SelectPath(path)
	if err != nil {
		rep.Err = client.Describe(err)
		return rep
	}
	rep.Size = f.Size()

	log.Debugf("Submitting %s (%d bytes)", path, rep.Size)
	_ = sess.Submit(ctx)

	st := sess.State()
	rep.Result = model.Result(st)
	rep.Err = model.ErrorMessage(st)
	return rep
}

// exitFor returns the exit status for a finished run.
func exitFor(reports []report.FileReport, minScore int) error {
	below := false
	for _, r := range reports {
		if r.Failed() {
			return &ExitError{Code: 2}
		}
		if r.Result != nil && r.Result.OverallScore < minScore {
			below = true
		}
	}
	if below {
		return &ExitError{Code: 1}
	}
	return nil
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func excluded(path string, excludes []glob.Glob) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range excludes {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}

// collectFiles expands the command arguments. Files named explicitly are
// kept even with the wrong extension so the report explains the rejection;
// directories only contribute files the selector would accept.
func collectFiles(args []string, excludes []glob.Glob) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			if !excluded(arg, excludes) {
				add(arg)
			}
			continue
		}

		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if p != arg && (strings.HasPrefix(name, ".") || skipDirs[name] || excluded(p, excludes)) {
					return filepath.SkipDir
				}
				return nil
			}
			if selector.Validate(d.Name()) == nil && !excluded(p, excludes) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return paths, nil
}

// watchFiles re-analyses each file whenever it is saved, one request at a
// time, until ctx is cancelled.
func watchFiles(ctx context.Context, sub session.Submitter, paths []string, writeReport func(io.Writer, []report.FileReport) error, out io.Writer) error {
	w, err := watch.New(watch.DefaultDebounce)
	if err != nil {
		return err
	}

	display := make(map[string]string, len(paths))
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return err
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		display[abs] = p
	}

	log.Infof("Watching %d file(s) for changes", len(paths))
	for abs := range w.Run(ctx) {
		p, ok := display[abs]
		if !ok {
			p = abs
		}
		if err := writeReport(out, []report.FileReport{analyzeFile(ctx, sub, p)}); err != nil {
			return err
		}
	}
	return nil
}
