package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mbaalint/internal/cache"
	"mbaalint/internal/config"
	"mbaalint/internal/diag"
	"mbaalint/internal/diagfmt"
	"mbaalint/internal/dialect"
	"mbaalint/internal/driver"
	"mbaalint/internal/source"
	"mbaalint/internal/version"
	"mbaalint/internal/watch"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file|directory]...",
	Short: "Check data files for duplicate IDs and dangling references",
	Long: `Check validates command, vector and SeList files. Directories are walked
recursively. The dialect of each file comes from --dialect, then the [files]
patterns of mbaalint.toml, then content sniffing.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("dialect", "auto", "force a dialect (auto|cmd|vector|selist)")
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short|sarif)")
	checkCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "empty the on-disk cache before checking")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().String("encoding", "", "input encoding (auto|utf-8|shift-jis), default from config")
	checkCmd.Flags().Bool("timings", false, "print phase timings to stderr")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("watch", false, "re-check when files under the first directory change")
}

// checkRun is the resolved configuration of one check invocation.
type checkRun struct {
	paths            []string
	format           string
	noWarnings       bool
	warningsAsErrors bool
	overrides        map[diag.Code]diag.Severity
	withNotes        bool
	timings          bool
	pathMode         diagfmt.PathMode
	ui               uiMode
	color            bool
	matcher          *dialect.Matcher
	root             string
	opts             driver.Options
	logger           *log.Logger
	args             []string
}

func runCheck(cmd *cobra.Command, args []string) error {
	run, cfg, err := resolveCheckRun(cmd, args)
	if err != nil {
		return err
	}

	watchMode, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if watchMode {
		return watchCheck(cmd.Context(), cmd.OutOrStdout(), run, cfg)
	}

	exit, err := run.once(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if exit != 0 {
		// os.Exit пропускает defer: профили сбрасываем явно.
		cleanup()
		os.Exit(exit)
	}
	return nil
}

func resolveCheckRun(cmd *cobra.Command, args []string) (*checkRun, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	logger, err := newLogger(cmd, "check")
	if err != nil {
		return nil, cfg, err
	}
	if cfg.Path != "" {
		logger.Debug("using config", "path", cfg.Path)
	}

	flags := cmd.Flags()
	run := &checkRun{logger: logger, args: os.Args[1:]}

	if run.format, err = flags.GetString("format"); err != nil {
		return nil, cfg, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch run.format {
	case "pretty", "json", "short", "sarif":
	default:
		return nil, cfg, fmt.Errorf("unknown format: %s", run.format)
	}

	dialectStr, err := flags.GetString("dialect")
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to get dialect flag: %w", err)
	}
	kind, err := dialect.Parse(dialectStr)
	if err != nil {
		return nil, cfg, err
	}

	run.noWarnings = cfg.Check.NoWarnings
	if flags.Changed("no-warnings") {
		run.noWarnings, _ = flags.GetBool("no-warnings")
	}
	run.warningsAsErrors = cfg.Check.WarningsAsErrors
	if flags.Changed("warnings-as-errors") {
		run.warningsAsErrors, _ = flags.GetBool("warnings-as-errors")
	}
	if run.overrides, err = cfg.SeverityOverrides(); err != nil {
		return nil, cfg, err
	}
	if run.noWarnings && run.warningsAsErrors {
		return nil, cfg, fmt.Errorf("no-warnings and warnings-as-errors cannot be used together")
	}
	if run.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return nil, cfg, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if run.timings, err = flags.GetBool("timings"); err != nil {
		return nil, cfg, fmt.Errorf("failed to get timings flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	run.pathMode = diagfmt.PathModeRelative
	if fullPath {
		run.pathMode = diagfmt.PathModeAbsolute
	}

	uiStr, err := flags.GetString("ui")
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if run.ui, err = readUIMode(uiStr); err != nil {
		return nil, cfg, err
	}
	if run.color, err = useColor(cmd); err != nil {
		return nil, cfg, err
	}

	enc := cfg.Encoding()
	if encStr, _ := flags.GetString("encoding"); encStr != "" {
		if enc, err = source.ParseEncoding(encStr); err != nil {
			return nil, cfg, err
		}
	}

	jobs := cfg.Check.Jobs
	if flags.Changed("jobs") {
		jobs, _ = flags.GetInt("jobs")
	}
	maxDiag, err := maxDiagnostics(cmd, cfg)
	if err != nil {
		return nil, cfg, err
	}

	if run.matcher, err = cfg.Matcher(); err != nil {
		return nil, cfg, err
	}
	run.root = cfg.Root()

	useCache, _ := flags.GetBool("cache")
	dropCache, _ := flags.GetBool("clear-cache")
	store := openCache(useCache, dropCache, logger)

	run.paths = args
	if len(run.paths) == 0 {
		run.paths = []string{"."}
	}
	run.opts = driver.Options{
		Dialect:        kind,
		Matcher:        run.matcher,
		Root:           run.root,
		Encoding:       enc,
		MaxDiagnostics: maxDiag,
		Jobs:           jobs,
		Cache:          store,
		Logger:         logger,
	}
	return run, cfg, nil
}

// openCache opens the result cache for --cache; drop empties it first. The
// cache is returned only when useCache is set.
func openCache(useCache, drop bool, logger *log.Logger) *cache.Cache {
	if !useCache && !drop {
		return nil
	}
	store, err := cache.Open("mbaalint")
	if err != nil {
		logger.Warn("cache disabled", "err", err)
		return nil
	}
	if drop {
		if err := store.DropAll(); err != nil {
			logger.Warn("failed to clear cache", "dir", store.Dir(), "err", err)
		} else {
			logger.Info("cache cleared", "dir", store.Dir())
		}
	}
	if !useCache {
		return nil
	}
	return store
}

// once lists files, checks them and writes the report. It returns exit
// status 1 when any error diagnostic remains after the severity policy.
func (r *checkRun) once(ctx context.Context, out io.Writer) (int, error) {
	files, err := driver.ListFiles(r.paths, r.matcher, r.root)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		r.logger.Warn("no files to check", "paths", strings.Join(r.paths, " "))
		return 0, nil
	}

	var res *driver.Result
	if r.format == "pretty" && shouldUseTUI(r.ui, len(files)) {
		res, err = runCheckWithUI(ctx, "mbaalint check", files, r.opts)
	} else {
		res, err = driver.CheckFiles(ctx, files, r.opts)
	}
	if err != nil {
		return 0, fmt.Errorf("check failed: %w", err)
	}

	applySeverityPolicy(res, r.overrides, r.noWarnings, r.warningsAsErrors)
	for _, f := range res.Files {
		if f.Skipped {
			r.logger.Warn("could not determine dialect, skipped", "path", f.Path)
		}
		if f.Dropped > 0 {
			r.logger.Warn("diagnostics truncated", "path", f.Path, "dropped", f.Dropped)
		}
	}
	if err := r.write(out, res); err != nil {
		return 0, err
	}
	if r.timings {
		printTimings(os.Stderr, res)
	}
	if res.HasErrors() {
		return 1, nil
	}
	return 0, nil
}

// applySeverityPolicy re-ranks overridden codes, then drops warnings or
// promotes them to errors.
func applySeverityPolicy(res *driver.Result, overrides map[diag.Code]diag.Severity, noWarnings, warningsAsErrors bool) {
	for i := range res.Files {
		bag := res.Files[i].Bag
		if bag == nil {
			continue
		}
		if len(overrides) > 0 {
			bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
				if sev, ok := overrides[d.Code]; ok {
					d.Severity = sev
				}
				return d
			})
		}
		if noWarnings {
			bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
		}
		if warningsAsErrors {
			bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
				if d.Severity == diag.SevWarning {
					d.Severity = diag.SevError
				}
				return d
			})
		}
	}
}

func (r *checkRun) write(out io.Writer, res *driver.Result) error {
	fs := res.FileSet
	switch r.format {
	case "pretty":
		opts := diagfmt.PrettyOpts{
			Color:      r.color,
			PathMode:   r.pathMode,
			ShowNotes:  r.withNotes,
			ShowSource: true,
		}
		var errs, warns, withDiags int
		for _, f := range res.Files {
			if f.Bag.Len() == 0 {
				continue
			}
			if withDiags > 0 {
				fmt.Fprintln(out)
			}
			withDiags++
			fmt.Fprintf(out, "== %s ==\n", displayPath(fs, f, r.pathMode))
			diagfmt.Pretty(out, f.Bag, fs, opts)
			for _, d := range f.Bag.Items() {
				switch d.Severity {
				case diag.SevError:
					errs++
				case diag.SevWarning:
					warns++
				}
			}
		}
		if withDiags > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%d error(s), %d warning(s) in %d of %d file(s)\n", errs, warns, withDiags, len(res.Files))
		return nil
	case "short":
		return diagfmt.Short(out, combined(res), fs, r.withNotes)
	case "json":
		output := make(map[string]diagfmt.DiagnosticsOutput, len(res.Files))
		jsonOpts := diagfmt.JSONOpts{PathMode: r.pathMode, IncludeNotes: r.withNotes}
		for _, f := range res.Files {
			output[displayPath(fs, f, r.pathMode)] = diagfmt.BuildDiagnosticsOutput(f.Bag, fs, jsonOpts)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
		return nil
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "mbaalint",
			ToolVersion:    version.Plain(),
			InvocationArgs: r.args,
		}
		return diagfmt.Sarif(out, combined(res), fs, meta)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

func combined(res *driver.Result) *diag.Bag {
	bag := diag.NewBag(0)
	for _, f := range res.Files {
		bag.Merge(f.Bag)
	}
	return bag
}

func displayPath(fs *source.FileSet, f driver.FileResult, mode diagfmt.PathMode) string {
	file := fs.Get(f.FileID)
	if mode == diagfmt.PathModeAbsolute {
		return file.FormatPath("absolute", "")
	}
	return file.FormatPath("relative", fs.BaseDir())
}

func printTimings(out io.Writer, res *driver.Result) {
	cached := 0
	for _, f := range res.Files {
		if f.Cached {
			cached++
		}
	}
	fmt.Fprint(out, res.Timings.String())
	fmt.Fprintf(out, "%d file(s), %d from cache\n", len(res.Files), cached)
}

// watchCheck runs one check, then re-runs it whenever a data file under the
// watched directory changes, until ctx is cancelled.
func watchCheck(ctx context.Context, out io.Writer, run *checkRun, cfg config.Config) error {
	base := run.paths[0]
	if st, err := os.Stat(base); err == nil && !st.IsDir() {
		base = filepath.Dir(base)
	}
	run.ui = uiModeOff

	if _, err := run.once(ctx, out); err != nil {
		return err
	}

	// Ignore-паттерны watcher'а считаются от BaseDir, поэтому exclude из
	// конфига отдаём только когда BaseDir совпадает с корнем конфига.
	var ignore []string
	if sameDir(base, run.root) {
		ignore = cfg.Files.Exclude
	}
	w, err := watch.New(watch.Config{
		BaseDir: base,
		Filter: func(rel string) bool {
			p := dialect.RelPath(run.root, filepath.Join(base, filepath.FromSlash(rel)))
			if run.matcher.Excluded(p) {
				return false
			}
			return strings.EqualFold(filepath.Ext(rel), ".txt") || run.matcher.Match(p) != dialect.Unknown
		},
		Ignore:   ignore,
		Debounce: cfg.Debounce(),
		OnChange: func(ctx context.Context, changed []string) error {
			run.logger.Info("files changed, re-checking", "files", strings.Join(changed, ", "))
			_, err := run.once(ctx, out)
			return err
		},
		Logger: run.logger,
	})
	if err != nil {
		return err
	}
	run.logger.Info("watching for changes", "dir", base)
	return w.Run(ctx)
}

// sameDir reports whether a and b name the same directory; "" is the
// working directory.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
