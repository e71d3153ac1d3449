package driver

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"mbaalint/internal/cache"
	"mbaalint/internal/check"
	"mbaalint/internal/diag"
	"mbaalint/internal/dialect"
	"mbaalint/internal/observ"
	"mbaalint/internal/source"
)

// Options configures CheckFiles.
type Options struct {
	// Dialect forces one dialect for every file; Unknown means detect.
	Dialect dialect.Kind
	Matcher *dialect.Matcher
	// Root anchors Matcher patterns that contain "/"; normally the
	// directory of mbaalint.toml, "" means the working dir.
	Root           string
	Encoding       source.Encoding
	MaxDiagnostics int
	Jobs           int
	// BaseDir is used for relative paths in output; "" means the working dir.
	BaseDir  string
	Cache    *cache.Cache
	Progress ProgressSink
	Logger   *log.Logger
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Kind   dialect.Kind
	// Detection is set when the dialect came from content sniffing.
	Detection *dialect.Classification
	Bag       *diag.Bag
	// Dropped counts diagnostics cut by MaxDiagnostics.
	Dropped int
	Cached  bool
	// Skipped is set when no dialect could be determined.
	Skipped bool
	LoadErr error
}

// Result holds every file result in path order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Timings observ.Report
}

// HasErrors reports whether any file carries an error diagnostic.
func (r *Result) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics returns every diagnostic across files in file order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			out = append(out, r.Files[i].Bag.Items()...)
		}
	}
	return out
}

// CheckFiles loads every path, picks its dialect and validates the files in
// parallel. Load failures become IO diagnostics on the affected file; only
// context cancellation aborts the run.
func CheckFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timer := observ.NewTimer()
	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	results := make([]FileResult, len(paths))

	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	// Загрузка последовательная: FileSet не потокобезопасен.
	loadIdx := timer.Begin("load")
	for i, p := range paths {
		results[i] = FileResult{Path: p, Bag: diag.NewBag(opts.MaxDiagnostics)}
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusWorking})
		id, err := fileSet.LoadWithEncoding(p, opts.Encoding)
		if err != nil {
			logger.Warn("failed to load file", "path", p, "err", err)
			results[i].LoadErr = err
			id = fileSet.AddVirtual(p, nil)
			results[i].Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
			emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusError, Err: err})
		} else {
			logger.Debug("loaded", "path", p, "flags", fileSet.Get(id).Flags)
		}
		results[i].FileID = id
	}
	timer.End(loadIdx, len(paths))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	checked := 0
	checkIdx := timer.Begin("check")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i := range results {
		if results[i].LoadErr != nil {
			continue
		}
		// Результаты по индексу: каждая горутина пишет только в свой слот.
		res := &results[i]
		checked++
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			checkOne(res, fileSet.Get(res.FileID), opts, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	timer.End(checkIdx, checked)

	emit(opts.Progress, Event{Stage: StageCheck, Status: StatusDone})
	return &Result{FileSet: fileSet, Files: results, Timings: timer.Report()}, nil
}

func checkOne(res *FileResult, file *source.File, opts Options, logger *log.Logger) {
	start := time.Now()
	emit(opts.Progress, Event{File: res.Path, Stage: StageDetect, Status: StatusWorking})

	res.Kind = opts.Dialect
	if res.Kind == dialect.Unknown {
		res.Kind = opts.Matcher.Match(dialect.RelPath(opts.Root, res.Path))
	}
	if res.Kind == dialect.Unknown {
		c := dialect.Detect(file)
		res.Detection = &c
		res.Kind = c.Kind
	}
	if res.Kind == dialect.Unknown {
		res.Skipped = true
		logger.Debug("skipping file with unknown dialect", "path", res.Path)
		emit(opts.Progress, Event{File: res.Path, Stage: StageDetect, Status: StatusSkipped, Elapsed: time.Since(start)})
		return
	}

	emit(opts.Progress, Event{File: res.Path, Stage: StageCheck, Status: StatusWorking})
	key := cache.Key(res.Kind, file.Content)
	var ds []diag.Diagnostic
	if entry, ok, err := opts.Cache.Get(key); err != nil {
		logger.Warn("cache read failed", "path", res.Path, "err", err)
	} else if ok {
		ds = entry.Restore(file.ID)
		res.Cached = true
	}
	if !res.Cached {
		ds = check.Validate(file, res.Kind)
		if err := opts.Cache.Put(key, cache.NewEntry(res.Kind, ds)); err != nil {
			logger.Warn("cache write failed", "path", res.Path, "err", err)
		}
	}
	res.Dropped = res.Bag.AddAll(ds)
	res.Bag.Sort()

	logger.Debug("checked", "path", res.Path, "dialect", res.Kind, "diagnostics", len(ds), "cached", res.Cached)
	status := StatusDone
	switch {
	case res.Bag.HasErrors():
		status = StatusError
	case res.Bag.HasWarnings():
		status = StatusWarning
	}
	emit(opts.Progress, Event{File: res.Path, Stage: StageCheck, Status: status, Elapsed: time.Since(start)})
}
