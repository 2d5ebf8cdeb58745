package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"numtype/internal/diag"
	"numtype/internal/observ"
	"numtype/internal/query"
	"numtype/internal/source"
	"numtype/internal/trace"
)

// DefaultMaxDiagnostics bounds each file's diagnostic bag.
const DefaultMaxDiagnostics = 100

// Options tunes Check.
type Options struct {
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int // <= 0 means DefaultMaxDiagnostics
	Progress       ProgressSink
	Cache          *DiskCache
	Timer          *observ.Timer
}

// FileResult is the outcome of checking one query file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Loaded  bool
	Cached  bool
	Err     error // load failure; Results and Bag are empty
	Results []Result
	Bag     *diag.Bag
}

// CheckResult holds every file in argument order.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Totals summarises a CheckResult.
type Totals struct {
	Files    int `json:"files" msgpack:"files"`
	Queries  int `json:"queries" msgpack:"queries"`
	Passed   int `json:"passed" msgpack:"passed"`
	Failed   int `json:"failed" msgpack:"failed"`
	Invalid  int `json:"invalid" msgpack:"invalid"`
	Errors   int `json:"errors" msgpack:"errors"`
	Infos    int `json:"infos" msgpack:"infos"`
	Unloaded int `json:"unloaded" msgpack:"unloaded"`
}

// Totals counts results, marks and diagnostics.
func (c *CheckResult) Totals() Totals {
	var t Totals
	t.Files = len(c.Files)
	for _, f := range c.Files {
		if f.Err != nil {
			t.Unloaded++
			continue
		}
		t.Queries += len(f.Results)
		for _, r := range f.Results {
			switch r.Mark {
			case MarkPass:
				t.Passed++
			case MarkFail:
				t.Failed++
			case MarkError:
				t.Invalid++
			}
		}
		if f.Bag != nil {
			t.Errors += f.Bag.Count(diag.SevError)
			t.Infos += f.Bag.Count(diag.SevInfo)
		}
	}
	return t
}

// HasErrors reports load failures or error diagnostics.
func (c *CheckResult) HasErrors() bool {
	for _, f := range c.Files {
		if f.Err != nil || (f.Bag != nil && f.Bag.HasErrors()) {
			return true
		}
	}
	return false
}

// ListQueryFiles expands directories to the *.ntq files below them. Files
// named explicitly are kept whatever their extension. The result is sorted
// and free of duplicates.
func ListQueryFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, query.Ext) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// Check loads and evaluates query files in parallel. Per-query problems
// become diagnostics; the error return is reserved for cancellation.
func (s *Session) Check(ctx context.Context, files []string, opts Options) (*CheckResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.WithExtra("files", strconv.Itoa(len(files))).End("")

	fileSet := source.NewFileSet()
	results := make([]FileResult, len(files))
	if len(files) == 0 {
		return &CheckResult{FileSet: fileSet}, nil
	}

	doneLoad := opts.Timer.Track("load")
	emit(opts.Progress, Event{Stage: StageLoad, Status: StatusWorking})
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		results[i].Path = path
		id, err := fileSet.Load(path)
		if err != nil {
			results[i].Err = err
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		results[i].FileID = id
		results[i].Loaded = true
	}
	doneLoad(fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}

	doneEval := opts.Timer.Track("evaluate")
	emit(opts.Progress, Event{Stage: StageEvaluate, Status: StatusWorking})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range results {
		if !results[i].Loaded {
			continue
		}
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// each goroutine owns results[i]
			return s.checkFile(gctx, fileSet, &results[i], maxDiags, opts)
		})
	}
	err := g.Wait()
	doneEval(fmt.Sprintf("jobs=%d", min(jobs, len(files))))

	return &CheckResult{FileSet: fileSet, Files: results}, err
}

func (s *Session) checkFile(ctx context.Context, fileSet *source.FileSet, fr *FileResult, maxDiags int, opts Options) error {
	start := time.Now()
	f := fileSet.Get(fr.FileID)
	ctx, span := trace.Start(ctx, trace.ScopePass, "file:"+fr.Path)
	defer func() { span.WithExtra("queries", strconv.Itoa(len(fr.Results))).End("") }()

	fr.Bag = diag.NewBag(maxDiags)
	key := CacheKey(f.Hash, s.setup.Fingerprint, s.scope.ScopeName())
	if opts.Cache != nil {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok && payload.ContentHash == f.Hash {
			fr.Results = payload.Results
			restoreDiagnostics(fr.Bag, fr.FileID, payload.Diagnostics)
			fr.Cached = true
			trace.Point(ctx, trace.ScopePass, "cache-hit", fr.Path)
			emit(opts.Progress, Event{File: fr.Path, Stage: StageEvaluate, Status: StatusCached, Elapsed: time.Since(start)})
			return nil
		}
	}

	emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: fr.Bag})
	qf := query.Parse(fileSet, fr.FileID, reporter)

	emit(opts.Progress, Event{File: fr.Path, Stage: StageEvaluate, Status: StatusWorking})
	fr.Results = make([]Result, 0, len(qf.Queries))
	for _, q := range qf.Queries {
		if err := ctx.Err(); err != nil {
			return err
		}
		fr.Results = append(fr.Results, s.Evaluate(ctx, q, reporter))
	}
	fr.Bag.Sort()

	if opts.Cache != nil {
		payload := &DiskPayload{
			Path:        fr.Path,
			ContentHash: f.Hash,
			Results:     fr.Results,
			Diagnostics: captureDiagnostics(fr.Bag),
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			trace.Point(ctx, trace.ScopePass, "cache-write-failed", err.Error())
		}
	}

	status := StatusDone
	if fr.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: fr.Path, Stage: StageEvaluate, Status: status, Elapsed: time.Since(start)})
	return nil
}

func captureDiagnostics(bag *diag.Bag) []cachedDiag {
	out := make([]cachedDiag, 0, bag.Len())
	for _, d := range bag.Items() {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		out = append(out, cd)
	}
	return out
}

func restoreDiagnostics(bag *diag.Bag, file source.FileID, cached []cachedDiag) {
	for _, cd := range cached {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), source.Span{File: file, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
		}
		bag.Add(d)
	}
}
