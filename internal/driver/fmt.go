package driver

import (
	"context"
	"fmt"
	"os"

	"numtype/internal/diag"
	"numtype/internal/format"
	"numtype/internal/query"
	"numtype/internal/source"
	"numtype/internal/trace"
)

// FormatOptions controls FormatPaths.
type FormatOptions struct {
	Check  bool // report changes without writing
	Stdout bool // keep output in FormatResult.Output instead of writing
}

// FormatResult describes one formatted file.
type FormatResult struct {
	Path    string
	Changed bool
	Output  []byte
	Err     error
}

// FormatPaths formats every query file under paths. Each result is
// re-parsed and compared with the original before anything is written.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "fmt")
	defer span.End("")

	files, err := ListQueryFiles(paths)
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := FormatResult{Path: path}
		res.Output, res.Changed, res.Err = formatFile(fs, path)
		if res.Err == nil && res.Changed && !opts.Check && !opts.Stdout {
			res.Err = writeFormatted(path, res.Output)
		}
		results = append(results, res)
	}
	return results, nil
}

func formatFile(fs *source.FileSet, path string) ([]byte, bool, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, false, err
	}
	sf := fs.Get(id)
	before := diag.NewBag(DefaultMaxDiagnostics)
	qf := query.Parse(fs, id, diag.BagReporter{Bag: before})
	out := format.File(sf, qf, format.Options{})

	after := diag.NewBag(DefaultMaxDiagnostics)
	again := query.Parse(fs, fs.AddVirtual(path, out), diag.BagReporter{Bag: after})
	if err := sameQueries(qf, again); err != nil {
		return nil, false, fmt.Errorf("%s: formatting would change the file: %w", path, err)
	}
	if before.Len() != after.Len() {
		return nil, false, fmt.Errorf("%s: formatting would change the diagnostics (%d -> %d)", path, before.Len(), after.Len())
	}
	return out, string(out) != string(sf.Content), nil
}

func sameQueries(a, b *query.File) error {
	if len(a.Queries) != len(b.Queries) {
		return fmt.Errorf("%d queries became %d", len(a.Queries), len(b.Queries))
	}
	for i := range a.Queries {
		qa, qb := a.Queries[i], b.Queries[i]
		if format.Query(qa) != format.Query(qb) {
			return fmt.Errorf("line %d: %q became %q", qa.Line, format.Query(qa), format.Query(qb))
		}
	}
	return nil
}

func writeFormatted(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}
