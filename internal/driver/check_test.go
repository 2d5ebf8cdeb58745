package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vmihailenco/msgpack/v5"

	"numtype/internal/observ"
)

const passingQueries = `# default ladder
promote Integer Double => Double
promote Byte Short => Integer
assign String Long => true
classify int => primitive-numeric
`

const failingQueries = `promote Integer Long => Integer
box int
promote
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestListQueryFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.ntq":        "",
		"a/one.ntq":    "",
		"a/notes.txt":  "",
		"explicit.txt": "",
	})
	files, err := ListQueryFiles([]string{root, filepath.Join(root, "explicit.txt"), filepath.Join(root, "b.ntq")})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	if diff := cmp.Diff([]string{"a/one.ntq", "b.ntq", "explicit.txt"}, rel); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
	if _, err := ListQueryFiles([]string{filepath.Join(root, "missing")}); err == nil {
		t.Fatalf("missing paths must fail")
	}
}

func TestCheckTotals(t *testing.T) {
	root := writeTree(t, map[string]string{"pass.ntq": passingQueries, "fail.ntq": failingQueries})
	files, err := ListQueryFiles([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, filepath.Join(root, "absent.ntq"))

	s := newSession(t, nil, "")
	timer := observ.NewTimer()
	res, err := s.Check(context.Background(), files, Options{Jobs: 2, Timer: timer})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	want := Totals{Files: 3, Queries: 6, Passed: 4, Failed: 1, Errors: 2, Unloaded: 1}
	if diff := cmp.Diff(want, res.Totals()); diff != "" {
		t.Fatalf("totals (-want +got):\n%s", diff)
	}
	if !res.HasErrors() {
		t.Fatalf("expected errors")
	}
	if len(timer.Report().Phases) != 2 {
		t.Fatalf("expected load and evaluate phases, got %+v", timer.Report())
	}
	if res.Files[2].Err == nil || res.Files[2].Loaded {
		t.Fatalf("absent file must carry its load error")
	}
}

func TestCheckDeterministicAcrossJobs(t *testing.T) {
	tree := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		tree[name+".ntq"] = passingQueries + failingQueries
	}
	root := writeTree(t, tree)
	files, err := ListQueryFiles([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	s := newSession(t, nil, "")
	var reports []Report
	for _, jobs := range []int{1, 4} {
		res, err := s.Check(context.Background(), files, Options{Jobs: jobs})
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		reports = append(reports, BuildReport(res, nil))
	}
	if diff := cmp.Diff(reports[0], reports[1]); diff != "" {
		t.Fatalf("parallel check diverged (-jobs1 +jobs4):\n%s", diff)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func TestCheckProgressAndCache(t *testing.T) {
	root := writeTree(t, map[string]string{"q.ntq": failingQueries})
	files := []string{filepath.Join(root, "q.ntq")}
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	s := newSession(t, nil, "")

	sink := &recordingSink{}
	first, err := s.Check(context.Background(), files, Options{Cache: cache, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	last := sink.events[len(sink.events)-1]
	if last.Status != StatusError || last.Stage != StageEvaluate {
		t.Fatalf("expected a final error event, got %+v", last)
	}

	sink = &recordingSink{}
	second, err := s.Check(context.Background(), files, Options{Cache: cache, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Files[0].Cached || sink.events[len(sink.events)-1].Status != StatusCached {
		t.Fatalf("second run must be served from the cache")
	}
	a, b := BuildReport(first, nil), BuildReport(second, nil)
	b.Files[0].Cached = false
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("cached report differs (-fresh +cached):\n%s", diff)
	}

	other := newSession(t, nil, "default")
	other.setup.Fingerprint++
	third, err := other.Check(context.Background(), files, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if third.Files[0].Cached {
		t.Fatalf("a different configuration must miss the cache")
	}
}

func TestCheckCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"q.ntq": passingQueries})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSession(t, nil, "").Check(ctx, []string{filepath.Join(root, "q.ntq")}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReportEncodings(t *testing.T) {
	root := writeTree(t, map[string]string{"q.ntq": failingQueries})
	res, err := newSession(t, nil, "").Check(context.Background(), []string{filepath.Join(root, "q.ntq")}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	rep := BuildReport(res, &observ.Report{TotalMS: 1})

	var js bytes.Buffer
	if err := WriteJSON(&js, rep); err != nil {
		t.Fatal(err)
	}
	var fromJSON Report
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	var mp bytes.Buffer
	if err := WriteMsgpack(&mp, rep); err != nil {
		t.Fatal(err)
	}
	var fromMsgpack Report
	if err := msgpack.Unmarshal(mp.Bytes(), &fromMsgpack); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromJSON, fromMsgpack, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("json and msgpack disagree (-json +msgpack):\n%s", diff)
	}

	f := fromJSON.Files[0]
	if f.Results[0].Mark != "fail" || f.Results[0].Value != "java.lang.Long" {
		t.Fatalf("unexpected first result %+v", f.Results[0])
	}
	var ids []string
	for _, d := range f.Diagnostics {
		ids = append(ids, d.Code)
	}
	if diff := cmp.Diff([]string{"NTQ2001", "NTQ1001"}, ids); diff != "" {
		t.Fatalf("diagnostic codes (-want +got):\n%s", diff)
	}
	if f.Diagnostics[1].Line != 3 {
		t.Fatalf("syntax error must point at line 3, got %d", f.Diagnostics[1].Line)
	}
}

func TestWritePretty(t *testing.T) {
	root := writeTree(t, map[string]string{"q.ntq": failingQueries})
	res, err := newSession(t, nil, "").Check(context.Background(), []string{filepath.Join(root, "q.ntq")}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var full, quiet bytes.Buffer
	if err := WritePretty(&full, res, PrettyOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := WritePretty(&quiet, res, PrettyOptions{Quiet: true}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"   1 fail  promote @default java.lang.Integer java.lang.Long → java.lang.Long (rank 4)",
		"   2 none  box @default int → java.lang.Integer",
		"error NTQ2001",
		"1 files, 2 queries: 0 passed, 1 failed, 0 invalid; 2 errors, 0 infos",
	} {
		if !strings.Contains(full.String(), want) {
			t.Fatalf("pretty output lacks %q:\n%s", want, full.String())
		}
	}
	if strings.Contains(quiet.String(), "box @default int") {
		t.Fatalf("quiet output must hide passing queries:\n%s", quiet.String())
	}
}

func TestTestdataQueries(t *testing.T) {
	files, err := ListQueryFiles([]string{filepath.Join("..", "..", "testdata", "queries")})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatalf("no query files under testdata")
	}
	res, err := newSession(t, nil, "").Check(context.Background(), files, Options{})
	if err != nil {
		t.Fatal(err)
	}
	totals := res.Totals()
	if totals.Failed != 0 || totals.Errors != 0 || totals.Passed != totals.Queries {
		var out bytes.Buffer
		_ = WritePretty(&out, res, PrettyOptions{Quiet: true})
		t.Fatalf("testdata expectations must hold, got %+v\n%s", totals, out.String())
	}
}
