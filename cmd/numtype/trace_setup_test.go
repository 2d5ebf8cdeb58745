package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"numtype/internal/trace"
)

func TestTraceToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	dir := writeQueries(t, map[string]string{"q.ntq": "box int\n"})
	if _, _, err := execute(t, "", "check", dir, "--ui", "off", "--trace", path); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data := string(raw)
	for _, want := range []string{`"name":"check"`, `"scope":"pass"`} {
		if !strings.Contains(data, want) {
			t.Fatalf("trace missing %s:\n%s", want, data)
		}
	}
}

func TestTraceRejectsBadLevel(t *testing.T) {
	if _, _, err := execute(t, "", "box", "int", "--trace-level", "loud"); err == nil {
		t.Fatalf("expected a trace level error")
	}
}

func TestDumpTraceFromRing(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	trace.Begin(ring, trace.ScopeDriver, "check", 0).End("")
	cmd := &cobra.Command{}
	cmd.SetContext(trace.WithTracer(context.Background(), ring))
	var out bytes.Buffer
	dumpTrace(cmd, &out)
	if !strings.Contains(out.String(), "check") {
		t.Fatalf("ring dump missing the span:\n%s", out.String())
	}
}
