package fuzztests

import (
	"context"
	"sync"
	"testing"
	"time"

	"numtype/internal/config"
	"numtype/internal/diag"
	"numtype/internal/driver"
	"numtype/internal/query"
	"numtype/internal/source"
	"numtype/internal/testkit"
)

// evalTimeout bounds parsing plus evaluation of one input.
const evalTimeout = 5 * time.Second

var (
	sessionOnce sync.Once
	session     *driver.Session
	sessionErr  error
)

func defaultSession(t *testing.T) *driver.Session {
	sessionOnce.Do(func() {
		setup, err := config.Default().Build()
		if err != nil {
			sessionErr = err
			return
		}
		session, sessionErr = driver.NewSession(setup, "")
	})
	if sessionErr != nil {
		t.Fatalf("session: %v", sessionErr)
	}
	return session
}

func FuzzQueryFile(f *testing.F) {
	addQuerySeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		s := defaultSession(t)

		ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			fs := source.NewFileSet()
			id := fs.AddVirtual("fuzz.ntq", input)
			bag := diag.NewBag(256)
			r := diag.BagReporter{Bag: bag}
			qf := query.Parse(fs, id, r)
			if err := testkit.CheckQuerySpans(fs, qf); err != nil {
				errCh <- err
				return
			}
			for _, q := range qf.Queries {
				_ = s.Evaluate(ctx, q, r)
			}
			errCh <- testkit.CheckDiagnosticSpans(fs, bag)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				t.Fatalf("invariant violated: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("hang detected after %v\ninput (%d bytes): %q", evalTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
