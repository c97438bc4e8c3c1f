package operation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"sortd/pkg/scan"
)

func runnerContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func fakeEntries(n int) []scan.Entry {
	entries := make([]scan.Entry, n)
	for i := range entries {
		entries[i] = scan.Entry{Path: filepath.Join("src", "file"+string(rune('a'+i%26))+".txt")}
	}
	return entries
}

func TestNewRunner_RejectsNonPositiveLimit(t *testing.T) {
	for _, limit := range []int{0, -1, -10} {
		_, err := NewRunner(limit)
		assert.Error(t, err, "limit %d", limit)
	}
}

func TestRunner_OneOutcomePerFile(t *testing.T) {
	ctx := runnerContext(t)
	runner, err := NewRunner(4)
	require.NoError(t, err)

	files := fakeEntries(37)
	runner.copy = func(ctx context.Context, source, outputRoot string) Outcome {
		return Outcome{Source: source}
	}

	outcomes := runner.Run(ctx, files, "out")
	require.Len(t, outcomes, len(files))
	for i, out := range outcomes {
		assert.Equal(t, files[i].Path, out.Source)
	}
}

func TestRunner_ConcurrencyBound(t *testing.T) {
	ctx := runnerContext(t)
	const limit = 3
	runner, err := NewRunner(limit)
	require.NoError(t, err)

	var inFlight, maxInFlight atomic.Int64
	runner.copy = func(ctx context.Context, source, outputRoot string) Outcome {
		cur := inFlight.Add(1)
		for {
			max := maxInFlight.Load()
			if cur <= max || maxInFlight.CompareAndSwap(max, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return Outcome{Source: source}
	}

	outcomes := runner.Run(ctx, fakeEntries(50), "out")
	require.Len(t, outcomes, 50)
	assert.LessOrEqual(t, maxInFlight.Load(), int64(limit))
	assert.Positive(t, maxInFlight.Load())
}

func TestRunner_FailureDoesNotAbortSiblings(t *testing.T) {
	ctx := runnerContext(t)
	runner, err := NewRunner(2)
	require.NoError(t, err)

	runner.copy = func(ctx context.Context, source, outputRoot string) Outcome {
		if filepath.Base(source) == "filea.txt" {
			return Outcome{Source: source, Err: errors.New("disk full")}
		}
		return Outcome{Source: source}
	}

	outcomes := runner.Run(ctx, fakeEntries(10), "out")
	require.Len(t, outcomes, 10)

	var failed, succeeded int
	for _, out := range outcomes {
		if out.Succeeded() {
			succeeded++
		} else {
			failed++
		}
	}
	assert.Positive(t, failed)
	assert.Positive(t, succeeded)
	assert.Equal(t, 10, failed+succeeded)
}

func TestRunner_CancelledContextPreservesCardinality(t *testing.T) {
	ctx, cancel := context.WithCancel(runnerContext(t))
	cancel()

	runner, err := NewRunner(2)
	require.NoError(t, err)

	files := fakeEntries(8)
	outcomes := runner.Run(ctx, files, "out")
	require.Len(t, outcomes, len(files))
	for _, out := range outcomes {
		assert.Error(t, out.Err)
		assert.True(t, errors.Is(out.Err, context.Canceled))
	}
}

func TestRunner_ConcurrentSameNamesAllSurvive(t *testing.T) {
	ctx := runnerContext(t)
	srcDir, outDir := t.TempDir(), t.TempDir()

	// Same base name in every subdirectory, so every copy races for
	// txt/a.txt and the exclusive-create retry has to disambiguate.
	const n = 16
	files := make([]scan.Entry, 0, n)
	want := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(srcDir, fmt.Sprintf("sub%02d", i), "a.txt")
		content := fmt.Sprintf("content-%02d", i)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		files = append(files, scan.Entry{Path: path, Size: int64(len(content))})
		want[content] = true
	}

	runner, err := NewRunner(8)
	require.NoError(t, err)
	outcomes := runner.Run(ctx, files, outDir)

	require.Len(t, outcomes, n)
	targets := make(map[string]struct{}, n)
	for _, out := range outcomes {
		require.NoError(t, out.Err)
		targets[out.Target] = struct{}{}

		copied, err := os.ReadFile(out.Target)
		require.NoError(t, err)
		assert.True(t, want[string(copied)], "target %s holds unexpected content %q", out.Target, copied)
		delete(want, string(copied))
	}
	assert.Len(t, targets, n, "every copy must survive at a distinct path")

	entries, err := os.ReadDir(filepath.Join(outDir, "txt"))
	require.NoError(t, err)
	assert.Len(t, entries, n, "no copy may overwrite a sibling")
}

func TestRunner_CopiesRealFiles(t *testing.T) {
	ctx := runnerContext(t)
	srcDir, outDir := t.TempDir(), t.TempDir()

	want := map[string]string{
		"a.txt":  "alpha",
		"b.TXT":  "bravo",
		"c":      "charlie",
		"d.jpg":  "delta",
		"e.json": "echo",
	}
	files := make([]scan.Entry, 0, len(want))
	for name, content := range want {
		path := filepath.Join(srcDir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		files = append(files, scan.Entry{Path: path, Size: int64(len(content))})
	}

	runner, err := NewRunner(3)
	require.NoError(t, err)
	outcomes := runner.Run(ctx, files, outDir)

	require.Len(t, outcomes, len(files))
	for _, out := range outcomes {
		require.NoError(t, out.Err)
		copied, err := os.ReadFile(out.Target)
		require.NoError(t, err)
		assert.Equal(t, want[filepath.Base(out.Source)], string(copied))
	}

	// Case-folded keys land in the same directory.
	assert.FileExists(t, filepath.Join(outDir, "txt", "a.txt"))
	assert.FileExists(t, filepath.Join(outDir, "txt", "b.TXT"))
	assert.FileExists(t, filepath.Join(outDir, "no_extension", "c"))
}
