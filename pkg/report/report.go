// Package report aggregates per-file copy outcomes into a run summary.
package report

import (
	"context"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"sortd/pkg/classify"
	"sortd/pkg/operation"
	"sortd/pkg/scan"
)

// Failure records one failed copy for the summary.
type Failure struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

// Summary is the aggregate result of one run. It is built fresh per
// invocation and never persisted beyond the optional report file.
type Summary struct {
	Total      int       `yaml:"total"`
	Succeeded  int       `yaml:"succeeded"`
	Failed     int       `yaml:"failed"`
	Bytes      int64     `yaml:"bytes_copied"`
	Extensions []string  `yaml:"extensions"`
	Failures   []Failure `yaml:"failures,omitempty"`
}

// Summarize aggregates the enumerated files and their outcomes. The
// extension set covers every enumerated file, succeeded or not, and comes
// back sorted. Outcomes may arrive in any completion order; only their
// cardinality and contents matter.
func Summarize(files []scan.Entry, outcomes []operation.Outcome) Summary {
	s := Summary{Total: len(files)}

	keys := make(map[string]struct{}, len(files))
	for _, f := range files {
		keys[classify.Key(f.Path)] = struct{}{}
	}
	s.Extensions = make([]string, 0, len(keys))
	for k := range keys {
		s.Extensions = append(s.Extensions, k)
	}
	sort.Strings(s.Extensions)

	for _, out := range outcomes {
		if out.Succeeded() {
			s.Succeeded++
			s.Bytes += out.Bytes
			continue
		}
		s.Failed++
		s.Failures = append(s.Failures, Failure{Path: out.Source, Reason: out.Err.Error()})
	}
	sort.Slice(s.Failures, func(i, j int) bool { return s.Failures[i].Path < s.Failures[j].Path })

	return s
}

// Emit logs the human-readable summary.
func (s Summary) Emit(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	logger.Info().
		Int("total", s.Total).
		Int("succeeded", s.Succeeded).
		Int("failed", s.Failed).
		Int64("bytes_copied", s.Bytes).
		Msg("processing complete")
	logger.Info().
		Int("count", len(s.Extensions)).
		Strs("extensions", s.Extensions).
		Msg("extension directories")
}

// WriteFile marshals the summary as YAML to path.
func (s Summary) WriteFile(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Errorf("marshaling run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing run summary to %s: %w", path, err)
	}
	return nil
}
