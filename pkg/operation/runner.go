// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/semaphore"

	"sortd/pkg/classify"
	"sortd/pkg/scan"
)

// 🏃 Runner executes copy operations with at most limit in flight at any
// instant.
type Runner struct {
	limit int64

	// copy is swapped out by tests to instrument concurrency.
	copy func(ctx context.Context, source, outputRoot string) Outcome
}

// 🏗️ NewRunner creates a runner with the given concurrency limit.
func NewRunner(limit int) (*Runner, error) {
	if limit < 1 {
		return nil, errors.Errorf("concurrency limit must be positive, got %d", limit)
	}
	return &Runner{limit: int64(limit), copy: CopyFile}, nil
}

// 🏃 Run copies every file into outputRoot and returns one Outcome per input,
// indexed to match files. Individual failures never abort siblings. Once ctx
// is cancelled, files not yet started are recorded as failed without being
// copied; in-flight copies run to completion, so the outcome count always
// equals the input count.
func (r *Runner) Run(ctx context.Context, files []scan.Entry, outputRoot string) []Outcome {
	logger := zerolog.Ctx(ctx)

	sem := semaphore.NewWeighted(r.limit)
	outcomes := make([]Outcome, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = Outcome{
				Source: f.Path,
				Key:    classify.Key(f.Path),
				Err:    errors.Errorf("copy not started: %w", err),
			}
			continue
		}
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			defer sem.Release(1)
			out := r.copy(ctx, source, outputRoot)
			if out.Err != nil {
				logger.Error().Err(out.Err).Str("file", source).Msg("copy failed")
			}
			outcomes[i] = out
		}(i, f.Path)
	}
	wg.Wait()

	return outcomes
}
