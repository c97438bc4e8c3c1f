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
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"sortd/pkg/classify"
)

// chunkSize is the fixed copy buffer size.
const chunkSize = 8 * 1024

// maxNameAttempts bounds the exclusive-create retry loop when concurrent
// copies race on the same destination name.
const maxNameAttempts = 10000

// 📄 CopyFile copies source into its per-extension directory under
// outputRoot. The extension directory is created if missing, the destination
// name takes a counter suffix on collision, and content streams across in
// fixed-size chunks. Every failure mode is captured in the returned Outcome;
// CopyFile never panics across the batch.
func CopyFile(ctx context.Context, source, outputRoot string) Outcome {
	logger := zerolog.Ctx(ctx)

	out := Outcome{Source: source, Key: classify.Key(source)}

	targetDir := filepath.Join(outputRoot, out.Key)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		out.Err = errors.Errorf("creating extension directory %s: %w", targetDir, err)
		return out
	}

	src, err := os.Open(source)
	if err != nil {
		out.Err = errors.Errorf("opening source: %w", err)
		return out
	}
	defer src.Close()

	dst, target, err := createExclusive(targetDir, filepath.Base(source))
	if err != nil {
		out.Err = err
		return out
	}
	out.Target = target
	defer dst.Close()

	n, err := io.CopyBuffer(dst, src, make([]byte, chunkSize))
	out.Bytes = n
	if err != nil {
		// The truncated target is left in place, not rolled back.
		out.Err = errors.Errorf("streaming %s to %s: %w", source, target, err)
		return out
	}
	if err := dst.Close(); err != nil {
		out.Err = errors.Errorf("closing target %s: %w", target, err)
		return out
	}

	logger.Debug().Str("source", source).Str("target", target).Int64("bytes", n).Msg("file copied")
	return out
}

// 🔒 createExclusive opens a non-colliding target in dir with O_EXCL, closing
// the check-then-create race: losing the race to a concurrent copy surfaces
// as EEXIST, and the name is re-resolved against the directory as it now
// stands. Each retry happens only after another writer landed a file, so the
// loop makes progress; maxNameAttempts bounds pathological contention.
func createExclusive(dir, name string) (*os.File, string, error) {
	exists := func(path string) bool {
		_, err := os.Lstat(path)
		return err == nil
	}
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		target := ResolveTarget(dir, name, exists)
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", errors.Errorf("creating target %s: %w", target, err)
		}
		return f, target, nil
	}
	return nil, "", errors.Errorf("no free name for %s in %s after %d attempts", name, dir, maxNameAttempts)
}
