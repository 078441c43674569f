// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdiddy/lenet-extract/pkg/types"
)

// Clean removes the output files of every enabled slot so the next
// append-mode run starts from empty files. Files that do not exist are
// skipped. It returns the number of files removed.
func Clean(cfg types.ExtractConfig, w io.Writer) (int, error) {
	removed := 0
	for _, slot := range cfg.Slots {
		for _, kind := range []types.ParamKind{types.KindWeights, types.KindBiases} {
			path := filepath.Join(cfg.OutputDir, cfg.FileName(slot, kind))
			err := os.Remove(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return removed, fmt.Errorf("removing %s: %w", path, err)
			}
			fmt.Fprintf(w, "removed: %s\n", path)
			removed++
		}
	}
	return removed, nil
}
