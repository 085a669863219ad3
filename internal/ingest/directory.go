package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/label-tracker/constants"
)

// ScanDirectory walks root in lexical order and returns every pdf/txt file with its
// content hash. Byte-identical files after the first are flagged as duplicates.
// Unreadable entries are reported with Err set and the walk continues.
func ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]Candidate, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, errors.New("root path is required")
	}

	var results []Candidate
	seen := map[string]string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, Candidate{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		// the root itself is never skipped, even when it is a dot directory
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !AllowedExt(ext) {
			return nil
		}
		stats.Matched++

		c := Candidate{Path: path, Ext: ext}
		c.HashHex, c.Size, walkErr = HashFile(path)
		if walkErr != nil {
			c.Err = walkErr.Error()
			stats.Failed++
			results = append(results, c)
			return nil
		}
		if first, ok := seen[c.HashHex]; ok {
			c.Duplicate, c.DuplicateOf = true, first
			stats.Duplicates++
		} else {
			seen[c.HashHex] = path
		}
		results = append(results, c)
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	slog.Debug("directory scanned",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
